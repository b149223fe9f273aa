package models

import (
	"strconv"
	"time"
)

const (
	// UsersIndex is the search index that mirrors the users table.
	UsersIndex = "users"

	// TimestampField is stamped on every document at ingestion time.
	TimestampField = "@timestamp"
)

// UserDocument is the denormalized projection of a User stored in the search index.
type UserDocument struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Timestamp string `json:"@timestamp"`
}

// NewUserDocument builds the indexed form of u, stamped with now.
func NewUserDocument(u User, now time.Time) UserDocument {
	return UserDocument{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Timestamp: FormatTimestamp(now),
	}
}

// DocumentID is the search document id for the user.
func (d UserDocument) DocumentID() string {
	return strconv.FormatInt(d.ID, 10)
}

// FormatTimestamp renders t the way TimestampField values are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// SearchHit is a single document returned from a search.
type SearchHit struct {
	ID     string                 `json:"id"`
	Source map[string]interface{} `json:"source"`
}

// SearchResult is the response of a search against one index.
type SearchResult struct {
	Total     int64       `json:"total"`
	Documents []SearchHit `json:"documents"`
}

// IndexResult is the outcome of writing one document.
type IndexResult struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

// IndicesResponse lists the user-visible indices of the cluster.
type IndicesResponse struct {
	Indices []string `json:"indices"`
}
