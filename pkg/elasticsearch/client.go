package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

// Config configures the cluster connection.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Transport http.RoundTripper
}

// Client is a thin wrapper over the official client exposing the
// operations the service needs.
type Client struct {
	es *es.Client
}

// NewClient creates a client. No request is sent until the first call.
func NewClient(cfg Config) (*Client, error) {
	client, err := es.NewClient(es.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    cfg.Transport,
		// callers decide how to handle failures; the transport does not retry
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Client{es: client}, nil
}

// Index writes doc into index. An empty id lets the cluster assign one.
func (c *Client) Index(ctx context.Context, index, id string, doc interface{}) (models.IndexResult, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return models.IndexResult{}, fmt.Errorf("failed to encode document: %w", err)
	}

	opts := []func(*esapi.IndexRequest){c.es.Index.WithContext(ctx)}
	if id != "" {
		opts = append(opts, c.es.Index.WithDocumentID(id))
	}

	res, err := c.es.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return models.IndexResult{}, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return models.IndexResult{}, responseError(res)
	}

	var out struct {
		ID     string `json:"_id"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return models.IndexResult{}, fmt.Errorf("failed to decode index response: %w", err)
	}

	return models.IndexResult{ID: out.ID, Result: out.Result}, nil
}

// Search returns up to size documents of index, newest first by @timestamp.
// Documents without the field sort last instead of failing the query.
func (c *Client) Search(ctx context.Context, index string, size int) (models.SearchResult, error) {
	query := map[string]interface{}{
		"size":             size,
		"track_total_hits": true,
		"query":            map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{
				models.TimestampField: map[string]interface{}{
					"order":         "desc",
					"unmapped_type": "date",
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return models.SearchResult{}, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return models.SearchResult{}, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return models.SearchResult{}, responseError(res)
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string                 `json:"_id"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return models.SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := models.SearchResult{
		Total:     out.Hits.Total.Value,
		Documents: make([]models.SearchHit, 0, len(out.Hits.Hits)),
	}
	for _, hit := range out.Hits.Hits {
		result.Documents = append(result.Documents, models.SearchHit{ID: hit.ID, Source: hit.Source})
	}
	return result, nil
}

// ListIndices returns the names of every index in the cluster.
func (c *Client) ListIndices(ctx context.Context) ([]string, error) {
	res, err := c.es.Cat.Indices(
		c.es.Cat.Indices.WithContext(ctx),
		c.es.Cat.Indices.WithFormat("json"),
		c.es.Cat.Indices.WithH("index"),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res)
	}

	var rows []struct {
		Index string `json:"index"`
	}
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode cat indices response: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Index)
	}
	return names, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

func responseError(res *esapi.Response) error {
	data, _ := io.ReadAll(res.Body)

	var e struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Error.Type != "" {
		return fmt.Errorf("elasticsearch: [%d] %s: %s", res.StatusCode, e.Error.Type, e.Error.Reason)
	}
	return fmt.Errorf("elasticsearch: [%d] %s", res.StatusCode, bytes.TrimSpace(data))
}
