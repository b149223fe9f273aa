package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/internal/users"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubIndexer records mirrored users and optionally fails.
type stubIndexer struct {
	indexed []models.User
	err     error
}

func (s *stubIndexer) IndexUser(ctx context.Context, user models.User) error {
	s.indexed = append(s.indexed, user)
	return s.err
}

// newUserRouter wires the real repository and service over sqlmock.
func newUserRouter(t *testing.T, indexer users.Indexer) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.NopLogger()
	svc := users.NewService(users.NewPostgresRepository(db), indexer, log)
	return NewRouter(RouterDeps{Users: svc, Logger: log}), mock
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return body
}
