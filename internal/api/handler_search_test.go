package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/internal/search"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

// fakeCluster is a search.Backend kept in memory.
type fakeCluster struct {
	lastIndex string
	lastSize  int
	lastDoc   interface{}
	indices   []string
	err       error
}

func (f *fakeCluster) Index(ctx context.Context, index, id string, doc interface{}) (models.IndexResult, error) {
	f.lastIndex, f.lastDoc = index, doc
	if f.err != nil {
		return models.IndexResult{}, f.err
	}
	return models.IndexResult{ID: "doc-1", Result: "created"}, nil
}

func (f *fakeCluster) Search(ctx context.Context, index string, size int) (models.SearchResult, error) {
	f.lastIndex, f.lastSize = index, size
	if f.err != nil {
		return models.SearchResult{}, f.err
	}
	return models.SearchResult{
		Total:     1,
		Documents: []models.SearchHit{{ID: "1", Source: map[string]interface{}{"name": "Alice"}}},
	}, nil
}

func (f *fakeCluster) ListIndices(ctx context.Context) ([]string, error) {
	return f.indices, f.err
}

func newSearchRouter(cluster *fakeCluster) *gin.Engine {
	log := logger.NopLogger()
	return NewRouter(RouterDeps{
		Search: search.NewService(cluster, log),
		Logger: log,
	})
}

func TestSearch_DefaultSize(t *testing.T) {
	cluster := &fakeCluster{}
	router := newSearchRouter(cluster)

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/search/users", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if cluster.lastSize != 10 || cluster.lastIndex != "users" {
		t.Errorf("expected users/10, got %s/%d", cluster.lastIndex, cluster.lastSize)
	}
	body := decodeBody(t, w)
	if body["total"] != float64(1) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	docs, ok := body["documents"].([]interface{})
	if !ok || len(docs) != 1 {
		t.Fatalf("expected one document, got %s", w.Body.String())
	}
}

func TestSearch_ExplicitSize(t *testing.T) {
	cluster := &fakeCluster{}
	router := newSearchRouter(cluster)

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/search/logs?size=25", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if cluster.lastSize != 25 {
		t.Errorf("expected size 25, got %d", cluster.lastSize)
	}
}

func TestSearch_InvalidSize(t *testing.T) {
	for _, size := range []string{"abc", "0", "-3"} {
		router := newSearchRouter(&fakeCluster{})

		w := doRequest(router, http.MethodGet, "/api/elasticsearch/search/logs?size="+size, "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("size=%s: expected status 400, got %d: %s", size, w.Code, w.Body.String())
		}
		if decodeBody(t, w)["index"] != "logs" {
			t.Errorf("size=%s: expected index echoed, got %s", size, w.Body.String())
		}
	}
}

func TestSearch_ClusterFailure(t *testing.T) {
	router := newSearchRouter(&fakeCluster{err: errors.New("index_not_found_exception")})

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/search/missing", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["index"] != "missing" {
		t.Errorf("expected index echoed, got %s", w.Body.String())
	}
	if body["error"] != "index_not_found_exception" {
		t.Errorf("expected cluster error message, got %v", body["error"])
	}
}

func TestIndexDocument_Success(t *testing.T) {
	cluster := &fakeCluster{}
	router := newSearchRouter(cluster)

	w := doRequest(router, http.MethodPost, "/api/elasticsearch/index/logs", `{"level":"info","msg":"hi"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["id"] != "doc-1" || body["result"] != "created" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	stored, ok := cluster.lastDoc.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map document, got %T", cluster.lastDoc)
	}
	if _, ok := stored[models.TimestampField]; !ok {
		t.Errorf("expected %s to be stamped, got %v", models.TimestampField, stored)
	}
}

func TestIndexDocument_NotAnObject(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `null`, `not json`} {
		router := newSearchRouter(&fakeCluster{})

		w := doRequest(router, http.MethodPost, "/api/elasticsearch/index/logs", body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected status 400, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

func TestIndexDocument_ClusterFailure(t *testing.T) {
	router := newSearchRouter(&fakeCluster{err: errors.New("cluster_block_exception")})

	w := doRequest(router, http.MethodPost, "/api/elasticsearch/index/logs", `{"a":1}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["index"] != "logs" {
		t.Errorf("expected index echoed, got %s", w.Body.String())
	}
}

func TestListIndices_FiltersDotIndices(t *testing.T) {
	router := newSearchRouter(&fakeCluster{indices: []string{"users", ".kibana", "logs"}})

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/indices", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"indices":["logs","users"]}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestListIndices_Failure(t *testing.T) {
	router := newSearchRouter(&fakeCluster{err: errors.New("connection refused")})

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/indices", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSearchRoutes_Disabled(t *testing.T) {
	router := NewRouter(RouterDeps{Logger: logger.NopLogger()})

	w := doRequest(router, http.MethodGet, "/api/elasticsearch/indices", "")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] != "search is disabled" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
