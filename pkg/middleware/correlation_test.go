package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, logger.CorrelationID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	// Should have set the header
	corrID := w.Header().Get(CorrelationIDHeader)
	if corrID == "" {
		t.Fatal("expected X-Correlation-ID header to be set")
	}

	// Body should match header
	if w.Body.String() != corrID {
		t.Errorf("body %q does not match header %q", w.Body.String(), corrID)
	}
}

func TestCorrelationIDMiddleware_UsesExistingID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, logger.CorrelationID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CorrelationIDHeader, "my-custom-id")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	corrID := w.Header().Get(CorrelationIDHeader)
	if corrID != "my-custom-id" {
		t.Errorf("expected %q, got %q", "my-custom-id", corrID)
	}

	if w.Body.String() != "my-custom-id" {
		t.Errorf("body: expected %q, got %q", "my-custom-id", w.Body.String())
	}
}

func TestCorrelationIDMiddleware_PropagatesToRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, logger.CorrelationID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CorrelationIDHeader, "ctx-id")
	r.ServeHTTP(w, req)

	if w.Body.String() != "ctx-id" {
		t.Errorf("request context: expected %q, got %q", "ctx-id", w.Body.String())
	}
}
