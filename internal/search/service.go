package search

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

// DefaultSize is the number of hits returned when the caller gives none.
const DefaultSize = 10

// Backend is the search cluster as seen by the service.
type Backend interface {
	Index(ctx context.Context, index, id string, doc interface{}) (models.IndexResult, error)
	Search(ctx context.Context, index string, size int) (models.SearchResult, error)
	ListIndices(ctx context.Context) ([]string, error)
}

// Service exposes generic operations on any index and any document shape.
type Service struct {
	backend Backend
	log     logger.Logger
	now     func() time.Time
}

func NewService(backend Backend, log logger.Logger) *Service {
	return &Service{backend: backend, log: log, now: time.Now}
}

func (s *Service) Search(ctx context.Context, index string, size int) (models.SearchResult, error) {
	if size < 1 {
		return models.SearchResult{}, apperrors.ErrValidation.
			WithMessage("size must be a positive integer").
			WithDetail("index", index)
	}

	result, err := s.backend.Search(ctx, index, size)
	if err != nil {
		s.log.ErrorwCtx(ctx, "Search failed", "index", index, "error", err)
		return models.SearchResult{}, upstream(err, index)
	}
	return result, nil
}

// IndexDocument stamps doc with the ingestion time and stores it under a
// cluster-assigned id. doc itself is not modified.
func (s *Service) IndexDocument(ctx context.Context, index string, doc map[string]interface{}) (models.IndexResult, error) {
	stamped := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		stamped[k] = v
	}
	stamped[models.TimestampField] = models.FormatTimestamp(s.now())

	result, err := s.backend.Index(ctx, index, "", stamped)
	if err != nil {
		s.log.ErrorwCtx(ctx, "Indexing failed", "index", index, "error", err)
		return models.IndexResult{}, upstream(err, index)
	}
	return result, nil
}

// ListIndices returns every index not starting with a dot, sorted.
func (s *Service) ListIndices(ctx context.Context) (models.IndicesResponse, error) {
	names, err := s.backend.ListIndices(ctx)
	if err != nil {
		s.log.ErrorwCtx(ctx, "Listing indices failed", "error", err)
		return models.IndicesResponse{}, apperrors.ErrUpstream.WithCause(err)
	}

	visible := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, ".") {
			visible = append(visible, name)
		}
	}
	sort.Strings(visible)

	return models.IndicesResponse{Indices: visible}, nil
}

// IndexUser writes the search projection of user, keyed by its id.
func (s *Service) IndexUser(ctx context.Context, user models.User) error {
	doc := models.NewUserDocument(user, s.now())
	if _, err := s.backend.Index(ctx, models.UsersIndex, doc.DocumentID(), doc); err != nil {
		return upstream(err, models.UsersIndex)
	}
	return nil
}

func upstream(err error, index string) *apperrors.Error {
	return apperrors.ErrUpstream.WithCause(err).WithDetail("index", index)
}
