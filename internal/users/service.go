package users

import (
	"context"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

const (
	emailTakenMessage    = "Email already exists"
	deletedMessage       = "User deleted successfully"
	seededMessage        = "Sample data initialized"
	alreadySeededMessage = "Data already exists"
)

// sampleUsers is inserted by Seed into an empty table.
var sampleUsers = []models.User{
	{Name: "Alice Dupont", Email: "alice@example.com"},
	{Name: "Bob Martin", Email: "bob@example.com"},
	{Name: "Charlie Durand", Email: "charlie@example.com"},
}

// Indexer mirrors a stored user into the search index. Errors are reported
// back so the service can log them; they never fail the calling operation.
type Indexer interface {
	IndexUser(ctx context.Context, user models.User) error
}

type Service struct {
	repo    Repository
	indexer Indexer
	log     logger.Logger
}

// NewService creates a user service. indexer may be nil when search is
// disabled.
func NewService(repo Repository, indexer Indexer, log logger.Logger) *Service {
	return &Service{repo: repo, indexer: indexer, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	taken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, apperrors.ErrConflict.WithMessage(emailTakenMessage)
	}

	user, err := s.repo.Save(ctx, models.User{Name: req.Name, Email: req.Email})
	if err != nil {
		return models.User{}, err
	}

	s.log.InfowCtx(ctx, "User created", "user_id", user.ID, "email", user.Email)
	s.mirror(ctx, user)
	return user, nil
}

// Update replaces the name and, when one is given, the email. An email
// already used by another user is a Conflict and leaves the row untouched.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if req.Email != "" && req.Email != user.Email {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, apperrors.ErrConflict.WithMessage(emailTakenMessage)
		}
		user.Email = req.Email
	}
	user.Name = req.Name

	updated, err := s.repo.Save(ctx, user)
	if err != nil {
		return models.User{}, err
	}

	s.log.InfowCtx(ctx, "User updated", "user_id", updated.ID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (models.MessageResponse, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return models.MessageResponse{}, err
	}
	if !exists {
		return models.MessageResponse{}, userNotFound(id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return models.MessageResponse{}, err
	}

	s.log.InfowCtx(ctx, "User deleted", "user_id", id)
	return models.MessageResponse{Message: deletedMessage}, nil
}

func (s *Service) Count(ctx context.Context) (models.CountResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return models.CountResponse{}, err
	}
	return models.CountResponse{Count: count}, nil
}

// Seed inserts the sample users if and only if the table is empty.
// Concurrent calls on an empty table are serialized by the email unique
// index; the loser reports the data as already present.
func (s *Service) Seed(ctx context.Context) (models.SeedResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return models.SeedResponse{}, err
	}
	if count > 0 {
		return models.SeedResponse{Message: alreadySeededMessage, Count: count}, nil
	}

	for _, sample := range sampleUsers {
		user, err := s.repo.Save(ctx, sample)
		if apperrors.IsConflict(err) {
			s.log.InfowCtx(ctx, "Sample data inserted concurrently", "email", sample.Email)
			return s.alreadySeeded(ctx)
		}
		if err != nil {
			return models.SeedResponse{}, err
		}
		s.mirror(ctx, user)
	}

	count, err = s.repo.Count(ctx)
	if err != nil {
		return models.SeedResponse{}, err
	}

	s.log.InfowCtx(ctx, "Sample data initialized", "count", count)
	return models.SeedResponse{Message: seededMessage, Count: count}, nil
}

func (s *Service) alreadySeeded(ctx context.Context) (models.SeedResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return models.SeedResponse{}, err
	}
	return models.SeedResponse{Message: alreadySeededMessage, Count: count}, nil
}

func (s *Service) mirror(ctx context.Context, user models.User) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexUser(ctx, user); err != nil {
		s.log.WarnwCtx(ctx, "Failed to index user in search", "user_id", user.ID, "error", err)
	}
}
