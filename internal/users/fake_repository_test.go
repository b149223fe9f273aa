package users

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

// memoryRepository is an in-memory Repository with the same email
// uniqueness guarantee as the users table.
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	err    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[int64]models.User{}}
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.User{}, r.err
	}

	u, ok := r.users[id]
	if !ok {
		return models.User{}, userNotFound(id)
	}
	return u, nil
}

func (r *memoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return r.emailTaken(email, 0), nil
}

func (r *memoryRepository) Save(ctx context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.User{}, r.err
	}

	if r.emailTaken(user.Email, user.ID) {
		return models.User{}, apperrors.ErrConflict.WithMessage(emailTakenMessage)
	}

	now := time.Now()
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
		user.CreatedAt = now
	} else if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		return models.User{}, userNotFound(user.ID)
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.users[id]
	return ok, nil
}

func (r *memoryRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.users)), nil
}

func (r *memoryRepository) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// staleCountRepository reports an empty table for the first stale calls to
// Count, as a seeder racing another one would observe.
type staleCountRepository struct {
	*memoryRepository
	stale int
}

func (r *staleCountRepository) Count(ctx context.Context) (int64, error) {
	if r.stale > 0 {
		r.stale--
		return 0, nil
	}
	return r.memoryRepository.Count(ctx)
}

type recordingIndexer struct {
	mu      sync.Mutex
	indexed []models.User
	err     error
}

func (i *recordingIndexer) IndexUser(ctx context.Context, user models.User) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = append(i.indexed, user)
	return i.err
}

var errDatabaseDown = errors.New("connection refused")
