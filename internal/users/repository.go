package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

const uniqueViolation = "23505"

// Repository is the persistence boundary for users.
type Repository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the user when ID is zero and updates it otherwise.
	Save(ctx context.Context, user models.User) (models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, created_at, updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, userNotFound(id)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Save(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *PostgresRepository) insert(ctx context.Context, user models.User) (models.User, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, created_at, updated_at",
		user.Name, user.Email).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, translateWriteError(err, "failed to insert user")
	}
	return user, nil
}

func (r *PostgresRepository) update(ctx context.Context, user models.User) (models.User, error) {
	err := r.db.QueryRowContext(ctx,
		"UPDATE users SET name = $1, email = $2, updated_at = NOW() WHERE id = $3 RETURNING created_at, updated_at",
		user.Name, user.Email, user.ID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, userNotFound(user.ID)
	}
	if err != nil {
		return models.User{}, translateWriteError(err, "failed to update user")
	}
	return user, nil
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func userNotFound(id int64) *apperrors.Error {
	return apperrors.ErrNotFound.WithMessage("User not found").WithDetail("id", id)
}

// translateWriteError turns a unique violation on email into a Conflict so
// a lost race against a concurrent insert still answers 409.
func translateWriteError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.ErrConflict.WithMessage(emailTakenMessage).WithCause(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
