//go:build integration

package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/postgres"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("test_db"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Connect(ctx, dsn, logger.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.RunMigrations(ctx, db))
	return NewPostgresRepository(db)
}

func TestPostgresRepository_Lifecycle(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, models.User{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", found.Email)

	found.Name = "Janet"
	updated, err := repo.Save(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteByID(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostgresRepository_UniqueEmail(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, models.User{Name: "A", Email: "same@example.com"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, models.User{Name: "B", Email: "same@example.com"})
	assert.True(t, apperrors.IsConflict(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestService_SeedAgainstPostgres(t *testing.T) {
	svc := NewService(setupPostgres(t), nil, logger.NopLogger())
	ctx := context.Background()

	first, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Count)

	second, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Data already exists", second.Message)
	assert.EqualValues(t, 3, second.Count)
}
