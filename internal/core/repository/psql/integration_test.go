//go:build integration

package psql_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/duynhne/user-profile-service/config"
	database "github.com/duynhne/user-profile-service/internal/core"
	"github.com/duynhne/user-profile-service/internal/core/domain"
	"github.com/duynhne/user-profile-service/internal/core/migrations"
	"github.com/duynhne/user-profile-service/internal/core/repository/psql"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("user_profiles_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		panic(err)
	}
	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	db, err := migrations.Open(dsn)
	if err != nil {
		panic(err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		panic(err)
	}
	_ = db.Close()

	code := m.Run()
	_ = testcontainers.TerminateContainer(container)
	os.Exit(code)
}

func TestProfileRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pool, err := database.Connect(ctx, config.DatabaseConfig{
		URL:            dsn,
		MaxConnections: 5,
		IdleTimeout:    30 * time.Second,
		ConnectTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	check := pool.CheckConnection(ctx)
	require.True(t, check.Connected, check.Error)

	repo := psql.NewProfileRepository(pool)

	john, err := repo.Create(ctx, domain.ProfileInput{
		FirstName:   strPtr("  John "),
		LastName:    strPtr("Doe"),
		DateOfBirth: strPtr("1990-05-15"),
	})
	require.NoError(t, err)
	assert.Positive(t, john.ID)
	assert.Equal(t, "John", john.FirstName)
	assert.Equal(t, "1990-05-15", john.DateOfBirth)
	assert.Equal(t, john.CreatedAt, john.UpdatedAt)

	time.Sleep(10 * time.Millisecond)
	jane, err := repo.Create(ctx, domain.ProfileInput{
		FirstName:   strPtr("Jane"),
		LastName:    strPtr("Smith"),
		DateOfBirth: strPtr("1985-08-22T00:00:00Z"),
	})
	require.NoError(t, err)
	assert.Greater(t, jane.ID, john.ID)
	assert.Equal(t, "1985-08-22", jane.DateOfBirth)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, jane.ID, all[0].ID)
	assert.Equal(t, john.ID, all[1].ID)

	got, err := repo.GetByID(ctx, john.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *john, *got)

	missing, err := repo.GetByID(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(ctx, john.ID, domain.ProfileInput{
		FirstName:   strPtr("Johnny"),
		LastName:    strPtr(" Doe "),
		DateOfBirth: strPtr("1990-05-16"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, "1990-05-16", updated.DateOfBirth)
	assert.Equal(t, john.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	notFound, err := repo.Update(ctx, 99999, domain.ProfileInput{
		FirstName:   strPtr("A"),
		LastName:    strPtr("B"),
		DateOfBirth: strPtr("1990-01-01"),
	})
	require.NoError(t, err)
	assert.Nil(t, notFound)

	status := pool.Status()
	assert.EqualValues(t, 5, status.MaxConns)
	assert.Zero(t, status.AcquiredCount)
}

func TestSeed_Integration(t *testing.T) {
	ctx := context.Background()
	db, err := migrations.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	n, err := migrations.Seed(ctx, db, migrations.SampleProfiles)
	require.NoError(t, err)
	assert.EqualValues(t, len(migrations.SampleProfiles), n)
}

func TestPool_BoundedAcquireWait_Integration(t *testing.T) {
	ctx := context.Background()
	const connectTimeout = 300 * time.Millisecond
	pool, err := database.Connect(ctx, config.DatabaseConfig{
		URL:            dsn,
		MaxConnections: 1,
		ConnectTimeout: connectTimeout,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Occupy the only connection for longer than the acquire timeout.
	held := make(chan error, 1)
	go func() {
		_, err := pool.Exec(ctx, "SELECT pg_sleep(1.5)")
		held <- err
	}()
	require.Eventually(t, func() bool { return pool.Status().AcquiredCount == 1 }, 5*time.Second, 10*time.Millisecond)

	repo := psql.NewProfileRepository(pool)
	start := time.Now()
	profile, err := repo.GetByID(ctx, 1)
	elapsed := time.Since(start)

	assert.Nil(t, profile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
	assert.Contains(t, err.Error(), "timeout acquiring connection")
	assert.GreaterOrEqual(t, elapsed, connectTimeout)
	assert.Less(t, elapsed, time.Second)

	require.NoError(t, <-held)

	// The connection is back; the next request is served.
	check := pool.CheckConnection(ctx)
	assert.True(t, check.Connected, check.Error)
}

func TestPool_ClientCancellationDoesNotAbortQuery_Integration(t *testing.T) {
	pool, err := database.Connect(context.Background(), config.DatabaseConfig{
		URL:            dsn,
		MaxConnections: 2,
		ConnectTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := psql.NewProfileRepository(pool)
	created, err := repo.Create(context.Background(), domain.ProfileInput{
		FirstName:   strPtr("Cancel"),
		LastName:    strPtr("Tolerant"),
		DateOfBirth: strPtr("1970-01-01"),
	})
	require.NoError(t, err)

	t.Run("already cancelled request context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("request context expires mid-query", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var one int
		err := pool.QueryRow(ctx, "SELECT 1 FROM pg_sleep(0.3)").Scan(&one)
		require.NoError(t, err)
		assert.Equal(t, 1, one)
		assert.Error(t, ctx.Err())
	})

	assert.Zero(t, pool.Status().AcquiredCount)
}
