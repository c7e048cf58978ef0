package migrations

import (
	"context"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "sql/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"sql/00001_create_user_profiles.sql",
		"sql/00002_user_profiles_updated_at_trigger.sql",
	}, files)

	schema, err := fs.ReadFile(migrationsFS, "sql/00001_create_user_profiles.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "first_name VARCHAR(100) NOT NULL")
	assert.Contains(t, string(schema), "idx_user_profiles_created_at")
}

func TestRun_UnknownCommand(t *testing.T) {
	err := Run(context.Background(), nil, "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "sideways"`)
}

func TestSeed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_profiles \(first_name,last_name,date_of_birth\) VALUES \(\$1,\$2,\$3\),\(\$4,\$5,\$6\)`).
		WithArgs("John", "Doe", "1990-01-15", "Jane", "Smith", "1985-03-22").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := Seed(context.Background(), db, SampleProfiles[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_Empty(t *testing.T) {
	n, err := Seed(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeed_PropagatesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_profiles").WillReturnError(assert.AnError)

	_, err = Seed(context.Background(), db, SampleProfiles)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSampleProfiles(t *testing.T) {
	require.Len(t, SampleProfiles, 5)
	assert.Equal(t, SeedProfile{FirstName: "David", LastName: "Brown", DateOfBirth: "1995-09-18"}, SampleProfiles[4])
}
