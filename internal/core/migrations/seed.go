package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// SeedProfile is one sample row inserted by Seed.
type SeedProfile struct {
	FirstName   string
	LastName    string
	DateOfBirth string
}

// SampleProfiles are the rows inserted by Seed.
var SampleProfiles = []SeedProfile{
	{FirstName: "John", LastName: "Doe", DateOfBirth: "1990-01-15"},
	{FirstName: "Jane", LastName: "Smith", DateOfBirth: "1985-03-22"},
	{FirstName: "Michael", LastName: "Johnson", DateOfBirth: "1992-07-10"},
	{FirstName: "Sarah", LastName: "Williams", DateOfBirth: "1988-11-05"},
	{FirstName: "David", LastName: "Brown", DateOfBirth: "1995-09-18"},
}

// Seed inserts the sample profiles in a single statement and returns the number of rows written.
func Seed(ctx context.Context, db *sql.DB, profiles []SeedProfile) (int64, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	builder := squirrel.Insert("user_profiles").
		Columns("first_name", "last_name", "date_of_birth").
		PlaceholderFormat(squirrel.Dollar)
	for _, p := range profiles {
		builder = builder.Values(p.FirstName, p.LastName, p.DateOfBirth)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building seed query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting seed profiles: %w", err)
	}
	return result.RowsAffected()
}
