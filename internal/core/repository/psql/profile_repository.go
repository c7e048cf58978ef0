package psql

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/user-profile-service/internal/core/domain"
)

var _ domain.ProfileRepository = (*ProfileRepository)(nil)

// DBTX is the subset of the pgx pool API the repository needs.
// *database.Pool satisfies it, and so does a pgxmock pool in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const profilesTable = "user_profiles"

var profileColumns = []string{"id", "first_name", "last_name", "date_of_birth", "created_at", "updated_at"}

var psq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// profileRow mirrors a user_profiles row. Only this package sees column names.
type profileRow struct {
	ID          int64     `db:"id"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r profileRow) toDomain() domain.UserProfile {
	return domain.UserProfile{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth.Format(domain.DateLayout),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ProfileRepository implements domain.ProfileRepository using PostgreSQL.
// Every method issues exactly one statement.
type ProfileRepository struct {
	db DBTX
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List returns every profile, most recently created first
func (r *ProfileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	query, args, err := psq.Select(profileColumns...).
		From(profilesTable).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var rows []profileRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query user profiles: %w", err)
	}

	profiles := make([]domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}

// GetByID retrieves a profile by id. Returns nil if not found.
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*domain.UserProfile, error) {
	query, args, err := psq.Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	return r.getOne(ctx, "query user profile", query, args...)
}

// Create inserts a profile with trimmed names and returns the stored row.
// The input must already be validated.
func (r *ProfileRepository) Create(ctx context.Context, in domain.ProfileInput) (*domain.UserProfile, error) {
	firstName, lastName, dateOfBirth := in.Normalize()
	query, args, err := psq.Insert(profilesTable).
		Columns("first_name", "last_name", "date_of_birth").
		Values(firstName, lastName, dateOfBirth).
		Suffix(returningColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}

	profile, err := r.getOne(ctx, "insert user profile", query, args...)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("insert user profile: %w", pgx.ErrNoRows)
	}
	return profile, nil
}

// Update overwrites names and date of birth for id. Returns nil if no row matched.
// updated_at is refreshed by the table trigger.
func (r *ProfileRepository) Update(ctx context.Context, id int64, in domain.ProfileInput) (*domain.UserProfile, error) {
	firstName, lastName, dateOfBirth := in.Normalize()
	query, args, err := psq.Update(profilesTable).
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("date_of_birth", dateOfBirth).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update query: %w", err)
	}

	return r.getOne(ctx, "update user profile", query, args...)
}

func (r *ProfileRepository) getOne(ctx context.Context, op, query string, args ...any) (*domain.UserProfile, error) {
	var row profileRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile := row.toDomain()
	return &profile, nil
}

func returningColumns() string {
	return "RETURNING id, first_name, last_name, date_of_birth, created_at, updated_at"
}
