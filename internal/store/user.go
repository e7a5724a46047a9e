package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserRepository reads user_profiles.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upstream profiles may leave the text columns NULL.
const profileColumns = `id, COALESCE(email, ''), COALESCE(full_name, ''), COALESCE(goal, ''), created_at, last_active`

// List returns profiles newest first. A non-positive limit returns all.
func (r *UserRepository) List(ctx context.Context, limit int) ([]types.UserProfile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM user_profiles
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanProfiles(rows)
}

// GetByID returns ErrNotFound for unknown and malformed ids alike.
func (r *UserRepository) GetByID(ctx context.Context, id string) (types.UserProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return types.UserProfile{}, ErrNotFound
	}

	const query = `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE id = $1`
	var (
		user       types.UserProfile
		lastActive sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Goal,
		&user.CreatedAt,
		&lastActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.UserProfile{}, ErrNotFound
		}
		return types.UserProfile{}, err
	}
	if lastActive.Valid {
		user.LastActive = &lastActive.Time
	}
	return user, nil
}

// ListByIDs returns the profiles among ids that exist, in no particular
// order. Malformed ids are skipped.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]types.UserProfile, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []types.UserProfile{}, nil
	}

	const query = `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(valid))
	if err != nil {
		return nil, err
	}
	return scanProfiles(rows)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM user_profiles`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanProfiles(rows *sql.Rows) ([]types.UserProfile, error) {
	defer rows.Close()

	users := make([]types.UserProfile, 0)
	for rows.Next() {
		var (
			user       types.UserProfile
			lastActive sql.NullTime
		)
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.Goal,
			&user.CreatedAt,
			&lastActive,
		); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			t := lastActive.Time
			user.LastActive = &t
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
