package store

import (
	"context"
	"database/sql"

	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
)

// StatRepository reads daily_stats.
type StatRepository struct {
	db *sql.DB
}

func NewStatRepository(db *sql.DB) *StatRepository {
	return &StatRepository{db: db}
}

// Missing nutrient values read as 0.
const statColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'),
	COALESCE(calories, 0), COALESCE(protein, 0), COALESCE(fat, 0), COALESCE(carbs, 0), COALESCE(water, 0),
	created_at, COALESCE(updated_at, created_at)`

// ListByDate returns the stats recorded for date, highest calories first.
func (r *StatRepository) ListByDate(ctx context.Context, date string) ([]types.DailyStat, error) {
	const query = `
		SELECT ` + statColumns + `
		FROM daily_stats
		WHERE date = $1::date
		ORDER BY calories DESC`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	return scanStats(rows)
}

// ListSince returns stats dated on or after since, newest first. A
// non-positive limit returns all.
func (r *StatRepository) ListSince(ctx context.Context, since string, limit int) ([]types.DailyStat, error) {
	const query = `
		SELECT ` + statColumns + `
		FROM daily_stats
		WHERE date >= $1::date
		ORDER BY date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, since, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanStats(rows)
}

// ListByUser returns the user's most recent stats, newest first.
func (r *StatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]types.DailyStat, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []types.DailyStat{}, nil
	}
	const query = `
		SELECT ` + statColumns + `
		FROM daily_stats
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanStats(rows)
}

func scanStats(rows *sql.Rows) ([]types.DailyStat, error) {
	defer rows.Close()

	stats := make([]types.DailyStat, 0)
	for rows.Next() {
		var stat types.DailyStat
		if err := rows.Scan(
			&stat.ID,
			&stat.UserID,
			&stat.Date,
			&stat.Calories,
			&stat.Protein,
			&stat.Fat,
			&stat.Carbs,
			&stat.Water,
			&stat.CreatedAt,
			&stat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
