package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
)

// MealRepository reads meals.
type MealRepository struct {
	db *sql.DB
}

func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

const mealColumns = `id, user_id, COALESCE(description, ''),
	COALESCE(calories, 0), COALESCE(protein, 0), COALESCE(fat, 0), COALESCE(carbs, 0), created_at`

// List returns meals newest first. A non-positive limit returns all.
func (r *MealRepository) List(ctx context.Context, limit int) ([]types.Meal, error) {
	const query = `
		SELECT ` + mealColumns + `
		FROM meals
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanMeals(rows)
}

// ListSince returns every meal created at or after since.
func (r *MealRepository) ListSince(ctx context.Context, since time.Time) ([]types.Meal, error) {
	const query = `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE created_at >= $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return scanMeals(rows)
}

// ListByUser returns the user's most recent meals, newest first.
func (r *MealRepository) ListByUser(ctx context.Context, userID string, limit int) ([]types.Meal, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []types.Meal{}, nil
	}
	const query = `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return scanMeals(rows)
}

func scanMeals(rows *sql.Rows) ([]types.Meal, error) {
	defer rows.Close()

	meals := make([]types.Meal, 0)
	for rows.Next() {
		var meal types.Meal
		if err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Description,
			&meal.Calories,
			&meal.Protein,
			&meal.Fat,
			&meal.Carbs,
			&meal.CreatedAt,
		); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meals, nil
}
