package store

import (
	"context"
	"database/sql"

	"github.com/biobalance/admin/types"
	"github.com/lib/pq"
)

// RecipeRepository reads saved_recipes.
type RecipeRepository struct {
	db *sql.DB
}

func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

const recipeColumns = `id, user_id, COALESCE(title, ''), COALESCE(content, ''),
	COALESCE(calories, 0), COALESCE(protein, 0), COALESCE(fat, 0), tags, created_at`

// List returns recipes newest first. A non-positive limit returns all.
func (r *RecipeRepository) List(ctx context.Context, limit int) ([]types.SavedRecipe, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM saved_recipes
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limitArg(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]types.SavedRecipe, 0)
	for rows.Next() {
		var recipe types.SavedRecipe
		var tags pq.StringArray
		if err := rows.Scan(
			&recipe.ID,
			&recipe.UserID,
			&recipe.Title,
			&recipe.Content,
			&recipe.Calories,
			&recipe.Protein,
			&recipe.Fat,
			&tags,
			&recipe.CreatedAt,
		); err != nil {
			return nil, err
		}
		recipe.Tags = []string(tags)
		if recipe.Tags == nil {
			recipe.Tags = []string{}
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}
