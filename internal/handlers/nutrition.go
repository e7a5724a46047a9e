package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/biobalance/admin/types"
	"go.uber.org/zap"
)

type MealLister interface {
	List(ctx context.Context) ([]types.MealWithUser, error)
}

type RecipeLister interface {
	List(ctx context.Context) ([]types.RecipeWithEmail, error)
}

type StatsOverviewer interface {
	Overview(ctx context.Context, now time.Time) (types.StatsOverview, error)
}

// NutritionHandler serves the meal, recipe and daily-stat pages. Data-store
// failures are logged and answered with empty collections.
type NutritionHandler struct {
	meals   MealLister
	recipes RecipeLister
	stats   StatsOverviewer
	log     *zap.Logger
	now     func() time.Time
}

func NewNutritionHandler(meals MealLister, recipes RecipeLister, stats StatsOverviewer, logger *zap.Logger) *NutritionHandler {
	return &NutritionHandler{
		meals:   meals,
		recipes: recipes,
		stats:   stats,
		log:     logger,
		now:     time.Now,
	}
}

type MealListResponse struct {
	Meals []types.MealWithUser `json:"meals"`
}

type RecipeListResponse struct {
	Recipes []types.RecipeWithEmail `json:"recipes"`
}

func (h *NutritionHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.meals.List(r.Context())
	if err != nil {
		h.log.Error("list meals", zap.Error(err))
		meals = []types.MealWithUser{}
	}
	writeJSON(w, http.StatusOK, MealListResponse{Meals: meals})
}

func (h *NutritionHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		h.log.Error("list recipes", zap.Error(err))
		recipes = []types.RecipeWithEmail{}
	}
	writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: recipes})
}

func (h *NutritionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context(), h.now())
	if err != nil {
		h.log.Error("stats overview", zap.Error(err))
		overview = types.StatsOverview{
			TodayStats:  []types.StatWithUser{},
			RecentStats: []types.StatWithUser{},
		}
	}
	writeJSON(w, http.StatusOK, overview)
}
