package types

import "time"

// DateLayout is the calendar-date format used by daily_stats.date.
const DateLayout = "2006-01-02"

// DailyStat is one user's nutrition totals for one calendar date.
// (user_id, date) is unique upstream; nothing here enforces it.
type DailyStat struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      string    `json:"date" db:"date"`
	Calories  float64   `json:"calories" db:"calories"`
	Protein   float64   `json:"protein" db:"protein"`
	Fat       float64   `json:"fat" db:"fat"`
	Carbs     float64   `json:"carbs" db:"carbs"`
	Water     float64   `json:"water" db:"water"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Meal is a single logged meal.
type Meal struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Description string    `json:"description" db:"description"`
	Calories    float64   `json:"calories" db:"calories"`
	Protein     float64   `json:"protein" db:"protein"`
	Fat         float64   `json:"fat" db:"fat"`
	Carbs       float64   `json:"carbs" db:"carbs"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SavedRecipe is a recipe a user saved from the bot.
type SavedRecipe struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Calories  float64   `json:"calories" db:"calories"`
	Protein   float64   `json:"protein" db:"protein"`
	Fat       float64   `json:"fat" db:"fat"`
	Tags      []string  `json:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MealWithUser is a meal joined with its owner's profile summary.
// UserProfile is nil when the owner has no profile row.
type MealWithUser struct {
	Meal
	UserProfile *UserSummary `json:"user_profiles"`
}

// StatWithUser is a daily stat joined with its owner's profile summary.
type StatWithUser struct {
	DailyStat
	UserProfile *UserSummary `json:"user_profiles"`
}

// RecipeWithEmail is a recipe annotated with its owner's email.
type RecipeWithEmail struct {
	SavedRecipe
	UserEmail string `json:"user_email"`
}

// StatsOverview is the payload of the stats page.
type StatsOverview struct {
	TodayStats  []StatWithUser `json:"todayStats"`
	RecentStats []StatWithUser `json:"recentStats"`
	AvgCalories int            `json:"avgCalories"`
	AvgProtein  int            `json:"avgProtein"`
	AvgWater    int            `json:"avgWater"`
	ActiveToday int            `json:"activeToday"`
}
