package types

// InsightType classifies an insight for display.
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightWarning  InsightType = "warning"
	InsightInfo     InsightType = "info"
)

// Valid reports whether t is one of the known insight types.
func (t InsightType) Valid() bool {
	switch t {
	case InsightPositive, InsightWarning, InsightInfo:
		return true
	default:
		return false
	}
}

// FocusCategory steers which extra suggestions an insights report carries.
type FocusCategory string

const (
	FocusUserExperience  FocusCategory = "user_experience"
	FocusBotAlgorithm    FocusCategory = "bot_algorithm"
	FocusNutritionHabits FocusCategory = "nutrition_habits"
)

// Valid reports whether c is one of the known focus categories.
func (c FocusCategory) Valid() bool {
	switch c {
	case FocusUserExperience, FocusBotAlgorithm, FocusNutritionHabits:
		return true
	default:
		return false
	}
}

// Insight is a single titled observation about the user base.
type Insight struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        InsightType `json:"type"`
}

// Report is the textual part of an insights response. It is produced
// either by the threshold rules or by the external text generator.
type Report struct {
	Insights    []Insight `json:"insights"`
	Suggestions []string  `json:"suggestions"`
	Summary     string    `json:"summary"`
}

// Metrics holds the aggregate numbers computed over one query window.
type Metrics struct {
	// Days is the length of the query window.
	Days int `json:"days"`

	// TotalUsers is the number of registered profiles.
	TotalUsers int `json:"totalUsers"`

	// ActiveUsers is the number of distinct users with a daily stat in the
	// window. It comes from a different table than TotalUsers and may
	// exceed it.
	ActiveUsers int `json:"activeUsers"`

	// EngagementRate is ActiveUsers / TotalUsers * 100, or 0 without users.
	EngagementRate float64 `json:"engagementRate"`

	// AvgCalories, AvgProtein and AvgWater are rounded means over the
	// window's daily stats, or 0 when there are none.
	AvgCalories int `json:"avgCalories"`
	AvgProtein  int `json:"avgProtein"`
	AvgWater    int `json:"avgWater"`

	// MealCount is the number of meals logged in the window.
	MealCount int `json:"mealCount"`

	// AvgMealsPerUser is MealCount / ActiveUsers, or 0 without active users.
	AvgMealsPerUser float64 `json:"avgMealsPerUser"`

	// ChatMessages is the number of chat messages in the window.
	ChatMessages int `json:"chatMessages"`

	// ChatEngagement is ChatMessages / TotalUsers, or 0 without users.
	ChatEngagement float64 `json:"chatEngagement"`
}

// MetricsSnapshot is the full insights result for one request. It is
// recomputed on every request and never stored.
type MetricsSnapshot struct {
	Metrics
	Report
}

// OverallStats is the dashboard headline for the current day.
type OverallStats struct {
	TotalUsers       int `json:"totalUsers"`
	ActiveUsersToday int `json:"activeUsersToday"`
	AvgCalories      int `json:"avgCalories"`
	AvgProtein       int `json:"avgProtein"`
	AvgWater         int `json:"avgWater"`
}

// ActivityPoint is the number of distinct active users on one date.
type ActivityPoint struct {
	Date        string `json:"date"`
	ActiveUsers int    `json:"activeUsers"`
}

// Dashboard is the payload of the dashboard page.
type Dashboard struct {
	Stats           OverallStats    `json:"stats"`
	AtRiskUsers     []UserSummary   `json:"atRiskUsers"`
	ActivityHistory []ActivityPoint `json:"activityHistory"`
}
