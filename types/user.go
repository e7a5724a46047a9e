package types

import "time"

// Goal is the dietary goal category a user picked in the app.
type Goal string

const (
	GoalCut      Goal = "cut"
	GoalBulk     Goal = "bulk"
	GoalMaintain Goal = "maintain"
)

// UserProfile represents a registered app user as stored in user_profiles.
type UserProfile struct {
	// ID is the uuid of the user, shared with the auth provider.
	ID string `json:"id" db:"id"`

	// Email is the user's email address. May be empty.
	Email string `json:"email" db:"email"`

	// FullName is the user's display name. May be empty.
	FullName string `json:"full_name" db:"full_name"`

	// Goal is the dietary goal category. Empty when the user never chose one.
	Goal Goal `json:"goal,omitempty" db:"goal"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// LastActive is the last time the app reported activity for the user.
	LastActive *time.Time `json:"last_active,omitempty" db:"last_active"`
}

// UserSummary is the short projection of a profile attached to joined rows.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Summary returns the joined-row projection of the profile.
func (u UserProfile) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

// UserDetail is the single-user view: profile, recent history and averages.
type UserDetail struct {
	User        UserProfile `json:"user"`
	Stats       []DailyStat `json:"stats"`
	Meals       []Meal      `json:"meals"`
	AvgCalories int         `json:"avgCalories"`
	AvgProtein  int         `json:"avgProtein"`
	AvgWater    int         `json:"avgWater"`
}
