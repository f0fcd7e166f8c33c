package models

import "time"

type Favorite struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	BookID  string    `json:"bookId"`
	AddedAt time.Time `json:"addedAt"`
}

const (
	GoalTypeBooks = "books"
	GoalTypePages = "pages"

	GoalPeriodWeekly  = "weekly"
	GoalPeriodMonthly = "monthly"
)

// ReadingGoal is a user's target for a week or a month. At most one goal per
// user is expected to be active; see store.GoalStore.CreateGoal.
type ReadingGoal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Target    int       `json:"target"`
	Current   int       `json:"current"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}

type ReadingProgress struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BookID     string    `json:"bookId"`
	LastPage   int       `json:"lastPage"`
	TotalPages int       `json:"totalPages"`
	LastReadAt time.Time `json:"lastReadAt"`
	TimeSpent  int       `json:"timeSpent"` // seconds
}
