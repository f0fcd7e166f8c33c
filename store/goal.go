package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

type GoalStore struct {
	goals docstore.Collection
	now   func() time.Time
}

func NewGoalStore(docs docstore.Store) *GoalStore {
	return &GoalStore{goals: docs.Collection(GoalsCollection), now: utcNow}
}

// CreateGoal deactivates the user's active goals one update at a time and
// then inserts the new active goal. The steps are not atomic: a failure part
// way through can leave more than one goal active.
func (s *GoalStore) CreateGoal(ctx context.Context, userID, goalType string, target int, period string) (string, error) {
	active, err := s.goals.Find(ctx, activeGoalsQuery(userID))
	if err != nil {
		return "", err
	}
	for _, d := range active {
		if err := s.goals.Update(ctx, d.ID, docstore.Fields{"isActive": false}); err != nil {
			return "", err
		}
	}

	start := s.now()
	return s.goals.Add(ctx, docstore.Fields{
		"userId":    userID,
		"type":      goalType,
		"target":    target,
		"current":   0,
		"period":    period,
		"startDate": start,
		"endDate":   goalEndDate(start, period),
		"isActive":  true,
	})
}

// GetActiveGoal returns the first active goal the store yields, or nil.
func (s *GoalStore) GetActiveGoal(ctx context.Context, userID string) (*models.ReadingGoal, error) {
	docs, err := s.goals.Find(ctx, activeGoalsQuery(userID).Take(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	goal := goalFromDoc(docs[0])
	return &goal, nil
}

// GetGoal returns the goal with the given id, or nil when it does not exist.
func (s *GoalStore) GetGoal(ctx context.Context, id string) (*models.ReadingGoal, error) {
	doc, err := s.goals.Get(ctx, id)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	goal := goalFromDoc(*doc)
	return &goal, nil
}

// goalEndDate is start plus seven days for weekly goals and plus one
// calendar month otherwise (Jan 31 rolls over into March, as AddDate does).
func goalEndDate(start time.Time, period string) time.Time {
	if period == models.GoalPeriodWeekly {
		return start.AddDate(0, 0, 7)
	}
	return start.AddDate(0, 1, 0)
}

func activeGoalsQuery(userID string) docstore.Query {
	return docstore.Where("userId", userID).Where("isActive", true)
}

func goalFromDoc(d docstore.Document) models.ReadingGoal {
	return models.ReadingGoal{
		ID:        d.ID,
		UserID:    d.String("userId"),
		Type:      d.String("type"),
		Target:    d.Int("target"),
		Current:   d.Int("current"),
		Period:    d.String("period"),
		StartDate: d.Time("startDate"),
		EndDate:   d.Time("endDate"),
		IsActive:  d.Bool("isActive"),
	}
}
