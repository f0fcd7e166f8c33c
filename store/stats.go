package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

const recentBooksOnDashboard = 5

// StatsStore aggregates dashboard numbers by reading the books and users
// collections in full.
type StatsStore struct {
	books *BookStore
	users docstore.Collection
	now   func() time.Time
}

func NewStatsStore(docs docstore.Store) *StatsStore {
	return &StatsStore{
		books: NewBookStore(docs),
		users: docs.Collection(UsersCollection),
		now:   utcNow,
	}
}

// LibraryStats averages the book ratings over rated books only (averageRating
// above zero) and counts users whose profile is less than a week old.
func (s *StatsStore) LibraryStats(ctx context.Context) (*models.LibraryStats, error) {
	books, err := s.books.GetBooks(ctx, models.BookFilters{})
	if err != nil {
		return nil, err
	}
	users, err := s.users.Find(ctx, docstore.Query{})
	if err != nil {
		return nil, err
	}
	recent, err := s.books.RecentBooks(ctx, recentBooksOnDashboard)
	if err != nil {
		return nil, err
	}

	stats := &models.LibraryStats{
		TotalBooks:  len(books),
		TotalUsers:  len(users),
		RecentBooks: recent,
	}
	var ratingSum float64
	var rated int
	for _, b := range books {
		stats.TotalDownloads += b.Downloads
		if b.AverageRating > 0 {
			ratingSum += b.AverageRating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = roundTenth(ratingSum / float64(rated))
	}
	weekAgo := s.now().AddDate(0, 0, -7)
	for _, u := range users {
		created := u.Time("createdAt")
		if !created.IsZero() && !created.Before(weekAgo) {
			stats.NewUsersThisWeek++
		}
	}
	return stats, nil
}
