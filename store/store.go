// Package store holds the entity access modules of the library: books,
// reviews, favorites, reading goals, reading progress, users and contact
// messages. Every module is handed a docstore.Store at construction; none of
// them keeps state beyond the collection handles.
//
// Reads that find nothing return nil or an empty slice. Store failures are
// returned unmodified. Multi-step operations (rating recomputation, goal
// replacement, progress upsert) are plain sequences of store calls without a
// transaction; a concurrent caller can interleave between the steps.
package store

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
)

const (
	BooksCollection           = "books"
	ReviewsCollection         = "reviews"
	FavoritesCollection       = "favorites"
	GoalsCollection           = "goals"
	ReadingProgressCollection = "reading_progress"
	UsersCollection           = "users"
	ContactsCollection        = "contacts"
)

// Stores groups the access modules built over one document store.
type Stores struct {
	Books     *BookStore
	Reviews   *ReviewStore
	Favorites *FavoriteStore
	Goals     *GoalStore
	Progress  *ProgressStore
	Users     *UserStore
	Contacts  *ContactStore
	Stats     *StatsStore
}

func New(docs docstore.Store) *Stores {
	return &Stores{
		Books:     NewBookStore(docs),
		Reviews:   NewReviewStore(docs),
		Favorites: NewFavoriteStore(docs),
		Goals:     NewGoalStore(docs),
		Progress:  NewProgressStore(docs),
		Users:     NewUserStore(docs),
		Contacts:  NewContactStore(docs),
		Stats:     NewStatsStore(docs),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}

// roundTenth rounds to one decimal place, half away from zero.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// newestFirst orders records by their decoded timestamp, latest first.
// Timestamps are stored both natively and as ISO strings, and a store orders
// the two encodings separately, so listings re-sort after mapping.
func newestFirst[T any](items []T, at func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int { return at(b).Compare(at(a)) })
}
