package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), step: time.Minute}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func setupTestStores(t *testing.T) (*docstore.Memory, *Stores) {
	t.Helper()
	mem := docstore.NewMemory()
	stores := New(mem)
	clock := newStepClock()
	stores.Books.now = clock.Now
	stores.Reviews.now = clock.Now
	stores.Favorites.now = clock.Now
	stores.Goals.now = clock.Now
	stores.Progress.now = clock.Now
	stores.Users.now = clock.Now
	stores.Contacts.now = clock.Now
	stores.Stats.now = clock.Now
	stores.Stats.books.now = clock.Now
	return mem, stores
}

func sampleBook(title string) models.BookInput {
	return models.BookInput{
		Title:         title,
		Author:        "Imam an-Nawawi",
		Description:   "A collection of forty hadith.",
		Category:      models.CategoryIslamicStudies,
		Language:      "Arabic",
		CoverImageURL: "https://drive.google.com/file/d/cover123/view",
		PDFURL:        "https://drive.google.com/file/d/pdf456/view",
		PDFFileName:   "forty-hadith.pdf",
	}
}

func createBook(t *testing.T, s *Stores, in models.BookInput) string {
	t.Helper()
	id, err := s.Books.CreateBook(context.Background(), in)
	require.NoError(t, err)
	return id
}
