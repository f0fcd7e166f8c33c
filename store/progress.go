package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

type ProgressStore struct {
	progress docstore.Collection
	now      func() time.Time
}

func NewProgressStore(docs docstore.Store) *ProgressStore {
	return &ProgressStore{progress: docs.Collection(ReadingProgressCollection), now: utcNow}
}

// SaveReadingProgress upserts the (userId, bookId) row: query, then insert
// with timeSpent 0 or update lastPage/totalPages/lastReadAt in place.
// lastPage is not checked against totalPages.
func (s *ProgressStore) SaveReadingProgress(ctx context.Context, userID, bookID string, lastPage, totalPages int) error {
	existing, err := s.progress.Find(ctx, pairQuery(userID, bookID).Take(1))
	if err != nil {
		return err
	}
	fields := docstore.Fields{
		"userId":     userID,
		"bookId":     bookID,
		"lastPage":   lastPage,
		"totalPages": totalPages,
		"lastReadAt": s.now(),
	}
	if len(existing) == 0 {
		fields["timeSpent"] = 0
		_, err := s.progress.Add(ctx, fields)
		return err
	}
	return s.progress.Update(ctx, existing[0].ID, fields)
}

// GetReadingProgress returns nil, nil when the user has not opened the book.
func (s *ProgressStore) GetReadingProgress(ctx context.Context, userID, bookID string) (*models.ReadingProgress, error) {
	docs, err := s.progress.Find(ctx, pairQuery(userID, bookID).Take(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	d := docs[0]
	return &models.ReadingProgress{
		ID:         d.ID,
		UserID:     d.String("userId"),
		BookID:     d.String("bookId"),
		LastPage:   d.Int("lastPage"),
		TotalPages: d.Int("totalPages"),
		LastReadAt: d.Time("lastReadAt"),
		TimeSpent:  d.Int("timeSpent"),
	}, nil
}
