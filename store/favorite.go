package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
)

// FavoriteStore keeps one row per (userId, bookId) by convention only: the
// store has no uniqueness constraint and AddFavorite does not check.
type FavoriteStore struct {
	favorites docstore.Collection
	now       func() time.Time
}

func NewFavoriteStore(docs docstore.Store) *FavoriteStore {
	return &FavoriteStore{favorites: docs.Collection(FavoritesCollection), now: utcNow}
}

// AddFavorite inserts unconditionally. Callers check IsFavorite first; two
// concurrent adds for the same pair leave two rows.
func (s *FavoriteStore) AddFavorite(ctx context.Context, userID, bookID string) error {
	_, err := s.favorites.Add(ctx, docstore.Fields{
		"userId":  userID,
		"bookId":  bookID,
		"addedAt": s.now(),
	})
	return err
}

// RemoveFavorite deletes every row for the pair, so duplicates are cleared
// too. Removing a pair that is not favorited is a no-op.
func (s *FavoriteStore) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	docs, err := s.favorites.Find(ctx, pairQuery(userID, bookID))
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.favorites.Delete(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *FavoriteStore) IsFavorite(ctx context.Context, userID, bookID string) (bool, error) {
	docs, err := s.favorites.Find(ctx, pairQuery(userID, bookID).Take(1))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// GetUserFavorites returns the favorited book ids in store order.
func (s *FavoriteStore) GetUserFavorites(ctx context.Context, userID string) ([]string, error) {
	docs, err := s.favorites.Find(ctx, docstore.Where("userId", userID))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.String("bookId"))
	}
	return ids, nil
}

func pairQuery(userID, bookID string) docstore.Query {
	return docstore.Where("userId", userID).Where("bookId", bookID)
}
