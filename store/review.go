package store

import (
	"context"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

// ReviewStore writes reviews and keeps the owning book's averageRating and
// totalReviews in line with its approved reviews. Approval itself is done
// outside this service by flipping isApproved in the store.
type ReviewStore struct {
	reviews docstore.Collection
	books   docstore.Collection
	now     func() time.Time
}

func NewReviewStore(docs docstore.Store) *ReviewStore {
	return &ReviewStore{
		reviews: docs.Collection(ReviewsCollection),
		books:   docs.Collection(BooksCollection),
		now:     utcNow,
	}
}

// AddReview stores a pending review and then recomputes the book's rating.
// The caller validates rating range and text length. When recomputation
// fails the review is already stored; its id is returned with the error.
func (s *ReviewStore) AddReview(ctx context.Context, bookID, userID, userName string, rating int, text string) (string, error) {
	id, err := s.reviews.Add(ctx, docstore.Fields{
		"bookId":     bookID,
		"userId":     userID,
		"userName":   userName,
		"rating":     rating,
		"reviewText": text,
		"isApproved": false,
		"createdAt":  s.now(),
	})
	if err != nil {
		return "", err
	}
	// A pending review cannot move the approved-only average, but the
	// recomputation still runs on every insert.
	if err := s.RecomputeRating(ctx, bookID); err != nil {
		return id, err
	}
	return id, nil
}

// GetBookReviews returns approved reviews only, newest first.
func (s *ReviewStore) GetBookReviews(ctx context.Context, bookID string) ([]models.Review, error) {
	docs, err := s.reviews.Find(ctx, docstore.Where("bookId", bookID).
		Where("isApproved", true).
		OrderBy("createdAt", true))
	if err != nil {
		return nil, err
	}
	reviews := make([]models.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, reviewFromDoc(d))
	}
	newestFirst(reviews, func(r models.Review) time.Time { return r.CreatedAt })
	return reviews, nil
}

// RecomputeRating sets the book's averageRating (one decimal) and
// totalReviews from its approved reviews. With no approved reviews the book
// keeps whatever stats it already has.
func (s *ReviewStore) RecomputeRating(ctx context.Context, bookID string) error {
	approved, err := s.GetBookReviews(ctx, bookID)
	if err != nil {
		return err
	}
	if len(approved) == 0 {
		return nil
	}
	sum := 0
	for _, r := range approved {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(approved))
	return s.books.Update(ctx, bookID, docstore.Fields{
		"averageRating": roundTenth(avg),
		"totalReviews":  len(approved),
	})
}

func reviewFromDoc(d docstore.Document) models.Review {
	return models.Review{
		ID:         d.ID,
		BookID:     d.String("bookId"),
		UserID:     d.String("userId"),
		UserName:   d.String("userName"),
		Rating:     d.Int("rating"),
		ReviewText: d.String("reviewText"),
		IsApproved: d.Bool("isApproved"),
		CreatedAt:  d.Time("createdAt"),
	}
}
