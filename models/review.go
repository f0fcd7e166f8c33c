package models

import "time"

const (
	MinRating           = 1
	MaxRating           = 5
	MaxReviewTextLength = 1000
)

// Review is a reader's rating of a book. UserName is a snapshot taken when
// the review was written and is not kept in sync with the user document.
type Review struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}
