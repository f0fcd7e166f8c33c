package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/models"
	"github.com/kevinaaaquil/library/backend/store"
)

type ReviewsHandler struct {
	Reviews *store.ReviewStore
	Books   *store.BookStore
	Users   *store.UserStore
}

type ReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

type ReviewCreatedResponse struct {
	ID         string `json:"id"`
	IsApproved bool   `json:"isApproved"`
}

// List returns the approved reviews of a book, newest first.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.GetBookReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serverError(w, r, "list reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// Create stores a pending review. It becomes visible and counts toward the
// book's rating only after moderation approves it.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	text := strings.TrimSpace(req.ReviewText)
	if utf8.RuneCountInString(text) > models.MaxReviewTextLength {
		writeError(w, http.StatusBadRequest, "reviewText must be at most 1000 characters")
		return
	}

	bookID := chi.URLParam(r, "id")
	book, err := h.Books.GetBookByID(r.Context(), bookID)
	if err != nil {
		serverError(w, r, "add review", err)
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}

	reviewID, err := h.Reviews.AddReview(r.Context(), bookID, id.UID, h.reviewerName(r, id), req.Rating, text)
	if err != nil && reviewID == "" {
		serverError(w, r, "add review", err)
		return
	}
	if err != nil {
		// The review is stored; only the rating refresh failed.
		slog.Warn("rating recompute after review failed", "book", bookID, "review", reviewID, "error", err)
	}
	writeJSON(w, http.StatusCreated, ReviewCreatedResponse{ID: reviewID, IsApproved: false})
}

// reviewerName is the display name snapshot stored on the review.
func (h *ReviewsHandler) reviewerName(r *http.Request, id models.Identity) string {
	if user, err := h.Users.GetUser(r.Context(), id.UID); err == nil && user != nil && user.DisplayName != "" {
		return user.DisplayName
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if id.Email != "" {
		return strings.SplitN(id.Email, "@", 2)[0]
	}
	return "Anonymous"
}
