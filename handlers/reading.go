package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/store"
)

// ReadingHandler serves the per-user favorites, reading progress and goals.
type ReadingHandler struct {
	Books     *store.BookStore
	Favorites *store.FavoriteStore
	Progress  *store.ProgressStore
	Goals     *store.GoalStore
}

type FavoriteStatus struct {
	BookID     string `json:"bookId"`
	IsFavorite bool   `json:"isFavorite"`
}

func (h *ReadingHandler) FavoriteStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := chi.URLParam(r, "id")
	fav, err := h.Favorites.IsFavorite(r.Context(), uid, bookID)
	if err != nil {
		serverError(w, r, "check favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteStatus{BookID: bookID, IsFavorite: fav})
}

// AddFavorite is idempotent: it checks before inserting, so repeat calls do
// not add rows. Two concurrent first calls can still both insert.
func (h *ReadingHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := chi.URLParam(r, "id")
	book, err := h.Books.GetBookByID(r.Context(), bookID)
	if err != nil {
		serverError(w, r, "add favorite", err)
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	fav, err := h.Favorites.IsFavorite(r.Context(), uid, bookID)
	if err != nil {
		serverError(w, r, "add favorite", err)
		return
	}
	if !fav {
		if err := h.Favorites.AddFavorite(r.Context(), uid, bookID); err != nil {
			serverError(w, r, "add favorite", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, FavoriteStatus{BookID: bookID, IsFavorite: true})
}

func (h *ReadingHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookID := chi.URLParam(r, "id")
	if err := h.Favorites.RemoveFavorite(r.Context(), uid, bookID); err != nil {
		serverError(w, r, "remove favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteStatus{BookID: bookID, IsFavorite: false})
}

// ListFavorites resolves the caller's favorited ids to books. Ids whose book
// has been deleted are skipped.
func (h *ReadingHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	ids, err := h.Favorites.GetUserFavorites(r.Context(), uid)
	if err != nil {
		serverError(w, r, "list favorites", err)
		return
	}
	books := make([]BookView, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		book, err := h.Books.GetBookByID(r.Context(), id)
		if err != nil {
			serverError(w, r, "list favorites", err)
			return
		}
		if book != nil {
			books = append(books, newBookView(*book))
		}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *ReadingHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, err := h.Progress.GetReadingProgress(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		serverError(w, r, "load progress", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "no reading progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type ProgressRequest struct {
	LastPage   int `json:"lastPage" validate:"gte=0"`
	TotalPages int `json:"totalPages" validate:"gte=0"`
}

// SaveProgress stores lastPage as given, even past totalPages.
func (h *ReadingHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req ProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bookID := chi.URLParam(r, "id")
	if err := h.Progress.SaveReadingProgress(r.Context(), uid, bookID, req.LastPage, req.TotalPages); err != nil {
		serverError(w, r, "save progress", err)
		return
	}
	p, err := h.Progress.GetReadingProgress(r.Context(), uid, bookID)
	if err != nil {
		serverError(w, r, "save progress", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ReadingHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	goal, err := h.Goals.GetActiveGoal(r.Context(), uid)
	if err != nil {
		serverError(w, r, "load goal", err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "no active goal")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

type GoalRequest struct {
	Type   string `json:"type" validate:"required,oneof=books pages"`
	Target int    `json:"target" validate:"gt=0"`
	Period string `json:"period" validate:"required,oneof=weekly monthly"`
}

// CreateGoal replaces the caller's active goal.
func (h *ReadingHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.Goals.CreateGoal(r.Context(), uid, req.Type, req.Target, req.Period)
	if err != nil {
		serverError(w, r, "create goal", err)
		return
	}
	goal, err := h.Goals.GetGoal(r.Context(), id)
	if err != nil {
		serverError(w, r, "create goal", err)
		return
	}
	if goal == nil {
		serverError(w, r, "create goal", fmt.Errorf("goal %s missing after insert", id))
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return uid, ok
}
