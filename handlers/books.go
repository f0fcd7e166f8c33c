package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
	"github.com/kevinaaaquil/library/backend/store"
	"github.com/kevinaaaquil/library/backend/utils"
)

type BooksHandler struct {
	Books *store.BookStore
}

// BookView is a book with the Drive links resolved for the browser.
type BookView struct {
	models.Book
	ReaderURL string `json:"readerUrl,omitempty"`
	CoverURL  string `json:"coverUrl"`
}

func newBookView(b models.Book) BookView {
	v := BookView{Book: b, CoverURL: utils.DriveDirectImageURL(b.CoverImageURL)}
	if embed, ok := utils.DriveEmbedURL(b.PDFURL); ok {
		v.ReaderURL = embed
	}
	return v
}

func newBookViews(books []models.Book) []BookView {
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		out = append(out, newBookView(b))
	}
	return out
}

// List serves GET /api/books. category and language are equality filters,
// q is a case-insensitive search and sort=recent orders by upload time.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := models.BookFilters{
		Category: strings.TrimSpace(query.Get("category")),
		Language: strings.TrimSpace(query.Get("language")),
	}
	term := strings.TrimSpace(query.Get("q"))

	var books []models.Book
	var err error
	switch {
	case term != "":
		books, err = h.Books.SearchBooks(r.Context(), term)
		books = applyFilters(books, filters)
	case query.Get("sort") == "recent" && filters.Category != "":
		books, err = h.Books.GetBooksByCategory(r.Context(), filters.Category)
		books = applyFilters(books, models.BookFilters{Language: filters.Language})
	case query.Get("sort") == "recent":
		books, err = h.Books.GetAllBooks(r.Context())
		books = applyFilters(books, filters)
	default:
		books, err = h.Books.GetBooks(r.Context(), filters)
	}
	if err != nil {
		serverError(w, r, "list books", err)
		return
	}
	writeJSON(w, http.StatusOK, newBookViews(books))
}

func applyFilters(books []models.Book, f models.BookFilters) []models.Book {
	if f.Category == "" && f.Language == "" {
		return books
	}
	out := books[:0:0]
	for _, b := range books {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		if f.Language != "" && b.Language != f.Language {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newBookView(*book))
}

// Create serves POST /api/admin/books.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.BookInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !slices.Contains(models.Categories, in.Category) {
		writeError(w, http.StatusBadRequest, "category must be one of: "+strings.Join(models.Categories, ", "))
		return
	}
	id, err := h.Books.CreateBook(r.Context(), in)
	if err != nil {
		serverError(w, r, "create book", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update serves PATCH /api/admin/books/{id}; only supplied fields change.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.BookUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	if upd.Category != nil && !slices.Contains(models.Categories, *upd.Category) {
		writeError(w, http.StatusBadRequest, "category must be one of: "+strings.Join(models.Categories, ", "))
		return
	}
	err := h.Books.UpdateBook(r.Context(), chi.URLParam(r, "id"), upd)
	if errors.Is(err, docstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(w, r, "update book", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the book only; its reviews, favorites and progress rows
// stay behind.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadBook(w, r); !ok {
		return
	}
	if err := h.Books.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		serverError(w, r, "delete book", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type DownloadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// Download counts the download and returns the Drive link to redirect to.
func (h *BooksHandler) Download(w http.ResponseWriter, r *http.Request) {
	book, ok := h.loadBook(w, r)
	if !ok {
		return
	}
	if err := h.Books.IncrementDownloads(r.Context(), book.ID); err != nil {
		serverError(w, r, "record download", err)
		return
	}
	writeJSON(w, http.StatusOK, DownloadResponse{
		URL:      utils.DriveDownloadURL(book.PDFURL),
		FileName: book.PDFFileName,
	})
}

// loadBook writes the 404 or 500 itself and reports whether to continue.
func (h *BooksHandler) loadBook(w http.ResponseWriter, r *http.Request) (*models.Book, bool) {
	book, err := h.Books.GetBookByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serverError(w, r, "load book", err)
		return nil, false
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book not found")
		return nil, false
	}
	return book, true
}
