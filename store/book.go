package store

import (
	"context"
	"strings"
	"time"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

type BookStore struct {
	books docstore.Collection
	now   func() time.Time
}

func NewBookStore(docs docstore.Store) *BookStore {
	return &BookStore{books: docs.Collection(BooksCollection), now: utcNow}
}

// CreateBook stores a new book with zeroed counters and uploadedAt set to now.
// Required fields are validated by the caller.
func (s *BookStore) CreateBook(ctx context.Context, in models.BookInput) (string, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	fields := docstore.Fields{
		"title":         in.Title,
		"author":        in.Author,
		"description":   in.Description,
		"category":      in.Category,
		"language":      in.Language,
		"coverImageUrl": in.CoverImageURL,
		"pdfUrl":        in.PDFURL,
		"pdfFileName":   in.PDFFileName,
		"tags":          tags,
		"uploadedAt":    s.now(),
		"downloads":     0,
		"averageRating": 0.0,
		"totalReviews":  0,
	}
	if in.PageCount != nil {
		fields["pageCount"] = *in.PageCount
	}
	if in.PublishedDate != "" {
		fields["publishedDate"] = in.PublishedDate
	}
	return s.books.Add(ctx, fields)
}

// GetBooks returns the books matching every set filter, in store order.
func (s *BookStore) GetBooks(ctx context.Context, filters models.BookFilters) ([]models.Book, error) {
	q := docstore.Query{}
	if filters.Category != "" {
		q = q.Where("category", filters.Category)
	}
	if filters.Language != "" {
		q = q.Where("language", filters.Language)
	}
	return s.find(ctx, q)
}

// GetAllBooks returns every book, newest upload first.
func (s *BookStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.findNewest(ctx, docstore.Query{}.OrderBy("uploadedAt", true), 0)
}

func (s *BookStore) GetBooksByCategory(ctx context.Context, category string) ([]models.Book, error) {
	return s.findNewest(ctx, docstore.Where("category", category).OrderBy("uploadedAt", true), 0)
}

// RecentBooks returns the n latest uploads. The limit is applied after
// sorting on the decoded uploadedAt, so the whole collection is read.
func (s *BookStore) RecentBooks(ctx context.Context, n int) ([]models.Book, error) {
	return s.findNewest(ctx, docstore.Query{}.OrderBy("uploadedAt", true), n)
}

// SearchBooks does a case-insensitive substring match over title, author and
// description. The store has no text index, so every book is read.
func (s *BookStore) SearchBooks(ctx context.Context, term string) ([]models.Book, error) {
	all, err := s.find(ctx, docstore.Query{})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	out := make([]models.Book, 0, len(all))
	for _, b := range all {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Description), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBookByID returns nil, nil when the book does not exist.
func (s *BookStore) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	doc, err := s.books.Get(ctx, id)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	book := bookFromDoc(*doc)
	return &book, nil
}

// UpdateBook writes only the supplied fields. An update with nothing set
// still reports ErrNotFound for a missing book.
func (s *BookStore) UpdateBook(ctx context.Context, id string, upd models.BookUpdate) error {
	fields := bookUpdateFields(upd)
	if len(fields) == 0 {
		_, err := s.books.Get(ctx, id)
		return err
	}
	return s.books.Update(ctx, id, fields)
}

// DeleteBook removes the book document only. Reviews, favorites and progress
// rows that reference it are left in place.
func (s *BookStore) DeleteBook(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}

// IncrementDownloads is a read-modify-write of the downloads counter.
// Concurrent calls can lose increments; the counter is display-only.
func (s *BookStore) IncrementDownloads(ctx context.Context, id string) error {
	book, err := s.GetBookByID(ctx, id)
	if err != nil || book == nil {
		return err
	}
	return s.books.Update(ctx, id, docstore.Fields{"downloads": book.Downloads + 1})
}

// findNewest runs q and sorts the result on uploadedAt; n > 0 keeps the
// first n books.
func (s *BookStore) findNewest(ctx context.Context, q docstore.Query, n int) ([]models.Book, error) {
	books, err := s.find(ctx, q)
	if err != nil {
		return nil, err
	}
	newestFirst(books, func(b models.Book) time.Time { return b.UploadedAt })
	if n > 0 && len(books) > n {
		books = books[:n]
	}
	return books, nil
}

func (s *BookStore) find(ctx context.Context, q docstore.Query) ([]models.Book, error) {
	docs, err := s.books.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	books := make([]models.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, bookFromDoc(d))
	}
	return books, nil
}

// bookFromDoc maps a books document. uploadedAt arrives either as a native
// timestamp or as an ISO string written by the older upload form.
func bookFromDoc(d docstore.Document) models.Book {
	b := models.Book{
		ID:            d.ID,
		Title:         d.String("title"),
		Author:        d.String("author"),
		Description:   d.String("description"),
		Category:      d.String("category"),
		Language:      d.String("language"),
		CoverImageURL: d.String("coverImageUrl"),
		PDFURL:        d.String("pdfUrl"),
		PDFFileName:   d.String("pdfFileName"),
		PublishedDate: d.String("publishedDate"),
		UploadedAt:    d.Time("uploadedAt"),
		Downloads:     d.Int("downloads"),
		AverageRating: d.Float("averageRating"),
		TotalReviews:  d.Int("totalReviews"),
		Tags:          d.Strings("tags"),
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if d.Has("pageCount") {
		n := d.Int("pageCount")
		b.PageCount = &n
	}
	return b
}

func bookUpdateFields(u models.BookUpdate) docstore.Fields {
	f := docstore.Fields{}
	setString := func(key string, v *string) {
		if v != nil {
			f[key] = *v
		}
	}
	setString("title", u.Title)
	setString("author", u.Author)
	setString("description", u.Description)
	setString("category", u.Category)
	setString("language", u.Language)
	setString("coverImageUrl", u.CoverImageURL)
	setString("pdfUrl", u.PDFURL)
	setString("pdfFileName", u.PDFFileName)
	setString("publishedDate", u.PublishedDate)
	if u.PageCount != nil {
		f["pageCount"] = *u.PageCount
	}
	if u.Tags != nil {
		f["tags"] = *u.Tags
	}
	if u.Downloads != nil {
		f["downloads"] = *u.Downloads
	}
	if u.AverageRating != nil {
		f["averageRating"] = *u.AverageRating
	}
	if u.TotalReviews != nil {
		f["totalReviews"] = *u.TotalReviews
	}
	return f
}
