package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

func TestBookStore_CreateAndGet(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()

	pages := 320
	in := sampleBook("Forty Hadith")
	in.PageCount = &pages
	in.Tags = []string{"hadith", "classic"}
	id := createBook(t, s, in)

	book, err := s.Books.GetBookByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, book)

	assert.Equal(t, id, book.ID)
	assert.Equal(t, "Forty Hadith", book.Title)
	assert.Equal(t, 0, book.Downloads)
	assert.Equal(t, 0.0, book.AverageRating)
	assert.Equal(t, 0, book.TotalReviews)
	assert.False(t, book.UploadedAt.IsZero())
	require.NotNil(t, book.PageCount)
	assert.Equal(t, 320, *book.PageCount)
	assert.Equal(t, []string{"hadith", "classic"}, book.Tags)
}

func TestBookStore_GetBookByID_NotFound(t *testing.T) {
	_, s := setupTestStores(t)

	book, err := s.Books.GetBookByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, book)
}

func TestBookStore_GetBooksFilters(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()

	a := sampleBook("Arabic Fiqh")
	b := sampleBook("Urdu Seerah")
	b.Language = "Urdu"
	c := sampleBook("English Novel")
	c.Category = models.CategoryLeisure
	c.Language = "English"
	for _, in := range []models.BookInput{a, b, c} {
		createBook(t, s, in)
	}

	all, err := s.Books.GetBooks(ctx, models.BookFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	islamic, err := s.Books.GetBooks(ctx, models.BookFilters{Category: models.CategoryIslamicStudies})
	require.NoError(t, err)
	assert.Len(t, islamic, 2)

	both, err := s.Books.GetBooks(ctx, models.BookFilters{Category: models.CategoryIslamicStudies, Language: "Urdu"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Urdu Seerah", both[0].Title)

	none, err := s.Books.GetBooks(ctx, models.BookFilters{Category: models.CategoryAcademic})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestBookStore_OrderedListings(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()

	createBook(t, s, sampleBook("First"))
	second := sampleBook("Second")
	second.Category = models.CategoryAcademic
	createBook(t, s, second)
	createBook(t, s, sampleBook("Third"))

	all, err := s.Books.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Third", "Second", "First"}, bookTitles(all))

	islamic, err := s.Books.GetBooksByCategory(ctx, models.CategoryIslamicStudies)
	require.NoError(t, err)
	assert.Equal(t, []string{"Third", "First"}, bookTitles(islamic))

	recent, err := s.Books.RecentBooks(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Third", "Second"}, bookTitles(recent))
}

func TestBookStore_LegacyStringUploadedAt(t *testing.T) {
	mem, s := setupTestStores(t)
	ctx := context.Background()

	require.NoError(t, mem.Collection(BooksCollection).Set(ctx, "legacy", docstore.Fields{
		"title":         "Legacy Upload",
		"uploadedAt":    "2024-11-02T08:30:00.000Z",
		"downloads":     int64(7),
		"averageRating": int64(4),
	}))

	book, err := s.Books.GetBookByID(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, time.Date(2024, 11, 2, 8, 30, 0, 0, time.UTC), book.UploadedAt)
	assert.Equal(t, 7, book.Downloads)
	assert.Equal(t, 4.0, book.AverageRating)
	assert.Nil(t, book.PageCount)
	assert.Equal(t, []string{}, book.Tags)
}

func TestBookStore_SearchBooks(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()

	a := sampleBook("Riyad as-Salihin")
	b := sampleBook("Introduction to Algorithms")
	b.Author = "Cormen"
	b.Description = "Data structures and analysis."
	createBook(t, s, a)
	createBook(t, s, b)

	found, err := s.Books.SearchBooks(ctx, "CORMEN")
	require.NoError(t, err)
	assert.Equal(t, []string{"Introduction to Algorithms"}, bookTitles(found))

	found, err = s.Books.SearchBooks(ctx, "forty hadith")
	require.NoError(t, err)
	assert.Equal(t, []string{"Riyad as-Salihin"}, bookTitles(found))

	found, err = s.Books.SearchBooks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.Books.SearchBooks(ctx, "quantum")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestBookStore_UpdateMergesSuppliedFields(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()
	id := createBook(t, s, sampleBook("Draft Title"))

	title := "Final Title"
	tags := []string{"edited"}
	require.NoError(t, s.Books.UpdateBook(ctx, id, models.BookUpdate{Title: &title, Tags: &tags}))

	book, err := s.Books.GetBookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Final Title", book.Title)
	assert.Equal(t, []string{"edited"}, book.Tags)
	assert.Equal(t, "Imam an-Nawawi", book.Author, "unsupplied fields are untouched")

	assert.NoError(t, s.Books.UpdateBook(ctx, id, models.BookUpdate{}), "empty update is a no-op")

	// Derived fields are not protected.
	avg := 1.5
	require.NoError(t, s.Books.UpdateBook(ctx, id, models.BookUpdate{AverageRating: &avg}))
	book, err = s.Books.GetBookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1.5, book.AverageRating)

	assert.ErrorIs(t, s.Books.UpdateBook(ctx, "missing", models.BookUpdate{Title: &title}), docstore.ErrNotFound)
}

func TestBookStore_DeleteDoesNotCascade(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()
	id := createBook(t, s, sampleBook("To Delete"))

	require.NoError(t, s.Favorites.AddFavorite(ctx, "u1", id))
	_, err := s.Reviews.AddReview(ctx, id, "u1", "Aisha", 5, "Beautiful")
	require.NoError(t, err)

	require.NoError(t, s.Books.DeleteBook(ctx, id))

	book, err := s.Books.GetBookByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, book)

	fav, err := s.Favorites.IsFavorite(ctx, "u1", id)
	require.NoError(t, err)
	assert.True(t, fav, "favorites of a deleted book are left behind")
}

func TestBookStore_IncrementDownloads(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()
	id := createBook(t, s, sampleBook("Popular"))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Books.IncrementDownloads(ctx, id))
	}
	book, err := s.Books.GetBookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, book.Downloads)

	assert.NoError(t, s.Books.IncrementDownloads(ctx, "missing"))
}

func bookTitles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBookStore_EmptyUpdateChecksExistence(t *testing.T) {
	_, s := setupTestStores(t)
	ctx := context.Background()
	id := createBook(t, s, sampleBook("Untouched"))

	assert.NoError(t, s.Books.UpdateBook(ctx, id, models.BookUpdate{}))
	assert.ErrorIs(t, s.Books.UpdateBook(ctx, "missing", models.BookUpdate{}), docstore.ErrNotFound)
}
