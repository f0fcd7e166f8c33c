package models

import "time"

// Categories offered by the upload form. Category is stored as a plain
// string, so documents written by older clients may carry other values.
const (
	CategoryIslamicStudies = "Islamic Studies"
	CategoryAcademic       = "Academic"
	CategoryLeisure        = "Leisure"
)

var Categories = []string{CategoryIslamicStudies, CategoryAcademic, CategoryLeisure}

type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Language      string    `json:"language"`
	CoverImageURL string    `json:"coverImageUrl"`
	PDFURL        string    `json:"pdfUrl"`
	PDFFileName   string    `json:"pdfFileName"`
	PageCount     *int      `json:"pageCount,omitempty"`
	PublishedDate string    `json:"publishedDate,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt"`
	Downloads     int       `json:"downloads"`
	AverageRating float64   `json:"averageRating"` // mean of approved review ratings, one decimal
	TotalReviews  int       `json:"totalReviews"`  // number of approved reviews
	Tags          []string  `json:"tags"`
}

// BookInput is what an administrator supplies when creating a book. The
// counters and uploadedAt are initialised by the store layer.
type BookInput struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Language      string   `json:"language" validate:"required"`
	CoverImageURL string   `json:"coverImageUrl" validate:"required,url"`
	PDFURL        string   `json:"pdfUrl" validate:"required,url"`
	PDFFileName   string   `json:"pdfFileName"`
	PageCount     *int     `json:"pageCount,omitempty" validate:"omitempty,gt=0"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Tags          []string `json:"tags"`
}

// BookUpdate carries a partial update; nil fields are left untouched.
// The derived fields are accepted as-is, nothing recomputes or guards them.
type BookUpdate struct {
	Title         *string   `json:"title,omitempty"`
	Author        *string   `json:"author,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Language      *string   `json:"language,omitempty"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty"`
	PDFURL        *string   `json:"pdfUrl,omitempty"`
	PDFFileName   *string   `json:"pdfFileName,omitempty"`
	PageCount     *int      `json:"pageCount,omitempty"`
	PublishedDate *string   `json:"publishedDate,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Downloads     *int      `json:"downloads,omitempty"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	TotalReviews  *int      `json:"totalReviews,omitempty"`
}

// BookFilters holds the equality constraints recognised by a book listing.
// An empty field places no constraint; set fields are ANDed.
type BookFilters struct {
	Category string
	Language string
}
