package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevinaaaquil/library/backend/models"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

var ErrNoVolume = errors.New("no volume found")

type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			Categories          []string `json:"categories"`
			Language            string   `json:"language"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// MetadataClient prefills the book upload form from Google Books.
type MetadataClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewMetadataClient() *MetadataClient {
	// Short timeout so a hung lookup does not block the admin form.
	return &MetadataClient{BaseURL: googleBooksBase, HTTP: &http.Client{Timeout: 15 * time.Second}}
}

// LookupISBN returns a draft BookInput. The caller still has to supply the
// Drive PDF link and pick a library category.
func (c *MetadataClient) LookupISBN(ctx context.Context, isbn string) (*models.BookInput, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.TotalItems == 0 || len(data.Items) == 0 {
		return nil, fmt.Errorf("%w for isbn %s", ErrNoVolume, isbn)
	}
	vi := data.Items[0].VolumeInfo

	in := &models.BookInput{
		Title:         vi.Title,
		Author:        strings.Join(vi.Authors, ", "),
		Description:   strings.TrimSpace(vi.Description),
		Language:      languageName(vi.Language),
		PublishedDate: vi.PublishedDate,
		Tags:          vi.Categories,
	}
	if vi.Subtitle != "" {
		in.Title = in.Title + ": " + vi.Subtitle
	}
	if vi.PageCount > 0 {
		n := vi.PageCount
		in.PageCount = &n
	}
	coverISBN := isbn
	for _, id := range vi.IndustryIdentifiers {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			coverISBN = id.Identifier
			break
		}
	}
	in.CoverImageURL = openLibraryCoverURL(coverISBN, "L")
	if in.Tags == nil {
		in.Tags = []string{}
	}
	return in, nil
}

var languageNames = map[string]string{
	"ar": "Arabic",
	"en": "English",
	"ur": "Urdu",
	"fr": "French",
	"tr": "Turkish",
	"ms": "Malay",
	"id": "Indonesian",
}

// languageName maps the ISO 639-1 code Google Books returns to the display
// name the catalog uses; unknown codes are returned as-is.
func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// openLibraryCoverURL returns a direct cover image URL by ISBN. Size: S, M or L.
func openLibraryCoverURL(isbn, size string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if clean == "" {
		return ""
	}
	return "https://covers.openlibrary.org/b/isbn/" + url.PathEscape(clean) + "-" + size + ".jpg"
}
