package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/library/backend/models"
)

type fakeCatalog struct {
	books []models.Book
	err   error
}

func (f *fakeCatalog) GetAllBooks(context.Context) ([]models.Book, error) { return f.books, f.err }

type fakeStorage struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = b
	return nil
}

func (f *fakeStorage) PresignedGetURL(_ context.Context, key string, _ time.Duration, name string) (string, error) {
	return "https://exports.example.com/" + key + "?filename=" + name, nil
}

func TestExporter_Export(t *testing.T) {
	at := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)
	storage := &fakeStorage{}
	e := &Exporter{
		Source:  &fakeCatalog{books: []models.Book{{ID: "b1", Title: "Al-Muwatta", Tags: []string{}}}},
		Storage: storage,
		Prefix:  "exports/",
		Now:     func() time.Time { return at },
	}

	res, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "exports/catalog-20250701T030000Z.json", res.Key)
	assert.Equal(t, 1, res.Books)
	assert.Contains(t, res.URL, "filename=catalog-20250701T030000Z.json")

	var snap CatalogSnapshot
	require.NoError(t, json.Unmarshal(storage.objects[res.Key], &snap))
	assert.Equal(t, 1, snap.Count)
	assert.True(t, at.Equal(snap.ExportedAt))
	assert.Equal(t, "Al-Muwatta", snap.Books[0].Title)
}

func TestExporter_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := (&Exporter{Source: &fakeCatalog{err: boom}, Storage: &fakeStorage{}}).Export(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = (&Exporter{Source: &fakeCatalog{}, Storage: &fakeStorage{putErr: boom}}).Export(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestExportScheduler_StartStop(t *testing.T) {
	s := NewExportScheduler(&Exporter{Source: &fakeCatalog{}, Storage: &fakeStorage{}})

	assert.Error(t, s.Start("every tuesday"))
	require.NoError(t, s.Start("0 3 * * *"))
	require.NoError(t, s.Start("0 3 * * *"), "second start is a no-op")
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
	s.Stop()
}

type fakeSender struct {
	sent []*mail.Message
}

func (f *fakeSender) DialAndSend(m ...*mail.Message) error {
	f.sent = append(f.sent, m...)
	return nil
}

func TestContactNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &ContactNotifier{Sender: sender, From: "noreply@library.example.com", To: "admin@library.example.com"}

	err := n.NotifyContact(context.Background(), models.Contact{
		Name:      "Bilal",
		Email:     "bilal@example.com",
		Message:   "Is Sahih Muslim available in Urdu?",
		Timestamp: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"admin@library.example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"bilal@example.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"Library contact: Bilal"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Is Sahih Muslim available in Urdu?")
}

func TestContactNotifier_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	n := &ContactNotifier{Sender: sender, From: "a@example.com", To: "b@example.com"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.NotifyContact(ctx, models.Contact{}), context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestMetadataClient_LookupISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9780860373230", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalItems": 1,
			"items": [{"volumeInfo": {
				"title": "The Sealed Nectar",
				"subtitle": "Biography of the Prophet",
				"authors": ["Safiur Rahman Mubarakpuri"],
				"publishedDate": "2002",
				"description": "  Winner of the first prize.  ",
				"pageCount": 590,
				"categories": ["Religion"],
				"language": "en",
				"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780860373230"}]
			}}]
		}`))
	}))
	defer srv.Close()

	c := &MetadataClient{BaseURL: srv.URL, HTTP: srv.Client()}
	in, err := c.LookupISBN(context.Background(), " 978-0860373230 ")
	require.NoError(t, err)

	assert.Equal(t, "The Sealed Nectar: Biography of the Prophet", in.Title)
	assert.Equal(t, "Safiur Rahman Mubarakpuri", in.Author)
	assert.Equal(t, "Winner of the first prize.", in.Description)
	assert.Equal(t, "English", in.Language)
	require.NotNil(t, in.PageCount)
	assert.Equal(t, 590, *in.PageCount)
	assert.Equal(t, []string{"Religion"}, in.Tags)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780860373230-L.jpg", in.CoverImageURL)
	assert.Empty(t, in.PDFURL)
}

func TestMetadataClient_Failures(t *testing.T) {
	status := http.StatusOK
	body := `{"totalItems":0}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer srv.Close()
	c := &MetadataClient{BaseURL: srv.URL, HTTP: srv.Client()}

	_, err := c.LookupISBN(context.Background(), "123")
	assert.ErrorIs(t, err, ErrNoVolume)

	status = http.StatusServiceUnavailable
	_, err = c.LookupISBN(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "503"))

	_, err = c.LookupISBN(context.Background(), "  ")
	assert.Error(t, err)
}
