package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kevinaaaquil/library/backend/models"
)

const exportLinkTTL = 24 * time.Hour

// CatalogSource yields the books to export; *store.BookStore satisfies it.
type CatalogSource interface {
	GetAllBooks(ctx context.Context) ([]models.Book, error)
}

// ObjectStorage is the part of S3Service the exporter needs.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration, responseFilename string) (string, error)
}

type CatalogSnapshot struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Count      int           `json:"count"`
	Books      []models.Book `json:"books"`
}

type ExportResult struct {
	Key   string    `json:"key"`
	URL   string    `json:"url"`
	Books int       `json:"books"`
	At    time.Time `json:"exportedAt"`
}

// Exporter writes a JSON snapshot of the whole catalog to object storage.
type Exporter struct {
	Source  CatalogSource
	Storage ObjectStorage
	Prefix  string
	Now     func() time.Time
}

func (e *Exporter) Export(ctx context.Context) (*ExportResult, error) {
	now := time.Now().UTC()
	if e.Now != nil {
		now = e.Now()
	}
	books, err := e.Source.GetAllBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(CatalogSnapshot{ExportedAt: now, Count: len(books), Books: books}); err != nil {
		return nil, err
	}

	name := "catalog-" + now.Format("20060102T150405Z") + ".json"
	key := e.Prefix + name
	if err := e.Storage.Put(ctx, key, &buf, "application/json"); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	url, err := e.Storage.PresignedGetURL(ctx, key, exportLinkTTL, name)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &ExportResult{Key: key, URL: url, Books: len(books), At: now}, nil
}

// ExportScheduler runs the exporter on a standard five-field cron schedule.
type ExportScheduler struct {
	exporter *Exporter
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

func NewExportScheduler(exporter *Exporter) *ExportScheduler {
	return &ExportScheduler{
		exporter: exporter,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

func (s *ExportScheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.running = true
	slog.Info("catalog export scheduled", "schedule", schedule)
	return nil
}

// Stop waits for a running export to finish.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

func (s *ExportScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	res, err := s.exporter.Export(ctx)
	if err != nil {
		slog.Error("scheduled catalog export failed", "error", err)
		return
	}
	slog.Info("catalog exported", "key", res.Key, "books", res.Books)
}
