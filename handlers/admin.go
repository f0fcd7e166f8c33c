package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kevinaaaquil/library/backend/service"
	"github.com/kevinaaaquil/library/backend/store"
)

type AdminHandler struct {
	Stats    *store.StatsStore
	Exporter *service.Exporter       // nil when S3 is not configured
	Metadata *service.MetadataClient // nil disables ISBN lookup
}

func (h *AdminHandler) LibraryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.LibraryStats(r.Context())
	if err != nil {
		serverError(w, r, "load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export writes a catalog snapshot now and returns a temporary link to it.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.Exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog export is not configured")
		return
	}
	res, err := h.Exporter.Export(r.Context())
	if err != nil {
		serverError(w, r, "export catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// LookupMetadata serves GET /api/admin/metadata?isbn= with a prefilled BookInput.
func (h *AdminHandler) LookupMetadata(w http.ResponseWriter, r *http.Request) {
	if h.Metadata == nil {
		writeError(w, http.StatusServiceUnavailable, "metadata lookup is not configured")
		return
	}
	isbn := strings.TrimSpace(r.URL.Query().Get("isbn"))
	if isbn == "" {
		writeError(w, http.StatusBadRequest, "isbn is required")
		return
	}
	draft, err := h.Metadata.LookupISBN(r.Context(), isbn)
	if errors.Is(err, service.ErrNoVolume) {
		writeError(w, http.StatusNotFound, "no book found for that isbn")
		return
	}
	if err != nil {
		serverError(w, r, "metadata lookup", err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}
