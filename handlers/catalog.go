package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MarianoCuria/PeliGo/models"
	catalogpkg "github.com/MarianoCuria/PeliGo/services/catalog"
)

type catalogService interface {
	Search(ctx context.Context, query string, page int) (*models.SearchResponse, error)
	Trending(ctx context.Context, mediaType, period string) ([]models.Title, error)
	NowPlaying(ctx context.Context) ([]models.Title, error)
	Home(ctx context.Context) (*models.HomeResponse, error)
	TitleDetail(ctx context.Context, id int64, kind string) (*models.TitleDetailResponse, error)
}

var _ catalogService = (*catalogpkg.Service)(nil)

// searchRecorder stores search queries in the per-user history. Recording is
// best effort and never fails a search request.
type searchRecorder interface {
	RecordSearch(userID, query string) error
}

type CatalogHandler struct {
	Service  catalogService
	Searches searchRecorder
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// SetSearchRecorder sets the recent-searches recorder.
func (h *CatalogHandler) SetSearchRecorder(recorder searchRecorder) {
	h.Searches = recorder
}

func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.Service.Home(r.Context())
	if err != nil {
		h.writeServiceError(w, "home", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(home)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	page := 1
	if pageStr := strings.TrimSpace(r.URL.Query().Get("page")); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}

	results, err := h.Service.Search(r.Context(), query, page)
	if err != nil {
		h.writeServiceError(w, "search", err)
		return
	}

	if h.Searches != nil && strings.TrimSpace(query) != "" {
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		if err := h.Searches.RecordSearch(userID, query); err != nil {
			log.Printf("[catalog] failed to record search query=%q: %v", query, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	mediaType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	period := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period")))

	titles, err := h.Service.Trending(r.Context(), mediaType, period)
	if err != nil {
		h.writeServiceError(w, "trending", err)
		return
	}

	if titles == nil {
		titles = []models.Title{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(titles)
}

func (h *CatalogHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	titles, err := h.Service.NowPlaying(r.Context())
	if err != nil {
		h.writeServiceError(w, "now playing", err)
		return
	}

	if titles == nil {
		titles = []models.Title{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(titles)
}

func (h *CatalogHandler) TitleDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	mediaType := strings.ToLower(strings.TrimSpace(vars["type"]))
	if mediaType != models.MediaMovie && mediaType != models.MediaSeries {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid media type"})
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(vars["id"]), 10, 64)
	if err != nil || id <= 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid title id"})
		return
	}

	detail, err := h.Service.TitleDetail(r.Context(), id, mediaType)
	if err != nil {
		h.writeServiceError(w, "title detail", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// writeServiceError maps a missing API key to 503 and upstream failures to
// 502, always with a JSON body.
func (h *CatalogHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, catalogpkg.ErrNotConfigured) {
		status = http.StatusServiceUnavailable
	} else {
		log.Printf("[catalog] %s error: %v", op, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
