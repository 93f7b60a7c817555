package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/MarianoCuria/PeliGo/internal/database"
	"github.com/MarianoCuria/PeliGo/models"
	"github.com/MarianoCuria/PeliGo/services/favorites"
)

func newFavoritesHandler(t *testing.T) *FavoritesHandler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(database.Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := favorites.NewService(database.NewFavoritesRepository(db.Connection()))
	return NewFavoritesHandler(svc)
}

func newFavoritesRouter(h *FavoritesHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/users/{userID}/favorites", h.List).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{userID}/favorites", h.Add).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{userID}/favorites/{id}", h.Status).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{userID}/favorites/{id}", h.Remove).Methods(http.MethodDelete)
	router.HandleFunc("/api/users/{userID}/recent-searches", h.RecordSearch).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{userID}/recent-searches", h.RecentSearches).Methods(http.MethodGet)
	return router
}

func TestFavoritesAddListRemoveFlow(t *testing.T) {
	router := newFavoritesRouter(newFavoritesHandler(t))

	body := `{"id":"m-603","tmdbId":603,"type":"movie","title":"Matrix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/default/favorites", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/default/favorites", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var items []models.FavoriteItem
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 1 || items[0].Title.ID != "m-603" {
		t.Fatalf("unexpected favorites: %+v", items)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/users/default/favorites/m-603", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/default/favorites", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty list after remove, got %q", got)
	}
}

func TestFavoritesStatusEndpoint(t *testing.T) {
	router := newFavoritesRouter(newFavoritesHandler(t))

	body := `{"id":"m-603","tmdbId":603,"type":"movie","title":"Matrix"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/default/favorites", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("failed to seed favorite: %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/default/favorites/m-603", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var status map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !status["favorite"] {
		t.Fatalf("expected favorite=true, got %v", status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/default/favorites/m-999", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status["favorite"] {
		t.Fatalf("expected favorite=false for unknown title, got %v", status)
	}
}

func TestFavoritesAddRejectsInvalidBody(t *testing.T) {
	router := newFavoritesRouter(newFavoritesHandler(t))

	req := httptest.NewRequest(http.MethodPost, "/api/users/default/favorites", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid body, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/users/default/favorites", strings.NewReader(`{"title":"Sin ID"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", rr.Code)
	}
}

func TestRecentSearchesEndpoint(t *testing.T) {
	h := newFavoritesHandler(t)
	router := newFavoritesRouter(h)

	for _, q := range []string{"dune", "matrix"} {
		req := httptest.NewRequest(http.MethodPost, "/api/users/default/recent-searches",
			strings.NewReader(`{"query":"`+q+`"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("failed to record search %q: %d", q, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/default/recent-searches", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var items []models.RecentSearch
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 2 || items[0].Query != "matrix" {
		t.Fatalf("unexpected recent searches: %+v", items)
	}
}
