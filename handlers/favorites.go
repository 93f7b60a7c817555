package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MarianoCuria/PeliGo/models"
	favoritespkg "github.com/MarianoCuria/PeliGo/services/favorites"
)

type favoritesService interface {
	List(userID string) ([]models.FavoriteItem, error)
	Add(userID string, title models.Title) error
	Remove(userID, titleID string) error
	IsFavorite(userID, titleID string) (bool, error)
	RecentSearches(userID string) ([]models.RecentSearch, error)
	RecordSearch(userID, query string) error
}

var _ favoritesService = (*favoritespkg.Service)(nil)

type FavoritesHandler struct {
	Service favoritesService
}

func NewFavoritesHandler(s favoritesService) *FavoritesHandler {
	return &FavoritesHandler{Service: s}
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(requestUserID(r))
	if err != nil {
		log.Printf("[favorites] list error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var title models.Title
	if err := json.NewDecoder(r.Body).Decode(&title); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Add(requestUserID(r), title); err != nil {
		if errors.Is(err, favoritespkg.ErrMissingTitleID) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[favorites] add error titleId=%s: %v", title.ID, err)
		h.writeError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	titleID := strings.TrimSpace(mux.Vars(r)["id"])

	if err := h.Service.Remove(requestUserID(r), titleID); err != nil {
		if errors.Is(err, favoritespkg.ErrMissingTitleID) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[favorites] remove error titleId=%s: %v", titleID, err)
		h.writeError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Status reports whether one title is in the user's favorites, so detail
// pages can render the toggle without fetching the whole list.
func (h *FavoritesHandler) Status(w http.ResponseWriter, r *http.Request) {
	titleID := strings.TrimSpace(mux.Vars(r)["id"])

	ok, err := h.Service.IsFavorite(requestUserID(r), titleID)
	if err != nil {
		if errors.Is(err, favoritespkg.ErrMissingTitleID) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[favorites] status error titleId=%s: %v", titleID, err)
		h.writeError(w, http.StatusInternalServerError, "failed to check favorite")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"favorite": ok})
}

// RecordSearch lets clients push a query into the history explicitly, e.g.
// when a search was served from a local cache.
func (h *FavoritesHandler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RecordSearch(requestUserID(r), body.Query); err != nil {
		if errors.Is(err, favoritespkg.ErrMissingQuery) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[favorites] record search error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to record search")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *FavoritesHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.RecentSearches(requestUserID(r))
	if err != nil {
		log.Printf("[favorites] recent searches error: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list recent searches")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *FavoritesHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func requestUserID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["userID"])
}
