package favorites

import (
	"errors"
	"strings"

	"github.com/MarianoCuria/PeliGo/internal/database"
	"github.com/MarianoCuria/PeliGo/models"
)

const maxRecentSearches = 10

var (
	ErrMissingTitleID = errors.New("title id is required")
	ErrMissingQuery   = errors.New("query is required")
)

// Service manages per-user favorites and the recent-searches history.
type Service struct {
	repo *database.FavoritesRepository
}

func NewService(repo *database.FavoritesRepository) *Service {
	return &Service{repo: repo}
}

// List returns the user's favorites in the order they were added.
func (s *Service) List(userID string) ([]models.FavoriteItem, error) {
	return s.repo.ListFavorites(s.resolveUser(userID))
}

// Add stores a snapshot of the title. Adding an already-favorited title is a
// no-op.
func (s *Service) Add(userID string, title models.Title) error {
	if strings.TrimSpace(title.ID) == "" {
		return ErrMissingTitleID
	}
	return s.repo.AddFavorite(s.resolveUser(userID), title)
}

// Remove deletes a favorite by canonical title id.
func (s *Service) Remove(userID, titleID string) error {
	if strings.TrimSpace(titleID) == "" {
		return ErrMissingTitleID
	}
	return s.repo.RemoveFavorite(s.resolveUser(userID), titleID)
}

// IsFavorite reports whether the title is in the user's favorites.
func (s *Service) IsFavorite(userID, titleID string) (bool, error) {
	if strings.TrimSpace(titleID) == "" {
		return false, ErrMissingTitleID
	}
	return s.repo.IsFavorite(s.resolveUser(userID), titleID)
}

// RecentSearches returns the user's latest queries, most recent first.
func (s *Service) RecentSearches(userID string) ([]models.RecentSearch, error) {
	return s.repo.ListRecentSearches(s.resolveUser(userID), maxRecentSearches)
}

// RecordSearch stores the query at the front of the history. Repeating a
// query moves it back to the front instead of duplicating it.
func (s *Service) RecordSearch(userID, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrMissingQuery
	}
	return s.repo.AddRecentSearch(s.resolveUser(userID), query, maxRecentSearches)
}

func (s *Service) resolveUser(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return models.DefaultUserID
	}
	return userID
}
