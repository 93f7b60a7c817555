package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarianoCuria/PeliGo/models"
)

// FavoritesRepository persists favorite-title snapshots and the bounded
// recent-searches list. Favorites are insertion-ordered; recent searches are
// most-recent-first, deduplicated by exact query.
type FavoritesRepository struct {
	db *sql.DB
}

func NewFavoritesRepository(db *sql.DB) *FavoritesRepository {
	return &FavoritesRepository{db: db}
}

// AddFavorite stores a snapshot of the title. Adding an id the user already
// has is a no-op.
func (r *FavoritesRepository) AddFavorite(userID string, title models.Title) error {
	snapshot, err := json.Marshal(title)
	if err != nil {
		return fmt.Errorf("encode title snapshot: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO favorites (user_id, title_id, media_type, snapshot, added_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, title_id) DO NOTHING`,
		userID, title.ID, title.Type, string(snapshot), time.Now().UTC(),
	)
	return err
}

// RemoveFavorite deletes one favorite by canonical title id.
func (r *FavoritesRepository) RemoveFavorite(userID, titleID string) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id = ? AND title_id = ?`, userID, titleID)
	return err
}

// ListFavorites returns the user's favorites in insertion order.
func (r *FavoritesRepository) ListFavorites(userID string) ([]models.FavoriteItem, error) {
	rows, err := r.db.Query(
		`SELECT snapshot, added_at FROM favorites WHERE user_id = ? ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.FavoriteItem{}
	for rows.Next() {
		var snapshot string
		var addedAt time.Time
		if err := rows.Scan(&snapshot, &addedAt); err != nil {
			return nil, err
		}
		var title models.Title
		if err := json.Unmarshal([]byte(snapshot), &title); err != nil {
			// A corrupt snapshot should not hide the rest of the list.
			continue
		}
		items = append(items, models.FavoriteItem{Title: title, AddedAt: addedAt})
	}
	return items, rows.Err()
}

// IsFavorite reports whether the user has favorited the given title id.
func (r *FavoritesRepository) IsFavorite(userID, titleID string) (bool, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(1) FROM favorites WHERE user_id = ? AND title_id = ?`,
		userID, titleID,
	).Scan(&n)
	return n > 0, err
}

// AddRecentSearch records a query as the most recent entry and prunes the
// list beyond maxEntries. Repeating a query moves it to the front.
func (r *FavoritesRepository) AddRecentSearch(userID, query string, maxEntries int) error {
	_, err := r.db.Exec(
		`INSERT INTO recent_searches (user_id, query, searched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, query) DO UPDATE SET searched_at = excluded.searched_at`,
		userID, query, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`DELETE FROM recent_searches
		 WHERE user_id = ? AND id NOT IN (
		     SELECT id FROM recent_searches WHERE user_id = ?
		     ORDER BY searched_at DESC, id DESC LIMIT ?
		 )`,
		userID, userID, maxEntries,
	)
	return err
}

// ListRecentSearches returns the user's searches, most recent first.
func (r *FavoritesRepository) ListRecentSearches(userID string, limit int) ([]models.RecentSearch, error) {
	rows, err := r.db.Query(
		`SELECT query, searched_at FROM recent_searches
		 WHERE user_id = ? ORDER BY searched_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.RecentSearch{}
	for rows.Next() {
		var item models.RecentSearch
		if err := rows.Scan(&item.Query, &item.SearchedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
