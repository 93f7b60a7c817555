package models

import "time"

// FavoriteItem is a stored snapshot of a Title a user marked as favorite.
// The snapshot is kept so the favorites page renders without re-fetching
// upstream metadata.
type FavoriteItem struct {
	Title   Title     `json:"title"`
	AddedAt time.Time `json:"addedAt"`
}

// RecentSearch is one entry of a user's recent-searches list,
// most-recent-first and deduplicated by exact query string.
type RecentSearch struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searchedAt"`
}

// DefaultUserID is used when the client does not manage multiple profiles.
const DefaultUserID = "default"
