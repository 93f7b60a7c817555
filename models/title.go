package models

// Title is the unified movie/series record served to clients, independent of
// TMDB's per-kind schema differences. The ID is a composite of media kind and
// the TMDB numeric id ("m-603" / "t-1396") and is stable enough to be used as
// a route key and as the favorites key.
type Title struct {
	ID            string          `json:"id"`
	TMDBID        int64           `json:"tmdbId"`
	Type          string          `json:"type"` // "movie" | "series"
	Title         string          `json:"title"`
	TitleOriginal string          `json:"titleOriginal"`
	Year          string          `json:"year"` // "" when unknown
	Rating        float64         `json:"rating"`
	VoteCount     int             `json:"voteCount"`
	Popularity    float64         `json:"popularity"`
	Overview      string          `json:"overview"`
	PosterPath    string          `json:"posterPath"`
	BackdropPath  string          `json:"backdropPath"`
	Genres        []string        `json:"genres"`
	Runtime       int             `json:"runtime,omitempty"` // minutes, movies only
	Seasons       int             `json:"seasons,omitempty"` // series only
	Director      string          `json:"director,omitempty"`
	Cast          []string        `json:"cast"`
	Platforms     []PlatformOffer `json:"platforms"`
}

// PlatformOffer describes one way to watch a title on one service in the
// target region. Within a title's offer list, (slug, type) pairs are unique
// and offers are ordered stream-first, then rent, then buy.
type PlatformOffer struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Logo    string `json:"logo"`
	Type    string `json:"type"` // "stream" | "rent" | "buy"
	Quality string `json:"quality"`
	Price   string `json:"price,omitempty"`
	Link    string `json:"link"`
}

// Offer access kinds, in display priority order.
const (
	OfferStream = "stream"
	OfferRent   = "rent"
	OfferBuy    = "buy"
)

// Media kinds used throughout the API surface.
const (
	MediaMovie  = "movie"
	MediaSeries = "series"
)

// Person is the public summary of a cast/crew member matched by a search
// query. It is only used to attach a filmography to search results.
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profilePath"`
	Department  string `json:"department"`
}

// SearchResponse is the payload for a free-text search.
type SearchResponse struct {
	Results      []Title `json:"results"`
	TotalResults int     `json:"totalResults"`
	TotalPages   int     `json:"totalPages"`
	Person       *Person `json:"person,omitempty"`
}

// HomeResponse combines the two home-screen shelves.
type HomeResponse struct {
	Trending   []Title `json:"trending"`
	NowPlaying []Title `json:"nowPlaying"`
}

// TitleDetailResponse is the payload for a title detail page.
type TitleDetailResponse struct {
	Title   Title   `json:"title"`
	Similar []Title `json:"similar"`
}
