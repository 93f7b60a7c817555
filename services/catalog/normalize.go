package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/MarianoCuria/PeliGo/models"
)

// Image size tiers served to clients. Posters and backdrops use the sizes
// the detail and card layouts were designed around.
const (
	posterSize   = "w500"
	backdropSize = "w1280"
	logoSize     = "w185"
	profileSize  = "w185"
)

const missingOverview = "Sin descripción disponible."

const maxCastMembers = 8

// genreNamesByID maps TMDB genre ids to the Spanish display names used across
// the app. Covers both movie and TV genre id ranges.
var genreNamesByID = map[int64]string{
	28:    "Acción",
	12:    "Aventura",
	16:    "Animación",
	35:    "Comedia",
	80:    "Crimen",
	99:    "Documental",
	18:    "Drama",
	10751: "Familia",
	14:    "Fantasía",
	36:    "Historia",
	27:    "Terror",
	10402: "Música",
	9648:  "Misterio",
	10749: "Romance",
	878:   "Sci-Fi",
	10770: "Película de TV",
	53:    "Thriller",
	10752: "Bélica",
	37:    "Western",
	10759: "Acción y Aventura",
	10762: "Kids",
	10763: "Noticias",
	10764: "Reality",
	10765: "Sci-Fi & Fantasía",
	10766: "Telenovela",
	10767: "Talk Show",
	10768: "Guerra y Política",
}

func posterURL(path, size string) string {
	if path == "" {
		return ""
	}
	return tmdbImageURL + "/" + size + path
}

// slugify derives the stable dedup key for a platform name: lowercase,
// non-alphanumeric runs collapsed to "-", trimmed.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// genreNames resolves genres to display names: full genre objects win, ids
// fall back to the static table with unmapped ids dropped. Duplicates keep
// their first position.
func genreNames(ids []int64, genres []tmdbGenre) []string {
	names := make([]string, 0, len(ids)+len(genres))
	seen := make(map[string]bool)
	if len(genres) > 0 {
		for _, g := range genres {
			if g.Name == "" || seen[g.Name] {
				continue
			}
			seen[g.Name] = true
			names = append(names, g.Name)
		}
		return names
	}
	for _, id := range ids {
		name, ok := genreNamesByID[id]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// extractYear returns the calendar year from the release-date field
// appropriate to the media kind, or "" when unknown.
func extractYear(item tmdbTitle, kind string) string {
	date := item.FirstAirDate
	if kind == models.MediaMovie {
		date = item.ReleaseDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func displayTitle(item tmdbTitle) string {
	if item.Title != "" {
		return item.Title
	}
	return item.Name
}

func originalTitle(item tmdbTitle) string {
	if item.OriginalTitle != "" {
		return item.OriginalTitle
	}
	return item.OriginalName
}

// normalizeTitle maps one raw TMDB record into the canonical Title shape.
// Total: missing fields degrade to defaults, never to errors.
func normalizeTitle(item tmdbTitle, kind string) models.Title {
	prefix := "t"
	if kind == models.MediaMovie {
		prefix = "m"
	}

	overview := item.Overview
	if overview == "" {
		overview = missingOverview
	}

	var director string
	cast := []string{}
	if item.Credits != nil {
		for _, c := range item.Credits.Crew {
			if c.Job == "Director" {
				director = c.Name
				break
			}
		}
		for _, c := range item.Credits.Cast {
			if len(cast) >= maxCastMembers {
				break
			}
			cast = append(cast, c.Name)
		}
	}

	return models.Title{
		ID:            fmt.Sprintf("%s-%d", prefix, item.ID),
		TMDBID:        item.ID,
		Type:          kind,
		Title:         displayTitle(item),
		TitleOriginal: originalTitle(item),
		Year:          extractYear(item, kind),
		Rating:        math.Round(item.VoteAverage*10) / 10,
		VoteCount:     item.VoteCount,
		Popularity:    item.Popularity,
		Overview:      overview,
		PosterPath:    posterURL(item.PosterPath, posterSize),
		BackdropPath:  posterURL(item.BackdropPath, backdropSize),
		Genres:        genreNames(item.GenreIDs, item.Genres),
		Runtime:       item.Runtime,
		Seasons:       item.NumberOfSeasons,
		Director:      director,
		Cast:          cast,
		Platforms:     []models.PlatformOffer{},
	}
}

// kindForMediaType maps TMDB's media_type to the canonical kind; anything
// that is not a movie is treated as a series.
func kindForMediaType(mediaType string) string {
	if mediaType == "movie" {
		return models.MediaMovie
	}
	return models.MediaSeries
}

// mediaPathForKind maps a canonical kind back to the TMDB URL segment.
func mediaPathForKind(kind string) string {
	if kind == models.MediaMovie {
		return "movie"
	}
	return "tv"
}
