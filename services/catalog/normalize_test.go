package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarianoCuria/PeliGo/models"
)

func TestExtractYear(t *testing.T) {
	movie := tmdbTitle{ReleaseDate: "2014-11-05", FirstAirDate: "1999-01-01"}
	assert.Equal(t, "2014", extractYear(movie, models.MediaMovie))

	series := tmdbTitle{FirstAirDate: "2008-01-20"}
	assert.Equal(t, "2008", extractYear(series, models.MediaSeries))

	assert.Equal(t, "", extractYear(tmdbTitle{}, models.MediaMovie))
	assert.Equal(t, "", extractYear(tmdbTitle{ReleaseDate: "201"}, models.MediaMovie))
}

func TestNormalizeTitleDefaults(t *testing.T) {
	got := normalizeTitle(tmdbTitle{ID: 550}, models.MediaMovie)

	assert.Equal(t, "m-550", got.ID)
	assert.Equal(t, int64(550), got.TMDBID)
	assert.Equal(t, models.MediaMovie, got.Type)
	assert.Equal(t, "", got.Year)
	assert.Equal(t, missingOverview, got.Overview)
	assert.Equal(t, "", got.PosterPath)
	assert.Equal(t, "", got.BackdropPath)
	assert.Empty(t, got.Genres)
	assert.NotNil(t, got.Cast)
	assert.NotNil(t, got.Platforms)
}

func TestNormalizeTitleSeries(t *testing.T) {
	got := normalizeTitle(tmdbTitle{
		ID:              1396,
		Name:            "Breaking Bad",
		OriginalName:    "Breaking Bad",
		FirstAirDate:    "2008-01-20",
		VoteAverage:     8.917,
		VoteCount:       12000,
		PosterPath:      "/poster.jpg",
		BackdropPath:    "/backdrop.jpg",
		GenreIDs:        []int64{18, 80},
		NumberOfSeasons: 5,
	}, models.MediaSeries)

	assert.Equal(t, "t-1396", got.ID)
	assert.Equal(t, "Breaking Bad", got.Title)
	assert.Equal(t, "2008", got.Year)
	assert.Equal(t, 8.9, got.Rating)
	assert.Equal(t, 5, got.Seasons)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", got.PosterPath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/backdrop.jpg", got.BackdropPath)
	assert.Equal(t, []string{"Drama", "Crimen"}, got.Genres)
}

func TestNormalizeTitleRatingRounding(t *testing.T) {
	got := normalizeTitle(tmdbTitle{ID: 1, VoteAverage: 7.456}, models.MediaMovie)
	assert.Equal(t, 7.5, got.Rating)

	got = normalizeTitle(tmdbTitle{ID: 1, VoteAverage: 7.44}, models.MediaMovie)
	assert.Equal(t, 7.4, got.Rating)
}

func TestNormalizeTitleCredits(t *testing.T) {
	cast := make([]tmdbCastMember, 0, 10)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		cast = append(cast, tmdbCastMember{Name: name})
	}
	got := normalizeTitle(tmdbTitle{
		ID: 603,
		Credits: &tmdbCredits{
			Cast: cast,
			Crew: []tmdbCrewMember{
				{Name: "Someone Else", Job: "Producer"},
				{Name: "Lana Wachowski", Job: "Director"},
				{Name: "Lilly Wachowski", Job: "Director"},
			},
		},
	}, models.MediaMovie)

	require.Len(t, got.Cast, maxCastMembers)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, got.Cast)
	assert.Equal(t, "Lana Wachowski", got.Director)
}

func TestGenreNames(t *testing.T) {
	// Full genre objects win over ids.
	names := genreNames([]int64{18}, []tmdbGenre{{ID: 28, Name: "Acción"}, {ID: 53, Name: "Thriller"}})
	assert.Equal(t, []string{"Acción", "Thriller"}, names)

	// Unmapped ids are dropped, duplicates keep their first position.
	names = genreNames([]int64{28, 424242, 18, 28}, nil)
	assert.Equal(t, []string{"Acción", "Drama"}, names)

	assert.Empty(t, genreNames(nil, nil))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Netflix":             "netflix",
		"HBO Max":             "hbo-max",
		"Apple TV+":           "apple-tv",
		"  Claro video  ":     "claro-video",
		"Movistar Play!!":     "movistar-play",
		"Paramount+ (Amazon)": "paramount-amazon",
	}
	for input, want := range tests {
		assert.Equal(t, want, slugify(input), "slugify(%q)", input)
	}
}

func TestKindForMediaType(t *testing.T) {
	assert.Equal(t, models.MediaMovie, kindForMediaType("movie"))
	assert.Equal(t, models.MediaSeries, kindForMediaType("tv"))
	assert.Equal(t, models.MediaSeries, kindForMediaType(""))
}
