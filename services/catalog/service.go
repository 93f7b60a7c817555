package catalog

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/MarianoCuria/PeliGo/models"
)

// ErrNotConfigured is returned when the TMDB API key is missing or still set
// to the placeholder value. This is a deployment problem, not a transient
// fault, and is never retried.
var ErrNotConfigured = errors.New("TMDB_API_KEY no configurada")

const (
	// Search: only a reasonably popular person match pulls in a filmography,
	// and only credits with real vote volume survive the noise filter.
	minPersonPopularity = 5
	minCreditVoteCount  = 10

	// Discovery windows and thresholds.
	trendingMinVoteCount   = 50
	trendingWindowDays     = 14
	trendingBound          = 20
	nowPlayingMinVoteCount = 20
	nowPlayingWindowDays   = 90
	nowPlayingBound        = 15

	maxSimilarTitles = 10

	// Cap on concurrent availability lookups per aggregation call.
	maxProviderFetches = 5
)

// Service implements the catalog aggregation engine: search ranking,
// region-filtered discovery and availability enrichment against TMDB.
type Service struct {
	tmdb   *tmdbClient
	region string

	// now is replaceable in tests that assert on discovery date windows.
	now func() time.Time
}

func NewService(apiKey, language, region, cacheDir string, ttlHours int) *Service {
	cache := newFileCache(afero.NewOsFs(), cacheDir, ttlHours)
	return &Service{
		tmdb:   newTMDBClient(apiKey, language, &http.Client{Timeout: 15 * time.Second}, cache),
		region: region,
		now:    time.Now,
	}
}

// ClearCache removes all cached upstream responses.
func (s *Service) ClearCache() error {
	if s.tmdb.cache == nil {
		return nil
	}
	return s.tmdb.cache.clear()
}

// candidate is a raw record tagged with its resolved media kind.
type candidate struct {
	item tmdbTitle
	kind string
}

// Search runs a free-text query: direct title matches plus, when a popular
// person matches, that person's filmography, merged, deduplicated, scored
// and sorted. An empty query returns an empty result set without touching
// the network.
func (s *Service) Search(ctx context.Context, query string, page int) (*models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return &models.SearchResponse{Results: []models.Title{}}, nil
	}
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}

	data, err := s.tmdb.searchMulti(ctx, query, page, s.region)
	if err != nil {
		return nil, err
	}

	var persons []tmdbMultiItem
	var titles []tmdbMultiItem
	for _, r := range data.Results {
		switch r.MediaType {
		case "person":
			persons = append(persons, r)
		case "movie", "tv":
			// Posterless entries are placeholder-grade data, unfit for display.
			if r.PosterPath != "" {
				titles = append(titles, r)
			}
		}
	}

	var person *models.Person
	var filmography []tmdbMultiItem
	if top := topPerson(persons); top != nil {
		person = &models.Person{
			ID:          top.ID,
			Name:        top.Name,
			ProfilePath: posterURL(top.ProfilePath, profileSize),
			Department:  top.KnownForDepartment,
		}
		filmography = s.fetchFilmography(ctx, top.ID)
	}

	// Merge direct matches first so they win the dedup against filmography
	// entries for the same title.
	seen := make(map[int64]bool)
	merged := make([]tmdbMultiItem, 0, len(titles)+len(filmography))
	for _, t := range titles {
		if !seen[t.ID] {
			seen[t.ID] = true
			merged = append(merged, t)
		}
	}
	for _, t := range filmography {
		if !seen[t.ID] {
			seen[t.ID] = true
			merged = append(merged, t)
		}
	}

	scores := make([]float64, len(merged))
	for i, m := range merged {
		scores[i] = relevanceScore(m.tmdbTitle, query)
	}
	order := make([]int, len(merged))
	for i := range order {
		order[i] = i
	}
	// Stable: ties keep merge order.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]models.Title, 0, len(merged))
	for _, idx := range order {
		m := merged[idx]
		results = append(results, normalizeTitle(m.tmdbTitle, kindForMediaType(m.MediaType)))
	}

	// The upstream total undercounts once filmography entries are appended.
	total := data.TotalResults
	if len(results) > total {
		total = len(results)
	}

	return &models.SearchResponse{
		Results:      results,
		TotalResults: total,
		TotalPages:   data.TotalPages,
		Person:       person,
	}, nil
}

// topPerson picks the most popular person above the relevance threshold.
func topPerson(persons []tmdbMultiItem) *tmdbMultiItem {
	var top *tmdbMultiItem
	for i := range persons {
		if persons[i].Popularity <= minPersonPopularity {
			continue
		}
		if top == nil || persons[i].Popularity > top.Popularity {
			top = &persons[i]
		}
	}
	return top
}

// fetchFilmography returns a person's credited titles worth surfacing. This
// is a secondary enrichment: on failure the search proceeds with direct
// matches only.
func (s *Service) fetchFilmography(ctx context.Context, personID int64) []tmdbMultiItem {
	credits, err := s.tmdb.personCombinedCredits(ctx, personID)
	if err != nil {
		log.Printf("[catalog] filmography fetch failed person=%d: %v", personID, err)
		return nil
	}
	var kept []tmdbMultiItem
	for _, c := range credits.Cast {
		if c.MediaType != "movie" && c.MediaType != "tv" {
			continue
		}
		// Minor or uncredited appearances carry almost no votes.
		if c.PosterPath == "" || c.VoteCount <= minCreditVoteCount {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// Trending returns the region's popularity-ranked titles, restricted to those
// actually watchable on at least one platform. period is "day" or "week";
// mediaType is "all", "movie" or "tv".
func (s *Service) Trending(ctx context.Context, mediaType, period string) ([]models.Title, error) {
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	opts := discoverOptions{
		monetization: "flatrate|rent|buy",
		minVoteCount: trendingMinVoteCount,
	}
	if period == "week" {
		opts.sinceDays = trendingWindowDays
	}

	cands, err := s.discoverByKinds(ctx, kindsForFilter(mediaType), opts)
	if err != nil {
		return nil, err
	}

	sortByPopularity(cands)
	if len(cands) > trendingBound {
		cands = cands[:trendingBound]
	}
	return s.enrichAndFilter(ctx, cands), nil
}

// NowPlaying returns recently released titles streamable in the region.
func (s *Service) NowPlaying(ctx context.Context) ([]models.Title, error) {
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	opts := discoverOptions{
		monetization: "flatrate",
		minVoteCount: nowPlayingMinVoteCount,
		sinceDays:    nowPlayingWindowDays,
	}

	cands, err := s.discoverByKinds(ctx, kindsForFilter("all"), opts)
	if err != nil {
		return nil, err
	}

	sortByPopularity(cands)
	if len(cands) > nowPlayingBound {
		cands = cands[:nowPlayingBound]
	}
	return s.enrichAndFilter(ctx, cands), nil
}

// Home fetches both home-screen shelves concurrently. Both are primary
// fetches: either failure fails the operation.
func (s *Service) Home(ctx context.Context) (*models.HomeResponse, error) {
	var trending, nowPlaying []models.Title
	p := pool.New().WithErrors()
	p.Go(func() error {
		var err error
		trending, err = s.Trending(ctx, "all", "day")
		return err
	})
	p.Go(func() error {
		var err error
		nowPlaying, err = s.NowPlaying(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return &models.HomeResponse{Trending: trending, NowPlaying: nowPlaying}, nil
}

// TitleDetail fetches one title with credits, availability and similar
// titles appended in a single upstream round trip.
func (s *Service) TitleDetail(ctx context.Context, id int64, kind string) (*models.TitleDetailResponse, error) {
	if !s.tmdb.isConfigured() {
		return nil, ErrNotConfigured
	}

	raw, err := s.tmdb.titleDetail(ctx, mediaPathForKind(kind), id)
	if err != nil {
		return nil, err
	}

	title := normalizeTitle(*raw, kind)
	title.Platforms = mapAppendedProviders(raw.WatchProviders, s.region)

	similar := []models.Title{}
	if raw.Similar != nil {
		for _, r := range raw.Similar.Results {
			if r.PosterPath == "" {
				continue
			}
			similar = append(similar, normalizeTitle(r, kind))
			if len(similar) >= maxSimilarTitles {
				break
			}
		}
	}

	return &models.TitleDetailResponse{Title: title, Similar: similar}, nil
}

type discoverOptions struct {
	monetization string
	minVoteCount int
	sinceDays    int
}

// discoverByKinds issues one discovery request per media kind concurrently.
// The merged order depends only on kind order and per-kind result position,
// never on completion order. Discovery calls are primary fetches.
func (s *Service) discoverByKinds(ctx context.Context, kinds []string, opts discoverOptions) ([]candidate, error) {
	byKind := make([][]candidate, len(kinds))
	p := pool.New().WithErrors()
	for i, kind := range kinds {
		p.Go(func() error {
			raw, err := s.tmdb.discover(ctx, mediaPathForKind(kind), s.discoverParams(kind, opts))
			if err != nil {
				return err
			}
			cands := make([]candidate, 0, len(raw))
			for _, r := range raw {
				if r.PosterPath == "" {
					continue
				}
				cands = append(cands, candidate{item: r, kind: kind})
			}
			byKind[i] = cands
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var merged []candidate
	for _, cands := range byKind {
		merged = append(merged, cands...)
	}
	return merged, nil
}

func (s *Service) discoverParams(kind string, opts discoverOptions) url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("watch_region", s.region)
	params.Set("with_watch_monetization_types", opts.monetization)
	params.Set("vote_count.gte", strconv.Itoa(opts.minVoteCount))
	if opts.sinceDays > 0 {
		since := s.now().AddDate(0, 0, -opts.sinceDays).Format("2006-01-02")
		if kind == models.MediaMovie {
			params.Set("primary_release_date.gte", since)
		} else {
			params.Set("first_air_date.gte", since)
		}
	}
	return params
}

// enrichAndFilter looks up live availability for each candidate concurrently
// and drops every candidate that resolves to no offers: the trending lists
// only surface titles the user can actually act on. A failed lookup degrades
// that one candidate to empty availability; it never aborts the batch.
func (s *Service) enrichAndFilter(ctx context.Context, cands []candidate) []models.Title {
	offers := make([][]models.PlatformOffer, len(cands))
	p := pool.New().WithMaxGoroutines(maxProviderFetches)
	for i := range cands {
		p.Go(func() {
			resp, err := s.tmdb.watchProviders(ctx, mediaPathForKind(cands[i].kind), cands[i].item.ID)
			if err != nil {
				log.Printf("[catalog] availability fetch failed %s/%d: %v", cands[i].kind, cands[i].item.ID, err)
				return
			}
			offers[i] = mapRegionOffers(resp.Results, s.region)
		})
	}
	p.Wait()

	out := make([]models.Title, 0, len(cands))
	for i, cand := range cands {
		if len(offers[i]) == 0 {
			continue
		}
		t := normalizeTitle(cand.item, cand.kind)
		t.Platforms = offers[i]
		out = append(out, t)
	}
	return out
}

// kindsForFilter maps the API media filter to the canonical kinds to query.
func kindsForFilter(mediaType string) []string {
	switch mediaType {
	case "movie":
		return []string{models.MediaMovie}
	case "tv", "series":
		return []string{models.MediaSeries}
	default:
		return []string{models.MediaMovie, models.MediaSeries}
	}
}

func sortByPopularity(cands []candidate) {
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].item.Popularity > cands[b].item.Popularity
	})
}
