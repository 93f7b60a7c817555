package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Minimal TMDB v3 client (search, discover, detail and watch-provider
// endpoints we need). Responses are cached on disk keyed by endpoint and
// query parameters.

const (
	tmdbBaseURL  = "https://api.themoviedb.org/3"
	tmdbImageURL = "https://image.tmdb.org/t/p"
)

// placeholderAPIKey ships in the example env file; treat it the same as an
// unset key so a half-configured deployment fails with a clear message.
const placeholderAPIKey = "TU_API_KEY_ACA"

type tmdbClient struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client
	cache    *fileCache
}

func newTMDBClient(apiKey, language string, httpc *http.Client, cache *fileCache) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if language == "" {
		language = "es-AR"
	}
	return &tmdbClient{
		apiKey:   apiKey,
		language: language,
		baseURL:  tmdbBaseURL,
		httpc:    httpc,
		cache:    cache,
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c.apiKey != "" && c.apiKey != placeholderAPIKey
}

// doGET fetches baseURL+path with the shared api_key/language parameters,
// decoding the JSON response into v. Transient upstream failures (network
// errors, 429, 5xx) are retried with backoff; other non-2xx statuses fail
// immediately with the upstream status in the error.
func (c *tmdbClient) doGET(ctx context.Context, path string, params url.Values, v any) error {
	q := url.Values{}
	for k, vals := range params {
		q[k] = vals
	}
	q.Set("language", c.language)

	key := cacheKey("tmdb", path, q.Encode())
	if c.cache != nil {
		var cached json.RawMessage
		if ok, _ := c.cache.get(key, &cached); ok {
			if err := json.Unmarshal(cached, v); err == nil {
				return nil
			}
		}
	}

	q.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + q.Encode()

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				err := fmt.Errorf("tmdb get %s failed: %s: %s", path, resp.Status, strings.TrimSpace(string(snippet)))
				if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
					return err
				}
				return retry.Unrecoverable(err)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("tmdb decode %s failed: %w", path, err)
	}
	if c.cache != nil {
		if err := c.cache.set(key, json.RawMessage(body)); err != nil {
			log.Printf("[tmdb] failed to cache %s: %v", path, err)
		}
	}
	return nil
}

func (c *tmdbClient) searchMulti(ctx context.Context, query string, page int, region string) (*tmdbSearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("region", region)
	var resp tmdbSearchPage
	if err := c.doGET(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *tmdbClient) personCombinedCredits(ctx context.Context, personID int64) (*tmdbCombinedCredits, error) {
	var resp tmdbCombinedCredits
	if err := c.doGET(ctx, fmt.Sprintf("/person/%d/combined_credits", personID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// discover queries /discover/{movie|tv} with the given filter parameters.
func (c *tmdbClient) discover(ctx context.Context, mediaType string, params url.Values) ([]tmdbTitle, error) {
	var resp struct {
		Results []tmdbTitle `json:"results"`
	}
	if err := c.doGET(ctx, "/discover/"+mediaType, params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// titleDetail fetches one title with related data appended in a single round
// trip (credits, watch/providers, similar).
func (c *tmdbClient) titleDetail(ctx context.Context, mediaType string, id int64) (*tmdbTitle, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,watch/providers,similar")
	var resp tmdbTitle
	if err := c.doGET(ctx, fmt.Sprintf("/%s/%d", mediaType, id), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// watchProviders fetches the standalone availability listing for one title.
// Note the payload shape differs from the append_to_response form: here the
// country map sits directly under "results".
func (c *tmdbClient) watchProviders(ctx context.Context, mediaType string, id int64) (*tmdbProvidersResponse, error) {
	var resp tmdbProvidersResponse
	if err := c.doGET(ctx, fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---- raw payload types ----
//
// TMDB's schema is loosely typed and field presence varies by endpoint, so
// everything optional is modelled explicitly and validated at the
// normalization boundary rather than trusted downstream.

type tmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbCastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type tmdbCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
	Crew []tmdbCrewMember `json:"crew"`
}

type tmdbProvider struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// tmdbProviderRegion is one country's watch-provider block. TMDB exposes a
// single landing link per title and country, not per-provider deep links.
type tmdbProviderRegion struct {
	Link     string         `json:"link"`
	Flatrate []tmdbProvider `json:"flatrate,omitempty"`
	Rent     []tmdbProvider `json:"rent,omitempty"`
	Buy      []tmdbProvider `json:"buy,omitempty"`
}

type tmdbWatchProviders struct {
	Results map[string]tmdbProviderRegion `json:"results"`
}

// tmdbProvidersResponse is the standalone /watch/providers payload.
type tmdbProvidersResponse struct {
	ID      int64                         `json:"id"`
	Results map[string]tmdbProviderRegion `json:"results"`
}

type tmdbSimilarPage struct {
	Results []tmdbTitle `json:"results"`
}

// tmdbTitle holds the superset of movie and series fields; either title/name
// or original_title/original_name is populated depending on kind.
type tmdbTitle struct {
	ID              int64               `json:"id"`
	MediaType       string              `json:"media_type,omitempty"`
	Title           string              `json:"title,omitempty"`
	Name            string              `json:"name,omitempty"`
	OriginalTitle   string              `json:"original_title,omitempty"`
	OriginalName    string              `json:"original_name,omitempty"`
	Overview        string              `json:"overview"`
	PosterPath      string              `json:"poster_path"`
	BackdropPath    string              `json:"backdrop_path"`
	ReleaseDate     string              `json:"release_date,omitempty"`
	FirstAirDate    string              `json:"first_air_date,omitempty"`
	VoteAverage     float64             `json:"vote_average"`
	VoteCount       int                 `json:"vote_count"`
	Popularity      float64             `json:"popularity,omitempty"`
	GenreIDs        []int64             `json:"genre_ids,omitempty"`
	Genres          []tmdbGenre         `json:"genres,omitempty"`
	Runtime         int                 `json:"runtime,omitempty"`
	NumberOfSeasons int                 `json:"number_of_seasons,omitempty"`
	Credits         *tmdbCredits        `json:"credits,omitempty"`
	Similar         *tmdbSimilarPage    `json:"similar,omitempty"`
	WatchProviders  *tmdbWatchProviders `json:"watch/providers,omitempty"`
}

// tmdbMultiItem is a /search/multi result: a movie, a series or a person,
// distinguished by media_type.
type tmdbMultiItem struct {
	tmdbTitle
	ProfilePath        string `json:"profile_path,omitempty"`
	KnownForDepartment string `json:"known_for_department,omitempty"`
}

type tmdbSearchPage struct {
	Page         int             `json:"page"`
	Results      []tmdbMultiItem `json:"results"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

type tmdbCombinedCredits struct {
	Cast []tmdbMultiItem `json:"cast"`
	Crew []tmdbMultiItem `json:"crew"`
}
