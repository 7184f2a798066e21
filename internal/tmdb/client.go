package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/justestif/go-movie-mood/internal/metrics"
)

const (
	userAgent = "go-movie-mood/1.0"

	// revalidateSeconds lets HTTP caches between us and TMDB reuse a response briefly.
	revalidateSeconds = 60

	maxErrorBody = 4 << 10
)

// Category is a curated TMDB movie list.
type Category string

// Movie list categories.
const (
	Popular  Category = "popular"
	TopRated Category = "top_rated"
	Upcoming Category = "upcoming"
)

// ErrNotFound is returned by MovieDetails when TMDB has no such movie.
var ErrNotFound = errors.New("movie not found")

// StatusError is returned when TMDB answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("TMDB %s: status %d: %s", e.Endpoint, e.Code, e.Message)
	}
	return fmt.Sprintf("TMDB %s: status %d", e.Endpoint, e.Code)
}

// abandonedError marks a request cut short by the caller's context rather
// than by TMDB.
type abandonedError struct{ err error }

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// Client is a TMDB API client. Calls go through a circuit breaker and are
// attempted once.
type Client struct {
	apiKey       string
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	language     string
	breaker      *breaker
}

// NewClient creates a TMDB client from the provided configuration.
func NewClient(cfg *Config) *Client {
	c := cfg.withDefaults()
	return &Client{
		apiKey: c.APIKey,
		httpClient: &http.Client{
			Timeout: c.Timeout,
		},
		baseURL:      strings.TrimRight(c.BaseURL, "/"),
		imageBaseURL: c.ImageBaseURL,
		language:     c.Language,
		breaker:      newBreaker("tmdb-api"),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// DiscoverParams are the /discover/movie filters this application uses.
// Zero numeric fields are omitted from the query.
type DiscoverParams struct {
	SortBy         string
	WithGenres     string
	VoteAverageGTE float64
	RuntimeLTE     int
	IncludeAdult   bool
	Page           int
}

func (p DiscoverParams) values() url.Values {
	v := url.Values{}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.WithGenres != "" {
		v.Set("with_genres", p.WithGenres)
	}
	if p.VoteAverageGTE > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	if p.RuntimeLTE > 0 {
		v.Set("with_runtime.lte", strconv.Itoa(p.RuntimeLTE))
	}
	v.Set("include_adult", strconv.FormatBool(p.IncludeAdult))
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	return v
}

// Discover runs a /discover/movie query and returns the first page of results.
func (c *Client) Discover(ctx context.Context, params DiscoverParams) ([]Movie, error) {
	var resp listResponse
	if err := c.get(ctx, "/discover/movie", params.values(), &resp); err != nil {
		return nil, fmt.Errorf("discovering movies: %w", err)
	}
	return nonNil(resp.Results), nil
}

// List fetches one page of a curated list such as popular or top rated.
func (c *Client) List(ctx context.Context, category Category, page int) ([]Movie, error) {
	if page < 1 {
		page = 1
	}
	var resp listResponse
	endpoint := "/movie/" + string(category)
	if err := c.get(ctx, endpoint, url.Values{"page": {strconv.Itoa(page)}}, &resp); err != nil {
		return nil, fmt.Errorf("fetching %s movies: %w", category, err)
	}
	return nonNil(resp.Results), nil
}

// Search runs a title search. Adult titles are excluded.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
	}
	var resp listResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("searching movies: %w", err)
	}
	return nonNil(resp.Results), nil
}

// MovieDetails fetches one movie with credits and videos appended.
// Returns ErrNotFound when TMDB answers 404.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	params := url.Values{"append_to_response": {"credits,videos"}}
	err := c.get(ctx, "/movie/"+strconv.Itoa(id), params, &details)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching movie %d: %w", id, err)
	}
	if details.ID == 0 {
		return nil, ErrNotFound
	}
	return &details, nil
}

// get performs a GET against endpoint and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		metrics.ProviderRequests.WithLabelValues("tmdb", endpointLabel(endpoint), "skipped").Inc()
		return ErrMissingAPIKey
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("language", c.language)
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	start := time.Now()
	body, err := c.breaker.execute(func() ([]byte, error) {
		b, err := c.doSingleRequest(ctx, endpoint, reqURL)
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: err}
		}
		return b, err
	})
	metrics.ObserveProvider("tmdb", endpointLabel(endpoint), start, err)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return nil
}

// doSingleRequest performs one HTTP request and returns the body of a 2xx response.
func (c *Client) doSingleRequest(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "max-age="+strconv.Itoa(revalidateSeconds))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		se := &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.StatusMessage != "" {
			se.Message = apiErr.StatusMessage
		} else {
			se.Message = strings.TrimSpace(string(raw))
		}
		return nil, se
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// endpointLabel collapses movie IDs so metrics keep a bounded label set.
func endpointLabel(endpoint string) string {
	rest, ok := strings.CutPrefix(endpoint, "/movie/")
	if !ok {
		return endpoint
	}
	if _, err := strconv.Atoi(rest); err == nil {
		return "/movie/{id}"
	}
	return endpoint
}

func nonNil(movies []Movie) []Movie {
	if movies == nil {
		return []Movie{}
	}
	return movies
}
