// Package recommend turns catalog queries into the results served by the
// API: mood picks, home rails, runtime and title searches.
//
// Catalog failures never surface as errors here. Each operation degrades to
// an empty movie list and logs the cause.
package recommend

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/metrics"
	"github.com/justestif/go-movie-mood/internal/mood"
	"github.com/justestif/go-movie-mood/internal/tmdb"
)

// Default result sizes.
const (
	DefaultMoodLimit    = 8
	DefaultRuntimeLimit = 12
	DefaultSearchLimit  = 12
	DefaultMaxRuntime   = 120
)

// Catalog is the subset of the TMDB client the service uses.
type Catalog interface {
	Discoverer
	List(ctx context.Context, category tmdb.Category, page int) ([]tmdb.Movie, error)
	Search(ctx context.Context, query string) ([]tmdb.Movie, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// NarrativeComposer writes the blurb shown with mood picks. Implementations
// must always return usable text.
type NarrativeComposer interface {
	Compose(ctx context.Context, moodText string, profile mood.Profile, titles []string) string
}

// Result is the response to a mood request.
type Result struct {
	Mood      string
	Profile   mood.Profile
	Narrative string
	Movies    []tmdb.Movie
}

// Rail is one curated list on the home page.
type Rail struct {
	Title    string
	Category tmdb.Category
	Movies   []tmdb.Movie
}

// homeRails is the fixed home page layout, in display order.
var homeRails = [...]struct {
	title    string
	category tmdb.Category
}{
	{"Trending Now", tmdb.Popular},
	{"Top Rated", tmdb.TopRated},
	{"Coming Soon", tmdb.Upcoming},
}

// Service answers recommendation requests.
type Service struct {
	catalog   Catalog
	composer  NarrativeComposer
	moodLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithMoodLimit sets how many movies a mood request returns.
func WithMoodLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.moodLimit = n
		}
	}
}

// NewService creates a recommendation service.
func NewService(catalog Catalog, composer NarrativeComposer, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		composer:  composer,
		moodLimit: DefaultMoodLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend resolves the mood, fetches matching movies and composes the
// narrative. The catalog fetch completes before composition starts since
// the narrative names the fetched titles.
func (s *Service) Recommend(ctx context.Context, moodText string) Result {
	profile, kind := mood.Classify(moodText)
	metrics.MoodResolutions.WithLabelValues(string(profile.Key)).Inc()
	logging.Ctx(ctx).Debug().
		Str("profile", string(profile.Key)).
		Str("match", kind.String()).
		Msg("mood resolved")

	movies := FetchByProfile(ctx, s.catalog, profile, s.moodLimit)

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	return Result{
		Mood:      moodText,
		Profile:   profile,
		Narrative: s.composer.Compose(ctx, moodText, profile, titles),
		Movies:    movies,
	}
}

// Rails fetches the home page rails concurrently. A rail whose fetch fails
// is returned with no movies.
func (s *Service) Rails(ctx context.Context) []Rail {
	rails := make([]Rail, len(homeRails))

	var g errgroup.Group
	for i, rail := range homeRails {
		rails[i] = Rail{Title: rail.title, Category: rail.category, Movies: []tmdb.Movie{}}
		g.Go(func() error {
			movies, err := s.catalog.List(ctx, rail.category, 1)
			if err != nil {
				logFailure(ctx, err, "list", string(rail.category))
				return nil
			}
			if movies != nil {
				rails[i].Movies = movies
			}
			return nil
		})
	}
	_ = g.Wait()

	return rails
}

// ByRuntime returns popular movies no longer than maxMinutes.
func (s *Service) ByRuntime(ctx context.Context, maxMinutes, limit int) []tmdb.Movie {
	if limit < 1 {
		return []tmdb.Movie{}
	}
	movies, err := s.catalog.Discover(ctx, tmdb.DiscoverParams{
		SortBy:       mood.SortPopularityDesc,
		RuntimeLTE:   maxMinutes,
		IncludeAdult: false,
	})
	if err != nil {
		logFailure(ctx, err, "runtime", strconv.Itoa(maxMinutes))
		return []tmdb.Movie{}
	}
	return truncate(movies, limit)
}

// Search returns at most limit titles matching query. A blank query returns
// no movies without calling the catalog.
func (s *Service) Search(ctx context.Context, query string, limit int) []tmdb.Movie {
	if strings.TrimSpace(query) == "" || limit < 1 {
		return []tmdb.Movie{}
	}
	movies, err := s.catalog.Search(ctx, query)
	if err != nil {
		logFailure(ctx, err, "search", query)
		return []tmdb.Movie{}
	}
	return truncate(movies, limit)
}

// Details returns a single movie, or nil when it is missing or the
// catalog could not be reached.
func (s *Service) Details(ctx context.Context, id int) *tmdb.MovieDetails {
	if id < 1 {
		return nil
	}
	details, err := s.catalog.MovieDetails(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			logging.Ctx(ctx).Debug().Int("movie_id", id).Msg("movie not found")
		} else {
			logFailure(ctx, err, "details", strconv.Itoa(id))
		}
		return nil
	}
	return details
}
