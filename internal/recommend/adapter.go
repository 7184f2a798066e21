package recommend

import (
	"context"
	"errors"

	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/mood"
	"github.com/justestif/go-movie-mood/internal/tmdb"
)

// DefaultVoteAverageGTE is the minimum score used when a profile sets none.
const DefaultVoteAverageGTE = 5

// Discoverer runs discover queries against the catalog provider.
type Discoverer interface {
	Discover(ctx context.Context, params tmdb.DiscoverParams) ([]tmdb.Movie, error)
}

// ProfileParams builds the discover query for a profile. Only the first
// page is requested.
func ProfileParams(p mood.Profile) tmdb.DiscoverParams {
	vote := p.VoteAverageGTE
	if vote <= 0 {
		vote = DefaultVoteAverageGTE
	}
	return tmdb.DiscoverParams{
		SortBy:         p.SortBy,
		WithGenres:     p.GenreFilter(),
		VoteAverageGTE: vote,
		RuntimeLTE:     p.RuntimeLTE,
		IncludeAdult:   false,
	}
}

// FetchByProfile returns at most limit movies matching the profile.
// Provider failures are logged and yield an empty slice.
func FetchByProfile(ctx context.Context, d Discoverer, p mood.Profile, limit int) []tmdb.Movie {
	if limit < 1 {
		return []tmdb.Movie{}
	}

	movies, err := d.Discover(ctx, ProfileParams(p))
	if err != nil {
		logFailure(ctx, err, "discover", string(p.Key))
		return []tmdb.Movie{}
	}
	return truncate(movies, limit)
}

func truncate(movies []tmdb.Movie, limit int) []tmdb.Movie {
	if movies == nil {
		return []tmdb.Movie{}
	}
	if len(movies) > limit {
		return movies[:limit]
	}
	return movies
}

// logFailure logs a swallowed provider error. A missing API key is expected
// in unconfigured deployments and only warrants a warning.
func logFailure(ctx context.Context, err error, op, subject string) {
	log := logging.Ctx(ctx)
	if errors.Is(err, tmdb.ErrMissingAPIKey) {
		log.Warn().Str("op", op).Str("subject", subject).Msg("catalog not configured, returning no movies")
		return
	}
	log.Error().Err(err).Str("op", op).Str("subject", subject).Msg("catalog request failed")
}
