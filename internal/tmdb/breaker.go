package tmdb

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/metrics"
)

// breaker fails TMDB calls fast once the recent failure rate is high.
// It never retries.
type breaker struct {
	cb *gobreaker.CircuitBreaker[[]byte]
}

func newBreaker(name string) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A 4xx means TMDB is up and rejected this particular request. A call
		// the caller abandoned says nothing about TMDB's health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var ae *abandonedError
			if errors.As(err, &ae) {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l := logging.WithComponent("tmdb")
			l.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &breaker{cb: cb}
}

func (b *breaker) execute(fn func() ([]byte, error)) ([]byte, error) {
	return b.cb.Execute(fn)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
