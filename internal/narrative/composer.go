// Package narrative produces the short description shown with mood picks.
//
// A remote text-generation endpoint is used when configured. Every failure
// path ends in Fallback, so Compose always returns usable text.
package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/metrics"
	"github.com/justestif/go-movie-mood/internal/mood"
)

const (
	// fallbackTitles is how many titles the local template names.
	fallbackTitles = 3

	// maxBody caps provider replies. Larger replies fall back with reason "oversize".
	maxBody = 64 << 10
)

// Sentinel errors from the remote call. They never leave Compose.
var (
	ErrNotConfigured = errors.New("narrative endpoint not configured")
	ErrNoNarrative   = errors.New("response carried no narrative or message")
	ErrReplyTooLarge = fmt.Errorf("response body exceeds %d bytes", maxBody)
)

// Config configures the remote narrative provider.
type Config struct {
	Endpoint   string
	APIKey     string
	Revalidate time.Duration // advertised as Cache-Control max-age on requests
	Timeout    time.Duration
}

// Composer builds narratives for mood recommendations.
type Composer struct {
	endpoint   string
	revalidate time.Duration
	httpClient *http.Client // nil when not configured
}

// Option configures a Composer.
type Option func(*composerOptions)

type composerOptions struct {
	base *http.Client
}

// WithHTTPClient sets the client whose transport carries the bearer-token
// transport. Tests use it to point at an httptest server.
func WithHTTPClient(c *http.Client) Option {
	return func(o *composerOptions) {
		if c != nil {
			o.base = c
		}
	}
}

// NewComposer creates a Composer. If either Endpoint or APIKey is empty the
// composer never makes a network call.
func NewComposer(cfg Config, opts ...Option) *Composer {
	c := &Composer{
		endpoint:   cfg.Endpoint,
		revalidate: cfg.Revalidate,
	}
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return c
	}

	o := composerOptions{base: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	c.httpClient = oauth2.NewClient(ctx, src)
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = cfg.Timeout
	}
	return c
}

// Configured reports whether remote generation is enabled.
func (c *Composer) Configured() bool {
	return c.httpClient != nil
}

// Compose returns a narrative for the mood, profile and titles. It never
// fails: any problem with the remote provider yields Fallback.
func (c *Composer) Compose(ctx context.Context, moodText string, profile mood.Profile, titles []string) string {
	fallback := Fallback(profile, titles)

	text, err := c.generate(ctx, moodText, profile, titles)
	if err != nil {
		reason := fallbackReason(err)
		metrics.NarrativeFallbacks.WithLabelValues(reason).Inc()
		if !errors.Is(err, ErrNotConfigured) {
			logging.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("narrative generation failed, using fallback")
		}
		return fallback
	}
	return text
}

// Fallback renders the local template with the profile title and at most
// the first three titles.
func Fallback(profile mood.Profile, titles []string) string {
	n := min(len(titles), fallbackTitles)
	return fmt.Sprintf("Here are some \"%s\" picks like %s to match your vibe.", profile.Title, strings.Join(titles[:n], ", "))
}

type request struct {
	Mood    string       `json:"mood"`
	Profile mood.Profile `json:"profile"`
	Titles  []string     `json:"titles"`
}

// generate performs the single remote call.
func (c *Composer) generate(ctx context.Context, moodText string, profile mood.Profile, titles []string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if titles == nil {
		titles = []string{}
	}

	payload, err := json.Marshal(request{Mood: moodText, Profile: profile, Titles: titles})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.revalidate > 0 {
		req.Header.Set("Cache-Control", "max-age="+strconv.Itoa(int(c.revalidate.Seconds())))
	}

	start := time.Now()
	text, err := c.do(req)
	metrics.ObserveProvider("narrative", "generate", start, err)
	return text, err
}

func (c *Composer) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", &transportError{err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(body) > maxBody {
		return "", ErrReplyTooLarge
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	r, err := parseReply(body)
	if err != nil {
		return "", err
	}
	if r.source == sourceNone {
		return "", ErrNoNarrative
	}
	return r.text, nil
}

// StatusError reports a non-2xx answer from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("narrative endpoint returned status %d: %s", e.Code, strings.TrimSpace(e.Body))
}

type transportError struct{ err error }

func (e *transportError) Error() string { return "narrative request: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func fallbackReason(err error) string {
	var se *StatusError
	var te *transportError
	var de *decodeError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "unconfigured"
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &de):
		return "decode"
	case errors.Is(err, ErrNoNarrative):
		return "empty"
	case errors.Is(err, ErrReplyTooLarge):
		return "oversize"
	default:
		return "other"
	}
}
