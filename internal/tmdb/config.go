// Package tmdb is a client for The Movie Database (TMDB) v3 API.
package tmdb

import (
	"errors"
	"time"
)

// Defaults for Config fields left empty.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultLanguage     = "en-US"
	DefaultTimeout      = 10 * time.Second
)

// ErrMissingAPIKey is returned by every request when no API key is configured.
var ErrMissingAPIKey = errors.New("TMDB API key is not set")

// Config holds TMDB API configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.ImageBaseURL == "" {
		out.ImageBaseURL = DefaultImageBaseURL
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return out
}
