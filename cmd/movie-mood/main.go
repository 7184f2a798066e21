// Command movie-mood serves the movie discovery API.
package main

import (
	"fmt"
	"os"

	"github.com/justestif/go-movie-mood/internal/config"
	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/narrative"
	"github.com/justestif/go-movie-mood/internal/recommend"
	"github.com/justestif/go-movie-mood/internal/tmdb"
	"github.com/justestif/go-movie-mood/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	catalog := tmdb.NewClient(&tmdb.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
		Timeout:      cfg.TMDB.Timeout,
	})
	if !catalog.Configured() {
		logging.Warn().Msg("TMDB_API_KEY is not set, catalog requests will return no movies")
	}

	composer := narrative.NewComposer(narrative.Config{
		Endpoint:   cfg.Narrative.Endpoint,
		APIKey:     cfg.Narrative.APIKey,
		Revalidate: cfg.Narrative.Revalidate,
		Timeout:    cfg.Narrative.Timeout,
	})
	logging.Info().Bool("remote_narrative", cfg.NarrativeEnabled()).Msg("narrative composer ready")

	server := web.NewServer(web.ServerConfig{
		Addr:            cfg.Server.Addr,
		CORSOrigins:     cfg.Server.CORSOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, recommend.NewService(catalog, composer), catalog)

	return server.Run()
}
