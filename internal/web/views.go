package web

import (
	"github.com/justestif/go-movie-mood/internal/mood"
	"github.com/justestif/go-movie-mood/internal/tmdb"
)

// ImageResolver turns TMDB image paths into absolute URLs.
type ImageResolver interface {
	PosterURL(path string, size tmdb.ImageSize) string
	BackdropURL(path string, size tmdb.ImageSize) string
}

type movieView struct {
	tmdb.Movie
	PosterURL   string `json:"poster_url,omitempty"`
	BackdropURL string `json:"backdrop_url,omitempty"`
}

// detailsView lists its fields flat. go-json drops the promoted fields of an
// embedded struct that itself embeds tmdb.Movie.
type detailsView struct {
	ID                  int                      `json:"id"`
	Title               string                   `json:"title"`
	Overview            string                   `json:"overview"`
	ReleaseDate         string                   `json:"release_date"`
	VoteAverage         float64                  `json:"vote_average"`
	PosterPath          string                   `json:"poster_path"`
	BackdropPath        string                   `json:"backdrop_path"`
	GenreIDs            []int                    `json:"genre_ids,omitempty"`
	Runtime             *int                     `json:"runtime"`
	Tagline             string                   `json:"tagline"`
	Genres              []tmdb.Genre             `json:"genres"`
	Status              string                   `json:"status"`
	Homepage            string                   `json:"homepage"`
	SpokenLanguages     []tmdb.SpokenLanguage    `json:"spoken_languages"`
	ProductionCountries []tmdb.ProductionCountry `json:"production_countries"`
	Credits             *tmdb.Credits            `json:"credits,omitempty"`
	Videos              *tmdb.Videos             `json:"videos,omitempty"`
	PosterURL           string                   `json:"poster_url,omitempty"`
	BackdropURL         string                   `json:"backdrop_url,omitempty"`
}

type moodResponse struct {
	Mood      string       `json:"mood"`
	Profile   mood.Profile `json:"profile"`
	Narrative string       `json:"narrative"`
	Movies    []movieView  `json:"movies"`
}

type railView struct {
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Movies   []movieView `json:"movies"`
}

type runtimeResponse struct {
	MaxMinutes int         `json:"maxMinutes"`
	Movies     []movieView `json:"movies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) movieViews(movies []tmdb.Movie) []movieView {
	views := make([]movieView, len(movies))
	for i, m := range movies {
		views[i] = movieView{
			Movie:       m,
			PosterURL:   h.images.PosterURL(m.PosterPath, tmdb.DefaultPosterSize),
			BackdropURL: h.images.BackdropURL(m.BackdropPath, tmdb.DefaultBackdropSize),
		}
	}
	return views
}

func (h *Handlers) detailsView(d *tmdb.MovieDetails) detailsView {
	return detailsView{
		ID:                  d.ID,
		Title:               d.Title,
		Overview:            d.Overview,
		ReleaseDate:         d.ReleaseDate,
		VoteAverage:         d.VoteAverage,
		PosterPath:          d.PosterPath,
		BackdropPath:        d.BackdropPath,
		GenreIDs:            d.GenreIDs,
		Runtime:             d.Runtime,
		Tagline:             d.Tagline,
		Genres:              d.Genres,
		Status:              d.Status,
		Homepage:            d.Homepage,
		SpokenLanguages:     d.SpokenLanguages,
		ProductionCountries: d.ProductionCountries,
		Credits:             d.Credits,
		Videos:              d.Videos,
		PosterURL:           h.images.PosterURL(d.PosterPath, tmdb.DefaultPosterSize),
		BackdropURL:         h.images.BackdropURL(d.BackdropPath, tmdb.DefaultBackdropSize),
	}
}
