package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/justestif/go-movie-mood/internal/logging"
	"github.com/justestif/go-movie-mood/internal/mood"
	"github.com/justestif/go-movie-mood/internal/recommend"
	"github.com/justestif/go-movie-mood/internal/tmdb"
)

// Query defaults for the API routes.
const (
	moodLimit         = recommend.DefaultMoodLimit
	searchLimit       = 16
	runtimeLimit      = recommend.DefaultRuntimeLimit
	defaultMaxMinutes = recommend.DefaultMaxRuntime

	maxRequestBody = 16 << 10
)

// Error messages returned to API callers.
const (
	msgMoodRequired  = "Mood is required"
	msgMoodFailed    = "Failed to curate recommendations"
	msgInvalidID     = "Invalid movie id"
	msgMovieNotFound = "Movie not found"
)

// Recommender is the recommendation service behind the API.
type Recommender interface {
	Recommend(ctx context.Context, moodText string) recommend.Result
	Rails(ctx context.Context) []recommend.Rail
	ByRuntime(ctx context.Context, maxMinutes, limit int) []tmdb.Movie
	Search(ctx context.Context, query string, limit int) []tmdb.Movie
	Details(ctx context.Context, id int) *tmdb.MovieDetails
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	recommender Recommender
	images      ImageResolver
	validate    *validator.Validate
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(recommender Recommender, images ImageResolver) *Handlers {
	return &Handlers{
		recommender: recommender,
		images:      images,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

type moodRequest struct {
	Mood string `json:"mood" validate:"required"`
}

// Health reports liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Moods lists the mood profiles in match priority order (GET /api/moods).
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"profiles": mood.Profiles()})
}

// Mood returns picks for a free-text mood (POST /api/mood).
func (h *Handlers) Mood(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("reading mood request")
		writeError(w, r, http.StatusInternalServerError, msgMoodFailed)
		return
	}

	// Unmarshal rejects trailing data after the object.
	var req moodRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("decoding mood request")
		writeError(w, r, http.StatusInternalServerError, msgMoodFailed)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, r, http.StatusBadRequest, msgMoodRequired)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("validating mood request")
		writeError(w, r, http.StatusInternalServerError, msgMoodFailed)
		return
	}

	res := h.recommender.Recommend(r.Context(), req.Mood)
	writeJSON(w, r, http.StatusOK, moodResponse{
		Mood:      res.Mood,
		Profile:   res.Profile,
		Narrative: res.Narrative,
		Movies:    h.movieViews(res.Movies),
	})
}

// Rails returns the home page rails (GET /api/rails).
func (h *Handlers) Rails(w http.ResponseWriter, r *http.Request) {
	rails := h.recommender.Rails(r.Context())

	views := make([]railView, len(rails))
	for i, rail := range rails {
		views[i] = railView{
			Title:    rail.Title,
			Category: string(rail.Category),
			Movies:   h.movieViews(rail.Movies),
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"rails": views})
}

// Search returns titles matching q (GET /api/search?q=).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	movies := h.recommender.Search(r.Context(), r.URL.Query().Get("q"), searchLimit)
	writeJSON(w, r, http.StatusOK, map[string]any{"movies": h.movieViews(movies)})
}

// Runtime returns popular movies under a runtime cap
// (GET /api/runtime?maxMinutes=&limit=).
func (h *Handlers) Runtime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxMinutes := positiveInt(q.Get("maxMinutes"), defaultMaxMinutes)
	limit := positiveInt(q.Get("limit"), runtimeLimit)

	movies := h.recommender.ByRuntime(r.Context(), maxMinutes, limit)
	writeJSON(w, r, http.StatusOK, runtimeResponse{
		MaxMinutes: maxMinutes,
		Movies:     h.movieViews(movies),
	})
}

// Movie returns a single movie's details (GET /api/movie/{id}).
func (h *Handlers) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}

	details := h.recommender.Details(r.Context(), id)
	if details == nil {
		writeError(w, r, http.StatusNotFound, msgMovieNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"movie": h.detailsView(details)})
}

// positiveInt parses s, returning def when it is missing, malformed or
// not positive.
func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
