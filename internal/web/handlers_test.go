package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/justestif/go-movie-mood/internal/mood"
	"github.com/justestif/go-movie-mood/internal/recommend"
	"github.com/justestif/go-movie-mood/internal/tmdb"
)

// fakeRecommender implements Recommender for testing.
type fakeRecommender struct {
	movies  []tmdb.Movie
	details map[int]*tmdb.MovieDetails

	moodText   string
	query      string
	limit      int
	maxMinutes int
	calls      int
}

func (f *fakeRecommender) Recommend(ctx context.Context, moodText string) recommend.Result {
	f.calls++
	f.moodText = moodText
	return recommend.Result{
		Mood:      moodText,
		Profile:   mood.Resolve(moodText),
		Narrative: "narrative text",
		Movies:    f.movies,
	}
}

func (f *fakeRecommender) Rails(ctx context.Context) []recommend.Rail {
	f.calls++
	return []recommend.Rail{
		{Title: "Trending Now", Category: tmdb.Popular, Movies: f.movies},
		{Title: "Top Rated", Category: tmdb.TopRated, Movies: []tmdb.Movie{}},
		{Title: "Coming Soon", Category: tmdb.Upcoming, Movies: []tmdb.Movie{}},
	}
}

func (f *fakeRecommender) ByRuntime(ctx context.Context, maxMinutes, limit int) []tmdb.Movie {
	f.calls++
	f.maxMinutes = maxMinutes
	f.limit = limit
	return f.movies
}

func (f *fakeRecommender) Search(ctx context.Context, query string, limit int) []tmdb.Movie {
	f.calls++
	f.query = query
	f.limit = limit
	if strings.TrimSpace(query) == "" {
		return []tmdb.Movie{}
	}
	return f.movies
}

func (f *fakeRecommender) Details(ctx context.Context, id int) *tmdb.MovieDetails {
	f.calls++
	return f.details[id]
}

func newTestServer(t *testing.T, rec *fakeRecommender) http.Handler {
	t.Helper()
	images := tmdb.NewClient(&tmdb.Config{ImageBaseURL: "https://img.example/t/p"})
	return NewServer(ServerConfig{}, rec, images).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func sampleMovies() []tmdb.Movie {
	return []tmdb.Movie{
		{ID: 1, Title: "Paddington 2", PosterPath: "/p2.jpg", BackdropPath: "/b2.jpg"},
		{ID: 2, Title: "Amélie"},
	}
}

func TestMood(t *testing.T) {
	rec := &fakeRecommender{movies: sampleMovies()}
	h := newTestServer(t, rec)

	resp := do(t, h, http.MethodPost, "/api/mood", `{"mood":"I feel low"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var got struct {
		Mood      string `json:"mood"`
		Narrative string `json:"narrative"`
		Profile   struct {
			Key    string `json:"key"`
			Title  string `json:"title"`
			Genres []int  `json:"genres"`
		} `json:"profile"`
		Movies []struct {
			ID          int    `json:"id"`
			Title       string `json:"title"`
			PosterPath  string `json:"poster_path"`
			PosterURL   string `json:"poster_url"`
			BackdropURL string `json:"backdrop_url"`
		} `json:"movies"`
	}
	decode(t, resp, &got)

	if got.Mood != "I feel low" || got.Narrative != "narrative text" {
		t.Errorf("mood=%q narrative=%q", got.Mood, got.Narrative)
	}
	if got.Profile.Key != "comfort" || got.Profile.Title != "Feel-Good Comedy" || len(got.Profile.Genres) != 2 {
		t.Errorf("profile = %+v", got.Profile)
	}
	if len(got.Movies) != 2 {
		t.Fatalf("len(movies) = %d", len(got.Movies))
	}
	first := got.Movies[0]
	if first.PosterPath != "/p2.jpg" {
		t.Errorf("poster_path = %q", first.PosterPath)
	}
	if first.PosterURL != "https://img.example/t/p/w500/p2.jpg" {
		t.Errorf("poster_url = %q", first.PosterURL)
	}
	if first.BackdropURL != "https://img.example/t/p/original/b2.jpg" {
		t.Errorf("backdrop_url = %q", first.BackdropURL)
	}
	if got.Movies[1].PosterURL != "" {
		t.Errorf("missing poster resolved to %q", got.Movies[1].PosterURL)
	}
}

func TestMood_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"empty mood", `{"mood":""}`, http.StatusBadRequest, "Mood is required"},
		{"missing mood", `{}`, http.StatusBadRequest, "Mood is required"},
		{"malformed body", `{"mood":`, http.StatusInternalServerError, "Failed to curate recommendations"},
		{"wrong type", `{"mood":42}`, http.StatusInternalServerError, "Failed to curate recommendations"},
		{"trailing bytes", `{"mood":"sad"}garbage`, http.StatusInternalServerError, "Failed to curate recommendations"},
		{"second object", `{"mood":"sad"}{"mood":"low"}`, http.StatusInternalServerError, "Failed to curate recommendations"},
		{"oversized body", `{"mood":"` + strings.Repeat("a", maxRequestBody) + `"}`, http.StatusInternalServerError, "Failed to curate recommendations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecommender{}
			resp := do(t, newTestServer(t, rec), http.MethodPost, "/api/mood", tt.body)

			if resp.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.Code, tt.wantStatus)
			}
			var got errorResponse
			decode(t, resp, &got)
			if got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
			if rec.calls != 0 {
				t.Errorf("recommender called %d times", rec.calls)
			}
		})
	}
}

func TestMood_WhitespaceIsAccepted(t *testing.T) {
	rec := &fakeRecommender{}
	resp := do(t, newTestServer(t, rec), http.MethodPost, "/api/mood", `{"mood":"   "}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var got moodResponse
	decode(t, resp, &got)
	if got.Profile.Key != mood.Uplift {
		t.Errorf("profile = %s, want uplift", got.Profile.Key)
	}
	if got.Movies == nil {
		t.Error("movies encoded as null")
	}
}

func TestRails(t *testing.T) {
	rec := &fakeRecommender{movies: sampleMovies()}
	resp := do(t, newTestServer(t, rec), http.MethodGet, "/api/rails", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var got struct {
		Rails []railView `json:"rails"`
	}
	decode(t, resp, &got)
	if len(got.Rails) != 3 {
		t.Fatalf("len(rails) = %d", len(got.Rails))
	}
	if got.Rails[0].Title != "Trending Now" || got.Rails[0].Category != "popular" || len(got.Rails[0].Movies) != 2 {
		t.Errorf("rails[0] = %+v", got.Rails[0])
	}
	if got.Rails[2].Title != "Coming Soon" || got.Rails[2].Movies == nil {
		t.Errorf("rails[2] = %+v", got.Rails[2])
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		query   string
		wantLen int
	}{
		{"query", "/api/search?q=paddington", "paddington", 2},
		{"blank", "/api/search?q=%20%20", "  ", 0},
		{"missing", "/api/search", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecommender{movies: sampleMovies()}
			resp := do(t, newTestServer(t, rec), http.MethodGet, tt.target, "")
			if resp.Code != http.StatusOK {
				t.Fatalf("status = %d", resp.Code)
			}

			var got struct {
				Movies []movieView `json:"movies"`
			}
			decode(t, resp, &got)
			if got.Movies == nil || len(got.Movies) != tt.wantLen {
				t.Errorf("movies = %v, want %d", got.Movies, tt.wantLen)
			}
			if rec.query != tt.query {
				t.Errorf("query = %q, want %q", rec.query, tt.query)
			}
			if rec.limit != searchLimit {
				t.Errorf("limit = %d, want %d", rec.limit, searchLimit)
			}
		})
	}
}

func TestRuntime(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		wantMaxMinutes int
		wantLimit      int
	}{
		{"defaults", "/api/runtime", 120, 12},
		{"explicit", "/api/runtime?maxMinutes=90&limit=5", 90, 5},
		{"non-numeric", "/api/runtime?maxMinutes=long&limit=many", 120, 12},
		{"non-positive", "/api/runtime?maxMinutes=0&limit=-3", 120, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecommender{movies: sampleMovies()}
			resp := do(t, newTestServer(t, rec), http.MethodGet, tt.target, "")
			if resp.Code != http.StatusOK {
				t.Fatalf("status = %d", resp.Code)
			}

			var got runtimeResponse
			decode(t, resp, &got)
			if got.MaxMinutes != tt.wantMaxMinutes {
				t.Errorf("maxMinutes = %d, want %d", got.MaxMinutes, tt.wantMaxMinutes)
			}
			if rec.maxMinutes != tt.wantMaxMinutes || rec.limit != tt.wantLimit {
				t.Errorf("called with (%d, %d), want (%d, %d)", rec.maxMinutes, rec.limit, tt.wantMaxMinutes, tt.wantLimit)
			}
			if len(got.Movies) != 2 {
				t.Errorf("len(movies) = %d", len(got.Movies))
			}
		})
	}
}

func TestMovie(t *testing.T) {
	runtime := 148
	rec := &fakeRecommender{details: map[int]*tmdb.MovieDetails{
		27205: {
			Movie:   tmdb.Movie{ID: 27205, Title: "Inception", PosterPath: "/inc.jpg"},
			Runtime: &runtime,
			Tagline: "Your mind is the scene of the crime.",
			Genres:  []tmdb.Genre{{ID: 28, Name: "Action"}},
			Status:  "Released",
			SpokenLanguages: []tmdb.SpokenLanguage{
				{EnglishName: "English", ISO6391: "en", Name: "English"},
			},
			ProductionCountries: []tmdb.ProductionCountry{{ISO31661: "US", Name: "United States of America"}},
			Credits: &tmdb.Credits{Cast: []tmdb.CastMember{
				{ID: 6193, Name: "Leonardo DiCaprio", Character: "Cobb"},
			}},
			Videos: &tmdb.Videos{Results: []tmdb.Video{{Key: "YoHD9XEInc0", Site: "YouTube", Type: "Trailer"}}},
		},
	}}
	h := newTestServer(t, rec)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"found", "/api/movie/27205", http.StatusOK, ""},
		{"unknown", "/api/movie/1", http.StatusNotFound, "Movie not found"},
		{"zero", "/api/movie/0", http.StatusBadRequest, "Invalid movie id"},
		{"negative", "/api/movie/-4", http.StatusBadRequest, "Invalid movie id"},
		{"non-numeric", "/api/movie/abc", http.StatusBadRequest, "Invalid movie id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, h, http.MethodGet, tt.target, "")
			if resp.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				var got errorResponse
				decode(t, resp, &got)
				if got.Error != tt.wantError {
					t.Errorf("error = %q, want %q", got.Error, tt.wantError)
				}
				return
			}

			var got struct {
				Movie struct {
					ID        int    `json:"id"`
					Title     string `json:"title"`
					Runtime   *int   `json:"runtime"`
					Tagline   string `json:"tagline"`
					PosterURL string `json:"poster_url"`
					Status    string `json:"status"`
					Genres    []struct {
						Name string `json:"name"`
					} `json:"genres"`
					SpokenLanguages []struct {
						ISO6391 string `json:"iso_639_1"`
					} `json:"spoken_languages"`
					ProductionCountries []struct {
						ISO31661 string `json:"iso_3166_1"`
					} `json:"production_countries"`
					Credits *struct {
						Cast []struct {
							Name string `json:"name"`
						} `json:"cast"`
					} `json:"credits"`
					Videos *struct {
						Results []struct {
							Key string `json:"key"`
						} `json:"results"`
					} `json:"videos"`
				} `json:"movie"`
			}
			decode(t, resp, &got)
			if got.Movie.ID != 27205 || got.Movie.Title != "Inception" {
				t.Errorf("movie = %+v", got.Movie)
			}
			if got.Movie.Runtime == nil || *got.Movie.Runtime != 148 {
				t.Errorf("runtime = %v", got.Movie.Runtime)
			}
			if got.Movie.PosterURL != "https://img.example/t/p/w500/inc.jpg" {
				t.Errorf("poster_url = %q", got.Movie.PosterURL)
			}
			if got.Movie.Tagline != "Your mind is the scene of the crime." || got.Movie.Status != "Released" {
				t.Errorf("tagline = %q, status = %q", got.Movie.Tagline, got.Movie.Status)
			}
			if len(got.Movie.Genres) != 1 || got.Movie.Genres[0].Name != "Action" {
				t.Errorf("genres = %+v", got.Movie.Genres)
			}
			if len(got.Movie.SpokenLanguages) != 1 || got.Movie.SpokenLanguages[0].ISO6391 != "en" {
				t.Errorf("spoken_languages = %+v", got.Movie.SpokenLanguages)
			}
			if len(got.Movie.ProductionCountries) != 1 || got.Movie.ProductionCountries[0].ISO31661 != "US" {
				t.Errorf("production_countries = %+v", got.Movie.ProductionCountries)
			}
			if got.Movie.Credits == nil || len(got.Movie.Credits.Cast) != 1 || got.Movie.Credits.Cast[0].Name != "Leonardo DiCaprio" {
				t.Errorf("credits = %+v", got.Movie.Credits)
			}
			if got.Movie.Videos == nil || len(got.Movie.Videos.Results) != 1 || got.Movie.Videos.Results[0].Key != "YoHD9XEInc0" {
				t.Errorf("videos = %+v", got.Movie.Videos)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, &fakeRecommender{})

	resp := do(t, h, http.MethodGet, "/healthz", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.Code)
	}
	var health map[string]string
	decode(t, resp, &health)
	if health["status"] != "ok" {
		t.Errorf("healthz = %v", health)
	}

	// Generate at least one observation before scraping.
	do(t, h, http.MethodGet, "/api/search?q=x", "")

	resp = do(t, h, http.MethodGet, "/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "movie_mood_http_requests_total") {
		t.Error("metrics output missing http request counter")
	}
}

func TestCORS(t *testing.T) {
	images := tmdb.NewClient(&tmdb.Config{})
	h := NewServer(ServerConfig{CORSOrigins: []string{"https://movies.example"}}, &fakeRecommender{}, images).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/mood", nil)
	req.Header.Set("Origin", "https://movies.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://movies.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Access-Control-Allow-Origin = %q", got)
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 7},
		{"abc", 7},
		{"0", 7},
		{"-1", 7},
		{"1.5", 7},
		{"42", 42},
	}
	for _, tt := range tests {
		if got := positiveInt(tt.in, 7); got != tt.want {
			t.Errorf("positiveInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &fakeRecommender{})

	resp := do(t, h, http.MethodGet, "/healthz", "")
	generated := resp.Header().Get("X-Request-Id")
	if len(generated) != 36 {
		t.Errorf("generated X-Request-Id = %q, want a UUID", generated)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want inbound value", got)
	}
}

func TestMoods(t *testing.T) {
	resp := do(t, newTestServer(t, &fakeRecommender{}), http.MethodGet, "/api/moods", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var got struct {
		Profiles []mood.Profile `json:"profiles"`
	}
	decode(t, resp, &got)

	want := []mood.Key{mood.Comfort, mood.Adrenaline, mood.Romance, mood.Curious, mood.Uplift}
	if len(got.Profiles) != len(want) {
		t.Fatalf("len(profiles) = %d", len(got.Profiles))
	}
	for i, k := range want {
		if got.Profiles[i].Key != k {
			t.Errorf("profiles[%d] = %s, want %s", i, got.Profiles[i].Key, k)
		}
	}
}
