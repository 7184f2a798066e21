package tmdb

// Movie is a title as returned by list, discover and search endpoints.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`   // relative; empty when TMDB sends null
	BackdropPath string  `json:"backdrop_path"` // relative; empty when TMDB sends null
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SpokenLanguage is a language spoken in a movie.
type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
}

// ProductionCountry is a country a movie was produced in.
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// Video is a trailer, teaser or clip attached to a movie.
type Video struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// CastMember is one entry of a movie's cast.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// Credits holds the cast appended to movie details.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Videos holds the videos appended to movie details.
type Videos struct {
	Results []Video `json:"results"`
}

// MovieDetails is the full record for a single movie, with credits and videos appended.
type MovieDetails struct {
	Movie
	Runtime             *int                `json:"runtime"`
	Tagline             string              `json:"tagline"`
	Genres              []Genre             `json:"genres"`
	Status              string              `json:"status"`
	Homepage            string              `json:"homepage"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	Credits             *Credits            `json:"credits,omitempty"`
	Videos              *Videos             `json:"videos,omitempty"`
}

// listResponse is the paged envelope used by list, discover and search.
type listResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// apiError is TMDB's error body.
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
