// Package mood maps free-text mood descriptions to curated recommendation profiles.
package mood

import (
	"slices"
	"strconv"
	"strings"
)

// Key identifies a mood profile.
type Key string

// Profile keys.
const (
	Comfort    Key = "comfort"
	Adrenaline Key = "adrenaline"
	Romance    Key = "romance"
	Curious    Key = "curious"
	Uplift     Key = "uplift"
)

// TMDB sort directives used by the profiles.
const (
	SortVoteAverageDesc = "vote_average.desc"
	SortPopularityDesc  = "popularity.desc"
)

// Profile is a fixed recommendation configuration. Zero RuntimeLTE and
// VoteAverageGTE mean the profile sets no limit.
type Profile struct {
	Key            Key     `json:"key"`
	Title          string  `json:"title"`
	Tone           string  `json:"tone"`
	Genres         []int   `json:"genres"`
	SortBy         string  `json:"sortBy"`
	RuntimeLTE     int     `json:"runtimeLte,omitempty"`
	VoteAverageGTE float64 `json:"voteAverageGte,omitempty"`
}

// GenreFilter returns the genre IDs joined with commas, as TMDB's
// with_genres parameter expects.
func (p Profile) GenreFilter() string {
	ids := make([]string, len(p.Genres))
	for i, g := range p.Genres {
		ids[i] = strconv.Itoa(g)
	}
	return strings.Join(ids, ",")
}

// profiles is read-only after package initialization. Accessors hand out copies.
var profiles = map[Key]Profile{
	Comfort: {
		Key:            Comfort,
		Title:          "Feel-Good Comedy",
		Tone:           "Gentle humor and cuddle-core optimism",
		Genres:         []int{35, 10751},
		SortBy:         SortVoteAverageDesc,
		VoteAverageGTE: 6,
	},
	Adrenaline: {
		Key:    Adrenaline,
		Title:  "Pulse-Raising Thrillers",
		Tone:   "High-adrenaline chases and suspense",
		Genres: []int{28, 53},
		SortBy: SortPopularityDesc,
	},
	Romance: {
		Key:    Romance,
		Title:  "Heartflutter Romance",
		Tone:   "Emotion-packed love stories",
		Genres: []int{10749, 18},
		SortBy: SortVoteAverageDesc,
	},
	Curious: {
		Key:    Curious,
		Title:  "Immersive Mysteries",
		Tone:   "Mind-twisting cinema",
		Genres: []int{9648, 18},
		SortBy: SortPopularityDesc,
	},
	Uplift: {
		Key:    Uplift,
		Title:  "Uplifting Journeys",
		Tone:   "Warm, human-centered storytelling",
		Genres: []int{18, 16},
		SortBy: SortVoteAverageDesc,
	},
}

// Lookup returns the profile for key.
func Lookup(key Key) (Profile, bool) {
	p, ok := profiles[key]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// Profiles returns every profile in match priority order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(priority))
	for _, k := range priority {
		out = append(out, profiles[k].clone())
	}
	return out
}

func (p Profile) clone() Profile {
	p.Genres = slices.Clone(p.Genres)
	return p
}
