package mood

import "strings"

// priority is the order keyword lists are checked in. When an input contains
// keywords for several profiles, the earliest key here wins.
var priority = [...]Key{Comfort, Adrenaline, Romance, Curious, Uplift}

// keywords are matched by substring containment against the lowercased input,
// so "low" also matches inside "flower". That is accepted.
var keywords = map[Key][]string{
	Comfort:    {"sad", "blue", "low", "comfort", "우울", "침체", "down"},
	Adrenaline: {"thrill", "bored", "adrenaline", "action", "지루", "스릴", "액션", "짜릿"},
	Romance:    {"love", "romance", "date", "설레", "데이트"},
	Curious:    {"mystery", "focus", "curious", "집중", "호기심", "몰입", "생각"},
	Uplift:     {"inspire", "growth", "healing", "hope", "영감", "성장", "motivated"},
}

// secondary triggers are only consulted when no keyword list matched.
var secondary = [...]struct {
	substr string
	key    Key
}{
	{"웃", Comfort},
	{"긴장", Adrenaline},
}

// DefaultKey is returned when nothing in the input matches.
const DefaultKey = Uplift

// MatchKind describes which rule tier selected a profile.
type MatchKind int

const (
	MatchKeyword MatchKind = iota
	MatchSecondary
	MatchDefault
)

func (m MatchKind) String() string {
	switch m {
	case MatchKeyword:
		return "keyword"
	case MatchSecondary:
		return "secondary"
	default:
		return "default"
	}
}

// Resolve returns the profile for a free-text mood. It never fails: input
// with no recognizable keyword resolves to the DefaultKey profile.
func Resolve(raw string) Profile {
	p, _ := Classify(raw)
	return p
}

// Classify is Resolve plus the rule tier that made the decision.
func Classify(raw string) (Profile, MatchKind) {
	key, kind := resolveKey(strings.ToLower(raw))
	return profiles[key].clone(), kind
}

func resolveKey(normalized string) (Key, MatchKind) {
	for _, key := range priority {
		for _, kw := range keywords[key] {
			if strings.Contains(normalized, kw) {
				return key, MatchKeyword
			}
		}
	}

	for _, s := range secondary {
		if strings.Contains(normalized, s.substr) {
			return s.key, MatchSecondary
		}
	}

	return DefaultKey, MatchDefault
}
