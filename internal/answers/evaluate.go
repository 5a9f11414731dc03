package answers

import (
	"strings"

	"quizify/internal/track"
)

// Candidate is a single search result for an artist or track, used to
// resolve a free-text guess to an authoritative catalog identifier.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Outcome is the result of evaluating one guess against the current track.
// A nil correctness flag means the field was left blank: it is neither
// right nor wrong, just unanswered.
type Outcome struct {
	ArtistCorrect *bool
	TrackCorrect  *bool
	Points        int
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchCandidate finds a cached candidate whose normalized name equals the
// normalized guess and returns its id, or "" when there is none.
func matchCandidate(guess string, cands []Candidate) string {
	for _, c := range cands {
		if normalize(c.Name) == guess {
			return c.ID
		}
	}
	return ""
}

// Evaluate scores a guess against the current track. The two fields are
// judged independently and their points added, one point each.
//
// A field is correct when either the guess resolves through the candidate
// cache to an authoritative id, or the normalized authoritative name
// contains the normalized guess as a substring. The two checks are OR'd;
// a field never earns more than one point.
func Evaluate(guessArtist, guessTrack string, cur *track.CurrentTrack, artistCands, trackCands []Candidate) Outcome {
	var out Outcome
	if cur == nil {
		return out
	}

	if g := normalize(guessArtist); g != "" {
		correct := false
		if id := matchCandidate(g, artistCands); id != "" && cur.HasArtist(id) {
			correct = true
		}
		if strings.Contains(normalize(cur.ArtistName), g) {
			correct = true
		}
		out.ArtistCorrect = &correct
		if correct {
			out.Points++
		}
	}

	if g := normalize(guessTrack); g != "" {
		correct := false
		if id := matchCandidate(g, trackCands); id != "" && id == cur.TrackID {
			correct = true
		}
		if strings.Contains(normalize(cur.TrackName), g) {
			correct = true
		}
		out.TrackCorrect = &correct
		if correct {
			out.Points++
		}
	}

	return out
}
