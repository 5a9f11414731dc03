package track

import (
	"encoding/json"
	"fmt"
)

// CurrentTrack is the authoritative track for the current round, as
// announced by the host over the hub. It is replaced wholesale when the
// round advances and never mutated in place.
type CurrentTrack struct {
	TrackID    string   `json:"trackId"`
	TrackName  string   `json:"trackName"`
	ArtistName string   `json:"artistName"`
	ArtistIDs  []string `json:"artistIds"`
}

// HasArtist reports whether id is one of the track's credited artists.
func (t *CurrentTrack) HasArtist(id string) bool {
	for _, a := range t.ArtistIDs {
		if a == id {
			return true
		}
	}
	return false
}

// Parse decodes a serialized track-change payload. A payload that does not
// decode, or that carries no trackId, is rejected so the caller can drop
// the event and keep its previous track.
func Parse(data []byte) (*CurrentTrack, error) {
	var t CurrentTrack
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing track info: %w", err)
	}
	if t.TrackID == "" {
		return nil, fmt.Errorf("parsing track info: missing trackId")
	}
	return &t, nil
}
