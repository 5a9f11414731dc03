package track

import "testing"

func TestParse(t *testing.T) {
	payload := `{"trackId":"t1","trackName":"Yesterday","artistName":"The Beatles","artistIds":["a1","a2"]}`
	tr, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if tr.TrackID != "t1" {
		t.Errorf("TrackID = %q, want %q", tr.TrackID, "t1")
	}
	if tr.TrackName != "Yesterday" {
		t.Errorf("TrackName = %q, want %q", tr.TrackName, "Yesterday")
	}
	if tr.ArtistName != "The Beatles" {
		t.Errorf("ArtistName = %q, want %q", tr.ArtistName, "The Beatles")
	}
	if len(tr.ArtistIDs) != 2 {
		t.Errorf("ArtistIDs count = %d, want 2", len(tr.ArtistIDs))
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("Parse should reject malformed JSON")
	}
}

func TestParse_MissingTrackID(t *testing.T) {
	if _, err := Parse([]byte(`{"trackName":"Yesterday"}`)); err == nil {
		t.Error("Parse should reject a payload without trackId")
	}
}

func TestHasArtist(t *testing.T) {
	tr := &CurrentTrack{ArtistIDs: []string{"a1", "a2"}}
	if !tr.HasArtist("a2") {
		t.Error("HasArtist(a2) = false, want true")
	}
	if tr.HasArtist("a3") {
		t.Error("HasArtist(a3) = true, want false")
	}
}
