package search

import "testing"

func TestSequencer(t *testing.T) {
	var s Sequencer

	first := s.Next()
	if !s.Current(first) {
		t.Error("newest id should be current")
	}

	second := s.Next()
	if s.Current(first) {
		t.Error("earlier id should be stale once a newer request exists")
	}
	if !s.Current(second) {
		t.Error("newest id should be current")
	}
}

func TestSequencer_Monotonic(t *testing.T) {
	var s Sequencer
	prev := s.Next()
	for i := 0; i < 100; i++ {
		id := s.Next()
		if id <= prev {
			t.Fatalf("Next() = %d after %d, want strictly increasing", id, prev)
		}
		prev = id
	}
}
