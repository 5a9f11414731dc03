package events

import (
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.Players == nil || bus.ScoreUpdates == nil || bus.TrackChanges == nil ||
		bus.PlayerSubmissions == nil || bus.GameStarts == nil || bus.GameEnds == nil {
		t.Fatal("bus channel is nil")
	}
}

func TestBus_SendReceive(t *testing.T) {
	bus := NewBus()

	go func() {
		bus.TrackChanges <- TrackChangeEvent{TrackID: "t1"}
	}()

	select {
	case received := <-bus.TrackChanges:
		if received.TrackID != "t1" {
			t.Errorf("received TrackID = %q, want %q", received.TrackID, "t1")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_Buffered(t *testing.T) {
	bus := NewBus()

	// Should be able to send up to 10 without blocking
	for i := 0; i < 10; i++ {
		bus.PlayerSubmissions <- PlayerSubmissionEvent{PlayerName: "Alice"}
	}

	// Drain
	for i := 0; i < 10; i++ {
		<-bus.PlayerSubmissions
	}
}
