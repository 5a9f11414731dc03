package broadcast

import (
	"encoding/json"
	"testing"
	"time"

	"quizify/internal/events"
	"quizify/internal/scores"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster(events.NewBus())
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.mu.Lock()
	if len(b.clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.clients))
	}
	b.mu.Unlock()

	b.Unsubscribe(ch)

	b.mu.Lock()
	if len(b.clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.clients))
	}
	b.mu.Unlock()

	// Channel is closed after unsubscribing.
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()

	b.Broadcast("trackChange", `{"trackId":"t1"}`)

	for _, ch := range []chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			if msg.Event != "trackChange" || msg.Data != `{"trackId":"t1"}` {
				t.Errorf("got %+v, want event=trackChange", msg)
			}
		case <-time.After(1 * time.Second):
			t.Fatal("subscriber timed out")
		}
	}

	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch := b.Subscribe()

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Broadcast("fill", "data")
	}

	done := make(chan bool)
	go func() {
		b.Broadcast("overflow", "data")
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on a full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_ScoreForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	bus.ScoreUpdates <- events.ScoreUpdateEvent{
		Entries: []scores.Entry{{Player: "Alice", Score: 3, Answered: true}},
	}

	select {
	case msg := <-ch:
		if msg.Event != "scores" {
			t.Errorf("event = %q, want scores", msg.Event)
		}
		var ev events.ScoreUpdateEvent
		if err := json.Unmarshal([]byte(msg.Data), &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(ev.Entries) != 1 || ev.Entries[0].Player != "Alice" {
			t.Errorf("payload = %+v, want Alice's entry", ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for score broadcast")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_GameEndForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	bus.GameEnds <- events.GameEndEvent{}

	select {
	case msg := <-ch:
		if msg.Event != "gameEnd" {
			t.Errorf("event = %q, want gameEnd", msg.Event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for game end broadcast")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_GameStartForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	bus.GameStarts <- events.GameStartEvent{RoomID: "ROOM42"}

	select {
	case msg := <-ch:
		if msg.Event != "gameStart" {
			t.Errorf("event = %q, want gameStart", msg.Event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for game start broadcast")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_CloseStopsForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()

	b.Close()
	// Idempotent
	b.Close()

	bus.ScoreUpdates <- events.ScoreUpdateEvent{Entries: []scores.Entry{{Player: "Alice", Score: 1}}}

	select {
	case msg := <-ch:
		t.Errorf("received %q after Close, want nothing", msg.Event)
	case <-time.After(200 * time.Millisecond):
	}

	b.Unsubscribe(ch)
}
