package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"quizify/internal/events"
)

// Message is one server-sent event delivered to browser clients: an event
// name plus a JSON payload.
type Message struct {
	Event string
	Data  string
}

// Broadcaster fans room events out to every subscribed browser connection.
// Sends are non-blocking; a client that cannot keep up loses messages
// rather than stalling the room.
type Broadcaster struct {
	mu        sync.Mutex
	clients   map[chan Message]bool
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewBroadcaster wires a broadcaster to a room's event bus. The forwarding
// goroutine runs until Close.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		clients: make(map[chan Message]bool),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for {
			select {
			case <-b.quit:
				return
			case ev := <-bus.Players:
				b.broadcastJSON("players", ev)
			case ev := <-bus.ScoreUpdates:
				b.broadcastJSON("scores", ev)
			case ev := <-bus.TrackChanges:
				b.broadcastJSON("trackChange", ev)
			case ev := <-bus.PlayerSubmissions:
				b.broadcastJSON("playerSubmission", ev)
			case ev := <-bus.GameStarts:
				b.broadcastJSON("gameStart", ev)
			case ev := <-bus.GameEnds:
				b.broadcastJSON("gameEnd", ev)
			}
		}
	}()
	return b
}

// Close stops forwarding bus events and waits for the forwarding goroutine
// to exit. Safe to call more than once.
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		<-b.done
	})
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	delete(b.clients, ch)
	b.mu.Unlock()
	close(ch)
}

func (b *Broadcaster) broadcastJSON(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Broadcast] Marshal error: %v\n", err)
		return
	}
	b.Broadcast(event, string(data))
}

// Broadcast sends a message to all subscribers, dropping it for any whose
// buffer is full.
func (b *Broadcaster) Broadcast(event, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full buffers
		}
	}
}
