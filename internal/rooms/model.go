package rooms

import (
	"time"

	"quizify/internal/broadcast"
	"quizify/internal/events"
	"quizify/internal/playback"
	"quizify/internal/session"
)

// Room is one active game-room view on this server: the hub-backed game
// session, the host's playback session, and the SSE fan-out for browsers.
type Room struct {
	RoomID      string
	Session     *session.Session
	Playback    *playback.Session
	Broadcaster *broadcast.Broadcaster
	Bus         *events.Bus
	CreatedAt   time.Time
	HostID      string

	// GameID is the local history row for this game, when a database is
	// configured. Set once at creation.
	GameID string
}
