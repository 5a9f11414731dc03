package events

import "quizify/internal/scores"

// Player is the room roster entry shared with browser clients.
type Player struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Host   bool   `json:"host"`
	Color  string `json:"color"`
}

type PlayersEvent struct {
	Players []Player `json:"players"`
}

type ScoreUpdateEvent struct {
	Entries []scores.Entry `json:"entries"`
}

// TrackChangeEvent announces a round advance. Only the track id crosses to
// the browser; name and artist would give the answer away.
type TrackChangeEvent struct {
	TrackID string `json:"trackId"`
}

type PlayerSubmissionEvent struct {
	PlayerName string `json:"playerName"`
}

// GameStartEvent moves the room out of the lobby.
type GameStartEvent struct {
	RoomID string `json:"roomId"`
}

type GameEndEvent struct {
	Entries []scores.Entry `json:"entries"`
}

// Bus carries room events from the game session to the SSE broadcaster.
type Bus struct {
	Players           chan PlayersEvent
	ScoreUpdates      chan ScoreUpdateEvent
	TrackChanges      chan TrackChangeEvent
	PlayerSubmissions chan PlayerSubmissionEvent
	GameStarts        chan GameStartEvent
	GameEnds          chan GameEndEvent
}

func NewBus() *Bus {
	return &Bus{
		Players:           make(chan PlayersEvent, 10),
		ScoreUpdates:      make(chan ScoreUpdateEvent, 10),
		TrackChanges:      make(chan TrackChangeEvent, 10),
		PlayerSubmissions: make(chan PlayerSubmissionEvent, 10),
		GameStarts:        make(chan GameStartEvent, 10),
		GameEnds:          make(chan GameEndEvent, 10),
	}
}
