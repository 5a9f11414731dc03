package playback

import (
	"fmt"
	"sync"

	"quizify/internal/track"
)

type State string

const (
	StateIdle    = State("idle")
	StatePlaying = State("playing")
	StatePaused  = State("paused")
)

// Session is the host's playback state for one room: a loaded track queue
// and a play/pause/skip surface. It is owned by the room and handed to
// consumers by reference; there is no ambient player.
//
// The session does not touch the audio device itself, the streaming SDK
// on the host's client does. It models which track the room is on and
// announces advances through the OnTrackChange callback.
type Session struct {
	mu       sync.Mutex
	queue    []track.CurrentTrack
	index    int
	state    State
	onChange func(track.CurrentTrack)
}

// NewSession creates an idle session. onChange fires whenever playback
// advances to a new track; it may be nil.
func NewSession(onChange func(track.CurrentTrack)) *Session {
	return &Session{
		index:    -1,
		state:    StateIdle,
		onChange: onChange,
	}
}

// Load replaces the queue and rewinds to before the first track.
func (s *Session) Load(queue []track.CurrentTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = queue
	s.index = -1
	s.state = StateIdle
}

// Play starts or resumes playback. Starting from idle advances onto the
// first queued track.
func (s *Session) Play() error {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("playback: no tracks loaded")
	}
	var started *track.CurrentTrack
	if s.index < 0 {
		s.index = 0
		t := s.queue[0]
		started = &t
	}
	s.state = StatePlaying
	s.mu.Unlock()

	if started != nil && s.onChange != nil {
		s.onChange(*started)
	}
	return nil
}

// Pause suspends playback; a no-op unless playing.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		s.state = StatePaused
	}
}

// Skip advances to the next queued track and returns it.
func (s *Session) Skip() (track.CurrentTrack, error) {
	s.mu.Lock()
	if s.index+1 >= len(s.queue) {
		s.mu.Unlock()
		return track.CurrentTrack{}, fmt.Errorf("playback: end of queue")
	}
	s.index++
	t := s.queue[s.index]
	s.state = StatePlaying
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(t)
	}
	return t, nil
}

// State returns the current playback state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NowPlaying returns the track the room is currently on, if any.
func (s *Session) NowPlaying() (track.CurrentTrack, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 || s.index >= len(s.queue) {
		return track.CurrentTrack{}, false
	}
	return s.queue[s.index], true
}

// Remaining returns how many tracks are left after the current one.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return len(s.queue)
	}
	return len(s.queue) - s.index - 1
}
