package rooms

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"quizify/internal/backend"
	"quizify/internal/broadcast"
	"quizify/internal/events"
	"quizify/internal/hub"
	"quizify/internal/playback"
	"quizify/internal/search"
	"quizify/internal/session"
	"quizify/internal/track"
)

const staleTTL = 1 * time.Hour

// Store holds the active room views on this server, one per joined room.
// Rooms untouched for an hour are swept and their sessions closed.
type Store struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	hubURL  string
	backend *backend.Client
	search  *search.Client
}

func NewStore(hubURL string, backendClient *backend.Client, searchClient *search.Client) *Store {
	s := &Store{
		rooms:   make(map[string]*Room),
		hubURL:  hubURL,
		backend: backendClient,
		search:  searchClient,
	}
	go s.sweepStale()
	return s
}

// Create opens a view for a brand-new room with a freshly generated id,
// owned by hostID.
func (s *Store) Create(ctx context.Context, hostID string) (*Room, error) {
	// Try up to 10 times to generate an unused id
	for range 10 {
		roomID, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room id: %w", err)
		}
		s.mu.Lock()
		_, exists := s.rooms[roomID]
		s.mu.Unlock()
		if exists {
			continue
		}
		return s.open(ctx, roomID, hostID)
	}
	return nil, fmt.Errorf("failed to generate unique room id after 10 attempts")
}

// Join returns the existing view for roomID, opening one (as a non-host
// view) when this server has none yet.
func (s *Store) Join(ctx context.Context, roomID string) (*Room, error) {
	s.mu.Lock()
	room := s.rooms[roomID]
	s.mu.Unlock()
	if room != nil {
		return room, nil
	}
	return s.open(ctx, roomID, "")
}

func (s *Store) open(ctx context.Context, roomID, hostID string) (*Room, error) {
	bus := events.NewBus()
	hubClient := hub.NewClient(s.hubURL + "?roomId=" + url.QueryEscape(roomID))
	sess := session.New(roomID, hubClient, s.backend, s.search, bus)
	pb := playback.NewSession(func(t track.CurrentTrack) {
		sess.BroadcastTrackChanged(context.Background(), t)
	})

	room := &Room{
		RoomID:      roomID,
		Session:     sess,
		Playback:    pb,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Bus:         bus,
		CreatedAt:   time.Now(),
		HostID:      hostID,
	}

	if err := sess.Start(ctx); err != nil {
		return nil, fmt.Errorf("opening room %s: %w", roomID, err)
	}

	s.mu.Lock()
	if existing := s.rooms[roomID]; existing != nil {
		// Lost the race to another request; keep the first view.
		s.mu.Unlock()
		sess.Close()
		room.Broadcaster.Close()
		return existing, nil
	}
	s.rooms[roomID] = room
	s.mu.Unlock()
	return room, nil
}

func (s *Store) Get(roomID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[roomID]
}

// Delete closes a room's session and removes it.
func (s *Store) Delete(roomID string) {
	s.mu.Lock()
	room := s.rooms[roomID]
	delete(s.rooms, roomID)
	s.mu.Unlock()
	if room != nil {
		room.Session.Close()
		room.Broadcaster.Close()
	}
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		var stale []*Room
		s.mu.Lock()
		now := time.Now()
		for roomID, room := range s.rooms {
			if now.Sub(room.CreatedAt) > staleTTL {
				stale = append(stale, room)
				delete(s.rooms, roomID)
			}
		}
		s.mu.Unlock()
		for _, room := range stale {
			room.Session.Close()
			room.Broadcaster.Close()
		}
	}
}
