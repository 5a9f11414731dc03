package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"quizify/internal/answers"
	"quizify/internal/backend"
	"quizify/internal/events"
	"quizify/internal/hub"
	"quizify/internal/metrics"
	"quizify/internal/scores"
	"quizify/internal/search"
	"quizify/internal/track"
	"quizify/internal/utility"
)

// candidateCache holds one player's transient search results, one list per
// field, guarded by request sequencers so a slow stale response cannot
// clobber a newer one.
type candidateCache struct {
	artists   []answers.Candidate
	tracks    []answers.Candidate
	artistSeq search.Sequencer
	trackSeq  search.Sequencer
}

// Session is one room's game view. It owns the hub connection, the score
// reconciler and every player's per-round answer state.
//
// All state mutations run on a single event loop goroutine, in arrival
// order; hub callbacks and HTTP handlers enqueue onto it and run to
// completion before the next event. The hub's read loop is itself
// sequential, so the FIFO ordering of the transport stream is preserved.
type Session struct {
	RoomID string

	hubClient *hub.Client
	backend   *backend.Client
	searcher  *search.Client
	bus       *events.Bus

	ops       chan func()
	quit      chan struct{}
	closeOnce sync.Once
	loopDone  chan struct{}

	// Owned by the event loop.
	current    *track.CurrentTrack
	recon      *scores.Reconciler
	players    []events.Player
	colors     map[string]string
	submitters map[string]*answers.Submitter
	candidates map[string]*candidateCache
	started    bool
	ended      bool
}

// View is a render-ready snapshot of the session for one player. It never
// exposes the current track's name or artist.
type View struct {
	RoomID         string
	CurrentTrackID string
	Players        []events.Player
	Scoreboard     []scores.Entry
	Locked         bool
	LocalScore     int
	Started        bool
	Ended          bool
}

// New creates a session for a room. Call Start to connect it to the hub.
func New(roomID string, hubClient *hub.Client, backendClient *backend.Client, searcher *search.Client, bus *events.Bus) *Session {
	s := &Session{
		RoomID:     roomID,
		hubClient:  hubClient,
		backend:    backendClient,
		searcher:   searcher,
		bus:        bus,
		ops:        make(chan func(), 64),
		quit:       make(chan struct{}),
		loopDone:   make(chan struct{}),
		recon:      scores.NewReconciler(),
		colors:     make(map[string]string),
		submitters: make(map[string]*answers.Submitter),
		candidates: make(map[string]*candidateCache),
	}
	s.registerHandlers()
	return s
}

// Start runs the event loop and connects to the hub. The initial roster
// and score fetches are replayed on every reconnect.
func (s *Session) Start(ctx context.Context) error {
	go s.run()

	s.hubClient.OnConnected = func() {
		ctx := context.Background()
		if err := s.hubClient.Invoke(ctx, "FetchPlayersInRoom", s.RoomID); err != nil {
			log.Printf("[Session %s] FetchPlayersInRoom error: %v\n", s.RoomID, err)
		}
		if err := s.hubClient.Invoke(ctx, "FetchScores", s.RoomID); err != nil {
			log.Printf("[Session %s] FetchScores error: %v\n", s.RoomID, err)
		}
	}
	s.hubClient.OnReconnect = func(attempt int) {
		metrics.HubReconnects.Inc()
	}
	s.hubClient.OnDown = func(err error) {
		log.Printf("[Session %s] Hub connection down: %v\n", s.RoomID, err)
	}

	if err := s.hubClient.Connect(ctx); err != nil {
		s.Close()
		return fmt.Errorf("connecting session %s: %w", s.RoomID, err)
	}
	return nil
}

// Close releases the hub subscription and stops the event loop. Safe to
// call more than once and on every exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.hubClient.Close(); err != nil {
			log.Printf("[Session %s] Hub close error: %v\n", s.RoomID, err)
		}
		close(s.quit)
		<-s.loopDone
	})
}

func (s *Session) run() {
	defer close(s.loopDone)
	for {
		select {
		case <-s.quit:
			return
		case op := <-s.ops:
			op()
		}
	}
}

// do runs f on the event loop and waits for it to finish. After Close it
// reports false without running f.
func (s *Session) do(f func()) bool {
	done := make(chan struct{})
	select {
	case s.ops <- func() { f(); close(done) }:
	case <-s.quit:
		return false
	}
	select {
	case <-done:
		return true
	case <-s.quit:
		return false
	}
}

func (s *Session) registerHandlers() {
	s.hubClient.On("ReceivePlayers", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("ReceivePlayers").Inc()
		var players []events.Player
		if !decodeArg(args, 0, &players, "ReceivePlayers") {
			return
		}
		s.do(func() { s.applyPlayers(players) })
	})

	s.hubClient.On("ReceiveScores", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("ReceiveScores").Inc()
		var snapshot map[string]int
		if !decodeArg(args, 0, &snapshot, "ReceiveScores") {
			return
		}
		s.do(func() {
			s.recon.ApplySnapshot(snapshot)
			s.publishScores()
		})
	})

	s.hubClient.On("ReceiveUpdatedScores", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("ReceiveUpdatedScores").Inc()
		var deltas map[string]int
		if !decodeArg(args, 0, &deltas, "ReceiveUpdatedScores") {
			return
		}
		s.do(func() {
			for player, points := range deltas {
				s.recon.ApplyDelta(player, points)
			}
			s.publishScores()
		})
	})

	s.hubClient.On("ReceivePlayerSubmission", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("ReceivePlayerSubmission").Inc()
		var name string
		if !decodeArg(args, 0, &name, "ReceivePlayerSubmission") {
			return
		}
		s.do(func() {
			s.recon.MarkAnswered(name)
			publish(s.bus.PlayerSubmissions, events.PlayerSubmissionEvent{PlayerName: name})
			s.publishScores()
		})
	})

	s.hubClient.On("OnTrackChanged", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("OnTrackChanged").Inc()
		var payload string
		if !decodeArg(args, 0, &payload, "OnTrackChanged") {
			return
		}
		t, err := track.Parse([]byte(payload))
		if err != nil {
			// Drop the event, keep the previous track.
			log.Printf("[Session %s] Dropping track change: %v\n", s.RoomID, err)
			metrics.HubEventsDropped.Inc()
			return
		}
		s.do(func() { s.applyTrackChange(t) })
	})

	s.hubClient.On("GameEnded", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("GameEnded").Inc()
		var final struct {
			Players []events.Player `json:"players"`
			Scores  map[string]int  `json:"scores"`
		}
		if !decodeArg(args, 0, &final, "GameEnded") {
			return
		}
		s.do(func() {
			s.ended = true
			if final.Scores != nil {
				s.recon.ApplySnapshot(final.Scores)
			}
			s.recon.ClearAnswered()
			publish(s.bus.GameEnds, events.GameEndEvent{Entries: s.recon.Sorted()})
		})
	})

	s.hubClient.On("StartGame", func(args []json.RawMessage) {
		metrics.HubEventsReceived.WithLabelValues("StartGame").Inc()
		s.do(func() { s.applyGameStart() })
	})
}

func decodeArg(args []json.RawMessage, i int, dest any, event string) bool {
	if i >= len(args) {
		log.Printf("[Session] %s: missing argument %d\n", event, i)
		metrics.HubEventsDropped.Inc()
		return false
	}
	if err := json.Unmarshal(args[i], dest); err != nil {
		log.Printf("[Session] %s: bad argument: %v\n", event, err)
		metrics.HubEventsDropped.Inc()
		return false
	}
	return true
}

// publish is a non-blocking bus send; a stalled broadcaster must not stall
// the event loop.
func publish[T any](ch chan T, ev T) {
	select {
	case ch <- ev:
	default:
	}
}

func (s *Session) applyPlayers(players []events.Player) {
	for i := range players {
		color, ok := s.colors[players[i].UserID]
		if !ok {
			color = utility.RandomColorHex()
			s.colors[players[i].UserID] = color
		}
		players[i].Color = color
	}
	s.players = players
	publish(s.bus.Players, events.PlayersEvent{Players: players})
}

// applyTrackChange starts a new round: unlock every player's form, drop
// the transient candidate caches and clear the answered markers. A repeat
// announcement of the current track is ignored.
func (s *Session) applyTrackChange(t *track.CurrentTrack) {
	if s.current != nil && s.current.TrackID == t.TrackID {
		return
	}
	// A live track means the lobby is over, whether or not a StartGame
	// announcement ever arrived.
	s.applyGameStart()
	s.current = t
	for _, sub := range s.submitters {
		sub.TrackChanged(t.TrackID)
	}
	s.candidates = make(map[string]*candidateCache)
	s.recon.ClearAnswered()
	publish(s.bus.TrackChanges, events.TrackChangeEvent{TrackID: t.TrackID})
	s.publishScores()
}

func (s *Session) publishScores() {
	publish(s.bus.ScoreUpdates, events.ScoreUpdateEvent{Entries: s.recon.Sorted()})
}

func (s *Session) submitter(userID string) *answers.Submitter {
	sub, ok := s.submitters[userID]
	if !ok {
		sub = &answers.Submitter{RoomID: s.RoomID, UserID: userID, Notifier: s.backend}
		if s.current != nil {
			sub.TrackChanged(s.current.TrackID)
		}
		s.submitters[userID] = sub
	}
	return sub
}

func (s *Session) cache(userID string) *candidateCache {
	c, ok := s.candidates[userID]
	if !ok {
		c = &candidateCache{}
		s.candidates[userID] = c
	}
	return c
}

// SubmitAnswer evaluates a player's guesses against the current track and
// reports them to the backend. ok is false when there is no live track,
// the game has ended, or the player already submitted this round.
func (s *Session) SubmitAnswer(ctx context.Context, userID, guessArtist, guessTrack string) (answers.Outcome, bool) {
	var out answers.Outcome
	var ok bool
	s.do(func() {
		if s.ended || s.current == nil {
			return
		}
		cache := s.cache(userID)
		out, ok = s.submitter(userID).Submit(ctx, guessArtist, guessTrack, s.current, cache.artists, cache.tracks)
		if ok {
			metrics.AnswersEvaluated.WithLabelValues(strconv.Itoa(out.Points)).Inc()
			metrics.PointsAwarded.Add(float64(out.Points))
			// Selection consumes the dropdown; the cache goes with it.
			s.candidates[userID] = &candidateCache{}
		}
	})
	return out, ok
}

// BroadcastTrackChanged is called by the host's playback session when the
// room advances to a new track. It applies the change locally and
// announces it to the hub for every other player.
func (s *Session) BroadcastTrackChanged(ctx context.Context, t track.CurrentTrack) {
	payload, err := json.Marshal(t)
	if err != nil {
		log.Printf("[Session %s] Encoding track change: %v\n", s.RoomID, err)
		return
	}
	s.do(func() { s.applyTrackChange(&t) })
	if err := s.hubClient.Invoke(ctx, "TrackChanged", s.RoomID, string(payload)); err != nil {
		log.Printf("[Session %s] TrackChanged invoke error: %v\n", s.RoomID, err)
	}
}

// applyGameStart runs on the event loop. Repeat starts are ignored.
func (s *Session) applyGameStart() {
	if s.started {
		return
	}
	s.started = true
	publish(s.bus.GameStarts, events.GameStartEvent{RoomID: s.RoomID})
}

// StartGame asks the hub to start the game for the whole room and moves
// this view out of the lobby without waiting for the echo. Host only.
func (s *Session) StartGame(ctx context.Context) error {
	if err := s.hubClient.Invoke(ctx, "StartGame", s.RoomID); err != nil {
		return err
	}
	s.do(func() { s.applyGameStart() })
	return nil
}

// EndGame asks the hub to end the game for the whole room. Host only.
func (s *Session) EndGame(ctx context.Context) error {
	return s.hubClient.Invoke(ctx, "EndGame", s.RoomID)
}

// SearchArtists queries the catalog and stores the results as the player's
// artist candidates. stale reports that a newer query superseded this one
// while it was in flight; stale results are not cached and should not be
// rendered.
func (s *Session) SearchArtists(ctx context.Context, userID, query string) (cands []answers.Candidate, stale bool, err error) {
	var seq uint64
	s.do(func() { seq = s.cache(userID).artistSeq.Next() })

	cands, err = s.searcher.Artists(ctx, query)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("artist", "error").Inc()
		return nil, false, err
	}

	s.do(func() {
		c := s.cache(userID)
		if !c.artistSeq.Current(seq) {
			stale = true
			return
		}
		c.artists = cands
	})
	if stale {
		metrics.SearchRequests.WithLabelValues("artist", "stale").Inc()
		return nil, true, nil
	}
	metrics.SearchRequests.WithLabelValues("artist", "ok").Inc()
	return cands, false, nil
}

// SearchTracks is SearchArtists for the track name field.
func (s *Session) SearchTracks(ctx context.Context, userID, query string) (cands []answers.Candidate, stale bool, err error) {
	var seq uint64
	s.do(func() { seq = s.cache(userID).trackSeq.Next() })

	cands, err = s.searcher.Tracks(ctx, query)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("track", "error").Inc()
		return nil, false, err
	}

	s.do(func() {
		c := s.cache(userID)
		if !c.trackSeq.Current(seq) {
			stale = true
			return
		}
		c.tracks = cands
	})
	if stale {
		metrics.SearchRequests.WithLabelValues("track", "stale").Inc()
		return nil, true, nil
	}
	metrics.SearchRequests.WithLabelValues("track", "ok").Inc()
	return cands, false, nil
}

// ClearCandidates drops a player's cached search results, e.g. when the
// input is cleared.
func (s *Session) ClearCandidates(userID string) {
	s.do(func() {
		delete(s.candidates, userID)
	})
}

// Snapshot returns a render-ready view of the room for one player.
func (s *Session) Snapshot(userID string) View {
	v := View{RoomID: s.RoomID}
	s.do(func() {
		if s.current != nil {
			v.CurrentTrackID = s.current.TrackID
		}
		v.Players = append(v.Players, s.players...)
		v.Scoreboard = s.recon.Sorted()
		v.Started = s.started
		v.Ended = s.ended
		if sub, ok := s.submitters[userID]; ok {
			v.Locked = sub.Locked()
			v.LocalScore = sub.Score()
		}
	})
	return v
}
