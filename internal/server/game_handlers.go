package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"quizify/internal/answers"
	"quizify/internal/db"
	"quizify/internal/rooms"
	"quizify/internal/search"
	"quizify/internal/track"
)

func (s *Server) roomAndIdentity(w http.ResponseWriter, r *http.Request) (*rooms.Room, string, string, bool) {
	roomID := strings.ToUpper(r.PathValue("id"))
	room := s.Rooms.Get(roomID)
	if room == nil {
		http.Error(w, "Room not found", http.StatusBadRequest)
		return nil, "", "", false
	}
	userID, userName := identity(r)
	if userID == "" {
		http.Error(w, "Not Registered", http.StatusBadRequest)
		return nil, "", "", false
	}
	return room, userID, userName, true
}

type outcomeData struct {
	Submitted      bool
	Locked         bool
	ArtistAnswered bool
	ArtistCorrect  bool
	TrackAnswered  bool
	TrackCorrect   bool
	Points         int
	Score          int
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Answer] Request Received")
	room, userID, userName, ok := s.roomAndIdentity(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	guessArtist := r.FormValue("artist")
	guessTrack := r.FormValue("track")

	out, submitted := room.Session.SubmitAnswer(r.Context(), userID, guessArtist, guessTrack)
	view := room.Session.Snapshot(userID)

	data := outcomeData{
		Submitted: submitted,
		Locked:    view.Locked,
		Points:    out.Points,
		Score:     view.LocalScore,
	}
	if out.ArtistCorrect != nil {
		data.ArtistAnswered = true
		data.ArtistCorrect = *out.ArtistCorrect
	}
	if out.TrackCorrect != nil {
		data.TrackAnswered = true
		data.TrackCorrect = *out.TrackCorrect
	}

	if submitted && s.AnswerBuffer != nil {
		select {
		case s.AnswerBuffer <- db.AnswerEvent{
			RoomID:        room.RoomID,
			UserID:        userID,
			PlayerName:    userName,
			TrackID:       view.CurrentTrackID,
			ArtistCorrect: out.ArtistCorrect,
			TrackCorrect:  out.TrackCorrect,
			Points:        out.Points,
			SubmittedAt:   time.Now(),
		}:
		default:
			log.Println("[DB] Answer buffer full, dropping event")
		}
	}

	if err := s.Tmpl.ExecuteTemplate(w, "outcome", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering answer result", http.StatusInternalServerError)
	}
}

type candidatesData struct {
	Field      string
	Candidates []answers.Candidate
	Error      string
}

func (s *Server) handleSearchArtist(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, "artist")
}

func (s *Server) handleSearchTrack(w http.ResponseWriter, r *http.Request) {
	s.handleSearch(w, r, "track")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, field string) {
	room, userID, _, ok := s.roomAndIdentity(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		room.Session.ClearCandidates(userID)
		s.renderCandidates(w, candidatesData{Field: field})
		return
	}

	var cands []answers.Candidate
	var stale bool
	var err error
	if field == "artist" {
		cands, stale, err = room.Session.SearchArtists(r.Context(), userID, query)
	} else {
		cands, stale, err = room.Session.SearchTracks(r.Context(), userID, query)
	}

	if stale {
		// A newer query is in flight; leave the dropdown alone.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("[Handle:Search] %s search error: %v\n", field, err)
		s.renderCandidates(w, candidatesData{Field: field, Error: "Search is unavailable right now."})
		return
	}
	if len(cands) == 0 {
		s.renderCandidates(w, candidatesData{Field: field, Error: "No matches found."})
		return
	}
	s.renderCandidates(w, candidatesData{Field: field, Candidates: cands})
}

func (s *Server) renderCandidates(w http.ResponseWriter, data candidatesData) {
	if err := s.Tmpl.ExecuteTemplate(w, "candidates", data); err != nil {
		log.Println(err)
	}
}

type playlistsData struct {
	RoomID    string
	Playlists []search.Playlist
	Error     string
}

// handleSearchPlaylist feeds the host's playlist picker, mirroring the
// artist/track search dropdowns.
func (s *Server) handleSearchPlaylist(w http.ResponseWriter, r *http.Request) {
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}

	data := playlistsData{RoomID: room.RoomID}
	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		s.renderPlaylists(w, data)
		return
	}

	playlists, err := s.Search.Playlists(r.Context(), query)
	if err != nil {
		log.Printf("[Handle:SearchPlaylist] Search error: %v\n", err)
		data.Error = "Playlist search is unavailable right now."
		s.renderPlaylists(w, data)
		return
	}
	if len(playlists) == 0 {
		data.Error = "No playlists found."
		s.renderPlaylists(w, data)
		return
	}
	data.Playlists = playlists
	s.renderPlaylists(w, data)
}

func (s *Server) renderPlaylists(w http.ResponseWriter, data playlistsData) {
	if err := s.Tmpl.ExecuteTemplate(w, "playlists", data); err != nil {
		log.Println(err)
	}
}

type queueData struct {
	PlaylistName string
	Tracks       []track.CurrentTrack
	Error        string
}

// handleQueuePlaylist loads a picked playlist's tracks as the room's queue.
func (s *Server) handleQueuePlaylist(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:QueuePlaylist] Request Received")
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}

	playlistID := strings.TrimSpace(r.FormValue("playlistId"))
	if playlistID == "" {
		http.Error(w, "Missing playlistId", http.StatusBadRequest)
		return
	}

	pl, err := s.Search.Playlist(r.Context(), playlistID)
	if err != nil {
		log.Printf("[Handle:QueuePlaylist] Fetch error: %v\n", err)
		s.renderQueue(w, queueData{Error: "Could not load that playlist."})
		return
	}
	if len(pl.Tracks) == 0 {
		s.renderQueue(w, queueData{Error: "That playlist has no playable tracks."})
		return
	}

	room.Playback.Load(pl.Tracks)
	s.renderQueue(w, queueData{PlaylistName: pl.Name, Tracks: pl.Tracks})
}

func (s *Server) renderQueue(w http.ResponseWriter, data queueData) {
	if err := s.Tmpl.ExecuteTemplate(w, "queue", data); err != nil {
		log.Println(err)
	}
}

func (s *Server) requireHost(w http.ResponseWriter, r *http.Request) (*rooms.Room, string, bool) {
	room, userID, _, ok := s.roomAndIdentity(w, r)
	if !ok {
		return nil, "", false
	}
	isHost, err := s.isHost(r.Context(), room, userID)
	if err != nil {
		log.Printf("[Handle:Host] Role fetch error: %v\n", err)
		http.Error(w, "Unable to verify host role", http.StatusBadGateway)
		return nil, "", false
	}
	if !isHost {
		http.Error(w, "Host only", http.StatusForbidden)
		return nil, "", false
	}
	return room, userID, true
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Queue] Request Received")
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}

	var queue []track.CurrentTrack
	if err := json.NewDecoder(r.Body).Decode(&queue); err != nil {
		http.Error(w, "Invalid track queue", http.StatusBadRequest)
		return
	}
	for _, t := range queue {
		if t.TrackID == "" {
			http.Error(w, "Track queue entry missing trackId", http.StatusBadRequest)
			return
		}
	}

	room.Playback.Load(queue)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}
	if err := room.Playback.Play(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}
	room.Playback.Pause()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:Next] Request Received")
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}
	if _, err := room.Playback.Skip(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:StartGame] Request Received")
	room, _, ok := s.requireHost(w, r)
	if !ok {
		return
	}
	if err := room.Session.StartGame(r.Context()); err != nil {
		log.Printf("[Handle:StartGame] %v\n", err)
		http.Error(w, "Unable to start game", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/room/"+room.RoomID, http.StatusSeeOther)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:EndGame] Request Received")
	room, userID, ok := s.requireHost(w, r)
	if !ok {
		return
	}
	if err := room.Session.EndGame(r.Context()); err != nil {
		log.Printf("[Handle:EndGame] %v\n", err)
		http.Error(w, "Unable to end game", http.StatusBadGateway)
		return
	}

	// Persist final standings
	if s.DB != nil && room.GameID != "" {
		if err := s.DB.EndGame(room.GameID); err != nil {
			log.Printf("[DB] EndGame error: %v\n", err)
		}
		view := room.Session.Snapshot(userID)
		for i, entry := range view.Scoreboard {
			if err := s.DB.AddGameResult(room.GameID, entry.Player, entry.Score, i+1); err != nil {
				log.Printf("[DB] AddGameResult error: %v\n", err)
			}
		}
	}

	http.Redirect(w, r, "/room/"+room.RoomID+"/end", http.StatusSeeOther)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(r.PathValue("id"))
	room := s.Rooms.Get(roomID)
	if room == nil {
		http.Error(w, "Room not found", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Push the headers out now so the client finishes connecting before
	// the first event arrives.
	flusher.Flush()

	msgChan := room.Broadcaster.Subscribe()
	defer room.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			fmt.Fprintf(w, "data: %s\n\n", msg.Data)
			flusher.Flush()
		}
	}
}
