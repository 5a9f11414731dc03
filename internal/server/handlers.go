package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"quizify/internal/backend"
	"quizify/internal/cms"
	"quizify/internal/config"
	"quizify/internal/db"
	"quizify/internal/rooms"
	"quizify/internal/search"
	"quizify/internal/session"
)

type Server struct {
	Cfg          config.Config
	Rooms        *rooms.Store
	CMS          *cms.Client
	Backend      *backend.Client
	Search       *search.Client
	Tmpl         *template.Template
	DB           *db.DB             // nil if no database configured
	AnswerBuffer chan db.AnswerEvent // nil if no database configured
}

// identity reads the player's id and display name cookies.
func identity(r *http.Request) (userID, name string) {
	if c, err := r.Cookie("user_id"); err == nil {
		userID = c.Value
	}
	if c, err := r.Cookie("user_name"); err == nil {
		name = c.Value
	}
	return userID, name
}

func (s *Server) locale(r *http.Request) string {
	if c, err := r.Cookie("locale"); err == nil && c.Value != "" {
		return c.Value
	}
	return s.Cfg.DefaultLocale
}

func setIdentityCookies(w http.ResponseWriter, userID, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "user_id",
		Value:    userID,
		Path:     "/",
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:  "user_name",
		Value: name,
		Path:  "/",
	})
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := s.Tmpl.ExecuteTemplate(w, "error", map[string]string{"Message": msg}); err != nil {
		log.Println(err)
	}
}

type homeData struct {
	Content cms.HomeContent
	Error   string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := homeData{}
	content, err := s.CMS.Home(r.Context(), s.locale(r))
	if err != nil {
		log.Printf("[CMS] Home content error: %v\n", err)
		data.Error = "Could not load page content."
	}
	data.Content = content

	if err := s.Tmpl.ExecuteTemplate(w, "home", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering home page", http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:CreateRoom] Request Received")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = "Host"
	}

	userID := uuid.New().String()
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	room, err := s.Rooms.Create(ctx, userID)
	if err != nil {
		log.Println(err)
		s.renderError(w, http.StatusBadGateway, "Unable to create a game room right now.")
		return
	}

	setIdentityCookies(w, userID, name)
	if s.DB != nil {
		gameID, err := s.DB.CreateGame(room.RoomID, userID)
		if err != nil {
			log.Printf("[DB] CreateGame error: %v\n", err)
		} else {
			room.GameID = gameID
		}
	}

	fmt.Printf("[Handle:CreateRoom] Created room %s\n", room.RoomID)
	http.Redirect(w, r, "/room/"+room.RoomID, http.StatusSeeOther)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	fmt.Println("[Handle:JoinRoom] Request Received")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	roomID := strings.ToUpper(strings.TrimSpace(r.FormValue("roomId")))
	name := strings.TrimSpace(r.FormValue("name"))
	if roomID == "" || name == "" {
		s.renderHomeWithError(w, r, "Room id and nickname are both required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	room, err := s.Rooms.Join(ctx, roomID)
	if err != nil {
		log.Println(err)
		s.renderHomeWithError(w, r, "Room not found.")
		return
	}

	userID, _ := identity(r)
	if userID == "" {
		userID = uuid.New().String()
	}
	setIdentityCookies(w, userID, name)

	http.Redirect(w, r, "/room/"+room.RoomID, http.StatusSeeOther)
}

func (s *Server) renderHomeWithError(w http.ResponseWriter, r *http.Request, msg string) {
	content, err := s.CMS.Home(r.Context(), s.locale(r))
	if err != nil {
		log.Printf("[CMS] Home content error: %v\n", err)
	}
	if err := s.Tmpl.ExecuteTemplate(w, "home", homeData{Content: content, Error: msg}); err != nil {
		log.Println(err)
	}
}

type gameData struct {
	View     session.View
	UserName string
	IsHost   bool
	Game     cms.GameContent
	Answer   cms.AnswerContent
	Error    string
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(r.PathValue("id"))
	room := s.Rooms.Get(roomID)
	if room == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	userID, userName := identity(r)
	if userID == "" || userName == "" {
		if err := s.Tmpl.ExecuteTemplate(w, "join", map[string]string{"RoomID": room.RoomID}); err != nil {
			log.Println(err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// The player's role gates the host controls; without it the page
	// cannot be trusted to render either variant.
	isHost, err := s.isHost(r.Context(), room, userID)
	if err != nil {
		log.Printf("[Handle:Room] Role fetch error: %v\n", err)
		s.renderError(w, http.StatusBadGateway, "Unable to load game data.")
		return
	}

	view := room.Session.Snapshot(userID)
	if view.Ended {
		http.Redirect(w, r, "/room/"+room.RoomID+"/end", http.StatusSeeOther)
		return
	}
	if !view.Started {
		s.renderLobby(w, r, view, userName, isHost)
		return
	}

	data := gameData{
		View:     view,
		UserName: userName,
		IsHost:   isHost,
	}
	if content, err := s.CMS.Game(r.Context(), s.locale(r)); err != nil {
		log.Printf("[CMS] Game content error: %v\n", err)
		data.Error = "Could not load page content."
	} else {
		data.Game = content
	}
	if content, err := s.CMS.Answer(r.Context(), s.locale(r)); err != nil {
		log.Printf("[CMS] Answer content error: %v\n", err)
	} else {
		data.Answer = content
	}

	if err := s.Tmpl.ExecuteTemplate(w, "game", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering game view", http.StatusInternalServerError)
	}
}

type lobbyData struct {
	View     session.View
	UserName string
	IsHost   bool
	Content  cms.LobbyContent
	Error    string
}

// renderLobby shows the waiting room until the host starts the game.
func (s *Server) renderLobby(w http.ResponseWriter, r *http.Request, view session.View, userName string, isHost bool) {
	data := lobbyData{
		View:     view,
		UserName: userName,
		IsHost:   isHost,
	}
	if content, err := s.CMS.Lobby(r.Context(), s.locale(r)); err != nil {
		log.Printf("[CMS] Lobby content error: %v\n", err)
		data.Error = "Could not load page content."
	} else {
		data.Content = content
	}

	if err := s.Tmpl.ExecuteTemplate(w, "lobby", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering lobby", http.StatusInternalServerError)
	}
}

// isHost prefers the locally known host id and falls back to the backend's
// role endpoint for rooms this server only joined.
func (s *Server) isHost(ctx context.Context, room *rooms.Room, userID string) (bool, error) {
	if room.HostID != "" {
		return room.HostID == userID, nil
	}
	return s.Backend.PlayerRole(ctx, room.RoomID, userID)
}

type endData struct {
	View    session.View
	Content cms.EndContent
}

func (s *Server) handleEndPage(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToUpper(r.PathValue("id"))
	room := s.Rooms.Get(roomID)
	if room == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	userID, _ := identity(r)

	data := endData{View: room.Session.Snapshot(userID)}
	if content, err := s.CMS.End(r.Context(), s.locale(r)); err != nil {
		log.Printf("[CMS] End content error: %v\n", err)
	} else {
		data.Content = content
	}

	if err := s.Tmpl.ExecuteTemplate(w, "end", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering end page", http.StatusInternalServerError)
	}
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "user_id", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "user_name", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.renderInfo(w, r, "about")
}

func (s *Server) handleHowToPlay(w http.ResponseWriter, r *http.Request) {
	s.renderInfo(w, r, "howtoplay")
}

func (s *Server) renderInfo(w http.ResponseWriter, r *http.Request, page string) {
	var content cms.InfoContent
	var err error
	switch page {
	case "about":
		content, err = s.CMS.About(r.Context(), s.locale(r))
	default:
		content, err = s.CMS.HowToPlay(r.Context(), s.locale(r))
	}

	data := map[string]any{"Content": content}
	if err != nil {
		log.Printf("[CMS] %s content error: %v\n", page, err)
		data["Error"] = "Could not load page content."
	}
	if err := s.Tmpl.ExecuteTemplate(w, "info", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}
