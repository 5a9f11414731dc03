package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quizify/internal/backend"
	"quizify/internal/cms"
	"quizify/internal/config"
	"quizify/internal/db"
	"quizify/internal/rooms"
	"quizify/internal/search"
)

func Run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	backendClient := backend.NewClient(cfg.BackendURL)
	searchClient := search.NewClient(cfg.SearchURL)
	cmsClient := cms.NewClient(cfg.CMSURL)
	roomStore := rooms.NewStore(cfg.HubURL, backendClient, searchClient)

	funcMap := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFiles(
		"templates/home.html",
		"templates/join.html",
		"templates/lobby.html",
		"templates/game.html",
		"templates/end.html",
		"templates/info.html",
		"templates/history.html",
		"templates/error.html",
	))

	srv := &Server{
		Cfg:     cfg,
		Rooms:   roomStore,
		CMS:     cmsClient,
		Backend: backendClient,
		Search:  searchClient,
		Tmpl:    tmpl,
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without history)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.AnswerBuffer = make(chan db.AnswerEvent, 1000)
			go answerBatchWriter(database, srv.AnswerBuffer)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without history")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleHome)
	mux.HandleFunc("POST /rooms/create", srv.handleCreateRoom)
	mux.HandleFunc("POST /rooms/join", srv.handleJoinRoom)
	mux.HandleFunc("GET /room/{id}", srv.handleRoom)
	mux.HandleFunc("GET /room/{id}/end", srv.handleEndPage)
	mux.HandleFunc("POST /room/{id}/answer", srv.handleAnswer)
	mux.HandleFunc("GET /room/{id}/search/artist", srv.handleSearchArtist)
	mux.HandleFunc("GET /room/{id}/search/track", srv.handleSearchTrack)
	mux.HandleFunc("GET /room/{id}/search/playlist", srv.handleSearchPlaylist)
	mux.HandleFunc("POST /room/{id}/queue", srv.handleQueue)
	mux.HandleFunc("POST /room/{id}/queue/playlist", srv.handleQueuePlaylist)
	mux.HandleFunc("POST /room/{id}/playback/play", srv.handlePlay)
	mux.HandleFunc("POST /room/{id}/playback/pause", srv.handlePause)
	mux.HandleFunc("POST /room/{id}/playback/next", srv.handleNext)
	mux.HandleFunc("POST /room/{id}/start", srv.handleStartGame)
	mux.HandleFunc("POST /room/{id}/end", srv.handleEndGame)
	mux.HandleFunc("POST /room/{id}/leave", srv.handleLeave)
	mux.HandleFunc("GET /room/{id}/events", srv.handleEvents)
	mux.HandleFunc("GET /about", srv.handleAbout)
	mux.HandleFunc("GET /howtoplay", srv.handleHowToPlay)
	mux.HandleFunc("GET /history", srv.handleHistory)
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	handler := http.Handler(mux)
	if cfg.Verbose {
		handler = requestLogger(handler)
	}

	addr := net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))
	fmt.Printf("Server listening on http://%s\n", addr)
	return http.ListenAndServe(addr, handler)
}

// requestLogger logs every request when the server runs verbose.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[HTTP] %s %s (%s)\n", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

func answerBatchWriter(database *db.DB, buffer chan db.AnswerEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.AnswerEvent, 0, 50)

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				if err := database.BatchRecordAnswers(batch); err != nil {
					log.Printf("[DB] BatchRecordAnswers error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := database.BatchRecordAnswers(batch); err != nil {
					log.Printf("[DB] BatchRecordAnswers error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
