package server

import (
	"log"
	"net/http"
	"strings"

	"quizify/internal/history"
)

type historyData struct {
	Games       []history.GameSummary
	Leaderboard []history.LeaderboardEntry
	Player      *history.PlayerStats
	Error       string
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.renderError(w, http.StatusNotFound, "Game history is not enabled on this server.")
		return
	}

	q := history.NewQueries(s.DB)
	data := historyData{}

	games, err := q.RecentGames(20)
	if err != nil {
		log.Printf("[Handle:History] RecentGames error: %v\n", err)
		data.Error = "Could not load game history."
	}
	data.Games = games

	board, err := q.Leaderboard(10)
	if err != nil {
		log.Printf("[Handle:History] Leaderboard error: %v\n", err)
		data.Error = "Could not load game history."
	}
	data.Leaderboard = board

	if player := strings.TrimSpace(r.FormValue("player")); player != "" {
		stats, err := q.GetPlayerStats(player)
		if err != nil {
			log.Printf("[Handle:History] GetPlayerStats error: %v\n", err)
		} else {
			data.Player = stats
		}
	}

	if err := s.Tmpl.ExecuteTemplate(w, "history", data); err != nil {
		log.Println(err)
		http.Error(w, "Error rendering history page", http.StatusInternalServerError)
	}
}
