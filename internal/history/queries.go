package history

import (
	"fmt"

	"quizify/internal/db"
)

type Queries struct {
	db *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{db: database}
}

// RecentGames lists the most recently finished games.
func (q *Queries) RecentGames(limit int) ([]GameSummary, error) {
	rows, err := q.db.Query(`
		SELECT g.id, g.room_id, g.ended_at,
		       COUNT(r.player_name),
		       COALESCE(MAX(r.final_score), 0)
		FROM games g
		LEFT JOIN game_results r ON r.game_id = g.id
		WHERE g.ended_at IS NOT NULL
		GROUP BY g.id
		ORDER BY g.ended_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.GameID, &g.RoomID, &g.EndedAt, &g.Players, &g.TopScore); err != nil {
			return nil, fmt.Errorf("scanning game summary: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recent games: %w", err)
	}

	for i := range games {
		var winner string
		err := q.db.QueryRow(`
			SELECT player_name FROM game_results
			WHERE game_id = $1 ORDER BY rank ASC LIMIT 1
		`, games[i].GameID).Scan(&winner)
		if err == nil {
			games[i].Winner = winner
		}
	}
	return games, nil
}

// Leaderboard ranks players by career points across all finished games.
func (q *Queries) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := q.db.Query(`
		SELECT player_name, SUM(final_score) AS total
		FROM game_results
		GROUP BY player_name
		ORDER BY total DESC, player_name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.TotalPoints); err != nil {
			return nil, fmt.Errorf("scanning leaderboard entry: %w", err)
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return entries, nil
}

// GetPlayerStats aggregates one player's career from game results and
// recorded answer events, and evaluates their accolades.
func (q *Queries) GetPlayerStats(playerName string) (*PlayerStats, error) {
	stats := PlayerStats{PlayerName: playerName}

	err := q.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(final_score), 0), COALESCE(MAX(final_score), 0)
		FROM game_results
		WHERE player_name = $1
	`, playerName).Scan(&stats.GamesPlayed, &stats.TotalPoints, &stats.BestGame)
	if err != nil {
		return nil, fmt.Errorf("querying player games: %w", err)
	}

	err = q.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE artist_correct AND track_correct)
		FROM answer_events
		WHERE player_name = $1
	`, playerName).Scan(&stats.Answers, &stats.PerfectAnswers)
	if err != nil {
		return nil, fmt.Errorf("querying player answers: %w", err)
	}

	stats.Accolades = EvaluateAccolades(stats)
	return &stats, nil
}
