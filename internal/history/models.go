package history

import "time"

type PlayerStats struct {
	PlayerName     string
	GamesPlayed    int
	TotalPoints    int
	Answers        int
	PerfectAnswers int // both fields right in one submission
	BestGame       int
	Accolades      []Accolade
}

type LeaderboardEntry struct {
	PlayerName  string
	TotalPoints int
	Rank        int
}

type GameSummary struct {
	GameID   string
	RoomID   string
	EndedAt  *time.Time
	Players  int
	Winner   string
	TopScore int
}
