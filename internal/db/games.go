package db

import "fmt"

func (d *DB) CreateGame(roomID, hostID string) (string, error) {
	var id string
	err := d.conn.QueryRow(`
		INSERT INTO games (room_id, host_id, started_at)
		VALUES ($1, $2, now())
		RETURNING id
	`, roomID, hostID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

func (d *DB) EndGame(gameID string) error {
	_, err := d.conn.Exec(`
		UPDATE games SET ended_at = now() WHERE id = $1
	`, gameID)
	if err != nil {
		return fmt.Errorf("ending game: %w", err)
	}
	return nil
}

func (d *DB) AddGameResult(gameID, playerName string, finalScore, rank int) error {
	_, err := d.conn.Exec(`
		INSERT INTO game_results (game_id, player_name, final_score, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, player_name) DO UPDATE SET final_score = $3, rank = $4
	`, gameID, playerName, finalScore, rank)
	if err != nil {
		return fmt.Errorf("adding game result: %w", err)
	}
	return nil
}
