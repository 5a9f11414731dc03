package db

import (
	"fmt"
	"time"
)

// AnswerEvent records one evaluated submission. The nullable correctness
// columns mirror the evaluator's three-way flags: a field left blank is
// stored as NULL, not false.
type AnswerEvent struct {
	RoomID        string
	UserID        string
	PlayerName    string
	TrackID       string
	ArtistCorrect *bool
	TrackCorrect  *bool
	Points        int
	SubmittedAt   time.Time
}

func (d *DB) RecordAnswer(ev AnswerEvent) error {
	_, err := d.conn.Exec(`
		INSERT INTO answer_events (room_id, user_id, player_name, track_id, artist_correct, track_correct, points, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ev.RoomID, ev.UserID, ev.PlayerName, ev.TrackID, ev.ArtistCorrect, ev.TrackCorrect, ev.Points, ev.SubmittedAt)
	if err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordAnswers(events []AnswerEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO answer_events (room_id, user_id, player_name, track_id, artist_correct, track_correct, points, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.RoomID, ev.UserID, ev.PlayerName, ev.TrackID, ev.ArtistCorrect, ev.TrackCorrect, ev.Points, ev.SubmittedAt); err != nil {
			return fmt.Errorf("recording answer in batch: %w", err)
		}
	}

	return tx.Commit()
}
