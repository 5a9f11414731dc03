package answers

import (
	"context"
	"log"

	"quizify/internal/track"
)

// Notifier carries a submission to the game backend. SubmitPoints returns
// the backend's authoritative cumulative score for the player.
type Notifier interface {
	SubmitAnswer(ctx context.Context, roomID, userID string) error
	SubmitPoints(ctx context.Context, roomID, userID string, points int) (int, error)
}

// Round tracks one player's submission state for the current track.
// Exactly one submission is allowed per round; the lock is released only
// when the track changes.
type Round struct {
	trackID   string
	submitted bool
}

// Locked reports whether the player has already submitted this round.
func (r *Round) Locked() bool {
	return r.submitted
}

// TrackChanged starts a new round when the track id differs from the one
// the round was played against, unlocking submission. Repeated
// notifications for the same track are ignored.
func (r *Round) TrackChanged(trackID string) bool {
	if trackID == r.trackID {
		return false
	}
	r.trackID = trackID
	r.submitted = false
	return true
}

// Submitter evaluates one player's guesses and reports the results to the
// game backend. It keeps a locally accumulated score as an optimistic
// fallback; whenever the backend answers a points submission, its total
// wins.
type Submitter struct {
	RoomID   string
	UserID   string
	Notifier Notifier

	round Round
	score int
}

// Score is the player's cumulative score as this submitter knows it:
// the backend's last reported total, or the local sum when the backend
// has been unreachable.
func (s *Submitter) Score() int {
	return s.score
}

// Locked reports whether the player has already submitted this round.
func (s *Submitter) Locked() bool {
	return s.round.Locked()
}

// TrackChanged resets the submission lock for a new track. The cumulative
// score is preserved across rounds.
func (s *Submitter) TrackChanged(trackID string) bool {
	return s.round.TrackChanged(trackID)
}

// Submit evaluates the guesses against cur and notifies the backend.
// It returns ok=false without doing anything when there is no live track
// or the player already submitted this round.
//
// The two backend calls are fire-and-forget: a failure is logged and the
// submission stays locked regardless, so a player cannot resubmit after a
// network blip.
func (s *Submitter) Submit(ctx context.Context, guessArtist, guessTrack string, cur *track.CurrentTrack, artistCands, trackCands []Candidate) (Outcome, bool) {
	if cur == nil || s.round.Locked() {
		return Outcome{}, false
	}

	out := Evaluate(guessArtist, guessTrack, cur, artistCands, trackCands)
	s.round.trackID = cur.TrackID
	s.round.submitted = true

	if err := s.Notifier.SubmitAnswer(ctx, s.RoomID, s.UserID); err != nil {
		log.Printf("[Answers] SubmitAnswer error: %v\n", err)
	}

	// Points are submitted even when zero so the backend records that the
	// player answered this round.
	updated, err := s.Notifier.SubmitPoints(ctx, s.RoomID, s.UserID, out.Points)
	if err != nil {
		log.Printf("[Answers] SubmitPoints error: %v\n", err)
		s.score += out.Points
	} else {
		s.score = updated
	}

	return out, true
}
