package scores

import "sync"

// Entry is one row of the displayed scoreboard.
type Entry struct {
	Player   string
	Score    int
	Answered bool
}

// Reconciler merges the two score feeds coming off the hub, full
// snapshots and incremental deltas, into a single table. Updates are
// applied strictly in arrival order; the transport gives no ordering
// guarantee between a snapshot and a concurrently produced delta, so the
// table is eventually consistent with the backend, not linearizable.
//
// It also tracks which players have answered the current round, purely
// for the scoreboard checkmark.
type Reconciler struct {
	mu       sync.Mutex
	table    map[string]int
	order    []string
	answered map[string]bool
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		table:    make(map[string]int),
		answered: make(map[string]bool),
	}
}

// ApplySnapshot replaces the whole table. Players already known keep
// their position; players absent from the snapshot disappear; new players
// are appended.
func (r *Reconciler) ApplySnapshot(snapshot map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	for _, player := range r.order {
		if _, ok := snapshot[player]; ok {
			kept = append(kept, player)
		}
	}
	r.order = kept

	r.table = make(map[string]int, len(snapshot))
	for _, player := range r.order {
		r.table[player] = snapshot[player]
	}
	for player, score := range snapshot {
		if _, ok := r.table[player]; !ok {
			r.table[player] = score
			r.order = append(r.order, player)
		}
	}
}

// ApplyDelta adds points to one player's entry, creating the entry at zero
// first when the player is unseen.
func (r *Reconciler) ApplyDelta(player string, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.table[player]; !ok {
		r.table[player] = 0
		r.order = append(r.order, player)
	}
	r.table[player] += points
}

// Get returns a player's current score; unseen players read as zero.
func (r *Reconciler) Get(player string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table[player]
}

// Len returns the number of players in the table.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}

// MarkAnswered records that a player submitted an answer this round.
func (r *Reconciler) MarkAnswered(player string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answered[player] = true
}

// HasAnswered reports whether a player submitted an answer this round.
func (r *Reconciler) HasAnswered(player string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answered[player]
}

// ClearAnswered forgets who has answered; called on track change and when
// the game ends.
func (r *Reconciler) ClearAnswered() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answered = make(map[string]bool)
}

// Sorted returns the scoreboard in descending score order. Ties keep the
// order players first appeared in, so rows do not jump around between
// renders.
func (r *Reconciler) Sorted() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.order))
	for _, player := range r.order {
		entries = append(entries, Entry{
			Player:   player,
			Score:    r.table[player],
			Answered: r.answered[player],
		})
	}
	// Insertion sort keeps equal scores in insertion order.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Score > entries[j-1].Score; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	return entries
}
