package scores

import "testing"

func TestReconciler_Snapshot(t *testing.T) {
	r := NewReconciler()
	r.ApplySnapshot(map[string]int{"Alice": 3, "Bob": 1})

	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	if r.Get("Alice") != 3 {
		t.Errorf("Alice = %d, want 3", r.Get("Alice"))
	}
	if r.Get("Bob") != 1 {
		t.Errorf("Bob = %d, want 1", r.Get("Bob"))
	}
}

func TestReconciler_SnapshotReplacesTable(t *testing.T) {
	r := NewReconciler()
	r.ApplySnapshot(map[string]int{"Alice": 3, "Bob": 1})
	r.ApplySnapshot(map[string]int{"Alice": 5})

	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1 after replacing snapshot", r.Len())
	}
	if r.Get("Alice") != 5 {
		t.Errorf("Alice = %d, want 5", r.Get("Alice"))
	}
	if r.Get("Bob") != 0 {
		t.Errorf("Bob = %d, want 0 after removal", r.Get("Bob"))
	}
}

func TestReconciler_Delta(t *testing.T) {
	r := NewReconciler()
	r.ApplySnapshot(map[string]int{"Alice": 3})

	r.ApplyDelta("Alice", 2)
	if r.Get("Alice") != 5 {
		t.Errorf("Alice = %d, want 5", r.Get("Alice"))
	}

	// Delta for an unseen player creates the entry first.
	r.ApplyDelta("Carol", 1)
	if r.Get("Carol") != 1 {
		t.Errorf("Carol = %d, want 1", r.Get("Carol"))
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestReconciler_UnseenPlayerReadsZero(t *testing.T) {
	r := NewReconciler()
	if r.Get("nobody") != 0 {
		t.Errorf("Get(nobody) = %d, want 0", r.Get("nobody"))
	}
}

func TestReconciler_SortedDescending(t *testing.T) {
	r := NewReconciler()
	r.ApplyDelta("Alice", 1)
	r.ApplyDelta("Bob", 5)
	r.ApplyDelta("Carol", 3)

	entries := r.Sorted()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Player != "Bob" || entries[1].Player != "Carol" || entries[2].Player != "Alice" {
		t.Errorf("order = %s,%s,%s, want Bob,Carol,Alice",
			entries[0].Player, entries[1].Player, entries[2].Player)
	}
}

func TestReconciler_TiesKeepInsertionOrder(t *testing.T) {
	r := NewReconciler()
	r.ApplyDelta("Alice", 2)
	r.ApplyDelta("Bob", 2)
	r.ApplyDelta("Carol", 2)

	entries := r.Sorted()
	if entries[0].Player != "Alice" || entries[1].Player != "Bob" || entries[2].Player != "Carol" {
		t.Errorf("tied order = %s,%s,%s, want Alice,Bob,Carol",
			entries[0].Player, entries[1].Player, entries[2].Player)
	}

	// A snapshot with the same players keeps their positions.
	r.ApplySnapshot(map[string]int{"Alice": 4, "Bob": 4, "Carol": 4})
	entries = r.Sorted()
	if entries[0].Player != "Alice" || entries[1].Player != "Bob" || entries[2].Player != "Carol" {
		t.Errorf("tied order after snapshot = %s,%s,%s, want Alice,Bob,Carol",
			entries[0].Player, entries[1].Player, entries[2].Player)
	}
}

func TestReconciler_Answered(t *testing.T) {
	r := NewReconciler()
	r.ApplyDelta("Alice", 1)

	if r.HasAnswered("Alice") {
		t.Error("Alice should not have answered yet")
	}
	r.MarkAnswered("Alice")
	if !r.HasAnswered("Alice") {
		t.Error("Alice should have answered")
	}

	entries := r.Sorted()
	if !entries[0].Answered {
		t.Error("scoreboard entry should carry the answered flag")
	}

	r.ClearAnswered()
	if r.HasAnswered("Alice") {
		t.Error("answered set should be empty after clear")
	}
}
