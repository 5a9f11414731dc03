package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SubmitAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/ROOM42/submitAnswer" {
			t.Errorf("path = %q, want /api/game/ROOM42/submitAnswer", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["userId"] != "u1" {
			t.Errorf("userId = %q, want u1", body["userId"])
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.SubmitAnswer(context.Background(), "ROOM42", "u1"); err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
}

func TestClient_SubmitPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/ROOM42/submitPoints" {
			t.Errorf("path = %q, want /api/game/ROOM42/submitPoints", r.URL.Path)
		}
		var body struct {
			UserID string `json:"userId"`
			Points int    `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.Points != 2 {
			t.Errorf("points = %d, want 2", body.Points)
		}
		w.Write([]byte(`{"updatedScore":7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	score, err := c.SubmitPoints(context.Background(), "ROOM42", "u1", 2)
	if err != nil {
		t.Fatalf("SubmitPoints() error: %v", err)
	}
	if score != 7 {
		t.Errorf("updated score = %d, want 7", score)
	}
}

func TestClient_SubmitPoints_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitPoints(context.Background(), "ROOM42", "u1", 1); err == nil {
		t.Error("SubmitPoints() should surface a non-200 as an error")
	}
}

func TestClient_PlayerRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/ROOM42/player" {
			t.Errorf("path = %q, want /api/game/ROOM42/player", r.URL.Path)
		}
		if got := r.URL.Query().Get("userId"); got != "u1" {
			t.Errorf("userId = %q, want u1", got)
		}
		w.Write([]byte(`{"isHost":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	isHost, err := c.PlayerRole(context.Background(), "ROOM42", "u1")
	if err != nil {
		t.Fatalf("PlayerRole() error: %v", err)
	}
	if !isHost {
		t.Error("isHost = false, want true")
	}
}
