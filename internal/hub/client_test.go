package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestSplitFrames(t *testing.T) {
	data := []byte("{\"type\":6}\x1e{\"type\":1}\x1e")
	frames := splitFrames(data)
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if string(frames[0]) != `{"type":6}` {
		t.Errorf("frame[0] = %q", frames[0])
	}
	if string(frames[1]) != `{"type":1}` {
		t.Errorf("frame[1] = %q", frames[1])
	}
}

func TestSplitFrames_NoTrailingSeparator(t *testing.T) {
	frames := splitFrames([]byte(`{"type":6}`))
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
}

func TestSplitFrames_Empty(t *testing.T) {
	if frames := splitFrames(nil); len(frames) != 0 {
		t.Errorf("frames = %d, want 0", len(frames))
	}
	if frames := splitFrames([]byte{0x1e}); len(frames) != 0 {
		t.Errorf("frames = %d, want 0 for a lone separator", len(frames))
	}
}

func TestTrimSeparator(t *testing.T) {
	if got := trimSeparator([]byte("{}\x1e")); string(got) != "{}" {
		t.Errorf("trimSeparator = %q, want {}", got)
	}
	if got := trimSeparator([]byte("{}")); string(got) != "{}" {
		t.Errorf("trimSeparator without separator = %q, want {}", got)
	}
}

func TestDispatch_Invocation(t *testing.T) {
	c := NewClient("ws://unused")

	var got []json.RawMessage
	c.On("ReceiveScores", func(args []json.RawMessage) {
		got = args
	})

	c.dispatch([]byte(`{"type":1,"target":"ReceiveScores","arguments":[{"Alice":3}]}`))

	if len(got) != 1 {
		t.Fatalf("handler args = %d, want 1", len(got))
	}
	if string(got[0]) != `{"Alice":3}` {
		t.Errorf("arg = %q", got[0])
	}
}

func TestDispatch_UnknownTargetAndPing(t *testing.T) {
	c := NewClient("ws://unused")
	// Neither should panic.
	c.dispatch([]byte(`{"type":1,"target":"nobody"}`))
	c.dispatch([]byte(`{"type":6}`))
	c.dispatch([]byte(`not json`))
}

func TestInvoke_NotConnected(t *testing.T) {
	c := NewClient("ws://unused")
	if err := c.Invoke(context.Background(), "StartGame"); err == nil {
		t.Error("Invoke should fail before Connect")
	}
}

func TestDefaultBackoff(t *testing.T) {
	want := []time.Duration{0, 2 * time.Second, 10 * time.Second, 30 * time.Second}
	if len(DefaultBackoff) != len(want) {
		t.Fatalf("schedule length = %d, want %d", len(DefaultBackoff), len(want))
	}
	for i, d := range want {
		if DefaultBackoff[i] != d {
			t.Errorf("schedule[%d] = %v, want %v", i, DefaultBackoff[i], d)
		}
	}
}

// testHub is a minimal hub endpoint: it accepts the websocket, answers the
// protocol handshake and then relays every received invocation frame into
// the received channel. Frames placed on the send channel are written to
// the client.
func testHub(t *testing.T, received chan []byte, send chan []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx := r.Context()

		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, []byte("{}\x1e")); err != nil {
			return
		}

		go func() {
			for frame := range send {
				if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
					return
				}
			}
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			select {
			case received <- data:
			default:
			}
		}
	}))
}

func TestClient_ConnectAndDispatch(t *testing.T) {
	received := make(chan []byte, 16)
	send := make(chan []byte, 16)
	srv := testHub(t, received, send)
	defer srv.Close()

	c := NewClient("ws" + srv.URL[len("http"):])

	connected := make(chan struct{}, 1)
	c.OnConnected = func() {
		select {
		case connected <- struct{}{}:
		default:
		}
	}

	events := make(chan string, 16)
	c.On("OnTrackChanged", func(args []json.RawMessage) {
		var payload string
		if len(args) > 0 {
			json.Unmarshal(args[0], &payload)
		}
		events <- payload
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	defer c.Close()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnected was not called")
	}

	send <- []byte(`{"type":1,"target":"OnTrackChanged","arguments":["{\"trackId\":\"t1\"}"]}` + "\x1e")

	select {
	case payload := <-events:
		if payload != `{"trackId":"t1"}` {
			t.Errorf("payload = %q", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched event")
	}

	if err := c.Invoke(ctx, "TrackChanged", "ROOM42", `{"trackId":"t2"}`); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}

	select {
	case data := <-received:
		var msg struct {
			Type      int               `json:"type"`
			Target    string            `json:"target"`
			Arguments []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(trimSeparator(data), &msg); err != nil {
			t.Fatalf("unmarshal invocation: %v", err)
		}
		if msg.Type != 1 || msg.Target != "TrackChanged" {
			t.Errorf("invocation = %+v, want type 1 target TrackChanged", msg)
		}
		if len(msg.Arguments) != 2 {
			t.Errorf("arguments = %d, want 2", len(msg.Arguments))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive invocation")
	}
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	received := make(chan []byte, 1)
	send := make(chan []byte)
	srv := testHub(t, received, send)
	defer srv.Close()

	c := NewClient("ws" + srv.URL[len("http"):])
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("first Close() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	// A closed client refuses to reconnect.
	if err := c.Connect(ctx); err == nil {
		t.Error("Connect() after Close should fail")
	}
}
