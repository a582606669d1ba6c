package stream

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/broth/telemetry"
)

func dialTestServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", s.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerBroadcastsSnapshot(t *testing.T) {
	s := NewServer(nil)
	defer s.Close()

	conn := dialTestServer(t, s)
	waitForClients(t, s, 1)

	want := &telemetry.Snapshot{Tick: 42, SimTime: 0.7}
	s.Publish(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got telemetry.Snapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if got.Tick != 42 {
		t.Errorf("tick = %d, want 42", got.Tick)
	}
	if got.SimTime != 0.7 {
		t.Errorf("sim time = %v, want 0.7", got.SimTime)
	}
}

func TestServerForwardsControlCommands(t *testing.T) {
	ch := make(chan Control, 4)
	s := NewServer(func(c Control) { ch <- c })
	defer s.Close()

	conn := dialTestServer(t, s)
	waitForClients(t, s, 1)

	if err := conn.WriteJSON(Control{Type: "pause"}); err != nil {
		t.Fatalf("writing control: %v", err)
	}
	if err := conn.WriteJSON(Control{Type: "step"}); err != nil {
		t.Fatalf("writing control: %v", err)
	}
	if err := conn.WriteJSON(Control{Type: "resume"}); err != nil {
		t.Fatalf("writing control: %v", err)
	}
	if err := conn.WriteJSON(Control{Type: "set", Param: "chemotaxis_gain", Value: 1.2}); err != nil {
		t.Fatalf("writing control: %v", err)
	}

	for _, want := range []string{"pause", "resume", "set"} {
		select {
		case got := <-ch:
			if got.Type != want {
				t.Errorf("control = %q, want %q", got.Type, want)
			}
			if want == "set" && (got.Param != "chemotaxis_gain" || got.Value != 1.2) {
				t.Errorf("override = %q/%v, want chemotaxis_gain/1.2", got.Param, got.Value)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	// The unknown command must not have been forwarded.
	select {
	case got := <-ch:
		t.Errorf("unexpected extra control %q", got.Type)
	default:
	}
}

func TestServerClientDisconnect(t *testing.T) {
	s := NewServer(nil)
	defer s.Close()

	conn := dialTestServer(t, s)
	waitForClients(t, s, 1)

	conn.Close()
	waitForClients(t, s, 0)
}

func TestServerPublishWithoutClients(t *testing.T) {
	s := NewServer(nil)
	defer s.Close()

	// Never blocks, even past the queue capacity.
	for i := 0; i < 100; i++ {
		s.Publish(&telemetry.Snapshot{Tick: int32(i)})
	}
}

func TestListenAndServeStopsOnClose(t *testing.T) {
	s := NewServer(nil)
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe("127.0.0.1:0") }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		started := s.httpSrv != nil
		s.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("listener never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("ListenAndServe returned %v, want ErrServerClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe did not return after Close")
	}
}

func TestServerCloseIdempotent(t *testing.T) {
	s := NewServer(nil)
	s.Close()
	s.Close()

	// Publish after close is a no-op.
	s.Publish(&telemetry.Snapshot{})
}
