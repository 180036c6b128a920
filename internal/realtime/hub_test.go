package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func runningHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHubWithInstanceID(nil, "test-instance")
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func registerConn(t *testing.T, h *Hub, userID uuid.UUID) *Connection {
	t.Helper()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 4)}
	h.Register(conn)
	// Register goes through the hub loop; give it a moment to land.
	deadline := time.After(time.Second)
	for {
		h.mu.RLock()
		_, ok := h.connections[userID][conn]
		h.mu.RUnlock()
		if ok {
			return conn
		}
		select {
		case <-deadline:
			t.Fatal("connection never registered")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPushToUserDeliversLocally(t *testing.T) {
	h := runningHub(t)
	userID := uuid.New()
	conn := registerConn(t, h, userID)

	if err := h.PushToUserJSON(userID, map[string]string{"type": "notification"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	select {
	case data := <-conn.Send:
		var got map[string]string
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("payload not JSON: %v", err)
		}
		if got["type"] != "notification" {
			t.Errorf("payload = %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no payload delivered")
	}
}

func TestPushToUserIgnoresOtherUsers(t *testing.T) {
	h := runningHub(t)
	conn := registerConn(t, h, uuid.New())

	if err := h.PushToUserJSON(uuid.New(), map[string]string{"type": "x"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	select {
	case <-conn.Send:
		t.Fatal("payload delivered to wrong user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPushToCity(t *testing.T) {
	h := runningHub(t)
	conn := registerConn(t, h, uuid.New())
	h.SubscribeCity(conn, "  Riyadh ")

	// City names are matched case-insensitively.
	if err := h.PushToCityJSON("riyadh", map[string]string{"type": "report:update"}); err != nil {
		t.Fatalf("push: %v", err)
	}

	select {
	case <-conn.Send:
	case <-time.After(time.Second):
		t.Fatal("no payload delivered to city subscriber")
	}

	h.UnsubscribeCity(conn, "Riyadh")
	if err := h.PushToCityJSON("riyadh", map[string]string{"type": "report:update"}); err != nil {
		t.Fatalf("push: %v", err)
	}
	select {
	case <-conn.Send:
		t.Fatal("payload delivered after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

// Exercises pushes concurrently with connection churn for one user; run
// with -race to catch unsynchronized access to the per-user connection map.
func TestPushDuringConnectionChurn(t *testing.T) {
	h := runningHub(t)
	userID := uuid.New()

	stop := make(chan struct{})
	churned := make(chan struct{})
	go func() {
		defer close(churned)
		for {
			select {
			case <-stop:
				return
			default:
			}
			conn := &Connection{UserID: userID, Send: make(chan []byte, 1)}
			h.Register(conn)
			h.Unregister(conn)
		}
	}()

	for i := 0; i < 2000; i++ {
		if err := h.PushToUserJSON(userID, "payload"); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	close(stop)
	select {
	case <-churned:
	case <-time.After(time.Second):
		t.Fatal("churn goroutine did not stop")
	}
}

func TestFullBufferDoesNotBlock(t *testing.T) {
	h := runningHub(t)
	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte)} // no buffer, no reader
	h.Register(conn)
	registerConn(t, h, uuid.New()) // wait until hub loop has drained registrations

	done := make(chan struct{})
	go func() {
		_ = h.PushToUserJSON(userID, "payload")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push blocked on a full send buffer")
	}
}
