package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/middleware"
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/watch"
)

// allowList lets callers read only the trips mapped to their user ID.
type allowList struct {
	mu    sync.Mutex
	trips map[string]string
}

func (a *allowList) CanReadTrip(ctx context.Context, tripID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.trips[middleware.GetUserID(ctx)] != tripID {
		return fmt.Errorf("%w: trips read", policy.ErrPermissionDenied)
	}
	return nil
}

func (a *allowList) revoke(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.trips, userID)
}

type testServer struct {
	srv    *httptest.Server
	broker *watch.Broker
	access *allowList
	token  string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	broker := watch.NewBroker(slog.Default(), nil)
	t.Cleanup(broker.Close)

	access := &allowList{trips: map[string]string{"alice": "trip-1"}}
	h := NewHandler(jwtManager, access, broker, slog.Default())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	token, err := jwtManager.Generate(&models.User{ID: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return &testServer{srv: srv, broker: broker, access: access, token: token}
}

// dialTrip connects to trip-1 and waits for the subscription to register.
func dialTrip(ctx context.Context, t *testing.T, ts *testServer) *ws.Conn {
	t.Helper()
	conn, _, err := ws.Dial(ctx, wsURL(ts.srv, "trip=trip-1&token="+ts.token), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })

	for ts.broker.SubscriberCount("trip-1") == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("subscription never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}
	return conn
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
}

func TestHandler_StreamsEvents(t *testing.T) {
	ts := setupServer(t)
	broker := ts.broker
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTrip(ctx, t, ts)

	broker.Publish(watch.NewEvent("trip-1", watch.EntityTransaction, "create", "txn-1"))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var ev watch.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "transaction_create" || ev.ID != "txn-1" || ev.TripID != "trip-1" {
		t.Errorf("event = %+v", ev)
	}

	conn.Close(ws.StatusNormalClosure, "")
	for broker.SubscriberCount("trip-1") != 0 {
		select {
		case <-ctx.Done():
			t.Fatal("subscription not released after disconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHandler_BearerHeader(t *testing.T) {
	ts := setupServer(t)
	srv, token := ts.srv, ts.token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, wsURL(srv, "trip=trip-1"), &ws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + token}},
	})
	if err != nil {
		t.Fatalf("Dial with header failed: %v", err)
	}
	conn.Close(ws.StatusNormalClosure, "")
}

func TestHandler_Rejects(t *testing.T) {
	ts := setupServer(t)
	srv, token := ts.srv, ts.token

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing trip", "token=" + token, http.StatusBadRequest},
		{"missing token", "trip=trip-1", http.StatusUnauthorized},
		{"bad token", "trip=trip-1&token=garbage", http.StatusUnauthorized},
		{"other trip", "trip=trip-2&token=" + token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, resp, err := ws.Dial(ctx, wsURL(srv, tt.query), nil)
			if err == nil {
				t.Fatal("Dial should fail")
			}
			if resp == nil || resp.StatusCode != tt.want {
				t.Errorf("status = %v, want %d", resp, tt.want)
			}
		})
	}
}

func TestHandler_ClosesWhenAccessRevoked(t *testing.T) {
	ts := setupServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTrip(ctx, t, ts)

	ts.access.revoke("alice")
	ts.broker.Publish(watch.NewEvent("trip-1", watch.EntitySchedule, "create", "item-1"))

	_, data, err := conn.Read(ctx)
	if err == nil {
		t.Fatalf("expected the connection to close, got message %s", data)
	}
	if got := ws.CloseStatus(err); got != ws.StatusPolicyViolation {
		t.Errorf("close status = %v, want %v (%v)", got, ws.StatusPolicyViolation, err)
	}
}

func TestHandler_DeliversTripDeleteThenCloses(t *testing.T) {
	ts := setupServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialTrip(ctx, t, ts)

	ts.access.revoke("alice")
	ts.broker.Publish(watch.NewEvent("trip-1", watch.EntityTrip, string(models.ActionDelete), "trip-1"))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var ev watch.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "trip_delete" {
		t.Errorf("event = %+v, want trip_delete", ev)
	}

	_, _, err = conn.Read(ctx)
	if got := ws.CloseStatus(err); got != ws.StatusNormalClosure {
		t.Errorf("close status = %v, want %v (%v)", got, ws.StatusNormalClosure, err)
	}
}
