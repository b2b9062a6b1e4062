package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"

	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/watch"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Client represents a single WebSocket connection following one trip.
type Client struct {
	conn      *ws.Conn
	sub       *watch.Subscription
	authorize func(ctx context.Context) error
	logger    *slog.Logger
}

// NewClient creates a Client forwarding sub's events to conn. authorize is
// called before every event; once it fails the connection is closed.
func NewClient(conn *ws.Conn, sub *watch.Subscription, authorize func(ctx context.Context) error, logger *slog.Logger) *Client {
	return &Client{
		conn:      conn,
		sub:       sub,
		authorize: authorize,
		logger:    logger,
	}
}

// Run starts the write pump and runs the read pump.
// It blocks until the connection is closed, then releases the subscription.
func (c *Client) Run(ctx context.Context) {
	defer c.sub.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		c.writePump(ctx)
		cancel()
	}()
	c.readPump(ctx)
}

// readPump reads and discards all incoming messages. It returns on error
// (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
	}
}

// writePump drains the subscription and writes events to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.sub.C():
			if !ok {
				// Broker closed the subscription; connection is done
				c.conn.Close(ws.StatusGoingAway, "subscription closed")
				return
			}
			if err := c.authorize(ctx); err != nil {
				c.closeUnauthorized(ctx, ev, err)
				return
			}
			if err := c.send(ctx, ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// closeUnauthorized ends a connection whose caller can no longer read the
// trip. A deleted trip gets its delete event and a normal closure.
func (c *Client) closeUnauthorized(ctx context.Context, ev watch.Event, err error) {
	if ev.Entity == watch.EntityTrip && ev.Action == string(models.ActionDelete) {
		if c.send(ctx, ev) == nil {
			c.conn.Close(ws.StatusNormalClosure, "trip deleted")
			return
		}
	}
	c.logger.Info("Closing client without trip access", "trip_id", ev.TripID, "error", err)
	c.conn.Close(ws.StatusPolicyViolation, "trip access revoked")
}

func (c *Client) send(ctx context.Context, ev watch.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		c.logger.Error("marshal event", "error", err)
		return nil
	}
	return c.write(ctx, data)
}

func (c *Client) write(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, data)
}
