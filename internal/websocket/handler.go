// Package websocket streams a trip's change events to browser clients.
package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/middleware"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
	"github.com/mmynk/tripwiser/internal/watch"
)

// TripAuthorizer decides whether the caller in ctx may read tripID.
type TripAuthorizer interface {
	CanReadTrip(ctx context.Context, tripID string) error
}

// Handler upgrades /ws?trip=<id> requests and streams the trip's events.
type Handler struct {
	jwtManager *auth.JWTManager
	authorizer TripAuthorizer
	broker     *watch.Broker
	logger     *slog.Logger

	// OriginPatterns are passed to websocket.Accept. Empty skips origin checks.
	OriginPatterns []string
}

// NewHandler creates a websocket Handler.
func NewHandler(jwtManager *auth.JWTManager, authorizer TripAuthorizer, broker *watch.Broker, logger *slog.Logger) *Handler {
	return &Handler{
		jwtManager: jwtManager,
		authorizer: authorizer,
		broker:     broker,
		logger:     logger.With("component", "websocket"),
	}
}

// ServeHTTP authenticates the caller, checks read access to the trip and
// runs the connection until either side closes it. Access is checked again
// before every event.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tripID := r.URL.Query().Get("trip")
	if tripID == "" {
		http.Error(w, "trip query parameter is required", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		var err error
		if token, err = middleware.BearerToken(r.Header.Get("Authorization")); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}
	ctx, err := middleware.Authenticate(r.Context(), h.jwtManager, token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	if err := h.authorizer.CanReadTrip(ctx, tripID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, policy.ErrPermissionDenied):
			status = http.StatusForbidden
		case errors.Is(err, storage.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, storage.ErrSetupRequired):
			status = http.StatusServiceUnavailable
		}
		if status == http.StatusInternalServerError {
			h.logger.Error("authorize trip", "trip_id", tripID, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		OriginPatterns:     h.OriginPatterns,
		InsecureSkipVerify: len(h.OriginPatterns) == 0,
	})
	if err != nil {
		h.logger.Warn("accept", "error", err)
		return
	}
	defer conn.CloseNow()

	userID := middleware.GetUserID(ctx)
	h.logger.Info("Client connected", "trip_id", tripID, "user_id", userID)

	authorize := func(ctx context.Context) error {
		return h.authorizer.CanReadTrip(ctx, tripID)
	}
	sub := h.broker.Subscribe(ctx, tripID)
	NewClient(conn, sub, authorize, h.logger).Run(ctx)

	h.logger.Info("Client disconnected", "trip_id", tripID, "user_id", userID)
}
