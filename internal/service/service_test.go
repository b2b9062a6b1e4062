package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/middleware"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage/sqlite"
	"github.com/mmynk/tripwiser/internal/watch"
	"github.com/mmynk/tripwiser/pkg/api"
	"github.com/mmynk/tripwiser/pkg/api/apiconnect"
)

// testEnv is a full server over a temp-file database.
type testEnv struct {
	server *httptest.Server
	store  *sqlite.SQLiteStore
	broker *watch.Broker
}

// testUser is a registered account and its token.
type testUser struct {
	ID    string
	Email string
	Token string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	broker := watch.NewBroker(logger, nil)
	access := NewAccess(store, policy.Default())
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	authOpts := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(nil))
	opts := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), authOpts))
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(store, access, logger), opts))
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(store, access, broker, logger), opts))
	mux.Handle(apiconnect.NewScheduleServiceHandler(NewScheduleService(store, access, broker, logger), opts))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, access, broker, []string{"JPY", "USD"}, logger), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		broker.Close()
		store.Close()
	})

	return &testEnv{server: server, store: store, broker: broker}
}

func (e *testEnv) authClient() *apiconnect.AuthServiceClient {
	return apiconnect.NewAuthServiceClient(http.DefaultClient, e.server.URL)
}

func (e *testEnv) users(u testUser) *apiconnect.UserServiceClient {
	return apiconnect.NewUserServiceClient(http.DefaultClient, e.server.URL,
		connect.WithInterceptors(middleware.BearerClient(u.Token)))
}

func (e *testEnv) trips(u testUser) *apiconnect.TripServiceClient {
	return apiconnect.NewTripServiceClient(http.DefaultClient, e.server.URL,
		connect.WithInterceptors(middleware.BearerClient(u.Token)))
}

func (e *testEnv) schedule(u testUser) *apiconnect.ScheduleServiceClient {
	return apiconnect.NewScheduleServiceClient(http.DefaultClient, e.server.URL,
		connect.WithInterceptors(middleware.BearerClient(u.Token)))
}

func (e *testEnv) ledger(u testUser) *apiconnect.LedgerServiceClient {
	return apiconnect.NewLedgerServiceClient(http.DefaultClient, e.server.URL,
		connect.WithInterceptors(middleware.BearerClient(u.Token)))
}

func (e *testEnv) register(t *testing.T, email, name string) testUser {
	t.Helper()
	resp, err := e.authClient().Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "correct-horse",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return testUser{ID: resp.Msg.User.ID, Email: resp.Msg.User.Email, Token: resp.Msg.Token}
}

// createTrip creates a JPY trip owned by owner, inviting invites.
func (e *testEnv) createTrip(t *testing.T, owner testUser, invites ...string) *api.Trip {
	t.Helper()
	resp, err := e.trips(owner).CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Title:        "Kyoto",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-07",
		BaseCurrency: "JPY",
		InviteEmails: invites,
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return resp.Msg.Trip
}

func (e *testEnv) join(t *testing.T, u testUser, tripID string) {
	t.Helper()
	if _, err := e.trips(u).JoinTrip(context.Background(), connect.NewRequest(&api.JoinTripRequest{TripID: tripID})); err != nil {
		t.Fatalf("JoinTrip failed: %v", err)
	}
}

func wantCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code: expected %v, got %v (%v)", want, got, err)
	}
}
