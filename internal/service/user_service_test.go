package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

func TestGetProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")

	resp, err := env.users(alice).GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if resp.Msg.User.ID != alice.ID || resp.Msg.User.DisplayName != "Alice" {
		t.Errorf("unexpected profile: %+v", resp.Msg.User)
	}

	resp, err = env.users(alice).GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{UserID: alice.ID}))
	if err != nil {
		t.Fatalf("GetProfile by id failed: %v", err)
	}
	if resp.Msg.User.Email != "alice@example.com" {
		t.Errorf("email: expected alice@example.com, got %s", resp.Msg.User.Email)
	}

	_, err = env.users(alice).GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{UserID: bob.ID}))
	wantCode(t, err, connect.CodePermissionDenied)
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")

	resp, err := env.users(alice).UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{DisplayName: "  Ali  "}))
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.Msg.User.DisplayName != "Ali" {
		t.Errorf("display name: expected Ali, got %q", resp.Msg.User.DisplayName)
	}

	got, err := env.users(alice).GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Msg.User.DisplayName != "Ali" {
		t.Errorf("stored display name: expected Ali, got %q", got.Msg.User.DisplayName)
	}

	_, err = env.users(alice).UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{DisplayName: " "}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.users(alice).UpdateProfile(ctx, connect.NewRequest(&api.UpdateProfileRequest{UserID: bob.ID, DisplayName: "Hacked"}))
	wantCode(t, err, connect.CodePermissionDenied)

	_, err = env.users(testUser{}).GetProfile(ctx, connect.NewRequest(&api.GetProfileRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)
}
