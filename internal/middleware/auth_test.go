package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc.def", "abc.def", nil},
		{"missing", "", "", auth.ErrMissingToken},
		{"wrong scheme", "Basic abc", "", auth.ErrInvalidToken},
		{"no token", "Bearer ", "", auth.ErrInvalidToken},
		{"extra parts", "Bearer a b", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("BearerToken(%q) error = %v, want %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := FromContext(ctx); ok {
		t.Fatal("empty context should carry no identity")
	}
	if GetUserID(ctx) != "" || GetEmail(ctx) != "" {
		t.Error("helpers should return empty strings without identity")
	}

	ctx = WithIdentity(ctx, Identity{UserID: "u1", Email: "a@example.com", Name: "Alice"})
	id, ok := FromContext(ctx)
	if !ok || id.Name != "Alice" {
		t.Errorf("FromContext = %+v, %v", id, ok)
	}
	if GetUserID(ctx) != "u1" || GetEmail(ctx) != "a@example.com" {
		t.Errorf("helpers = %q, %q", GetUserID(ctx), GetEmail(ctx))
	}
}

func TestAuthInterceptor_authenticate(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "a@example.com", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	header := func(v string) http.Header {
		h := http.Header{}
		if v != "" {
			h.Set("Authorization", v)
		}
		return h
	}

	t.Run("required with valid token", func(t *testing.T) {
		ctx, err := RequireAuth(jwtManager).authenticate(context.Background(), header("Bearer "+token))
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		id, _ := FromContext(ctx)
		if id.UserID != "u1" || id.Email != "a@example.com" || id.Name != "Alice" {
			t.Errorf("identity = %+v", id)
		}
	})

	t.Run("required without token", func(t *testing.T) {
		_, err := RequireAuth(jwtManager).authenticate(context.Background(), header(""))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want unauthenticated", connect.CodeOf(err))
		}
	})

	t.Run("required with bad token", func(t *testing.T) {
		_, err := RequireAuth(jwtManager).authenticate(context.Background(), header("Bearer garbage"))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want unauthenticated", connect.CodeOf(err))
		}
	})

	t.Run("optional without token", func(t *testing.T) {
		ctx, err := OptionalAuth(jwtManager).authenticate(context.Background(), header(""))
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		if _, ok := FromContext(ctx); ok {
			t.Error("anonymous call should carry no identity")
		}
	})

	t.Run("optional with valid token", func(t *testing.T) {
		ctx, err := OptionalAuth(jwtManager).authenticate(context.Background(), header("Bearer "+token))
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		if GetUserID(ctx) != "u1" {
			t.Errorf("user id = %q, want u1", GetUserID(ctx))
		}
	})
}
