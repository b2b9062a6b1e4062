// Package auth implements sign-up, sign-in and identity tokens.
package auth

import (
	"context"

	"github.com/mmynk/tripwiser/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Password sign-in is the only one today; provider sign-in (OAuth) plugs in
// behind the same interface without touching the services.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// The credential format depends on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
