package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
)

var (
	// errInvalidArgument marks malformed requests.
	errInvalidArgument = errors.New("invalid argument")

	// errPrecondition marks requests that are well formed but conflict with
	// the current state of the trip.
	errPrecondition = errors.New("failed precondition")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errPrecondition, fmt.Sprintf(format, args...))
}

// toConnectError maps domain errors onto Connect codes. Errors that already
// carry a code pass through.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, policy.ErrPermissionDenied):
		return connect.CodePermissionDenied
	case errors.Is(err, storage.ErrSetupRequired):
		return connect.CodeFailedPrecondition
	case errors.Is(err, errPrecondition):
		return connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, errInvalidArgument), errors.Is(err, auth.ErrWeakPassword):
		return connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		return connect.CodeUnauthenticated
	default:
		return connect.CodeInternal
	}
}
