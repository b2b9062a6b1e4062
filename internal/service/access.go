package service

import (
	"context"
	"errors"

	"github.com/mmynk/tripwiser/internal/auth"
	"github.com/mmynk/tripwiser/internal/middleware"
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
)

// Access evaluates policy requests, fetching the parent trip and the
// caller's member record the rules need.
type Access struct {
	store  storage.Store
	policy *policy.Engine
}

// NewAccess creates an Access over store using engine's rules.
func NewAccess(store storage.Store, engine *policy.Engine) *Access {
	return &Access{store: store, policy: engine}
}

// tripScope is what an authorized trip-scoped call knows about its trip.
type tripScope struct {
	Caller policy.Caller
	Trip   *models.Trip

	// Member is nil when the caller is only invited.
	Member *models.Member
}

func callerFrom(ctx context.Context) policy.Caller {
	id, _ := middleware.FromContext(ctx)
	return policy.Caller{UserID: id.UserID, Email: id.Email}
}

// authorize loads tripID and checks op on collection for the caller.
// targetUserID is the user the document belongs to, if any.
func (a *Access) authorize(ctx context.Context, c policy.Collection, op policy.Operation, tripID, targetUserID string) (*tripScope, error) {
	caller := callerFrom(ctx)
	if !caller.SignedIn() {
		return nil, auth.ErrMissingToken
	}
	if tripID == "" {
		return nil, invalidf("trip id is required")
	}

	trip, err := a.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	member, err := a.store.GetMember(ctx, tripID, caller.UserID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		member = nil
	}

	req := policy.Request{
		Caller: caller,
		Trip: &policy.TripFacts{
			OwnerID:       trip.OwnerID,
			AllowedEmails: trip.AllowedEmails,
		},
		IsMember:     member != nil,
		TargetUserID: targetUserID,
	}
	if err := a.policy.Check(c, op, req); err != nil {
		return nil, err
	}
	return &tripScope{Caller: caller, Trip: trip, Member: member}, nil
}

// authorizeUser checks op on a collection outside any trip.
func (a *Access) authorizeUser(ctx context.Context, c policy.Collection, op policy.Operation, targetUserID string) (policy.Caller, error) {
	caller := callerFrom(ctx)
	if !caller.SignedIn() {
		return caller, auth.ErrMissingToken
	}
	return caller, a.policy.Check(c, op, policy.Request{Caller: caller, TargetUserID: targetUserID})
}

// CanReadTrip reports whether the caller in ctx may read tripID.
func (a *Access) CanReadTrip(ctx context.Context, tripID string) error {
	_, err := a.authorize(ctx, policy.Trips, policy.Read, tripID, "")
	return err
}
