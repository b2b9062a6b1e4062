package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/internal/middleware"
	"github.com/mmynk/tripwiser/internal/models"
	"github.com/mmynk/tripwiser/internal/policy"
	"github.com/mmynk/tripwiser/internal/storage"
	"github.com/mmynk/tripwiser/internal/watch"
	"github.com/mmynk/tripwiser/pkg/api"
	"github.com/mmynk/tripwiser/pkg/api/apiconnect"
)

// TripService implements the TripService RPC interface.
type TripService struct {
	store  storage.Store
	access *Access
	broker *watch.Broker
	logger *slog.Logger
}

var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// NewTripService creates a TripService.
func NewTripService(store storage.Store, access *Access, broker *watch.Broker, logger *slog.Logger) *TripService {
	return &TripService{store: store, access: access, broker: broker, logger: logger}
}

// CreateTrip creates a trip owned by the caller. The owner's member record
// and the invitation list are written with it.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	s.logger.Info("CreateTrip request received",
		"title", req.Msg.Title,
		"invites_count", len(req.Msg.InviteEmails),
	)

	caller, err := s.access.authorizeUser(ctx, policy.Trips, policy.Create, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	title, err := required("title", req.Msg.Title)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateDateRange(req.Msg.StartDate, req.Msg.EndDate); err != nil {
		return nil, toConnectError(err)
	}
	currency, err := normalizeCurrency(req.Msg.BaseCurrency)
	if err != nil {
		return nil, toConnectError(err)
	}

	ownerEmail := models.NormalizeEmail(caller.Email)
	allowed := []string{ownerEmail}
	for _, e := range req.Msg.InviteEmails {
		email, err := normalizeEmail(e)
		if err != nil {
			return nil, toConnectError(err)
		}
		allowed = append(allowed, email)
	}

	trip := &models.Trip{
		OwnerID:       caller.UserID,
		Title:         title,
		StartDate:     req.Msg.StartDate,
		EndDate:       req.Msg.EndDate,
		BaseCurrency:  currency,
		AllowedEmails: uniqueIDs(allowed),
	}
	owner := &models.Member{
		UserID:   caller.UserID,
		Email:    ownerEmail,
		Role:     models.RoleOwner,
		Nickname: defaultNickname(ctx),
	}

	if err := s.store.CreateTrip(ctx, trip, owner); err != nil {
		s.logger.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}
	s.appendLog(ctx, newLog(trip.ID, models.LogTrip, models.ActionCreate, trip.Title, "", caller.UserID))
	s.broker.Publish(event(trip.ID, watch.EntityTrip, models.ActionCreate, trip.ID))

	s.logger.Info("Trip created", "trip_id", trip.ID, "user_id", caller.UserID)
	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip, false)}), nil
}

// GetTrip retrieves a trip the caller belongs to or is invited to.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	s.logger.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Trips, policy.Read, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetTripResponse{
		Trip: toAPITrip(scope.Trip, scope.Member == nil),
	}), nil
}

// ListTrips returns the caller's trips and pending invitations, ordered by
// start date.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	caller, err := s.access.authorizeUser(ctx, policy.Memberships, policy.List, callerFrom(ctx).UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	summaries, err := s.store.ListTripsForUser(ctx, caller.UserID, caller.Email)
	if err != nil {
		s.logger.Error("ListTrips failed", "user_id", caller.UserID, "error", err)
		return nil, toConnectError(err)
	}

	trips := make([]*api.Trip, len(summaries))
	for i, summary := range summaries {
		trips[i] = toAPITrip(summary.Trip, summary.Pending)
	}

	s.logger.Info("ListTrips successful", "user_id", caller.UserID, "count", len(trips))
	return connect.NewResponse(&api.ListTripsResponse{Trips: trips}), nil
}

// UpdateTrip changes the fields set in the request.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	s.logger.Info("UpdateTrip request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Trips, policy.Update, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}
	trip := scope.Trip

	var changed []string
	if req.Msg.Title != nil {
		if trip.Title, err = required("title", *req.Msg.Title); err != nil {
			return nil, toConnectError(err)
		}
		changed = append(changed, "title")
	}
	if req.Msg.StartDate != nil {
		trip.StartDate = *req.Msg.StartDate
		changed = append(changed, "start date")
	}
	if req.Msg.EndDate != nil {
		trip.EndDate = *req.Msg.EndDate
		changed = append(changed, "end date")
	}
	if err := validateDateRange(trip.StartDate, trip.EndDate); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.BaseCurrency != nil {
		if trip.BaseCurrency, err = normalizeCurrency(*req.Msg.BaseCurrency); err != nil {
			return nil, toConnectError(err)
		}
		changed = append(changed, "base currency")
	}

	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		s.logger.Error("UpdateTrip failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	var details string
	if len(changed) > 0 {
		details = "changed " + strings.Join(changed, ", ")
	}
	s.appendLog(ctx, newLog(trip.ID, models.LogTrip, models.ActionUpdate, trip.Title, details, scope.Caller.UserID))
	s.broker.Publish(event(trip.ID, watch.EntityTrip, models.ActionUpdate, trip.ID))

	s.logger.Info("Trip updated", "trip_id", trip.ID)
	return connect.NewResponse(&api.UpdateTripResponse{Trip: toAPITrip(trip, scope.Member == nil)}), nil
}

// DeleteTrip removes a trip and everything under it. Only the owner may
// delete, and only while still a member.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	s.logger.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Trips, policy.Delete, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteTrip(ctx, scope.Trip.ID); err != nil {
		s.logger.Error("DeleteTrip failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(scope.Trip.ID, watch.EntityTrip, models.ActionDelete, scope.Trip.ID))

	s.logger.Info("Trip deleted", "trip_id", scope.Trip.ID, "user_id", scope.Caller.UserID)
	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// InviteMember adds an email to the invitation list. Inviting an email
// twice is a no-op.
func (s *TripService) InviteMember(ctx context.Context, req *connect.Request[api.InviteMemberRequest]) (*connect.Response[api.InviteMemberResponse], error) {
	s.logger.Info("InviteMember request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Trips, policy.Update, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}
	email, err := normalizeEmail(req.Msg.Email)
	if err != nil {
		return nil, toConnectError(err)
	}

	entry := newLog(scope.Trip.ID, models.LogMember, models.ActionInvite, email, "", scope.Caller.UserID)
	added, err := s.store.AddAllowedEmail(ctx, scope.Trip.ID, email, entry)
	if err != nil {
		s.logger.Error("InviteMember failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	if added {
		scope.Trip.AllowedEmails = append(scope.Trip.AllowedEmails, email)
		s.broker.Publish(event(scope.Trip.ID, watch.EntityTrip, models.ActionInvite, scope.Trip.ID))
	}

	s.logger.Info("Member invited", "trip_id", scope.Trip.ID, "added", added)
	return connect.NewResponse(&api.InviteMemberResponse{
		Trip:  toAPITrip(scope.Trip, scope.Member == nil),
		Added: added,
	}), nil
}

// RevokeInvite removes an email from the invitation list. The owner's email
// and emails of joined members cannot be revoked.
func (s *TripService) RevokeInvite(ctx context.Context, req *connect.Request[api.RevokeInviteRequest]) (*connect.Response[api.RevokeInviteResponse], error) {
	s.logger.Info("RevokeInvite request received", "trip_id", req.Msg.TripID)

	scope, err := s.access.authorize(ctx, policy.Trips, policy.Update, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}
	email := models.NormalizeEmail(req.Msg.Email)
	if email == "" {
		return nil, toConnectError(invalidf("email is required"))
	}

	members, err := s.store.ListMembers(ctx, scope.Trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, m := range members {
		if m.Email != email {
			continue
		}
		if m.UserID == scope.Trip.OwnerID {
			return nil, toConnectError(preconditionf("the owner's email cannot be revoked"))
		}
		return nil, toConnectError(preconditionf("%s has already joined the trip", email))
	}

	entry := newLog(scope.Trip.ID, models.LogMember, models.ActionRevoke, email, "", scope.Caller.UserID)
	if err := s.store.RemoveAllowedEmail(ctx, scope.Trip.ID, email, entry); err != nil {
		s.logger.Error("RevokeInvite failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	scope.Trip.AllowedEmails = slices.DeleteFunc(slices.Clone(scope.Trip.AllowedEmails), func(e string) bool {
		return e == email
	})
	s.broker.Publish(event(scope.Trip.ID, watch.EntityTrip, models.ActionRevoke, scope.Trip.ID))

	s.logger.Info("Invite revoked", "trip_id", scope.Trip.ID)
	return connect.NewResponse(&api.RevokeInviteResponse{Trip: toAPITrip(scope.Trip, scope.Member == nil)}), nil
}

// JoinTrip creates the caller's own member record. The caller's email must
// be on the invitation list. Joining twice returns the existing record.
func (s *TripService) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	s.logger.Info("JoinTrip request received", "trip_id", req.Msg.TripID)

	caller := callerFrom(ctx)
	scope, err := s.access.authorize(ctx, policy.Members, policy.Create, req.Msg.TripID, caller.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if scope.Member != nil {
		return connect.NewResponse(&api.JoinTripResponse{Member: toAPIMember(scope.Member)}), nil
	}
	if !scope.Trip.AllowsEmail(caller.Email) {
		return nil, toConnectError(fmt.Errorf("%w: %s is not invited", policy.ErrPermissionDenied, caller.Email))
	}

	nickname := strings.TrimSpace(req.Msg.Nickname)
	if nickname == "" {
		nickname = defaultNickname(ctx)
	}
	member := &models.Member{
		TripID:   scope.Trip.ID,
		UserID:   caller.UserID,
		Email:    caller.Email,
		Role:     models.RoleEditor,
		Nickname: nickname,
	}
	entry := newLog(scope.Trip.ID, models.LogMember, models.ActionJoin, nickname, "", caller.UserID)
	if err := s.store.AddMember(ctx, member, entry); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Joined concurrently.
			existing, getErr := s.store.GetMember(ctx, scope.Trip.ID, caller.UserID)
			if getErr != nil {
				return nil, toConnectError(getErr)
			}
			return connect.NewResponse(&api.JoinTripResponse{Member: toAPIMember(existing)}), nil
		}
		s.logger.Error("JoinTrip failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.broker.Publish(event(scope.Trip.ID, watch.EntityMember, models.ActionJoin, caller.UserID))

	s.logger.Info("Member joined", "trip_id", scope.Trip.ID, "user_id", caller.UserID)
	return connect.NewResponse(&api.JoinTripResponse{Member: toAPIMember(member), Joined: true}), nil
}

// ListMembers returns the joined members and the invited emails that have
// not joined yet.
func (s *TripService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	scope, err := s.access.authorize(ctx, policy.Members, policy.List, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembers(ctx, scope.Trip.ID)
	if err != nil {
		s.logger.Error("ListMembers failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	joined := make(map[string]bool, len(members))
	for _, m := range members {
		joined[m.Email] = true
	}
	pending := []string{}
	for _, email := range scope.Trip.AllowedEmails {
		if !joined[email] {
			pending = append(pending, email)
		}
	}

	s.logger.Info("ListMembers successful", "trip_id", scope.Trip.ID, "count", len(members), "pending", len(pending))
	return connect.NewResponse(&api.ListMembersResponse{
		Members:       toAPIMembers(members),
		PendingEmails: pending,
	}), nil
}

// UpdateMember changes a member's role or nickname. The owner role stays
// with the trip owner: it can be neither removed from nor given to anyone.
func (s *TripService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	s.logger.Info("UpdateMember request received", "trip_id", req.Msg.TripID, "user_id", req.Msg.UserID)

	if req.Msg.UserID == "" {
		return nil, toConnectError(invalidf("user id is required"))
	}
	scope, err := s.access.authorize(ctx, policy.Members, policy.Update, req.Msg.TripID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	member, err := s.store.GetMember(ctx, scope.Trip.ID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if req.Msg.Role != nil {
		role := models.Role(*req.Msg.Role)
		isOwner := member.UserID == scope.Trip.OwnerID
		switch {
		case !role.Valid():
			return nil, toConnectError(invalidf("unknown role %q", role))
		case isOwner && role != models.RoleOwner:
			return nil, toConnectError(invalidf("the trip owner cannot be demoted"))
		case !isOwner && role == models.RoleOwner:
			return nil, toConnectError(invalidf("only the trip owner has the owner role"))
		}
		member.Role = role
	}
	if req.Msg.Nickname != nil {
		if member.Nickname, err = required("nickname", *req.Msg.Nickname); err != nil {
			return nil, toConnectError(err)
		}
	}

	if err := s.store.UpdateMember(ctx, member); err != nil {
		s.logger.Error("UpdateMember failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.appendLog(ctx, newLog(scope.Trip.ID, models.LogMember, models.ActionUpdate, member.Nickname,
		"role "+string(member.Role), scope.Caller.UserID))
	s.broker.Publish(event(scope.Trip.ID, watch.EntityMember, models.ActionUpdate, member.UserID))

	return connect.NewResponse(&api.UpdateMemberResponse{Member: toAPIMember(member)}), nil
}

// ListMemberships returns the caller's member records across all trips.
func (s *TripService) ListMemberships(ctx context.Context, req *connect.Request[api.ListMembershipsRequest]) (*connect.Response[api.ListMembershipsResponse], error) {
	caller, err := s.access.authorizeUser(ctx, policy.Memberships, policy.List, callerFrom(ctx).UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembershipsByUser(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("ListMemberships failed", "user_id", caller.UserID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListMembershipsResponse{Members: toAPIMembers(members)}), nil
}

// ListActivity returns the trip's activity log, newest first.
func (s *TripService) ListActivity(ctx context.Context, req *connect.Request[api.ListActivityRequest]) (*connect.Response[api.ListActivityResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, toConnectError(invalidf("limit must not be negative"))
	}
	scope, err := s.access.authorize(ctx, policy.Logs, policy.List, req.Msg.TripID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	entries, err := s.store.ListLogs(ctx, scope.Trip.ID, int(req.Msg.Limit))
	if err != nil {
		s.logger.Error("ListActivity failed", "trip_id", scope.Trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.LogEntry, len(entries))
	for i, e := range entries {
		out[i] = toAPILogEntry(e)
	}
	return connect.NewResponse(&api.ListActivityResponse{Entries: out}), nil
}

// appendLog records a mutation that has no atomic log write in the store.
// The mutation already happened, so a failure is only logged.
func (s *TripService) appendLog(ctx context.Context, entry *models.LogEntry) {
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.logger.Error("Failed to append activity log", "trip_id", entry.TripID, "error", err)
	}
}

// defaultNickname is the caller's display name, or the local part of their
// email when the token carries no name.
func defaultNickname(ctx context.Context) string {
	id, _ := middleware.FromContext(ctx)
	if name := strings.TrimSpace(id.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(id.Email, "@")
	return local
}
