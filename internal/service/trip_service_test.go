package service

import (
	"context"
	"slices"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripwiser/pkg/api"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTrip(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice@example.com", "Alice")

	trip := env.createTrip(t, alice, "Bob@Example.com", "bob@example.com")

	if trip.ID == "" {
		t.Error("expected non-empty trip ID")
	}
	if trip.OwnerID != alice.ID {
		t.Errorf("owner: expected %s, got %s", alice.ID, trip.OwnerID)
	}
	if !slices.Contains(trip.AllowedEmails, "alice@example.com") {
		t.Errorf("owner email missing from allowed list: %v", trip.AllowedEmails)
	}
	if len(trip.AllowedEmails) != 2 {
		t.Errorf("allowed emails: expected 2 after dedupe, got %v", trip.AllowedEmails)
	}

	members, err := env.trips(alice).ListMembers(context.Background(), connect.NewRequest(&api.ListMembersRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members.Msg.Members) != 1 {
		t.Fatalf("members: expected owner only, got %d", len(members.Msg.Members))
	}
	owner := members.Msg.Members[0]
	if owner.Role != "owner" || owner.Nickname != "Alice" {
		t.Errorf("owner member: %+v", owner)
	}
	if !slices.Equal(members.Msg.PendingEmails, []string{"bob@example.com"}) {
		t.Errorf("pending: expected [bob@example.com], got %v", members.Msg.PendingEmails)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.register(t, "alice@example.com", "Alice")

	tests := []struct {
		name string
		req  *api.CreateTripRequest
	}{
		{"missing title", &api.CreateTripRequest{StartDate: "2026-04-01", EndDate: "2026-04-02", BaseCurrency: "JPY"}},
		{"bad date", &api.CreateTripRequest{Title: "T", StartDate: "04/01/2026", EndDate: "2026-04-02", BaseCurrency: "JPY"}},
		{"end before start", &api.CreateTripRequest{Title: "T", StartDate: "2026-04-05", EndDate: "2026-04-02", BaseCurrency: "JPY"}},
		{"bad currency", &api.CreateTripRequest{Title: "T", StartDate: "2026-04-01", EndDate: "2026-04-02", BaseCurrency: "yen"}},
		{"bad invite", &api.CreateTripRequest{Title: "T", StartDate: "2026-04-01", EndDate: "2026-04-02", BaseCurrency: "JPY", InviteEmails: []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.trips(alice).CreateTrip(context.Background(), connect.NewRequest(tt.req))
			wantCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestTripAccess(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")

	trip := env.createTrip(t, alice, "bob@example.com")

	// Invitee reads before joining and sees the pending flag.
	got, err := env.trips(bob).GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip as invitee failed: %v", err)
	}
	if !got.Msg.Trip.Pending {
		t.Error("expected pending flag for invitee")
	}

	// Strangers are denied.
	_, err = env.trips(carol).GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	// Unknown trips are not found.
	_, err = env.trips(alice).GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)

	list, err := env.trips(bob).ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 1 || !list.Msg.Trips[0].Pending {
		t.Errorf("ListTrips for invitee: %+v", list.Msg.Trips)
	}

	list, err = env.trips(carol).ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 0 {
		t.Errorf("stranger should see no trips, got %d", len(list.Msg.Trips))
	}
}

func TestJoinTrip(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	carol := env.register(t, "carol@example.com", "Carol")
	trip := env.createTrip(t, alice, "bob@example.com")

	_, err := env.trips(carol).JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{TripID: trip.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	resp, err := env.trips(bob).JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{TripID: trip.ID, Nickname: "Bobby"}))
	if err != nil {
		t.Fatalf("JoinTrip failed: %v", err)
	}
	if !resp.Msg.Joined || resp.Msg.Member.Role != "editor" || resp.Msg.Member.Nickname != "Bobby" {
		t.Errorf("unexpected join result: %+v joined=%v", resp.Msg.Member, resp.Msg.Joined)
	}

	again, err := env.trips(bob).JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("second JoinTrip failed: %v", err)
	}
	if again.Msg.Joined || again.Msg.Member.Nickname != "Bobby" {
		t.Errorf("second join should return the existing record: %+v", again.Msg)
	}

	memberships, err := env.trips(bob).ListMemberships(ctx, connect.NewRequest(&api.ListMembershipsRequest{}))
	if err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if len(memberships.Msg.Members) != 1 || memberships.Msg.Members[0].TripID != trip.ID {
		t.Errorf("memberships: %+v", memberships.Msg.Members)
	}

	list, err := env.trips(bob).ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(list.Msg.Trips) != 1 || list.Msg.Trips[0].Pending {
		t.Errorf("joined trip should not be pending: %+v", list.Msg.Trips)
	}
}

func TestInviteAndRevoke(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	trip := env.createTrip(t, alice)

	invite := func(email string) *api.InviteMemberResponse {
		t.Helper()
		resp, err := env.trips(alice).InviteMember(ctx, connect.NewRequest(&api.InviteMemberRequest{TripID: trip.ID, Email: email}))
		if err != nil {
			t.Fatalf("InviteMember(%s) failed: %v", email, err)
		}
		return resp.Msg
	}

	if got := invite("bob@example.com"); !got.Added {
		t.Error("first invite should add the email")
	}
	if got := invite("BOB@example.com"); got.Added {
		t.Error("repeated invite should be a no-op")
	}
	if got := invite("dave@example.com"); len(got.Trip.AllowedEmails) != 3 {
		t.Errorf("allowed emails: %v", got.Trip.AllowedEmails)
	}

	revoke := func(email string) error {
		_, err := env.trips(alice).RevokeInvite(ctx, connect.NewRequest(&api.RevokeInviteRequest{TripID: trip.ID, Email: email}))
		return err
	}

	wantCode(t, revoke("alice@example.com"), connect.CodeFailedPrecondition)

	env.join(t, bob, trip.ID)
	wantCode(t, revoke("bob@example.com"), connect.CodeFailedPrecondition)

	revoked, err := env.trips(alice).RevokeInvite(ctx, connect.NewRequest(&api.RevokeInviteRequest{TripID: trip.ID, Email: "Dave@Example.com"}))
	if err != nil {
		t.Fatalf("RevokeInvite failed: %v", err)
	}
	want := []string{"alice@example.com", "bob@example.com"}
	if !slices.Equal(revoked.Msg.Trip.AllowedEmails, want) {
		t.Errorf("allowed emails after revoke: expected %v, got %v", want, revoked.Msg.Trip.AllowedEmails)
	}
	wantCode(t, revoke("dave@example.com"), connect.CodeNotFound)

	got, err := env.trips(alice).GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if !slices.Contains(got.Msg.Trip.AllowedEmails, "alice@example.com") {
		t.Errorf("owner email must stay allowed: %v", got.Msg.Trip.AllowedEmails)
	}
	if slices.Contains(got.Msg.Trip.AllowedEmails, "dave@example.com") {
		t.Errorf("revoked email still allowed: %v", got.Msg.Trip.AllowedEmails)
	}
}

func TestUpdateTrip(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	trip := env.createTrip(t, alice, "bob@example.com")

	// An invitee who has not joined may update.
	resp, err := env.trips(bob).UpdateTrip(ctx, connect.NewRequest(&api.UpdateTripRequest{
		TripID:       trip.ID,
		Title:        ptr("Kyoto & Osaka"),
		BaseCurrency: ptr("usd"),
	}))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if resp.Msg.Trip.Title != "Kyoto & Osaka" || resp.Msg.Trip.BaseCurrency != "USD" {
		t.Errorf("unexpected trip: %+v", resp.Msg.Trip)
	}
	if resp.Msg.Trip.StartDate != trip.StartDate {
		t.Errorf("unset fields must be kept: %+v", resp.Msg.Trip)
	}

	_, err = env.trips(alice).UpdateTrip(ctx, connect.NewRequest(&api.UpdateTripRequest{
		TripID:  trip.ID,
		EndDate: ptr("2026-03-01"),
	}))
	wantCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteTrip(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	trip := env.createTrip(t, alice, "bob@example.com")
	env.join(t, bob, trip.ID)

	_, err := env.trips(bob).DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	if _, err := env.trips(alice).DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID})); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}

	_, err = env.trips(alice).GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	wantCode(t, err, connect.CodeNotFound)

	memberships, err := env.trips(bob).ListMemberships(ctx, connect.NewRequest(&api.ListMembershipsRequest{}))
	if err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if len(memberships.Msg.Members) != 0 {
		t.Errorf("member records should cascade, got %d", len(memberships.Msg.Members))
	}
}

func TestUpdateMember(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	trip := env.createTrip(t, alice, "bob@example.com")
	env.join(t, bob, trip.ID)

	update := func(as testUser, userID string, role, nickname *string) (*api.Member, error) {
		resp, err := env.trips(as).UpdateMember(ctx, connect.NewRequest(&api.UpdateMemberRequest{
			TripID: trip.ID, UserID: userID, Role: role, Nickname: nickname,
		}))
		if err != nil {
			return nil, err
		}
		return resp.Msg.Member, nil
	}

	m, err := update(alice, bob.ID, nil, ptr("B"))
	if err != nil {
		t.Fatalf("UpdateMember nickname failed: %v", err)
	}
	if m.Nickname != "B" || m.Role != "editor" {
		t.Errorf("unexpected member: %+v", m)
	}

	_, err = update(alice, bob.ID, ptr("owner"), nil)
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = update(bob, alice.ID, ptr("editor"), nil)
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = update(alice, bob.ID, ptr("admin"), nil)
	wantCode(t, err, connect.CodeInvalidArgument)

	if _, err := update(bob, bob.ID, ptr("editor"), ptr("Bob")); err != nil {
		t.Fatalf("self update failed: %v", err)
	}
}

func TestListActivity(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	trip := env.createTrip(t, alice)

	if _, err := env.trips(alice).InviteMember(ctx, connect.NewRequest(&api.InviteMemberRequest{TripID: trip.ID, Email: "bob@example.com"})); err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	env.join(t, bob, trip.ID)

	resp, err := env.trips(bob).ListActivity(ctx, connect.NewRequest(&api.ListActivityRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	var actions []string
	for _, e := range resp.Msg.Entries {
		actions = append(actions, e.Category+"/"+e.Action)
	}
	want := []string{"member/join", "member/invite", "trip/create"}
	if !slices.Equal(actions, want) {
		t.Errorf("activity: expected %v, got %v", want, actions)
	}

	limited, err := env.trips(bob).ListActivity(ctx, connect.NewRequest(&api.ListActivityRequest{TripID: trip.ID, Limit: 1}))
	if err != nil {
		t.Fatalf("ListActivity with limit failed: %v", err)
	}
	if len(limited.Msg.Entries) != 1 || limited.Msg.Entries[0].Action != "join" {
		t.Errorf("limited activity: %+v", limited.Msg.Entries)
	}
}
