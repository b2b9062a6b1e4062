package policy

import (
	"errors"
	"testing"
)

var (
	trip = &TripFacts{
		OwnerID:       "owner",
		AllowedEmails: []string{"owner@example.com", "member@example.com", "invitee@example.com"},
	}

	owner    = Caller{UserID: "owner", Email: "owner@example.com"}
	member   = Caller{UserID: "member", Email: "member@example.com"}
	invitee  = Caller{UserID: "invitee", Email: "Invitee@Example.com"}
	stranger = Caller{UserID: "stranger", Email: "stranger@example.com"}
	nobody   = Caller{}
)

func TestEngine_TripRules(t *testing.T) {
	e := Default()

	tests := []struct {
		name     string
		op       Operation
		caller   Caller
		isMember bool
		want     bool
	}{
		{"signed-in caller creates trip", Create, stranger, false, true},
		{"signed-out caller cannot create trip", Create, nobody, false, false},
		{"member reads trip", Read, member, true, true},
		{"invitee reads trip before joining", Read, invitee, false, true},
		{"invitee lists trip before joining", List, invitee, false, true},
		{"stranger cannot read trip", Read, stranger, false, false},
		{"invitee updates trip", Update, invitee, false, true},
		{"stranger cannot update trip", Update, stranger, false, false},
		{"owner member deletes trip", Delete, owner, true, true},
		{"owner without member record cannot delete", Delete, owner, false, false},
		{"non-owner member cannot delete", Delete, member, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Allowed(Trips, tt.op, Request{Caller: tt.caller, Trip: trip, IsMember: tt.isMember})
			if got != tt.want {
				t.Errorf("Allowed(trips, %s) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestEngine_MemberRules(t *testing.T) {
	e := Default()

	tests := []struct {
		name     string
		op       Operation
		caller   Caller
		isMember bool
		target   string
		want     bool
	}{
		{"invitee reads members", Read, invitee, false, "", true},
		{"stranger cannot read members", Read, stranger, false, "", false},
		{"invitee writes own member record", Create, invitee, false, "invitee", true},
		{"invitee cannot write someone else's record", Update, invitee, false, "member", false},
		{"member edits another member", Update, member, true, "invitee", true},
		{"signed-out caller cannot join", Create, nobody, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Allowed(Members, tt.op, Request{
				Caller:       tt.caller,
				Trip:         trip,
				IsMember:     tt.isMember,
				TargetUserID: tt.target,
			})
			if got != tt.want {
				t.Errorf("Allowed(members, %s) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestEngine_ScheduleReadAndWriteAreCheckedIndependently(t *testing.T) {
	e := Default()

	for _, c := range []Collection{Schedule, Transactions, Logs} {
		for _, op := range []Operation{Read, List, Create, Update, Delete} {
			if !e.Allowed(c, op, Request{Caller: invitee, Trip: trip}) {
				t.Errorf("invitee denied %s %s", op, c)
			}
			if !e.Allowed(c, op, Request{Caller: member, Trip: trip, IsMember: true}) {
				t.Errorf("member denied %s %s", op, c)
			}
			if e.Allowed(c, op, Request{Caller: stranger, Trip: trip}) {
				t.Errorf("stranger allowed %s %s", op, c)
			}
			if e.Allowed(c, op, Request{Caller: invitee}) {
				t.Errorf("invitee allowed %s %s without trip facts", op, c)
			}
		}
	}
}

func TestEngine_ProfileAndMemberships(t *testing.T) {
	e := Default()

	if !e.Allowed(Profiles, Read, Request{Caller: member, TargetUserID: "member"}) {
		t.Error("user denied own profile")
	}
	if e.Allowed(Profiles, Update, Request{Caller: member, TargetUserID: "owner"}) {
		t.Error("user allowed to write someone else's profile")
	}
	if !e.Allowed(Memberships, List, Request{Caller: stranger, TargetUserID: "stranger"}) {
		t.Error("user denied own membership listing")
	}
	if e.Allowed(Memberships, List, Request{Caller: stranger, TargetUserID: "owner"}) {
		t.Error("user allowed to list another user's memberships")
	}
}

func TestEngine_UnknownRuleIsDenied(t *testing.T) {
	e := Default()
	if e.Allowed(Memberships, Delete, Request{Caller: owner, TargetUserID: "owner"}) {
		t.Error("expected pair without a rule to be denied")
	}
	if e.Allowed("bookmarks", Read, Request{Caller: owner}) {
		t.Error("expected unknown collection to be denied")
	}
}

func TestEngine_Check(t *testing.T) {
	e := Default()

	if err := e.Check(Trips, Read, Request{Caller: member, Trip: trip, IsMember: true}); err != nil {
		t.Errorf("Check returned %v, want nil", err)
	}

	err := e.Check(Trips, Delete, Request{Caller: member, Trip: trip, IsMember: true})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Check error = %v, want ErrPermissionDenied", err)
	}
}
