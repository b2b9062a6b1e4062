// Package policy decides whether a caller may read or write a trip-scoped
// document.
//
// Rules are declared per collection and operation as a combination of a few
// facts about the caller: whether they are signed in, whether they have a
// member record in the trip, whether their email is on the trip's invitation
// list, and whether they own the trip or the target document. The member
// record is the durable grant; the invitation list is the softer grant that
// lets invitees work on a trip before they join it.
package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrPermissionDenied is returned when no rule grants the request.
var ErrPermissionDenied = errors.New("permission denied")

// Collection names a family of documents.
type Collection string

const (
	Profiles     Collection = "users"
	Trips        Collection = "trips"
	Members      Collection = "members"
	Schedule     Collection = "schedule"
	Transactions Collection = "transactions"
	Logs         Collection = "logs"

	// Memberships is the cross-trip view over member records, used to find
	// the trips a user belongs to.
	Memberships Collection = "memberships"
)

// Operation is the kind of access requested.
type Operation string

const (
	Read   Operation = "read"
	List   Operation = "list"
	Create Operation = "create"
	Update Operation = "update"
	Delete Operation = "delete"
)

// Caller is the identity carried by a request. A zero Caller is signed out.
type Caller struct {
	UserID string
	Email  string
}

// SignedIn reports whether the caller carries an identity.
func (c Caller) SignedIn() bool {
	return c.UserID != ""
}

// TripFacts are the parent-trip fields the rules look at.
type TripFacts struct {
	OwnerID       string
	AllowedEmails []string
}

// Request describes one access attempt.
type Request struct {
	Caller Caller

	// Trip is the parent trip, nil for documents outside any trip.
	Trip *TripFacts

	// IsMember reports whether a member record keyed by the caller's identity
	// exists under the trip.
	IsMember bool

	// TargetUserID is the user the document belongs to: the profile owner,
	// the member being written, or the identity a membership query filters on.
	TargetUserID string
}

// Condition is one predicate over a request.
type Condition func(r Request) bool

// SignedIn holds when the caller carries a valid identity.
func SignedIn(r Request) bool { return r.Caller.SignedIn() }

// IsMember holds when the caller has a member record in the trip.
func IsMember(r Request) bool { return r.IsMember }

// EmailAllowed holds when the caller's email is on the trip's invitation list.
func EmailAllowed(r Request) bool {
	if r.Trip == nil || r.Caller.Email == "" {
		return false
	}
	email := strings.ToLower(strings.TrimSpace(r.Caller.Email))
	return slices.ContainsFunc(r.Trip.AllowedEmails, func(e string) bool {
		return strings.EqualFold(e, email)
	})
}

// IsTripOwner holds when the caller created the trip.
func IsTripOwner(r Request) bool {
	return r.Trip != nil && r.Trip.OwnerID != "" && r.Trip.OwnerID == r.Caller.UserID
}

// IsSelf holds when the document belongs to the caller.
func IsSelf(r Request) bool {
	return r.TargetUserID != "" && r.TargetUserID == r.Caller.UserID
}

// All holds when every condition holds.
func All(conds ...Condition) Condition {
	return func(r Request) bool {
		for _, c := range conds {
			if !c(r) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one condition holds.
func Any(conds ...Condition) Condition {
	return func(r Request) bool {
		for _, c := range conds {
			if c(r) {
				return true
			}
		}
		return false
	}
}

type key struct {
	collection Collection
	op         Operation
}

// Rules maps a collection and operation to the condition that grants it.
// Pairs without a rule are denied.
type Rules map[key]Condition

func (rs Rules) allow(c Collection, cond Condition, ops ...Operation) {
	for _, op := range ops {
		rs[key{c, op}] = All(SignedIn, cond)
	}
}

var (
	memberOrInvited = Any(IsMember, EmailAllowed)
	always          = func(Request) bool { return true }
)

// DefaultRules returns the trip-planning rule set.
func DefaultRules() Rules {
	rs := make(Rules)

	rs.allow(Profiles, IsSelf, Read, Update, Create, Delete)

	rs.allow(Trips, always, Create)
	rs.allow(Trips, memberOrInvited, Read, List, Update)
	rs.allow(Trips, All(IsMember, IsTripOwner), Delete)

	rs.allow(Members, memberOrInvited, Read, List)
	// Self-join, or any member editing roles and nicknames.
	rs.allow(Members, Any(IsSelf, IsMember), Create, Update, Delete)

	for _, c := range []Collection{Schedule, Transactions, Logs} {
		rs.allow(c, memberOrInvited, Read, List, Create, Update, Delete)
	}

	rs.allow(Memberships, IsSelf, List)

	return rs
}

// Engine evaluates requests against a rule set.
type Engine struct {
	rules Rules
}

// New creates an engine over rules.
func New(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Default creates an engine over DefaultRules.
func Default() *Engine {
	return New(DefaultRules())
}

// Allowed reports whether the request is granted.
func (e *Engine) Allowed(c Collection, op Operation, r Request) bool {
	cond, ok := e.rules[key{c, op}]
	if !ok {
		return false
	}
	return cond(r)
}

// Check returns nil when the request is granted, otherwise an error wrapping
// ErrPermissionDenied.
func (e *Engine) Check(c Collection, op Operation, r Request) error {
	if !e.Allowed(c, op, r) {
		return fmt.Errorf("%w: %s %s", ErrPermissionDenied, op, c)
	}
	return nil
}
