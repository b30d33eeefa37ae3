// Package authz decides whether an identity may perform an action on a
// resource.
//
// The decision combines the identity's role with ownership of the target.
// Ownership is a string match: a Commercial owns a client when the client's
// commercial contact equals the Commercial's full name, and contracts and
// events inherit that owner from their parent client. A Support owns an
// event when the event's support contact equals the Support's full name.
// Two collaborators sharing a full name are therefore treated as the same
// owner.
//
// The engine is pure. It performs no I/O and never mutates its inputs;
// callers load the target (including the parent client for contracts and
// events) before asking. Anything it does not recognise is denied.
package authz

import (
	"errors"

	"github.com/epicevents/crm/internal/core/domain"
)

// Identity is the authenticated collaborator acting in a session.
type Identity struct {
	UserID   string
	Email    string
	FullName string
	Role     string
}

// IdentityOf builds an Identity from a stored user.
func IdentityOf(u *domain.User) Identity {
	if u == nil {
		return Identity{}
	}
	return Identity{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role.Name,
	}
}

// IsZero reports whether no one is authenticated.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// Target is the resource an action applies to. Client must be the parent
// client whenever Contract or Event is set.
type Target struct {
	Client   *domain.Client
	Contract *domain.Contract
	Event    *domain.Event
}

// Effect is the outcome of a decision.
type Effect uint8

const (
	Deny Effect = iota
	Allow
)

func (e Effect) String() string {
	if e == Allow {
		return "allow"
	}
	return "deny"
}

// Deny reasons, for logs only. Callers show users the generic
// domain.ErrPermissionDenied regardless of reason.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonUnknownAction   = "unknown-action"
	ReasonUnknownRole     = "unknown-role"
	ReasonRole            = "role"
	ReasonOwnership       = "ownership"
	ReasonFieldScope      = "field-scope"
)

// Decision is the tagged result of Authorize.
type Decision struct {
	Effect Effect
	// Fields lists what an allowed update may change. Empty for actions
	// that are not field-scoped.
	Fields FieldSet
	Reason string
}

// Allowed reports whether the action may proceed.
func (d Decision) Allowed() bool { return d.Effect == Allow }

// Err returns nil for Allow and domain.ErrPermissionDenied otherwise.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return domain.ErrPermissionDenied
}

// Permits checks an allowed update against its writable field set. An
// allowed action with changes outside the set is still denied.
func (d Decision) Permits(changed FieldSet) error {
	if !d.Allowed() {
		return domain.ErrPermissionDenied
	}
	if !changed.SubsetOf(d.Fields) {
		return &FieldScopeError{Rejected: changed.Without(d.Fields)}
	}
	return nil
}

// FieldScopeError reports fields an update may not touch.
type FieldScopeError struct {
	Rejected FieldSet
}

func (e *FieldScopeError) Error() string {
	return "permission denied: cannot change " + e.Rejected.String()
}

func (e *FieldScopeError) Is(target error) bool {
	return target == domain.ErrPermissionDenied
}

// IsFieldScope reports whether err came from Decision.Permits.
func IsFieldScope(err error) bool {
	var fe *FieldScopeError
	return errors.As(err, &fe)
}

func allow(fields FieldSet) Decision { return Decision{Effect: Allow, Fields: fields} }

func deny(reason string) Decision { return Decision{Effect: Deny, Reason: reason} }

// Engine evaluates the decision table.
type Engine struct {
	rules map[Action]rule
}

// NewEngine returns an engine loaded with the standard decision table.
func NewEngine() *Engine {
	return &Engine{rules: decisionTable()}
}

// Authorize decides whether id may perform action on target.
func (e *Engine) Authorize(id Identity, action Action, target Target) Decision {
	if id.IsZero() {
		return deny(ReasonUnauthenticated)
	}
	r, ok := e.rules[action]
	if !ok {
		return deny(ReasonUnknownAction)
	}
	g, ok := r.grantFor(id.Role)
	if !ok {
		return deny(ReasonUnknownRole)
	}
	if g.check == nil {
		return deny(ReasonRole)
	}
	if !g.check(id, target) {
		return deny(ReasonOwnership)
	}
	return allow(g.fields)
}

// Offered lists the actions role can perform on at least some resource, in
// menu order. It drives menu filtering only; Authorize stays the authority.
func (e *Engine) Offered(role string) []Action {
	var out []Action
	for _, a := range Actions {
		r, ok := e.rules[a]
		if !ok {
			continue
		}
		if g, ok := r.grantFor(role); ok && g.check != nil {
			out = append(out, a)
		}
	}
	return out
}
