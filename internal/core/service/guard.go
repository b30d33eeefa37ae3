package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/metrics"
)

// guard runs the checks shared by every privileged operation: session,
// authorization, then operator confirmation.
type guard struct {
	sessions *SessionManager
	engine   *authz.Engine
	confirm  ports.Confirmer
	validate *inputValidator
	log      zerolog.Logger
}

func newGuard(sessions *SessionManager, engine *authz.Engine, confirm ports.Confirmer, log zerolog.Logger) *guard {
	if confirm == nil {
		confirm = ports.AutoConfirm
	}
	return &guard{
		sessions: sessions,
		engine:   engine,
		confirm:  confirm,
		validate: newInputValidator(),
		log:      log,
	}
}

// identity resumes sc and returns who is acting.
func (g *guard) identity(ctx context.Context, sc *SessionContext) (authz.Identity, error) {
	if err := g.sessions.Resume(ctx, sc); err != nil {
		return authz.Identity{}, err
	}
	return sc.Identity(), nil
}

func (g *guard) authorize(id authz.Identity, action authz.Action, target authz.Target) authz.Decision {
	d := g.engine.Authorize(id, action, target)
	metrics.AuthzDecisionsTotal.WithLabelValues(action.String(), d.Effect.String()).Inc()
	if !d.Allowed() {
		g.log.Info().
			Str("email", id.Email).
			Str("action", action.String()).
			Str("reason", d.Reason).
			Msg("permission denied")
	}
	return d
}

// begin resumes the session and authorizes action in one step.
func (g *guard) begin(ctx context.Context, sc *SessionContext, action authz.Action, target authz.Target) (authz.Identity, authz.Decision, error) {
	id, err := g.identity(ctx, sc)
	if err != nil {
		return id, authz.Decision{}, err
	}
	d := g.authorize(id, action, target)
	return id, d, d.Err()
}

// permits checks an update's changed fields against the decision.
func (g *guard) permits(id authz.Identity, action authz.Action, d authz.Decision, changed authz.FieldSet) error {
	if err := d.Permits(changed); err != nil {
		g.log.Info().
			Str("email", id.Email).
			Str("action", action.String()).
			Str("fields", changed.Without(d.Fields).String()).
			Msg("update outside writable fields")
		return err
	}
	return nil
}

// approve asks the operator to confirm a mutation.
func (g *guard) approve(ctx context.Context, resource, summary string) error {
	if !g.confirm.Confirm(ctx, summary) {
		metrics.MutationsCancelledTotal.WithLabelValues(resource).Inc()
		return domain.ErrValidationRejected
	}
	return nil
}

func (g *guard) committed(id authz.Identity, resource, op, resourceID string) {
	metrics.MutationsTotal.WithLabelValues(resource, op).Inc()
	g.log.Info().
		Str("email", id.Email).
		Str("resource", resource).
		Str("op", op).
		Str("id", resourceID).
		Msg("directory updated")
}

// optional turns a not-found lookup into a nil result so the engine, not
// the caller, denies a missing parent.
func optional[T any](v *T, err error) (*T, error) {
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
