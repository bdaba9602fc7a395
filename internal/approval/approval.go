// Package approval decides pending mutation requests. Approving a
// request replays its recorded payload through the same primitives the
// gateway uses for direct writes.
package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/obs"
)

// Handler applies one recorded action payload.
type Handler func(ctx context.Context, payload json.RawMessage) error

type Executor struct {
	store    club.Store
	resolver *access.Resolver
	handlers map[string]Handler
	now      func() time.Time
}

// Option configures Executor behavior.
type Option func(*Executor)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(e *Executor) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewExecutor builds the executor and its dispatch table. The table is
// verified against the closed action set at construction: a missing
// handler is a build defect surfaced at startup, not at decision time.
func NewExecutor(store club.Store, resolver *access.Resolver, opts ...Option) (*Executor, error) {
	if store == nil {
		return nil, errors.New("approval: store is required")
	}
	if resolver == nil {
		return nil, errors.New("approval: resolver is required")
	}
	e := &Executor{store: store, resolver: resolver, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[string]Handler{
		club.ActionTeamsCreate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.TeamInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(false); err != nil {
				return err
			}
			_, err = club.ApplyTeamCreate(ctx, store, in)
			return err
		},
		club.ActionTeamsUpdate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.TeamInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(true); err != nil {
				return err
			}
			_, err = club.ApplyTeamUpdate(ctx, store, in)
			return err
		},
		club.ActionTeamsDelete: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.DeleteInput](raw)
			if err != nil {
				return err
			}
			return club.ApplyTeamDelete(ctx, store, in)
		},
		club.ActionPlayersCreate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.PlayerInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(false); err != nil {
				return err
			}
			_, err = club.ApplyPlayerCreate(ctx, store, in)
			return err
		},
		club.ActionPlayersUpdate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.PlayerInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(true); err != nil {
				return err
			}
			_, err = club.ApplyPlayerUpdate(ctx, store, in)
			return err
		},
		club.ActionPlayersMove: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.PlayerMoveInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			_, err = club.ApplyPlayerMove(ctx, store, in)
			return err
		},
		club.ActionPlayersDelete: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.DeleteInput](raw)
			if err != nil {
				return err
			}
			return club.ApplyPlayerDelete(ctx, store, in)
		},
		club.ActionSessionsCreate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.SessionInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(false); err != nil {
				return err
			}
			_, err = club.ApplySessionCreate(ctx, store, in)
			return err
		},
		club.ActionSessionsUpdate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.SessionInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(true); err != nil {
				return err
			}
			_, err = club.ApplySessionUpdate(ctx, store, in)
			return err
		},
		club.ActionSessionsDelete: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.DeleteInput](raw)
			if err != nil {
				return err
			}
			return club.ApplySessionDelete(ctx, store, in)
		},
		club.ActionMatchesCreate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.MatchInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(false); err != nil {
				return err
			}
			_, err = club.ApplyMatchCreate(ctx, store, in)
			return err
		},
		club.ActionMatchesUpdate: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.MatchInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(true); err != nil {
				return err
			}
			_, err = club.ApplyMatchUpdate(ctx, store, in)
			return err
		},
		club.ActionMatchesDelete: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.DeleteInput](raw)
			if err != nil {
				return err
			}
			return club.ApplyMatchDelete(ctx, store, in)
		},
		club.ActionAttendanceSet: func(ctx context.Context, raw json.RawMessage) error {
			in, err := decode[club.AttendanceInput](raw)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			_, err = club.ApplyAttendanceSet(ctx, store, in)
			return err
		},
	}
	for _, name := range club.ActionNames() {
		if _, ok := e.handlers[name]; !ok {
			return nil, fmt.Errorf("approval: no handler registered for action %q", name)
		}
	}
	return e, nil
}

func decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &v, nil
}

// gate loads the decider and requires the admin minimum.
func (e *Executor) gate(ctx context.Context, deciderID string) (*club.Profile, error) {
	decider, err := e.resolver.Profile(ctx, deciderID)
	if err != nil {
		return nil, err
	}
	if !access.Meets(decider.Role, club.RoleAdmin) {
		return nil, club.ErrInsufficientRole
	}
	return decider, nil
}

// Approve applies the recorded payload and marks the request approved.
// The request stays pending when the handler fails or is missing, so an
// operator can retry once the underlying problem is fixed.
func (e *Executor) Approve(ctx context.Context, requestID, deciderID string) (*club.ApprovalRequest, error) {
	decider, err := e.gate(ctx, deciderID)
	if err != nil {
		return nil, err
	}
	req, err := e.store.Approvals().Find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != club.ApprovalPending {
		return req, club.ErrAlreadyDecided
	}
	handler, ok := e.handlers[req.Action]
	if !ok {
		// Dispatch table gap: a defect, not a user condition. The
		// request must stay pending; deciding it would drop the change.
		obs.LogEvent("approval.unknown_action", map[string]any{
			"request_id": req.ID,
			"action":     req.Action,
		})
		return req, fmt.Errorf("%w: %s", club.ErrUnknownAction, req.Action)
	}
	if err := handler(ctx, req.Payload); err != nil {
		return req, fmt.Errorf("%w: %s", club.ErrApplyFailed, err)
	}
	decidedAt := e.now().UTC()
	ok, err = e.store.Approvals().Decide(ctx, req.ID, club.ApprovalApproved, decider.ID, decidedAt)
	if err != nil {
		// The mutation already happened but the record is stale; see
		// the idempotent-handler note in DESIGN.md.
		return req, err
	}
	if !ok {
		return req, club.ErrAlreadyDecided
	}
	req.Status = club.ApprovalApproved
	req.DecidedAt = &decidedAt
	req.DecidedBy = decider.ID
	return req, nil
}

// Reject closes the request without touching any data.
func (e *Executor) Reject(ctx context.Context, requestID, deciderID string) (*club.ApprovalRequest, error) {
	decider, err := e.gate(ctx, deciderID)
	if err != nil {
		return nil, err
	}
	req, err := e.store.Approvals().Find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != club.ApprovalPending {
		return req, club.ErrAlreadyDecided
	}
	decidedAt := e.now().UTC()
	ok, err := e.store.Approvals().Decide(ctx, req.ID, club.ApprovalRejected, decider.ID, decidedAt)
	if err != nil {
		return req, err
	}
	if !ok {
		return req, club.ErrAlreadyDecided
	}
	req.Status = club.ApprovalRejected
	req.DecidedAt = &decidedAt
	req.DecidedBy = decider.ID
	return req, nil
}

// ListPending returns the review queue, admin-gated.
func (e *Executor) ListPending(ctx context.Context, deciderID string) ([]*club.ApprovalRequest, error) {
	if _, err := e.gate(ctx, deciderID); err != nil {
		return nil, err
	}
	return e.store.Approvals().ListPending(ctx)
}

// Get returns one request, admin-gated.
func (e *Executor) Get(ctx context.Context, requestID, deciderID string) (*club.ApprovalRequest, error) {
	if _, err := e.gate(ctx, deciderID); err != nil {
		return nil, err
	}
	return e.store.Approvals().Find(ctx, requestID)
}
