package httpapi

import (
	"context"
	"net/http"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/audit"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/gateway"
)

// beginRead resolves the caller's scope for list endpoints. Reads never
// error on a suspended or unknown profile: they just see nothing.
func (a *API) beginRead(w http.ResponseWriter, r *http.Request) (access.Scope, bool) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return access.Scope{}, false
	}
	scope, err := a.resolver.Resolve(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return access.Scope{}, false
	}
	return scope, true
}

func (a *API) auditMutation(ctx context.Context, action string, res *gateway.Result, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["outcome"] = res.Status
	if res.Request != nil {
		fields["approval_request_id"] = res.Request.ID
	}
	_ = audit.LogEvent(ctx, action, fields)
}

// runMutation funnels a gateway call through the shared error mapping
// and audit trail.
func (a *API) runMutation(w http.ResponseWriter, r *http.Request, action string, createdCode int,
	call func(ctx context.Context, actorID string) (*gateway.Result, error)) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	res, err := call(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	a.auditMutation(r.Context(), action, res, nil)
	writeMutationResult(w, res, createdCode)
}

// --- Teams ---------------------------------------------------------------

func (a *API) handleListTeams(w http.ResponseWriter, r *http.Request) {
	scope, ok := a.beginRead(w, r)
	if !ok {
		return
	}
	teams, err := a.store.Teams().List(r.Context(), scope.Viewable)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (a *API) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var in club.TeamInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.runMutation(w, r, club.ActionTeamsCreate, http.StatusCreated,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.CreateTeam(ctx, actor, &in)
		})
}

func (a *API) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var in club.TeamInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ID = r.PathValue("id")
	a.runMutation(w, r, club.ActionTeamsUpdate, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.UpdateTeam(ctx, actor, &in)
		})
}

func (a *API) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	in := club.DeleteInput{ID: r.PathValue("id")}
	a.runMutation(w, r, club.ActionTeamsDelete, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.DeleteTeam(ctx, actor, &in)
		})
}

// --- Players -------------------------------------------------------------

func (a *API) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	scope, ok := a.beginRead(w, r)
	if !ok {
		return
	}
	players, err := a.store.Players().List(r.Context(), scope.Viewable)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (a *API) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var in club.PlayerInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.runMutation(w, r, club.ActionPlayersCreate, http.StatusCreated,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.CreatePlayer(ctx, actor, &in)
		})
}

func (a *API) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var in club.PlayerInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ID = r.PathValue("id")
	a.runMutation(w, r, club.ActionPlayersUpdate, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.UpdatePlayer(ctx, actor, &in)
		})
}

func (a *API) handleMovePlayer(w http.ResponseWriter, r *http.Request) {
	var in club.PlayerMoveInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.PlayerID = r.PathValue("id")
	a.runMutation(w, r, club.ActionPlayersMove, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.MovePlayer(ctx, actor, &in)
		})
}

func (a *API) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	in := club.DeleteInput{ID: r.PathValue("id")}
	a.runMutation(w, r, club.ActionPlayersDelete, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.DeletePlayer(ctx, actor, &in)
		})
}

// --- Planning sessions ---------------------------------------------------

func (a *API) handleListSessions(w http.ResponseWriter, r *http.Request) {
	scope, ok := a.beginRead(w, r)
	if !ok {
		return
	}
	sessions, err := a.store.Planning().List(r.Context(), scope.Viewable)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in club.SessionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.runMutation(w, r, club.ActionSessionsCreate, http.StatusCreated,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.CreateSession(ctx, actor, &in)
		})
}

func (a *API) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var in club.SessionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ID = r.PathValue("id")
	a.runMutation(w, r, club.ActionSessionsUpdate, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.UpdateSession(ctx, actor, &in)
		})
}

func (a *API) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	in := club.DeleteInput{ID: r.PathValue("id")}
	a.runMutation(w, r, club.ActionSessionsDelete, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.DeleteSession(ctx, actor, &in)
		})
}

// --- Attendance ----------------------------------------------------------

func (a *API) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	scope, ok := a.beginRead(w, r)
	if !ok {
		return
	}
	sessionID := r.PathValue("id")
	session, err := a.store.Planning().Find(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !scope.Viewable.Contains(session.TeamID) {
		writeDomainError(w, club.ErrScopeDenied)
		return
	}
	records, err := a.store.Attendance().ListBySession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendance": records})
}

func (a *API) handleSetAttendance(w http.ResponseWriter, r *http.Request) {
	var in club.AttendanceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.SessionID = r.PathValue("id")
	a.runMutation(w, r, club.ActionAttendanceSet, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.SetAttendance(ctx, actor, &in)
		})
}

// --- Matches -------------------------------------------------------------

func (a *API) handleListMatches(w http.ResponseWriter, r *http.Request) {
	scope, ok := a.beginRead(w, r)
	if !ok {
		return
	}
	matches, err := a.store.Matches().List(r.Context(), scope.Viewable)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (a *API) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var in club.MatchInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.runMutation(w, r, club.ActionMatchesCreate, http.StatusCreated,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.CreateMatch(ctx, actor, &in)
		})
}

func (a *API) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	var in club.MatchInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.ID = r.PathValue("id")
	a.runMutation(w, r, club.ActionMatchesUpdate, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.UpdateMatch(ctx, actor, &in)
		})
}

func (a *API) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	in := club.DeleteInput{ID: r.PathValue("id")}
	a.runMutation(w, r, club.ActionMatchesDelete, http.StatusOK,
		func(ctx context.Context, actor string) (*gateway.Result, error) {
			return a.gateway.DeleteMatch(ctx, actor, &in)
		})
}
