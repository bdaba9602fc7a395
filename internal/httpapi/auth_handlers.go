package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/audit"
	"clubdesk.org/internal/auth"
	"clubdesk.org/internal/club"
)

// actorID pulls the authenticated profile id from the context. An empty
// id past the auth middleware means a wiring bug, but it is handled as
// a plain 401 all the same.
func actorID(r *http.Request) (string, bool) {
	id, ok := auth.ProfileIDFromContext(r.Context())
	return id, ok && id != ""
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	profile, err := a.store.Profiles().FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := auth.VerifyPassword(profile.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !profile.Active {
		writeError(w, http.StatusForbidden, "access denied, contact an administrator")
		return
	}

	token, exp, err := auth.GenerateToken(profile.ID, a.opts.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.token_issued", map[string]any{
		"profile_id": profile.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": exp,
		"profile": map[string]any{
			"id":        profile.ID,
			"email":     profile.Email,
			"full_name": profile.FullName,
			"role":      profile.Role,
		},
	})
}

func (a *API) handleMyScope(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	scope, err := a.resolver.Resolve(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scope)
}

func (a *API) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	profile, err := a.resolver.Profile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":        profile.Role,
		"permissions": access.PermissionsFor(profile.Role),
	})
}
