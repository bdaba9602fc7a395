package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"clubdesk.org/internal/club"
	"clubdesk.org/internal/gateway"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeDomainError maps the expected business failures to HTTP. Access
// failures are explicit denials, never a generic 404: support staff
// should see the real condition.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *club.ValidationError
	switch {
	case errors.Is(err, club.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, club.ErrAccountSuspended), errors.Is(err, club.ErrInvalidRole):
		writeError(w, http.StatusForbidden, "access denied, contact an administrator")
	case errors.Is(err, club.ErrScopeDenied):
		writeError(w, http.StatusForbidden, "outside your managed scope")
	case errors.Is(err, club.ErrInsufficientRole):
		writeError(w, http.StatusForbidden, "insufficient role for this decision")
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, club.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, club.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "request already decided")
	case errors.Is(err, club.ErrConflict):
		writeError(w, http.StatusConflict, "resource conflict")
	case errors.Is(err, club.ErrUnknownAction):
		writeError(w, http.StatusInternalServerError, "unhandled action, request left pending")
	case errors.Is(err, club.ErrApplyFailed):
		writeError(w, http.StatusInternalServerError, "could not apply change, request left pending")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeMutationResult renders a gateway outcome. The approval path
// reports "submitted_for_review" with 202 so the caller never assumes
// the change has landed.
func writeMutationResult(w http.ResponseWriter, res *gateway.Result, createdCode int) {
	if res.Status == gateway.StatusSubmitted {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":  "submitted_for_review",
			"request": res.Request,
		})
		return
	}
	writeJSON(w, createdCode, map[string]any{
		"status": "applied",
		"entity": res.Entity,
	})
}
