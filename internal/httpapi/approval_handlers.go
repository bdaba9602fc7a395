package httpapi

import (
	"net/http"

	"clubdesk.org/internal/audit"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/obs"
)

func (a *API) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	pending, err := a.executor.ListPending(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": pending})
}

func (a *API) handleGetApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	req, err := a.executor.Get(r.Context(), r.PathValue("id"), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"request": req})
}

func (a *API) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	requestID := r.PathValue("id")
	req, err := a.executor.Approve(r.Context(), requestID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	obs.CountApprovalDecision("approved")
	_ = audit.LogEvent(r.Context(), "approval.approved", map[string]any{
		"request_id": req.ID,
		"action":     req.Action,
	})
	writeJSON(w, http.StatusOK, map[string]any{"request": req})
}

func (a *API) handleReject(w http.ResponseWriter, r *http.Request) {
	id, ok := actorID(r)
	if !ok {
		writeDomainError(w, club.ErrNotAuthenticated)
		return
	}
	requestID := r.PathValue("id")
	req, err := a.executor.Reject(r.Context(), requestID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	obs.CountApprovalDecision("rejected")
	_ = audit.LogEvent(r.Context(), "approval.rejected", map[string]any{
		"request_id": req.ID,
		"action":     req.Action,
	})
	writeJSON(w, http.StatusOK, map[string]any{"request": req})
}
