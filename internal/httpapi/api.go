// Package httpapi exposes the staff dashboard API over HTTP.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/approval"
	"clubdesk.org/internal/club"
	"clubdesk.org/internal/gateway"
	"clubdesk.org/internal/obs"
)

// ReadyProbe reports readiness (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options tune the outer middleware and token issuance.
type Options struct {
	Version      string
	TokenTTL     time.Duration
	MaxBodyBytes int64
	RatePerSec   int
	RateBurst    int
}

// API is the HTTP layer. All authorization happens underneath it, in
// the gateway and the approval executor.
type API struct {
	mux        *http.ServeMux
	store      club.Store
	resolver   *access.Resolver
	gateway    *gateway.Gateway
	executor   *approval.Executor
	readyProbe ReadyProbe
	opts       Options
}

func New(store club.Store, resolver *access.Resolver, gw *gateway.Gateway, exec *approval.Executor, rp ReadyProbe, opts Options) *API {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	a := &API{
		mux:        http.NewServeMux(),
		store:      store,
		resolver:   resolver,
		gateway:    gw,
		executor:   exec,
		readyProbe: rp,
		opts:       opts,
	}

	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	a.mux.HandleFunc("GET /readyz", a.handleReady)
	a.mux.HandleFunc("GET /v1/info", a.handleInfo)
	a.mux.Handle("GET /metrics", obs.Handler())

	a.mux.HandleFunc("POST /v1/auth/token", a.handleToken)
	a.mux.HandleFunc("GET /v1/me/scope", a.handleMyScope)
	a.mux.HandleFunc("GET /v1/me/permissions", a.handleMyPermissions)

	a.mux.HandleFunc("GET /v1/teams", a.handleListTeams)
	a.mux.HandleFunc("POST /v1/teams", a.handleCreateTeam)
	a.mux.HandleFunc("PUT /v1/teams/{id}", a.handleUpdateTeam)
	a.mux.HandleFunc("DELETE /v1/teams/{id}", a.handleDeleteTeam)

	a.mux.HandleFunc("GET /v1/players", a.handleListPlayers)
	a.mux.HandleFunc("POST /v1/players", a.handleCreatePlayer)
	a.mux.HandleFunc("PUT /v1/players/{id}", a.handleUpdatePlayer)
	a.mux.HandleFunc("POST /v1/players/{id}/move", a.handleMovePlayer)
	a.mux.HandleFunc("DELETE /v1/players/{id}", a.handleDeletePlayer)

	a.mux.HandleFunc("GET /v1/planning", a.handleListSessions)
	a.mux.HandleFunc("POST /v1/planning", a.handleCreateSession)
	a.mux.HandleFunc("PUT /v1/planning/{id}", a.handleUpdateSession)
	a.mux.HandleFunc("DELETE /v1/planning/{id}", a.handleDeleteSession)
	a.mux.HandleFunc("GET /v1/planning/{id}/attendance", a.handleListAttendance)
	a.mux.HandleFunc("PUT /v1/planning/{id}/attendance", a.handleSetAttendance)

	a.mux.HandleFunc("GET /v1/matches", a.handleListMatches)
	a.mux.HandleFunc("POST /v1/matches", a.handleCreateMatch)
	a.mux.HandleFunc("PUT /v1/matches/{id}", a.handleUpdateMatch)
	a.mux.HandleFunc("DELETE /v1/matches/{id}", a.handleDeleteMatch)

	a.mux.HandleFunc("GET /v1/approvals", a.handleListApprovals)
	a.mux.HandleFunc("GET /v1/approvals/{id}", a.handleGetApproval)
	a.mux.HandleFunc("POST /v1/approvals/{id}/approve", a.handleApprove)
	a.mux.HandleFunc("POST /v1/approvals/{id}/reject", a.handleReject)

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, a.opts.MaxBodyBytes)
	if a.opts.RatePerSec > 0 {
		h = RateLimit(h, a.opts.RateBurst, a.opts.RatePerSec)
	}
	h = SecurityHeaders(h)
	h = CORS(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "clubdesk-api",
		"version": a.opts.Version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "clubdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.opts.Version,
	})
}
