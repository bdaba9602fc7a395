package auth

import (
	"context"
	"strings"
)

type ctxKey string

const profileIDKey ctxKey = "auth_profile_id"

// ContextWithProfileID stores the authenticated profile id in the context.
func ContextWithProfileID(ctx context.Context, profileID string) context.Context {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return ctx
	}
	return context.WithValue(ctx, profileIDKey, profileID)
}

// ProfileIDFromContext extracts the authenticated profile id.
func ProfileIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(profileIDKey).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
