package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const viewerKey contextKey = "viewer"

// Middleware returns an HTTP middleware that requires a valid watch token.
// The token is read from the "token" query parameter, which browsers can
// set on WebSocket URLs, or from a Bearer Authorization header. A nil
// manager lets every request through.
func Middleware(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if jwtMgr == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwtMgr.ValidateToken(tokenFromRequest(r))
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), viewerKey, claims.Viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// ViewerFromContext extracts the authenticated viewer from the request context.
func ViewerFromContext(ctx context.Context) string {
	v, _ := ctx.Value(viewerKey).(string)
	return v
}
