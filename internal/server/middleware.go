package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/mixenapp/mixen-backend/internal/app"
	"github.com/mixenapp/mixen-backend/internal/db"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/repository"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// UserIDFrom returns the authenticated user id stored by RequireAuth.
func UserIDFrom(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uint64)
	return id, ok
}

// RequestLogger logs method and path of every request.
func RequestLogger(appCtx *app.AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			appCtx.Logger.Debug("http request", "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth validates the bearer access token and stores the user id
// in the request context.
func RequireAuth(appCtx *app.AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				WriteError(w, svcErr.Unauthorized("missing bearer token"))
				return
			}

			claims, err := appCtx.Tokens.ValidateAccess(token)
			if err != nil {
				WriteError(w, svcErr.Unauthorized("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApproved gates swipe/like/message capabilities: the caller's
// profile must be APPROVED. Must run after RequireAuth.
func RequireApproved(appCtx *app.AppContext) func(http.Handler) http.Handler {
	profiles := repository.NewProfileRepository(appCtx.DB)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFrom(r.Context())
			if !ok {
				WriteError(w, svcErr.Unauthorized("not logged in"))
				return
			}

			profile, err := profiles.GetByUserID(r.Context(), userID)
			if err != nil {
				WriteError(w, err)
				return
			}
			if profile.Status != db.StatusApproved {
				WriteError(w, svcErr.PermissionDenied("Account not approved yet"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin restricts the review console to admin accounts.
// Must run after RequireAuth.
func RequireAdmin(appCtx *app.AppContext) func(http.Handler) http.Handler {
	users := repository.NewUserRepository(appCtx.DB)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFrom(r.Context())
			if !ok {
				WriteError(w, svcErr.Unauthorized("not logged in"))
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				WriteError(w, err)
				return
			}
			if !user.IsAdmin {
				WriteError(w, svcErr.PermissionDenied("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
