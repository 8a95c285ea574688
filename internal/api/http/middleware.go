package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
	"tracklet-backend/internal/security"
)

const requestIDHeader = "X-Request-ID"

type contextKey int

const (
	claimsKey contextKey = iota
	requestIDKey
)

// ClaimsFromContext returns the verified token claims attached by the auth
// middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok
}

// userIDFromContext returns nil for anonymous contexts.
func userIDFromContext(ctx context.Context) *int32 {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == 0 {
		return nil
	}
	id := claims.UserID
	return &id
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID propagates an inbound X-Request-ID or mints one, and binds a
// request-scoped logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = logger.WithContext(ctx, logger.Get().With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case rec.status >= 500:
			logger.ErrorContext(r.Context(), "HTTP request", args...)
		case rec.status >= 400:
			logger.WarnContext(r.Context(), "HTTP request", args...)
		default:
			logger.InfoContext(r.Context(), "HTTP request", args...)
		}
	})
}

// authenticate requires a valid bearer token.
func authenticate(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, r, domain.ErrUnauthenticated)
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "Token rejected", "error", err)
				writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:]), true
	}
	return "", false
}

// requireModule answers 404 for every route of a switched-off module.
func requireModule(modules domain.Modules, module domain.Module) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !modules.Enabled(module) {
				writeError(w, r, domain.ErrModuleDisabled)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// methodPermission maps the HTTP verb onto the permission it needs.
func methodPermission(method string) domain.Permission {
	switch method {
	case http.MethodPost:
		return domain.PermAdd
	case http.MethodPut, http.MethodPatch:
		return domain.PermChange
	case http.MethodDelete:
		return domain.PermDelete
	default:
		return domain.PermView
	}
}

func requireRuleset(ruleset string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, r, domain.ErrUnauthenticated)
				return
			}
			if !claims.Grants().Has(ruleset, methodPermission(r.Method)) {
				writeError(w, r, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
