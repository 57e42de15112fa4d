package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/synonym-backend/internal/auth"
	"github.com/heartmarshall/synonym-backend/pkg/ctxutil"
)

type tokenValidator interface {
	Validate(token string) (auth.Claims, error)
}

// Auth requires a valid bearer token and places its owner id in the
// context. Requests without one get 401.
func Auth(validator tokenValidator, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected",
					slog.String("error", err.Error()),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := ctxutil.WithOwnerID(r.Context(), claims.OwnerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
