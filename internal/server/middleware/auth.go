package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/dashsync/internal/server/handlers"
)

// AuthMiddleware проверяет bearer JWT и кладет user_id в контекст запроса
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				// Сам заголовок не логируем: в нем может быть токен
				logger.Warn("Missing or malformed Authorization header", "path", r.URL.Path)
				w.Header().Set("WWW-Authenticate", `Bearer realm="dashsync"`)
				writeError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, strings.TrimSpace(token))
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer realm="dashsync", error="invalid_token"`)
				writeError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			logger.Debug("User authenticated", "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), claims.UserID)))
		})
	}
}
