package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storehub/catalog-service/internal/errors"
	"github.com/storehub/catalog-service/internal/models"
	"github.com/storehub/catalog-service/internal/utils/response"
)

type contextKey uuid.UUID

var ClaimsContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

// AdminOnly admits requests carrying a valid bearer token whose role claim is
// admin. Everything else is rejected before the handler runs.
func (m *AuthMiddleware) AdminOnly(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))

			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))

			return
		}

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))

				return nil, errors.BadRequestError("unexpected signing method")
			}

			return m.jwtKey, nil
		})
		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))

			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))

			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("subject", claims.Subject))
			response.Error(w, errors.UnauthorizedError("Token expired"))

			return
		}

		if claims.Role != models.RoleAdmin {
			logger.Warn("Insufficient role", slog.String("subject", claims.Subject), slog.String("role", claims.Role))
			response.Error(w, errors.ForbiddenError("Admin access required"))

			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)

		requestScopedLogger := logger.With(slog.String("subject", claims.Subject))
		ctx = context.WithValue(ctx, loggerKey, requestScopedLogger)

		requestScopedLogger.Info("Admin authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
