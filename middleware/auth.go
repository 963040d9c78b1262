package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"mcpe-gateway-api/models"
	"mcpe-gateway-api/services/auth"
	"mcpe-gateway-api/utils"
)

type contextKey string

const ClientContextKey contextKey = "api_client"

// TokenValidator is satisfied by *auth.JWTService.
type TokenValidator interface {
	ValidateToken(token string) (*models.APIClient, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the authenticated client in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("missing authorization header")
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("invalid authorization header format")
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			client, err := validator.ValidateToken(parts[1])
			if err != nil {
				logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("token validation failed")

				message := "Authentication failed"
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					message = "Token expired"
				case errors.Is(err, auth.ErrInvalidToken):
					message = "Invalid token"
				}
				utils.SendErrorResponse(w, http.StatusUnauthorized, message)
				return
			}

			ctx := context.WithValue(r.Context(), ClientContextKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClientFromContext(ctx context.Context) *models.APIClient {
	client, ok := ctx.Value(ClientContextKey).(*models.APIClient)
	if !ok {
		return nil
	}
	return client
}
