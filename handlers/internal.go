package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"mcpe-gateway-api/models"
	"mcpe-gateway-api/services/auth"
	"mcpe-gateway-api/utils"
)

type InternalHandler struct {
	jwtService     *auth.JWTService
	internalSecret string
}

// NewInternalHandler serves token issuance to trusted back-office systems.
func NewInternalHandler(jwtService *auth.JWTService, internalSecret string) (*InternalHandler, error) {
	if internalSecret == "" {
		return nil, errors.New("internal secret is required")
	}
	return &InternalHandler{
		jwtService:     jwtService,
		internalSecret: internalSecret,
	}, nil
}

func (h *InternalHandler) RequireInternalSecret(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get("X-Internal-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.internalSecret)) != 1 {
			zerolog.Ctx(r.Context()).Warn().Str("remote_addr", r.RemoteAddr).Msg("invalid or missing internal secret")
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// IssueToken signs an access token for an API client.
func (h *InternalHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClientID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "client_id is required")
		return
	}

	client := models.APIClient{ClientID: req.ClientID, Name: req.Name}
	token, expiresAt, err := h.jwtService.GenerateToken(client, time.Duration(req.TTL)*time.Second)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("error generating access token")
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate access token")
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("client_id", req.ClientID).Time("expires_at", expiresAt).Msg("issued access token")

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Token generated successfully",
		Data: models.TokenResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Client:    client,
		},
	})
}

// ValidateToken lets back-office systems check a token they were handed.
func (h *InternalHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Token is required")
		return
	}

	client, err := h.jwtService.ValidateToken(req.Token)
	if err != nil {
		message := "Token validation failed"
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			message = "Token expired"
		case errors.Is(err, auth.ErrInvalidToken):
			message = "Invalid token"
		}
		utils.SendErrorResponse(w, http.StatusUnauthorized, message)
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Token is valid",
		Data:    client,
	})
}
