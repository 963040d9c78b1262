package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mcpe-gateway-api/models"
)

const (
	AccessTokenDuration = 15 * time.Minute
	MaxTokenDuration    = 24 * time.Hour
	tokenTypeAccess     = "access"
)

var (
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingClientID = errors.New("client id is required")
)

// JWTService issues and validates the bearer tokens API clients present on
// the payment endpoints.
type JWTService struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

type Claims struct {
	Name      string `json:"name,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}
}

// GenerateToken signs an access token for client. Durations outside
// (0, MaxTokenDuration] fall back to AccessTokenDuration.
func (j *JWTService) GenerateToken(client models.APIClient, duration time.Duration) (string, time.Time, error) {
	if client.ClientID == "" {
		return "", time.Time{}, ErrMissingClientID
	}
	if duration <= 0 || duration > MaxTokenDuration {
		duration = AccessTokenDuration
	}

	now := j.now()
	expiresAt := now.Add(duration)
	claims := Claims{
		Name:      client.Name,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   client.ClientID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks signature, issuer and expiry and returns the client
// the token was issued to.
func (j *JWTService) ValidateToken(tokenString string) (*models.APIClient, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(j.issuer), jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.APIClient{
		ClientID: claims.Subject,
		Name:     claims.Name,
	}, nil
}
