package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpe-gateway-api/models"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "mcpe-gateway-api")

	token, expiresAt, err := svc.GenerateToken(models.APIClient{ClientID: "shop-1", Name: "Shop"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	client, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "shop-1", client.ClientID)
	assert.Equal(t, "Shop", client.Name)
}

func TestGenerateToken_DefaultDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "mcpe-gateway-api")

	for _, d := range []time.Duration{0, -time.Minute, 48 * time.Hour} {
		_, expiresAt, err := svc.GenerateToken(models.APIClient{ClientID: "shop-1"}, d)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(AccessTokenDuration), expiresAt, 5*time.Second)
	}
}

func TestGenerateToken_RequiresClientID(t *testing.T) {
	svc := NewJWTService("test-secret", "mcpe-gateway-api")
	_, _, err := svc.GenerateToken(models.APIClient{}, time.Hour)
	require.ErrorIs(t, err, ErrMissingClientID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "mcpe-gateway-api")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken(models.APIClient{ClientID: "shop-1"}, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", "mcpe-gateway-api")
	token, _, err := svc.GenerateToken(models.APIClient{ClientID: "shop-1"}, time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("other", "mcpe-gateway-api").ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewJWTService("test-secret", "someone-else").ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			TokenType:        tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "shop-1", Issuer: "mcpe-gateway-api"},
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(s)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong token type", func(t *testing.T) {
		refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			TokenType:        "refresh",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "shop-1", Issuer: "mcpe-gateway-api"},
		})
		s, err := refresh.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(s)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
