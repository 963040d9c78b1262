package models

import "time"

// APIClient is a machine client allowed to call the payment endpoints.
type APIClient struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name,omitempty"`
}

type TokenRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	// TTL in seconds; zero means the default access token duration.
	TTL int `json:"ttl,omitempty"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Client    APIClient `json:"client"`
}
