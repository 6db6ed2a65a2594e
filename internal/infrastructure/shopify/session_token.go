package shopify

import (
	"fmt"
	"net/url"

	"merchant-data-gateway/internal/ports"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenDecoder validates embedded-app session tokens. The platform
// signs them HS256 with the app's API secret; the dest claim carries the
// shop's admin URL.
type SessionTokenDecoder struct {
	apiKey    string
	apiSecret string
}

// NewSessionTokenDecoder creates a new session token decoder
func NewSessionTokenDecoder(apiKey, apiSecret string) ports.SessionTokenDecoder {
	return &SessionTokenDecoder{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

type sessionTokenClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// DecodeShop validates the token signature and expiry and returns the shop
// domain from the destination claim.
func (d *SessionTokenDecoder) DecodeShop(token string) (string, error) {
	claims := &sessionTokenClaims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if d.apiKey != "" {
		// The aud claim of a session token is the app's API key.
		parserOpts = append(parserOpts, jwt.WithAudience(d.apiKey))
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(d.apiSecret), nil
	}, parserOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to verify session token: %w", err)
	}

	if claims.Dest == "" {
		return "", fmt.Errorf("session token has no destination claim")
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil {
		return "", fmt.Errorf("invalid destination claim: %w", err)
	}
	shop := dest.Hostname()
	if shop == "" {
		return "", fmt.Errorf("destination claim %q has no host", claims.Dest)
	}

	return shop, nil
}
