package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/repository/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct {
	shop string
	err  error
}

func (d *fakeDecoder) DecodeShop(token string) (string, error) {
	return d.shop, d.err
}

func installedSession(t *testing.T) (*application.SessionService, *domain.MerchantSession) {
	t.Helper()
	sessions := memory.NewSessionStore()
	scopes := memory.NewScopeStore()
	svc := application.NewSessionService(sessions, scopes, zerolog.Nop())

	session, err := svc.Install(context.Background(), &domain.Grant{
		Shop:        "shop.example.com",
		AccessToken: "token",
		Scope:       "read_orders",
	})
	require.NoError(t, err)
	return svc, session
}

func sessionEcho(t *testing.T) (http.Handler, *bool, **domain.MerchantSession) {
	t.Helper()
	called := new(bool)
	got := new(*domain.MerchantSession)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*got = domain.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), called, got
}

func TestSessionAuth(t *testing.T) {
	t.Run("rejects requests with no credentials", func(t *testing.T) {
		svc, _ := installedSession(t)
		next, called, _ := sessionEcho(t)
		handler := SessionAuth(svc, &fakeDecoder{}, zerolog.Nop())(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scopes", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"No session ID or token provided"}`, rec.Body.String())
		assert.False(t, *called)
	})

	t.Run("admits a valid session id header", func(t *testing.T) {
		svc, session := installedSession(t)
		next, called, got := sessionEcho(t)
		handler := SessionAuth(svc, &fakeDecoder{}, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/scopes", nil)
		req.Header.Set(SessionIDHeader, session.ID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, *called)
		require.NotNil(t, *got)
		assert.Equal(t, session.ID, (*got).ID)
	})

	t.Run("rejects an unknown session id", func(t *testing.T) {
		svc, _ := installedSession(t)
		next, called, _ := sessionEcho(t)
		handler := SessionAuth(svc, &fakeDecoder{}, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/scopes", nil)
		req.Header.Set(SessionIDHeader, "not-a-session")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid session"}`, rec.Body.String())
		assert.False(t, *called)
	})

	t.Run("admits a valid bearer token", func(t *testing.T) {
		svc, session := installedSession(t)
		next, _, got := sessionEcho(t)
		handler := SessionAuth(svc, &fakeDecoder{shop: session.Shop}, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/scopes", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, *got)
		assert.Equal(t, session.ID, (*got).ID)
	})

	t.Run("rejects a token for an uninstalled shop", func(t *testing.T) {
		svc, _ := installedSession(t)
		next, _, _ := sessionEcho(t)
		handler := SessionAuth(svc, &fakeDecoder{shop: "other.example.com"}, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/scopes", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Session not found. Please reinstall the app."}`, rec.Body.String())
	})

	t.Run("falls back to session id when the token fails to decode", func(t *testing.T) {
		svc, session := installedSession(t)
		next, _, got := sessionEcho(t)
		decoder := &fakeDecoder{err: errors.New("token expired")}
		handler := SessionAuth(svc, decoder, zerolog.Nop())(next)

		req := httptest.NewRequest(http.MethodGet, "/api/scopes", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		req.Header.Set(SessionIDHeader, session.ID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, *got)
		assert.Equal(t, session.ID, (*got).ID)
	})
}
