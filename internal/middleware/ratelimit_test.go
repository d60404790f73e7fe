package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
)

func limiterContext(t *testing.T, authorization string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.RemoteAddr = "203.0.113.7:4711"
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/reservations")
	return c
}

func TestRateKeySeparatesBearerCredentials(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user"}

	anon := rateKey(cfg, limiterContext(t, ""))
	alice := rateKey(cfg, limiterContext(t, "Bearer token-alice"))
	bob := rateKey(cfg, limiterContext(t, "Bearer token-bob"))

	// Same IP, but each credential gets its own bucket and neither
	// shares the anonymous one.
	assert.Contains(t, anon, ":user:anon")
	assert.NotEqual(t, anon, alice)
	assert.NotEqual(t, anon, bob)
	assert.NotEqual(t, alice, bob)

	// The same credential always lands in the same bucket.
	assert.Equal(t, alice, rateKey(cfg, limiterContext(t, "Bearer token-alice")))
}

func TestRateKeyPrefersResolvedUserID(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	c := limiterContext(t, "Bearer token-alice")
	c.Set(UserIDKey, "42")
	assert.Equal(t, "rl:user:42", rateKey(cfg, c))
}

func TestRateKeyStrategies(t *testing.T) {
	c := limiterContext(t, "")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.7"},
		{"user", "rl:user:anon"},
		{"ip_user", "rl:ip:203.0.113.7:user:anon"},
		{"ip_user_route", "rl:ip:203.0.113.7:user:anon:route:GET /api/reservations"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, rateKey(cfg, c))
		})
	}
}
