package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
)

// setupRateLimitRouter injects principal into every request ahead of the rate limiter.
func setupRateLimitRouter(ctx context.Context, principal *authDomain.Principal, rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(ctx, rps, burst, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := setupRateLimitRouter(t.Context(), authDomain.NewPrincipal("alice", nil, nil), 10.0, 20)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := setupRateLimitRouter(t.Context(), authDomain.NewPrincipal("alice", nil, nil), 1.0, 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentPrincipals(t *testing.T) {
	ctx := t.Context()
	alice := setupRateLimitRouter(ctx, authDomain.NewPrincipal("alice", nil, nil), 1.0, 1)

	w := httptest.NewRecorder()
	alice.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	alice.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	store := newRateLimiterStore(ctx, 1.0, 1)
	_, allowed := store.allow("principal:alice")
	assert.True(t, allowed)
	_, allowed = store.allow("principal:bob")
	assert.True(t, allowed)
	_, allowed = store.allow("principal:alice")
	assert.False(t, allowed)
}

func TestRateLimitMiddleware_RequiresPrincipal(t *testing.T) {
	router := setupRateLimitRouter(t.Context(), nil, 10.0, 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRateLimitMiddleware_PerIP(t *testing.T) {
	router := gin.New()
	router.Use(AuthRateLimitMiddleware(t.Context(), 1.0, 1, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":12345"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2"))
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := newRateLimiterStore(t.Context(), 1.0, 1)
	store.getLimiter("stale")

	store.removeIdle(time.Now().Add(time.Minute))

	_, ok := store.limiters.Load("stale")
	assert.False(t, ok)
}

func TestRateLimiterStore_CleanupStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	newRateLimiterStore(ctx, 1.0, 1)
	cancel()
}
