package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func limitedRouter(rl *UserRateLimiter, user uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != uuid.Nil {
		router.Use(withUser(user))
	}
	router.Use(rl.Middleware())
	router.GET("/reservations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func getReservations(router *gin.Engine) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/reservations", nil))
	return resp
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	// One window of three requests per hour, so no token refills mid-test.
	rl := NewUserRateLimiter(RateLimiterConfigFor(3, time.Hour))
	defer rl.Stop()
	router := limitedRouter(rl, uuid.New())

	for i := 0; i < 3; i++ {
		if resp := getReservations(router); resp.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i+1, resp.Code)
		}
	}
	resp := getReservations(router)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("fourth request = %d, want 429", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" || resp.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("missing rate limit headers: %v", resp.Header())
	}
	if got := resp.Header().Get("X-RateLimit-Limit"); got != "3" {
		t.Errorf("X-RateLimit-Limit = %q", got)
	}
}

func TestRateLimiterBudgetsPerUser(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfigFor(1, time.Hour))
	defer rl.Stop()

	if resp := getReservations(limitedRouter(rl, uuid.New())); resp.Code != http.StatusOK {
		t.Fatalf("first user = %d", resp.Code)
	}
	if resp := getReservations(limitedRouter(rl, uuid.New())); resp.Code != http.StatusOK {
		t.Fatalf("second user = %d", resp.Code)
	}
	if got := rl.Stats()["active_users"]; got != 2 {
		t.Errorf("active_users = %v, want 2", got)
	}
}

func TestRateLimiterIgnoresAnonymousRequests(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfigFor(1, time.Hour))
	defer rl.Stop()
	router := limitedRouter(rl, uuid.Nil)

	for i := 0; i < 3; i++ {
		if resp := getReservations(router); resp.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i+1, resp.Code)
		}
	}
}

func TestRateLimiterCleanupDropsIdleUsers(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Millisecond,
	})
	rl.Stop()
	rl.Stop()

	getReservations(limitedRouter(rl, uuid.New()))
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()
	if got := rl.Stats()["active_users"]; got != 0 {
		t.Errorf("active_users = %v, want 0", got)
	}
}
