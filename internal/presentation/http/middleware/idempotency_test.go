package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/domain/entity"
)

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ikey, ok := r.keys[userID.String()+"/"+key]
	if !ok {
		return nil, nil
	}
	cp := *ikey
	return &cp, nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ikey
	r.keys[ikey.UserID.String()+"/"+ikey.Key] = &cp
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func (r *memoryIdempotencyRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// withUser stands in for AuthMiddleware.
func withUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

// idempotentRouter answers POST /reservations with 201, or 400 when the body
// contains "bad". calls counts handler executions.
func idempotentRouter(repo *memoryIdempotencyRepo, user uuid.UUID, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withUser(user), Idempotency(IdempotencyConfig{Repo: repo}))
	router.POST("/reservations", func(c *gin.Context) {
		*calls++
		body, _ := c.GetRawData()
		if strings.Contains(string(body), "bad") {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "call": *calls})
	})
	return router
}

func postWithKey(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestIdempotencyReplaysStoredSuccess(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	router := idempotentRouter(repo, uuid.New(), &calls)

	first := postWithKey(router, "key-1", `{"room_type":"Deluxe"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first = %d", first.Code)
	}
	if first.Header().Get("X-Idempotency-Replayed") != "" {
		t.Errorf("first response marked as replay")
	}

	second := postWithKey(router, "key-1", `{"room_type":"Deluxe"}`)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay = %d", second.Code)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Errorf("replay header missing")
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replay body = %s, want %s", second.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	router := idempotentRouter(repo, uuid.New(), &calls)

	if resp := postWithKey(router, "key-2", `{"room_type":"Deluxe"}`); resp.Code != http.StatusCreated {
		t.Fatalf("first = %d", resp.Code)
	}
	resp := postWithKey(router, "key-2", `{"room_type":"Suite"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reuse = %d, want 422", resp.Code)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestIdempotencySkipsFailedResponses(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	router := idempotentRouter(repo, uuid.New(), &calls)

	if resp := postWithKey(router, "key-3", `{"room_type":"bad"}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("first = %d", resp.Code)
	}
	if repo.len() != 0 {
		t.Fatalf("failed response was stored")
	}
	resp := postWithKey(router, "key-3", `{"room_type":"bad"}`)
	if resp.Header().Get("X-Idempotency-Replayed") != "" {
		t.Errorf("failed response was replayed")
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	postWithKey(idempotentRouter(repo, uuid.New(), &calls), "shared", `{}`)
	resp := postWithKey(idempotentRouter(repo, uuid.New(), &calls), "shared", `{}`)

	if resp.Header().Get("X-Idempotency-Replayed") != "" {
		t.Errorf("another user's response was replayed")
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	router := idempotentRouter(repo, uuid.New(), &calls)

	postWithKey(router, "", `{}`)
	postWithKey(router, "", `{}`)
	if calls != 2 || repo.len() != 0 {
		t.Errorf("calls = %d stored = %d, want 2 and 0", calls, repo.len())
	}
}
