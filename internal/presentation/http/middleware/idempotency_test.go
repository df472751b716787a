package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dukapos/register-api/internal/domain/entity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) id(key, registerID string) string {
	return registerID + "/" + key
}

func (r *fakeIdempotencyRepo) GetByKey(_ context.Context, key, registerID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ikey, ok := r.keys[r.id(key, registerID)]
	if !ok {
		return nil, nil
	}
	cp := *ikey
	return &cp, nil
}

func (r *fakeIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.id(ikey.Key, ikey.RegisterID)
	if _, ok := r.keys[id]; ok {
		return assert.AnError
	}
	cp := *ikey
	r.keys[id] = &cp
	return nil
}

func (r *fakeIdempotencyRepo) SaveResponse(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.keys[r.id(ikey.Key, ikey.RegisterID)]
	if !ok {
		return assert.AnError
	}
	stored.ResponseCode = ikey.ResponseCode
	stored.ResponseBody = ikey.ResponseBody
	return nil
}

func (r *fakeIdempotencyRepo) Delete(_ context.Context, key, registerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, r.id(key, registerID))
	return nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ikey := range r.keys {
		if ikey.IsExpired() {
			delete(r.keys, id)
		}
	}
	return nil
}

func idempotencyRouter(repo *fakeIdempotencyRepo, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RegisterMiddleware())
	router.Use(Idempotency(IdempotencyConfig{Repo: repo}))
	router.POST("/pay", handler)
	return router
}

func payRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set(RegisterIDHeader, "reg-1")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	calls := 0
	router := idempotencyRouter(repo, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"sale": "s-1"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, calls)

	// The duplicate must not reach the handler again; it gets the cached
	// response back, flagged as a replay.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-1"))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Contains(t, w.Body.String(), "s-1")
}

func TestIdempotencyRejectsKeyStillInFlight(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	router := idempotencyRouter(repo, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// A reservation without a recorded response means the first request is
	// still running its handler.
	require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
		Key:        "key-2",
		RegisterID: "reg-1",
		Endpoint:   "POST /pay",
		ExpiresAt:  time.Now().Add(time.Hour),
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-2"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in progress")
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	fail := true
	router := idempotencyRouter(repo, func(c *gin.Context) {
		if fail {
			c.JSON(http.StatusBadGateway, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sale": "s-2"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-3"))
	require.Equal(t, http.StatusBadGateway, w.Code)

	// A failed attempt must not pin the key; the retry runs the handler.
	fail = false
	w = httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-3"))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotencyReclaimsExpiredKey(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	calls := 0
	router := idempotencyRouter(repo, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"sale": "s-3"})
	})

	require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
		Key:          "key-4",
		RegisterID:   "reg-1",
		Endpoint:     "POST /pay",
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"sale":"old"}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, payRequest("key-4"))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
	assert.Contains(t, w.Body.String(), "s-3")
}

func TestIdempotencyRequiredRejectsMissingKey(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RegisterMiddleware())
	router.Use(IdempotencyRequired(IdempotencyConfig{Repo: repo}))
	router.POST("/pay", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, payRequest(""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency-Key")
}
