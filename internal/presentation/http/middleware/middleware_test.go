package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/memory"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seq": c.GetHeader("X-Seq")})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_RejectsBurstOverflow(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", ok)

	for i := 0; i < 2; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.9:4321"
	assert.Equal(t, http.StatusOK, serve(r, other).Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Millisecond,
	})
	defer rl.Stop()

	rl.getLimiter("ip:10.0.0.1")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limiters)
}

func TestClientKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, strings.HasPrefix(clientKey(c), "ip:"))

	id := uuid.New()
	c.Set("user_id", id)
	assert.Equal(t, "user:"+id.String(), clientKey(c))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", shortID("3f2a9c1e-77aa-4b1d-9e0f-0c2d9e6b7a10"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestLoggerMiddleware_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "till-7")
	rec := serve(r, req)
	assert.Equal(t, "till-7", rec.Body.String())
	assert.Equal(t, "till-7", rec.Header().Get("X-Request-ID"))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestAuthAndRoles(t *testing.T) {
	jwtManager := utils.NewJWTManager("middleware-secret", time.Hour)

	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.POST("/orders", RequireRole(RoleAdmin, RoleStaff), ok)

	token := func(roles ...string) string {
		tok, err := jwtManager.GenerateAccessToken(uuid.New(), "clerk@attarhouse.example", roles)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", want: http.StatusUnauthorized},
		{name: "auditor", header: token(RoleAudit), want: http.StatusForbidden},
		{name: "staff", header: token(RoleStaff), want: http.StatusOK},
		{name: "admin", header: token(RoleAdmin, RoleAudit), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRole(RoleAdmin), ok)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestIdempotency(t *testing.T) {
	store := memory.NewStore()
	calls := 0

	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Repo: memory.NewIdempotencyRepository(store), TTL: time.Hour}))
	r.POST("/orders", func(c *gin.Context) {
		calls++
		if c.GetHeader("X-Fail") != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	r.GET("/orders", ok)

	post := func(key, body string, headers ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		return serve(r, req)
	}

	first := post("k1", `{"a":1}`)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := post("k1", `{"a":1}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	assert.Equal(t, http.StatusConflict, post("k1", `{"a":2}`).Code)
	assert.Equal(t, 1, calls)

	assert.Equal(t, http.StatusCreated, post("", `{"a":1}`).Code)
	assert.Equal(t, http.StatusCreated, post("", `{"a":1}`).Code)
	assert.Equal(t, 3, calls)

	assert.Equal(t, http.StatusUnprocessableEntity, post("k2", `{}`, "X-Fail", "1").Code)
	assert.Equal(t, http.StatusCreated, post("k2", `{}`).Code)
	assert.Equal(t, 5, calls)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(IdempotencyKeyHeader, "k1")
	rec := serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Idempotency-Replayed"))
}

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://till.attarhouse.example"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}

	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.POST("/orders", ok)

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "https://till.attarhouse.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", IdempotencyKeyHeader)
	rec := serve(r, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://till.attarhouse.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []string{"Authorization", "Content-Type"}, cfg.AllowedHeaders)
}
