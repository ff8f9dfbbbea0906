package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return r
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		limiter  *stubLimiter
		wantCode int
	}{
		{"未配置限流器放行", nil, http.StatusOK},
		{"窗口内放行", &stubLimiter{allowed: true}, http.StatusOK},
		{"超限拒绝", &stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"计数出错降级放行", &stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var limiter RateLimiter
			if tt.limiter != nil {
				limiter = tt.limiter
			}
			r := newEngine(RateLimit(limiter, 10, time.Minute))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.limiter != nil {
				require.Len(t, tt.limiter.keys, 1)
				assert.True(t, strings.HasSuffix(tt.limiter.keys[0], ":/ping"), tt.limiter.keys[0])
			}
		})
	}
}

func TestRateLimit_RetryAfter(t *testing.T) {
	r := newEngine(RateLimit(&stubLimiter{allowed: false}, 10, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":10004`)
}

// ── RequestID ──

func TestRequestID_Generated(t *testing.T) {
	r := newEngine(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestRequestID_Propagated(t *testing.T) {
	r := newEngine(RequestID())

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, "trace-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-abc", w.Header().Get(requestIDHeader))
}

func TestRequestID_TooLongReplaced(t *testing.T) {
	r := newEngine(RequestID())

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("a", requestIDMaxLen+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

// ── Logger ──

func TestLogger_IncludesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(RequestID(), Logger(zap.New(core)))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, "trace-xyz")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("请求完成").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "trace-xyz", fields["request_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestLogger_ClientErrorIsWarn(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(Logger(zap.New(core)))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	assert.Equal(t, 1, logs.FilterMessage("客户端错误").Len())
}

// ── CORS ──

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:3000/"}))

	t.Run("白名单来源", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Operator-ID")
	})

	t.Run("非白名单来源", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("预检请求", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

// ── SecurityHeaders ──

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

// ── BodyLimit ──

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(16))

	t.Run("未超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Content-Length 超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader(`{"a":"0123456789abcdef"}`)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), `"code":10005`)
	})
}
