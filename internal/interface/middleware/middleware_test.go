package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-tracker-api/internal/domain/entity"
	"github.com/oksasatya/task-tracker-api/pkg/apperror"
)

func init() { gin.SetMode(gin.TestMode) }

type stubVerifier struct {
	user *entity.User
	err  error
	got  string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*entity.User, error) {
	s.got = token
	if token == "" {
		return nil, apperror.New(apperror.KindAuthentication, "no token provided")
	}
	return s.user, s.err
}

type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func authEngine(v SessionVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(v), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, "%s|%s", u.Email, c.GetString(CtxUserIDKey))
	})
	return r
}

func TestAuth_AcceptsBearerToken(t *testing.T) {
	v := &stubVerifier{user: &entity.User{ID: 17, Email: "ann@x.com"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer  tok.en.value ")
	authEngine(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@x.com|17", w.Body.String())
	assert.Equal(t, "tok.en.value", v.got)
}

func TestAuth_RejectionsAreUniform(t *testing.T) {
	badToken := &stubVerifier{err: apperror.New(apperror.KindAuthentication, "invalid token")}
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic YW5uOnB3",
		"no token":       "Bearer",
		"bad token":      "Bearer garbage",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			authEngine(badToken).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, "invalid token", env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, "authentication", env.Error.Kind)
		})
	}
}

func TestAuth_StoreFailureIsInternal(t *testing.T) {
	v := &stubVerifier{err: apperror.Internal("user store unavailable", errors.New("eio"))}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	authEngine(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "user store unavailable", decode(t, w).Message)
}

func okEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RealIP())
	handlers := append(mw, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/login", handlers...)
	return r
}

func TestRateLimit_NilClientIsNoop(t *testing.T) {
	r := okEngine(RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := okEngine(RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// engineTrusting builds an engine that believes forwarding headers only from
// the given proxies; nil trusts none.
func engineTrusting(t *testing.T, proxies []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(proxies))
	r.Use(RealIP())
	return r
}

func TestKeyByIPAndPath_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	r := engineTrusting(t, nil)
	var keys []string
	r.POST("/login", func(c *gin.Context) { keys = append(keys, KeyByIPAndPath()(c)) })

	for _, spoofed := range []string{"1.2.3.1", "1.2.3.2", "127.0.0.1"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.50:4711"
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("CF-Connecting-IP", spoofed)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, []string{
		"rl:path:/login:ip:203.0.113.50",
		"rl:path:/login:ip:203.0.113.50",
		"rl:path:/login:ip:203.0.113.50",
	}, keys)
}

func TestKeys(t *testing.T) {
	r := engineTrusting(t, []string{"192.0.2.1"})
	var ipPath, user string
	r.POST("/login", func(c *gin.Context) {
		ipPath = KeyByIPAndPath()(c)
		c.Set(CtxUserIDKey, "99")
		user = KeyByUserID()(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rl:path:/login:ip:203.0.113.9", ipPath)
	assert.Equal(t, "rl:user:99", user)
}

func TestRealIP(t *testing.T) {
	cases := []struct {
		name     string
		proxies  []string
		platform string
		headers  map[string]string
		want     string
	}{
		{"untrusted peer keeps socket address", nil, "", map[string]string{"X-Forwarded-For": "203.0.113.9", "CF-Connecting-IP": "198.51.100.1"}, "192.0.2.1"},
		{"trusted proxy forwards client", []string{"192.0.2.0/24"}, "", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"trusted proxy with garbage header", []string{"192.0.2.1"}, "", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.1"},
		{"cloudflare platform", nil, gin.PlatformCloudflare, map[string]string{"CF-Connecting-IP": "198.51.100.1"}, "198.51.100.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			r := engineTrusting(t, tc.proxies)
			r.TrustedPlatform = tc.platform
			r.GET("/", func(c *gin.Context) { got = c.GetString("real_ip") })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{"127.0.0.1": true, "10.1.2.3": true, "192.168.0.5": true, "203.0.113.9": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}

	r := engineTrusting(t, nil)
	var allowed bool
	r.GET("/debug/vars", func(c *gin.Context) { allowed = allow(c) })
	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.RemoteAddr = "203.0.113.9:5000"
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, allowed)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Body.String()
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Header().Get(HeaderRequestID))

	const incoming = "0b6c3c8e-5d43-4a6f-9a37-2b0cbd0b7a11"
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}
