package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doGet(r http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestPerIPLocalWindow(t *testing.T) {
	l := NewLimiter(nil)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/test", l.PerIP(2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		if rr := doGet(r, "/test", nil); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, rr.Code)
		}
	}
	if rr := doGet(r, "/test", nil); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rr.Code)
	}

	now = now.Add(time.Minute)
	if rr := doGet(r, "/test", nil); rr.Code != http.StatusOK {
		t.Fatalf("new window: expected 200 got %d", rr.Code)
	}
}

func TestLocalWindowsExpire(t *testing.T) {
	l := NewLimiter(nil)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if _, err := l.hit(ctx, "rl:60:10.0.0."+strconv.Itoa(i), time.Minute); err != nil {
			t.Fatalf("hit: %v", err)
		}
	}
	if n := len(l.windows); n != 100 {
		t.Fatalf("windows = %d; want 100", n)
	}

	now = now.Add(2 * time.Minute)
	if _, err := l.hit(ctx, "rl:60:10.0.1.1", time.Minute); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if n := len(l.windows); n != 1 {
		t.Fatalf("windows after expiry = %d; want 1", n)
	}
}

type staticParser map[string]int64

func (p staticParser) Parse(token string) (int64, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func TestPerUserRequiresJWT(t *testing.T) {
	l := NewLimiter(nil)
	r := gin.New()
	r.GET("/play", l.PerUser(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	if rr := doGet(r, "/play", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestPerUserSeparatesUsers(t *testing.T) {
	l := NewLimiter(nil)
	p := staticParser{"a": 1, "b": 2}
	r := gin.New()
	r.GET("/play", JWT(p), l.PerUser(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	auth := func(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }
	if rr := doGet(r, "/play", auth("a")); rr.Code != http.StatusOK {
		t.Fatalf("user a first: %d", rr.Code)
	}
	rr := doGet(r, "/play", auth("a"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("user a second: expected 429 got %d", rr.Code)
	}
	if rr.Header().Get("X-GameRateLimit-Remaining") != "0" {
		t.Fatalf("remaining header = %q", rr.Header().Get("X-GameRateLimit-Remaining"))
	}
	if rr := doGet(r, "/play", auth("b")); rr.Code != http.StatusOK {
		t.Fatalf("user b: %d", rr.Code)
	}
}

func TestJWT(t *testing.T) {
	p := staticParser{"good": 42}
	r := gin.New()
	r.GET("/me", JWT(p), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetInt64(UserIDKey)})
	})

	cases := []struct {
		name string
		path string
		hdr  map[string]string
		want int
	}{
		{"missing", "/me", nil, http.StatusUnauthorized},
		{"invalid", "/me", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"header", "/me", map[string]string{"Authorization": "Bearer good"}, http.StatusOK},
		{"query", "/me?token=good", nil, http.StatusOK},
	}
	for _, tc := range cases {
		if rr := doGet(r, tc.path, tc.hdr); rr.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, rr.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := doGet(r, "/x", map[string]string{requestIDHeader: "not-a-uuid"})
	if _, err := uuid.Parse(rr.Header().Get(requestIDHeader)); err != nil {
		t.Fatalf("expected generated uuid, got %q", rr.Header().Get(requestIDHeader))
	}

	id := uuid.NewString()
	rr = doGet(r, "/x", map[string]string{requestIDHeader: id})
	if rr.Header().Get(requestIDHeader) != id {
		t.Fatalf("expected id to be echoed")
	}
}

// Runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	rdb := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), db)
	if rdb == nil {
		t.Fatalf("redis at %s not reachable", addr)
	}
	defer rdb.Close()

	// unique window so reruns do not share a key
	w := time.Duration(2+time.Now().UnixNano()%1000) * time.Second
	l := NewLimiter(rdb)
	r := gin.New()
	r.GET("/test", l.PerIP(2, w), func(c *gin.Context) { c.Status(http.StatusOK) })

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < 2; i++ {
		res, err := http.Get(srv.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 got %d", res.StatusCode)
		}
	}
	res, err := http.Get(srv.URL + "/test")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", res.StatusCode)
	}
}
