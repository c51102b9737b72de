package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := RequestID()(func(c echo.Context) error {
		seen, _ = c.Get(RequestIDKey).(string)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatal(err)
	}
	if seen == "" {
		t.Error("request id not set on context")
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != seen {
		t.Errorf("response header id = %q, context id = %q", got, seen)
	}
}

func TestRequestIDHonorsIncomingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := handler(c); err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "upstream-id" {
		t.Errorf("request id = %q, want upstream-id", got)
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %v, want *echo.HTTPError", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", he.Code)
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    1,
		burst:   3,
		now:     time.Now,
	}
	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst was blocked", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request beyond burst was allowed")
	}
	// A different client has its own bucket.
	if !rl.Allow("5.6.7.8") {
		t.Error("other client was blocked")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	clock := time.Now()
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    1,
		burst:   1,
		now:     func() time.Time { return clock },
	}
	if !rl.Allow("ip") {
		t.Fatal("first request blocked")
	}
	if rl.Allow("ip") {
		t.Fatal("second immediate request allowed")
	}
	clock = clock.Add(2 * time.Second)
	if !rl.Allow("ip") {
		t.Error("request after refill was blocked")
	}
}

func TestRateLimiterSweepsIdleBuckets(t *testing.T) {
	clock := time.Now()
	rl := NewRateLimiter(1, 3)
	rl.now = func() time.Time { return clock }

	rl.Allow("idle")
	clock = clock.Add(bucketIdleTTL + time.Minute)
	rl.Allow("active")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["idle"]; ok {
		t.Error("idle bucket survived the sweep")
	}
	if _, ok := rl.buckets["active"]; !ok {
		t.Error("active bucket was swept")
	}
}
