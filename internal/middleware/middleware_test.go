package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"launches-server/internal/shared/config"
	"launches-server/internal/shared/metrics"
	"launches-server/internal/shared/requestid"
	"launches-server/internal/shared/response"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestLogger(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("should assign an id and echo it", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/launches", nil))

		got := rec.Header().Get(requestid.Header)
		if !requestid.Valid(got) || got != seen {
			t.Fatalf("wanted: header to match context id\ngot: header=%q context=%q", got, seen)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("wanted: %d\ngot: %d", http.StatusNoContent, rec.Code)
		}
	})

	t.Run("should keep a valid incoming id", func(t *testing.T) {
		incoming := requestid.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, incoming)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen != incoming || rec.Header().Get(requestid.Header) != incoming {
			t.Fatalf("wanted: %q\ngot: %q", incoming, seen)
		}
	})

	t.Run("should replace a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "not-a-uuid")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen == "not-a-uuid" || !requestid.Valid(seen) {
			t.Fatalf("wanted: fresh id\ngot: %q", seen)
		}
	})
}

func TestMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/launches/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := Metrics(mux)

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodDelete, "/v1/launches/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/v1/launches/"+id, nil))
	}

	if delta := testutil.ToFloat64(counter) - before; delta != 3 {
		t.Fatalf("wanted: 3 requests under the route pattern\ngot: %v", delta)
	}
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("wanted: %v\ngot: %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("wanted: %v\ngot: %v", want, order)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("should reject requests past the burst", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 2})
		h := rl.Middleware(ok)

		codes := make([]int, 3)
		for i := range codes {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes[i] = rec.Code

			if i == 2 {
				var body response.ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error != "rate_limited" {
					t.Fatalf("wanted: rate_limited body\ngot: %s", rec.Body)
				}
				if rec.Header().Get("Retry-After") != "1" {
					t.Fatalf("wanted: Retry-After header")
				}
			}
		}

		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Fatalf("wanted: [200 200 429]\ngot: %v", codes)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("wanted: other clients unaffected\ngot: %d", rec.Code)
		}
	})

	t.Run("should pass everything when disabled", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, BurstSize: 1})
		h := rl.Middleware(ok)

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("wanted: 200\ngot: %d", rec.Code)
			}
		}
	})

	t.Run("should sweep idle clients", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 10, BurstSize: 2})
		rl.getLimiter("10.0.0.1").Allow()

		if removed := rl.sweep(time.Now().Add(time.Hour)); removed != 1 {
			t.Fatalf("wanted: 1 removed\ngot: %d", removed)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		want       string
	}{
		{"remote addr", false, nil, "192.0.2.1"},
		{"ignores proxy headers", false, map[string]string{"X-Forwarded-For": "203.0.113.9"}, "192.0.2.1"},
		{"forwarded for", true, map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"real ip", true, map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req, tt.trustProxy); got != tt.want {
				t.Fatalf("wanted: %q\ngot: %q", tt.want, got)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	c := NewCORS(config.FrontendConfig{URL: "http://localhost:3000"})
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/v1/planets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("wanted: allowed origin echoed\ngot: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/planets", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("wanted: no CORS header for other origins\ngot: %q", got)
	}
}
