package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAdminAuthRequired(t *testing.T) {
	h := AdminAuth("required", "secret", utils.NewNopLogger())(ok)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"invalid token", "Authorization", "Bearer wrong", http.StatusUnauthorized},
		{"valid bearer", "Authorization", "Bearer secret", http.StatusOK},
		{"valid header", "X-Admin-Token", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			if w := serve(h, req); w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAdminAuthOptional(t *testing.T) {
	h := AdminAuth("optional", "secret", utils.NewNopLogger())(ok)

	if w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if w := serve(h, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAdminAuthDisabled(t *testing.T) {
	h := AdminAuth("disabled", "", utils.NewNopLogger())(ok)
	if w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAdminAuthEmptyToken(t *testing.T) {
	h := AdminAuth("required", "", utils.NewNopLogger())(ok)
	if w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	w := serve(Recovery(utils.NewNopLogger())(panicky), httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal server error") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(CORS()(ok), req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestMaxBody(t *testing.T) {
	reader := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := MaxBody(8)(reader)

	if w := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))); w.Code != http.StatusOK {
		t.Errorf("small body: got %d", w.Code)
	}
	if w := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too large"))); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: got %d", w.Code)
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	w := serve(Logger(utils.NewNopLogger())(ok), httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}
}
