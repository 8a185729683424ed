package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Login("google", "success")
	m.Login("google", "success")
	m.TokenIssued()
	m.BearerAuth("invalid")
	m.ObserveHTTP("GET", "/user/me", 401, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.logins.WithLabelValues("google", "success")); got != 2 {
		t.Fatalf("logins = %v", got)
	}
	if got := testutil.ToFloat64(m.tokensIssued); got != 1 {
		t.Fatalf("tokens = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"socialjohn_logins_total", "socialjohn_bearer_auth_total", `route="/user/me"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Login("x", "y")
	m.TokenIssued()
	m.BearerAuth("absent")
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	if err := m.Register(nil); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
}
