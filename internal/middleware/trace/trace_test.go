package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"moneymate/internal/log"
)

func TestGenerateRequestID(t *testing.T) {
	re := regexp.MustCompile(`^req_[0-9a-f]{16}$`)
	a, b := GenerateRequestID(), GenerateRequestID()
	if !re.MatchString(a) {
		t.Errorf("unexpected id %q", a)
	}
	if a == b {
		t.Error("ids should differ")
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf, Level: slog.LevelInfo})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.1.1.1" })

	var seenID string
	var seenLogger *log.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = log.FromContext(r.Context())
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK) // ignored by net/http, must not change the logged status
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	if seenID == "" || rec.Header().Get(HeaderRequestID) != seenID {
		t.Fatalf("request id %q, header %q", seenID, rec.Header().Get(HeaderRequestID))
	}
	if seenLogger == nil || seenLogger.Component() != log.ComponentHTTP {
		t.Fatal("request logger not stored in context")
	}

	out := buf.String()
	for _, want := range []string{"request_id=" + seenID, "status_code=500", "client_ip=10.1.1.1", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}

	got := m.GetMetrics()
	if got.TotalRequests != 1 || got.ServerErrors != 1 {
		t.Errorf("metrics = %+v", got)
	}
}
