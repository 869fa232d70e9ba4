package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	mylog "github.com/mohammed-shakir/pluscode/internal/logger"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	zl := zerolog.New(buf).Level(zerolog.DebugLevel)
	return mylog.NewSlog(&zl)
}

func TestLogging_SetsAndPropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = mylog.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/encode", nil))

	got := rr.Header().Get("X-Request-ID")
	if got == "" || got != seen {
		t.Fatalf("request id header=%q ctx=%q", got, seen)
	}
	if !strings.Contains(buf.String(), `"status":418`) {
		t.Fatalf("log line missing status: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"request_id":"`+got+`"`) {
		t.Fatalf("log line missing request id: %s", buf.String())
	}
}

func TestLogging_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("X-Request-ID=%q want abc", got)
	}
}

func TestRecover_Returns500(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(testLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rr.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got %s", buf.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/v1/localities/x", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing allow-origin")
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/v1/localities/{name}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/localities/zurich", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "x" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
}
