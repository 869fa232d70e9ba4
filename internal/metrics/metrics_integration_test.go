package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/pluscode/internal/core/observability"
)

func assertHasMetricLine(t *testing.T, body, metric string, wantLabels ...string) {
	t.Helper()
	for ln := range strings.SplitSeq(body, "\n") {
		if !strings.HasPrefix(ln, metric+"{") {
			continue
		}
		ok := true
		for _, s := range wantLabels {
			if !strings.Contains(ln, s) {
				ok = false
				break
			}
		}
		if ok && (len(ln) > 0 && ln[len(ln)-1] >= '0' && ln[len(ln)-1] <= '9') {
			return
		}
	}
	t.Fatalf("expected a %s line with labels %v; got:\n%s", metric, wantLabels, body)
}

func Test_AppMetrics_CustomRegistry_Smoke(t *testing.T) {
	p := Init(Config{Build: BuildInfo{Version: "test"}})
	observability.Init(p.Registerer(), true)

	observability.ObserveCodecOp("shorten", nil, 0.00001)
	observability.ObserveCodecOp("recover", errors.New("boom"), 0.00001)
	observability.ObserveHTTP("POST", "/v1/shorten", 200, 0.002)
	observability.ObserveStoreOp("put", nil, 0.003)
	observability.IncLocalityCacheMiss()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, s := range []string{
		`codec_op_duration_seconds_bucket`,
		`http_request_duration_seconds_count`,
		`locality_store_op_duration_seconds_count`,
	} {
		if !strings.Contains(body, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, body)
		}
	}

	assertHasMetricLine(t, body, "codec_ops_total", `op="shorten"`, `result="ok"`)
	assertHasMetricLine(t, body, "codec_ops_total", `op="recover"`, `result="error"`)
	assertHasMetricLine(t, body, "http_requests_total", `route="/v1/shorten"`, `status="200"`)
	assertHasMetricLine(t, body, "locality_cache_results_total", `outcome="miss"`)
	assertHasMetricLine(t, body, "pluscode_build_info", `version="test"`)
}
