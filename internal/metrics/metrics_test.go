package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCostLine(t *testing.T) {
	before := testutil.ToFloat64(costLines.WithLabelValues("unresolved"))
	ObserveCostLine("unresolved")
	ObserveCostLine("unresolved")
	if got := testutil.ToFloat64(costLines.WithLabelValues("unresolved")) - before; got != 2 {
		t.Fatalf("expected 2 new unresolved lines, got %v", got)
	}
}

func TestObserveLLMCountsCacheHits(t *testing.T) {
	before := testutil.ToFloat64(llmRequests.WithLabelValues("parse_recipe", "cache_hit"))
	ObserveLLM("parse_recipe", "cache_hit", 0)
	if got := testutil.ToFloat64(llmRequests.WithLabelValues("parse_recipe", "cache_hit")) - before; got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveHTTP(http.MethodGet, http.StatusOK, 15*time.Millisecond)
	ObserveMatch(85)
	ObserveBatchItem("rename", "success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"backbar_http_requests_total",
		"backbar_matching_top_confidence",
		"backbar_catalog_batch_items_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in exposition output", name)
		}
	}
}
