package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "test_ms", "test", h.Snapshot())
	out := buf.String()

	for _, want := range []string{
		`test_ms_bucket{le="10"} 1`,
		`test_ms_bucket{le="100"} 2`,
		`test_ms_bucket{le="+Inf"} 3`,
		`test_ms_sum 555`,
		`test_ms_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderIncludesExtractionAndShareSeries(t *testing.T) {
	IncExtractionStarted()
	IncExtractionFailed("provider")
	IncShareCreated()

	out := Render()
	for _, want := range []string{
		"# TYPE extraction_started_total counter",
		`extraction_failed_total{stage="provider"}`,
		"extraction_duration_ms_bucket",
		"share_created_total",
		"share_expired_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
