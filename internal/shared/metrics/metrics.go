package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	extractionStartedTotal   atomic.Uint64
	extractionCompletedTotal atomic.Uint64
	extractionFailed         = newLabeledCounter()

	shareCreatedTotal  atomic.Uint64
	shareReadTotal     atomic.Uint64
	shareNotFoundTotal atomic.Uint64
	shareExpiredTotal  atomic.Uint64

	extractionDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncExtractionStarted increments the started counter.
func IncExtractionStarted() {
	extractionStartedTotal.Add(1)
}

// IncExtractionCompleted increments the completed counter.
func IncExtractionCompleted() {
	extractionCompletedTotal.Add(1)
}

// IncExtractionFailed increments the failed counter for the given stage.
func IncExtractionFailed(stage string) {
	extractionFailed.Inc(stage)
}

// ObserveExtractionDurationMs records an extraction duration in milliseconds.
func ObserveExtractionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractionDuration.Observe(value)
}

// IncShareCreated increments the created shares counter.
func IncShareCreated() {
	shareCreatedTotal.Add(1)
}

// IncShareRead increments the successful share reads counter.
func IncShareRead() {
	shareReadTotal.Add(1)
}

// IncShareNotFound increments the share lookups that found nothing.
func IncShareNotFound() {
	shareNotFoundTotal.Add(1)
}

// AddSharesExpired records shares removed by the sweeper.
func AddSharesExpired(n int64) {
	if n > 0 {
		shareExpiredTotal.Add(uint64(n))
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "extraction_started_total", "Total extractions started", extractionStartedTotal.Load())
	writeCounter(&buf, "extraction_completed_total", "Total extractions completed", extractionCompletedTotal.Load())
	writeLabeledCounter(&buf, "extraction_failed_total", "Total extractions failed by stage", "stage", extractionFailed.Snapshot())
	writeHistogram(&buf, "extraction_duration_ms", "Extraction duration in milliseconds", extractionDuration.Snapshot())
	writeCounter(&buf, "share_created_total", "Total shares created", shareCreatedTotal.Load())
	writeCounter(&buf, "share_read_total", "Total shares read", shareReadTotal.Load())
	writeCounter(&buf, "share_not_found_total", "Total share lookups for unknown or expired ids", shareNotFoundTotal.Load())
	writeCounter(&buf, "share_expired_total", "Total expired shares removed by the sweeper", shareExpiredTotal.Load())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[label]++
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound is >= value.
// Render accumulates buckets, so counts are stored per bucket.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
