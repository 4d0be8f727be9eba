package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records calls for assertions.
type captureBackend struct {
	counters   []capturedMetric
	histograms []capturedMetric
	flushed    int
}

type capturedMetric struct {
	name   string
	value  float64
	labels Labels
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters = append(c.counters, capturedMetric{name, delta, labels})
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms = append(c.histograms, capturedMetric{name, value, labels})
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

func withBackend(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStepSuccessAndFailure(t *testing.T) {
	c := &captureBackend{}
	withBackend(t, c)

	RecordStep("layoffs_clean", "parse", nil, 120*time.Millisecond)
	RecordStep("layoffs_clean", "load", errors.New("boom"), time.Second)

	if len(c.counters) != 2 || len(c.histograms) != 2 {
		t.Fatalf("counters=%d histograms=%d, want 2 each", len(c.counters), len(c.histograms))
	}
	if c.counters[0].name != "clean_step_total" || c.counters[0].labels["status"] != "success" {
		t.Errorf("first counter = %+v", c.counters[0])
	}
	if c.counters[1].labels["status"] != "failure" || c.counters[1].labels["step"] != "load" {
		t.Errorf("second counter = %+v", c.counters[1])
	}
	if c.histograms[1].value != 1.0 {
		t.Errorf("duration = %v, want seconds", c.histograms[1].value)
	}
}

func TestCountRowsSkipsZero(t *testing.T) {
	c := &captureBackend{}
	withBackend(t, c)

	CountRows("layoffs_clean", "clean", "dropped", 0)
	CountRows("layoffs_clean", "clean", "dropped", 7)

	if len(c.counters) != 1 {
		t.Fatalf("counters = %d, want 1 (zero counts skipped)", len(c.counters))
	}
	m := c.counters[0]
	if m.name != "clean_rows_total" || m.value != 7 || m.labels["outcome"] != "dropped" {
		t.Fatalf("counter = %+v", m)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := &captureBackend{}
	withBackend(t, c)

	SetBackend(nil)
	CountRows("j", "s", "o", 1)
	if len(c.counters) != 1 {
		t.Fatal("nil SetBackend replaced the backend")
	}
}

func TestFlushDelegates(t *testing.T) {
	c := &captureBackend{}
	withBackend(t, c)

	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if c.flushed != 1 {
		t.Fatalf("flushed = %d", c.flushed)
	}
}
