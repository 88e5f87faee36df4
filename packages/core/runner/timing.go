package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxRecordableUs is the largest duration a Timing can hold (one hour).
const maxRecordableUs = int64(time.Hour / time.Microsecond)

// Timing collects test durations in an HDR histogram.
type Timing struct {
	histogram *hdrhistogram.Histogram
}

// TimingStats summarises the durations recorded by a Timing.
type TimingStats struct {
	Count int64         `json:"count"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
}

func NewTiming() *Timing {
	// 1us to 1h, 3 significant digits
	return &Timing{histogram: hdrhistogram.New(1, maxRecordableUs, 3)}
}

// Record adds one duration, clamped to the histogram range.
func (t *Timing) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > maxRecordableUs {
		us = maxRecordableUs
	}
	_ = t.histogram.RecordValue(us)
}

func (t *Timing) Stats() TimingStats {
	h := t.histogram
	return TimingStats{
		Count: h.TotalCount(),
		P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
		Max:   time.Duration(h.Max()) * time.Microsecond,
		Mean:  time.Duration(h.Mean()) * time.Microsecond,
	}
}

func (t *Timing) Reset() {
	t.histogram.Reset()
}
