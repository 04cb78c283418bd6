package perf

import (
	"testing"
	"time"
)

// TestRecordAndSnapshot verifies basic aggregation.
func TestRecordAndSnapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /programs", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /programs", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "discount.GetByHash", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want 2", snap.TotalRequests)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths = %d entries, want 1", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("AvgMs = %f, want 20", snap.SlowestPaths[0].AvgMs)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %d entries, want 1", len(snap.SlowestQueries))
	}
	if c.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", c.TotalRecorded())
	}
}

// TestRingOverwrite verifies the buffer overwrites oldest entries.
func TestRingOverwrite(t *testing.T) {
	c := NewCollector(2)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 2 {
		t.Errorf("TotalRequests = %d, want ring capacity 2", snap.TotalRequests)
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
}

// TestSnapshotSinceFilter verifies old entries are excluded.
func TestSnapshotSinceFilter(t *testing.T) {
	c := NewCollector(10)
	old := time.Now().Add(-2 * time.Hour)
	c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: 1, Timestamp: old})

	snap := c.Snapshot(time.Now().Add(-time.Hour), 10)
	if snap.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0 after since filter", snap.TotalRequests)
	}
}
