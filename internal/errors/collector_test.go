package errors

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing auto-expiry.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock(t time.Time) *mockClock {
	return &mockClock{now: t}
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func TestReportedError_Implements_Error(t *testing.T) {
	re := ReportedError{
		Code:      ErrMetricsUnavailable,
		Message:   "metrics-server not reachable",
		Component: "metrics",
	}

	var err error = &re
	if err.Error() != "metrics-server not reachable" {
		t.Fatalf("expected Error() = %q, got %q", "metrics-server not reachable", err.Error())
	}
}

func TestErrorCollector_Report(t *testing.T) {
	clk := newMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ec := NewErrorCollector(clk)

	ec.Report(ReportedError{
		Code:      ErrSourceUnavailable,
		Message:   "connection refused",
		Component: "snapshot",
	})

	active := ec.GetActiveErrors()
	if len(active) != 1 {
		t.Fatalf("expected 1 active error, got %d", len(active))
	}
	if active[0].Code != ErrSourceUnavailable {
		t.Fatalf("expected code %s, got %s", ErrSourceUnavailable, active[0].Code)
	}
	if active[0].Timestamp != clk.Now().UnixMilli() {
		t.Fatalf("expected timestamp to default to clock time, got %d", active[0].Timestamp)
	}
}

func TestErrorCollector_AutoExpiry(t *testing.T) {
	clk := newMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ec := NewErrorCollector(clk)

	ec.Report(ReportedError{Code: ErrAggregationFailed, Message: "pods", Component: "snapshot"})

	clk.Advance(6 * time.Minute)

	if active := ec.GetActiveErrors(); len(active) != 0 {
		t.Fatalf("expected 0 active errors after expiry, got %d", len(active))
	}
}

func TestErrorCollector_RefreshPreventsExpiry(t *testing.T) {
	clk := newMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ec := NewErrorCollector(clk)

	re := ReportedError{Code: ErrMetricsUnavailable, Message: "timeout", Component: "metrics"}
	ec.Report(re)

	clk.Advance(3 * time.Minute)
	ec.Report(re)
	clk.Advance(3 * time.Minute)

	if active := ec.GetActiveErrors(); len(active) != 1 {
		t.Fatalf("expected 1 active error (refreshed), got %d", len(active))
	}
}

func TestErrorCollector_Resolve(t *testing.T) {
	ec := NewErrorCollector(RealClock{})
	ec.Report(ReportedError{Code: ErrAggregationFailed, Component: "snapshot"})
	ec.Report(ReportedError{Code: ErrMetricsUnavailable, Component: "metrics"})

	ec.Resolve(ErrAggregationFailed, "snapshot")

	codes := ec.GetActiveErrorCodes()
	if len(codes) != 1 || codes[0] != string(ErrMetricsUnavailable) {
		t.Fatalf("expected only %s to remain, got %v", ErrMetricsUnavailable, codes)
	}
}

func TestErrorCollector_DedupCodes(t *testing.T) {
	ec := NewErrorCollector(RealClock{})
	ec.Report(ReportedError{Code: ErrMetricsUnavailable, Component: "metrics.n1"})
	ec.Report(ReportedError{Code: ErrMetricsUnavailable, Component: "metrics.n2"})

	if codes := ec.GetActiveErrorCodes(); len(codes) != 1 {
		t.Fatalf("expected 1 deduplicated code, got %v", codes)
	}
	if errs := ec.GetActiveErrors(); len(errs) != 2 {
		t.Fatalf("expected 2 active errors, got %d", len(errs))
	}
}

func TestErrorCollector_ThreadSafe(t *testing.T) {
	ec := NewErrorCollector(RealClock{})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ec.Report(ReportedError{
				Code:      ErrSourceUnavailable,
				Message:   fmt.Sprintf("error %d", idx),
				Component: fmt.Sprintf("component-%d", idx%10),
			})
			_ = ec.GetActiveErrors()
			_ = ec.GetActiveErrorCodes()
		}(i)
	}
	wg.Wait()

	if active := ec.GetActiveErrors(); len(active) != 10 {
		t.Fatalf("expected 10 unique entries, got %d", len(active))
	}
}
