package errors

import (
	"sync"
	"time"
)

// defaultTTL is the auto-expiry duration for errors not re-reported.
const defaultTTL = 5 * time.Minute

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock uses the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// ReportedError is one occurrence recorded in the ErrorCollector.
type ReportedError struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Timestamp int64  `json:"timestamp"`
	Err       error  `json:"-"`
}

// Error implements the error interface.
func (e *ReportedError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As compatibility.
func (e *ReportedError) Unwrap() error {
	return e.Err
}

type entry struct {
	err        ReportedError
	lastReport time.Time
}

// ErrorCollector is a thread-safe store of recently observed errors.
// Entries are keyed by Code+Component and expire after 5 minutes unless
// re-reported. It backs the error list of the health endpoint.
type ErrorCollector struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]entry
}

// NewErrorCollector creates an ErrorCollector with the given clock.
func NewErrorCollector(clock Clock) *ErrorCollector {
	return &ErrorCollector{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

func key(code Code, component string) string {
	return string(code) + "|" + component
}

// Report stores or refreshes an error.
func (ec *ErrorCollector) Report(err ReportedError) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	now := ec.clock.Now()
	if err.Timestamp == 0 {
		err.Timestamp = now.UnixMilli()
	}
	ec.entries[key(err.Code, err.Component)] = entry{
		err:        err,
		lastReport: now,
	}
}

// Resolve drops the entry for code+component, e.g. after a poll succeeds.
func (ec *ErrorCollector) Resolve(code Code, component string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	delete(ec.entries, key(code, component))
}

// GetActiveErrors returns all errors reported within the TTL window.
func (ec *ErrorCollector) GetActiveErrors() []ReportedError {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	now := ec.clock.Now()
	result := make([]ReportedError, 0, len(ec.entries))
	for k, e := range ec.entries {
		if now.Sub(e.lastReport) > defaultTTL {
			delete(ec.entries, k)
			continue
		}
		result = append(result, e.err)
	}
	return result
}

// GetActiveErrorCodes returns a deduplicated list of active error codes.
func (ec *ErrorCollector) GetActiveErrorCodes() []string {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	now := ec.clock.Now()
	seen := make(map[Code]struct{})
	codes := make([]string, 0)
	for k, e := range ec.entries {
		if now.Sub(e.lastReport) > defaultTTL {
			delete(ec.entries, k)
			continue
		}
		if _, ok := seen[e.err.Code]; !ok {
			seen[e.err.Code] = struct{}{}
			codes = append(codes, string(e.err.Code))
		}
	}
	return codes
}
