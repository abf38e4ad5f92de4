package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a stable machine-readable error classification.
type Code string

// Error codes surfaced to API clients and tracked by the ErrorCollector.
const (
	ErrSourceUnavailable  Code = "SOURCE_UNAVAILABLE"
	ErrAggregationFailed  Code = "AGGREGATION_FAILED"
	ErrMetricsUnavailable Code = "METRICS_UNAVAILABLE"
	ErrNotFound           Code = "NOT_FOUND"
	ErrDiscoveryFailed    Code = "DISCOVERY_FAILED"
	ErrInternal           Code = "INTERNAL"
)

// SourceUnavailableError reports that the control plane could not serve a
// list call for one resource kind: unreachable, timed out, or rejected the
// credentials.
type SourceUnavailableError struct {
	Kind string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: list %s: %v", e.Kind, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// NewSourceUnavailable wraps err as a SourceUnavailableError for kind.
func NewSourceUnavailable(kind string, err error) error {
	return &SourceUnavailableError{Kind: kind, Err: err}
}

// AggregationError is returned when a required fetcher fails and the whole
// snapshot is abandoned. Kind names the resource kind that failed.
type AggregationError struct {
	Kind  string
	Cause error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed: %s: %s", e.Kind, e.CauseString())
}

func (e *AggregationError) Unwrap() error { return e.Cause }

// CauseString returns the text of the underlying failure.
func (e *AggregationError) CauseString() string {
	if e.Cause == nil {
		return "unknown cause"
	}
	return e.Cause.Error()
}

// NotFoundError reports a lookup of a name absent from the current snapshot.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// CodeOf classifies err. Unknown errors map to ErrInternal.
func CodeOf(err error) Code {
	var (
		agg *AggregationError
		su  *SourceUnavailableError
		nf  *NotFoundError
	)
	switch {
	case stderrors.As(err, &agg):
		return ErrAggregationFailed
	case stderrors.As(err, &su):
		return ErrSourceUnavailable
	case stderrors.As(err, &nf):
		return ErrNotFound
	default:
		return ErrInternal
	}
}
