package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationError_WrapsCause(t *testing.T) {
	cause := NewSourceUnavailable("pods", fmt.Errorf("connection refused"))
	err := fmt.Errorf("build: %w", &AggregationError{Kind: "pods", Cause: cause})

	var agg *AggregationError
	require.True(t, stderrors.As(err, &agg))
	assert.Equal(t, "pods", agg.Kind)
	assert.Equal(t, "source unavailable: list pods: connection refused", agg.CauseString())
	var su *SourceUnavailableError
	assert.True(t, stderrors.As(err, &su), "cause chain should stay visible through AggregationError")
	assert.Equal(t, "aggregation failed: pods: source unavailable: list pods: connection refused", agg.Error())
}

func TestAggregationError_NilCause(t *testing.T) {
	agg := &AggregationError{Kind: "nodes"}
	assert.Equal(t, "unknown cause", agg.CauseString())
	assert.Nil(t, agg.Unwrap())
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("detail: %w", &NotFoundError{Kind: "node", Name: "nonexistent"})
	var nf *NotFoundError
	assert.True(t, stderrors.As(err, &nf))
	assert.Equal(t, "nonexistent", nf.Name)
	assert.Contains(t, err.Error(), `node "nonexistent" not found`)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"aggregation", &AggregationError{Kind: "pods", Cause: NewSourceUnavailable("pods", fmt.Errorf("x"))}, ErrAggregationFailed},
		{"source", NewSourceUnavailable("nodes", fmt.Errorf("x")), ErrSourceUnavailable},
		{"not found", &NotFoundError{Kind: "node", Name: "n"}, ErrNotFound},
		{"other", fmt.Errorf("boom"), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
