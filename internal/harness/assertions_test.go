package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertBalance,
		Expected: "wallet alice to hold 5 lamports",
		Actual:   "4 lamports",
		Trace: []TraceEvent{
			{Step: 1, Author: "alice", Tweet: "tweet-1", Status: "failed", ErrorCode: "TopicTooLong"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: balance")
	assert.Contains(t, msg, "Expected: wallet alice to hold 5 lamports")
	assert.Contains(t, msg, "Actual: 4 lamports")
	assert.Contains(t, msg, "[1] alice -> tweet-1 failed TopicTooLong")
}

func TestAssertionError_NoTrace(t *testing.T) {
	err := &AssertionError{Type: AssertAbsent, Expected: "e", Actual: "a"}
	assert.NotContains(t, err.Error(), "Full trace")
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
		actual   interface{}
		want     bool
	}{
		{"int vs int64", 1700000000, int64(1700000000), true},
		{"int vs int", 50, 50, true},
		{"int mismatch", 50, 51, false},
		{"int vs string", 5, "5", false},
		{"string", "veganism", "veganism", true},
		{"string mismatch", "veganism", "Veganism", false},
		{"empty string", "", "", true},
		{"string vs int", "5", 5, false},
		{"nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"bool", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "trace_order"}}, &AssertionContext{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "trace_order"`)
}
