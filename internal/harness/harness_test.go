package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soltweet/internal/store"
)

func intPtr(n int) *int { return &n }

func uint64Ptr(n uint64) *uint64 { return &n }

func TestRun_SendTweet(t *testing.T) {
	scenario := &Scenario{
		Name:        "send",
		Description: "one tweet",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps: []Step{
			{Author: "alice", Topic: "veganism", Content: "Hummus, am I right?"},
		},
		Assertions: []Assertion{
			{Type: AssertTweet, Tweet: "tweet-1", Expect: map[string]interface{}{
				"author":    "alice",
				"topic":     "veganism",
				"content":   "Hummus, am I right?",
				"timestamp": int(DefaultClockStart),
			}},
			{Type: AssertReceiptCount, Status: store.StatusOK, Count: intPtr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{
		Step:         1,
		Slot:         1,
		Receipt:      "receipt-1",
		Author:       "alice",
		Tweet:        "tweet-1",
		TopicChars:   8,
		ContentChars: 19,
		Timestamp:    DefaultClockStart,
		Status:       store.StatusOK,
	}, result.Trace[0])
}

func TestRun_ClockStartAndAdvance(t *testing.T) {
	scenario := &Scenario{
		Name:        "clock",
		Description: "clock moves only when told",
		ClockStart:  42,
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps: []Step{
			{Author: "alice", Content: "one"},
			{Author: "alice", Content: "two"},
			{Author: "alice", Content: "three", Advance: 100},
		},
		Assertions: []Assertion{
			{Type: AssertTweet, Tweet: "tweet-3", Expect: map[string]interface{}{"timestamp": 142}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	timestamps := make([]int64, len(result.Trace))
	for i, ev := range result.Trace {
		timestamps[i] = ev.Timestamp
	}
	assert.Equal(t, []int64{42, 42, 142}, timestamps)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "step expects success but topic is too long",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps: []Step{
			{Author: "alice", TopicRepeat: &Repeat{Text: "x", Count: 51}, Content: "c"},
		},
		Assertions: []Assertion{
			{Type: AssertReceiptCount, Count: intPtr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "steps[0]: expected ok, got TopicTooLong", result.Errors[0])
	assert.Equal(t, "TopicTooLong", result.Trace[0].ErrorCode)
}

func TestRun_ExpectedFailurePasses(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected_failure",
		Description: "content over the limit is rejected",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps: []Step{
			{Author: "alice", ContentRepeat: &Repeat{Text: "x", Count: 281}, Expect: "ContentTooLong"},
		},
		Assertions: []Assertion{
			{Type: AssertAbsent, Tweet: "tweet-1"},
			{Type: AssertBalance, Wallet: "alice", Lamports: uint64Ptr(1_000_000_000)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FailedAssertion(t *testing.T) {
	scenario := &Scenario{
		Name:        "failed_assertion",
		Description: "assertion on the wrong content",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps: []Step{
			{Author: "alice", Content: "actual"},
		},
		Assertions: []Assertion{
			{Type: AssertTweet, Tweet: "tweet-1", Expect: map[string]interface{}{"content": "expected"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `field "content" = actual`)
}

func TestRun_NormalizeNFC(t *testing.T) {
	decomposed := strings.Repeat("e\u0301", 50)
	base := Scenario{
		Name:        "nfc",
		Description: "decomposed characters",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Assertions:  []Assertion{{Type: AssertReceiptCount, Count: intPtr(1)}},
	}

	off := base
	off.Steps = []Step{{Author: "alice", Topic: decomposed, Expect: "TopicTooLong"}}
	result, err := Run(&off)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	on := base
	on.NormalizeNFC = true
	on.Steps = []Step{{Author: "alice", Topic: decomposed}}
	on.Assertions = append(on.Assertions, Assertion{
		Type: AssertTweet, Tweet: "tweet-1", Expect: map[string]interface{}{"topic_chars": 50},
	})
	result, err = Run(&on)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Isolation(t *testing.T) {
	scenario := &Scenario{
		Name:        "isolated",
		Description: "every run starts from an empty ledger",
		Wallets:     map[string]uint64{"alice": 1_000_000_000},
		Steps:       []Step{{Author: "alice", Tweet: "same", Content: "c"}},
		Assertions:  []Assertion{{Type: AssertReceiptCount, Count: intPtr(1)}},
	}

	for i := 0; i < 2; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d errors: %v", i, result.Errors)
	}
}

func TestKeysAreDeterministicAndDistinct(t *testing.T) {
	assert.Equal(t, WalletKey("alice"), WalletKey("alice"))
	assert.NotEqual(t, WalletKey("alice").PublicKey(), TweetKey("alice").PublicKey())
	assert.NotEqual(t, TweetKey("tweet-1").PublicKey(), TweetKey("tweet-2").PublicKey())
}
