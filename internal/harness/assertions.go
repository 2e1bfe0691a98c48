package harness

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/client"
	"github.com/roach88/soltweet/internal/runtime"
	"github.com/roach88/soltweet/internal/store"
	"github.com/roach88/soltweet/internal/tweet"
)

// tweetFields are the fields a tweet assertion may check.
var tweetFields = map[string]bool{
	"author":        true,
	"timestamp":     true,
	"topic":         true,
	"content":       true,
	"topic_chars":   true,
	"content_chars": true,
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s %s %s\n", event.Step, event.Author, event.Tweet, event.Status, event.ErrorCode)
		}
	}

	return buf.String()
}

// AssertionContext provides ledger access for evaluating assertions.
type AssertionContext struct {
	Ctx     context.Context
	Store   *store.Store
	Runtime *runtime.Runtime

	// Names maps scenario public keys back to their names.
	Names map[solana.PublicKey]string
}

// assertTweet checks that a tweet exists and its fields match (subset).
func assertTweet(actx *AssertionContext, trace []TraceEvent, a Assertion) error {
	got, err := client.FetchTweet(actx.Ctx, actx.Runtime, TweetKey(a.Tweet).PublicKey())
	if err != nil {
		return &AssertionError{
			Type:     AssertTweet,
			Expected: fmt.Sprintf("tweet %s to exist", a.Tweet),
			Actual:   err.Error(),
			Trace:    trace,
		}
	}

	author, ok := actx.Names[got.Author]
	if !ok {
		author = got.Author.String()
	}
	actual := map[string]interface{}{
		"author":        author,
		"timestamp":     got.Timestamp,
		"topic":         got.Topic,
		"content":       got.Content,
		"topic_chars":   tweet.CharCount(got.Topic),
		"content_chars": tweet.CharCount(got.Content),
	}

	// Sorted so the first mismatch reported is stable.
	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		want := a.Expect[key]
		if !valuesEqual(want, actual[key]) {
			return &AssertionError{
				Type:     AssertTweet,
				Expected: fmt.Sprintf("tweet %s field %q = %v", a.Tweet, key, want),
				Actual:   fmt.Sprintf("field %q = %v", key, actual[key]),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertAbsent checks that no account exists for a tweet.
func assertAbsent(actx *AssertionContext, trace []TraceEvent, a Assertion) error {
	_, err := actx.Runtime.GetAccount(actx.Ctx, TweetKey(a.Tweet).PublicKey())
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &AssertionError{
		Type:     AssertAbsent,
		Expected: fmt.Sprintf("no account for tweet %s", a.Tweet),
		Actual:   "account exists",
		Trace:    trace,
	}
}

// assertReceiptCount checks how many receipts carry a status.
func assertReceiptCount(actx *AssertionContext, trace []TraceEvent, a Assertion) error {
	n, err := actx.Store.CountReceipts(actx.Ctx, a.Status)
	if err != nil {
		return err
	}
	if n != *a.Count {
		status := a.Status
		if status == "" {
			status = "any"
		}
		return &AssertionError{
			Type:     AssertReceiptCount,
			Expected: fmt.Sprintf("%d receipts with status %s", *a.Count, status),
			Actual:   fmt.Sprintf("%d receipts", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertBalance checks a wallet's lamports.
func assertBalance(actx *AssertionContext, trace []TraceEvent, a Assertion) error {
	got, err := actx.Runtime.GetBalance(actx.Ctx, WalletKey(a.Wallet).PublicKey())
	if err != nil {
		return err
	}
	if got != *a.Lamports {
		return &AssertionError{
			Type:     AssertBalance,
			Expected: fmt.Sprintf("wallet %s to hold %d lamports", a.Wallet, *a.Lamports),
			Actual:   fmt.Sprintf("%d lamports", got),
			Trace:    trace,
		}
	}
	return nil
}

// valuesEqual compares a YAML-decoded expected value with an actual one.
// YAML integers decode as int while tweet fields are int64.
func valuesEqual(expected, actual interface{}) bool {
	switch exp := expected.(type) {
	case int:
		return toInt64(actual) == int64(exp) && isInteger(actual)
	case int64:
		return toInt64(actual) == exp && isInteger(actual)
	case string:
		s, ok := actual.(string)
		return ok && s == exp
	case nil:
		return actual == nil
	}
	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

func isInteger(v interface{}) bool {
	switch v.(type) {
	case int, int64:
		return true
	}
	return false
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

// EvaluateAssertions evaluates all assertions against the final ledger.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTweet:
			err = assertTweet(actx, result.Trace, assertion)
		case AssertAbsent:
			err = assertAbsent(actx, result.Trace, assertion)
		case AssertReceiptCount:
			err = assertReceiptCount(actx, result.Trace, assertion)
		case AssertBalance:
			err = assertBalance(actx, result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
