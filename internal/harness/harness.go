package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/client"
	"github.com/roach88/soltweet/internal/runtime"
	"github.com/roach88/soltweet/internal/store"
	"github.com/roach88/soltweet/internal/testutil"
	"github.com/roach88/soltweet/internal/tweet"
)

// WalletKey derives a scenario wallet's keypair from its name.
func WalletKey(name string) solana.PrivateKey {
	return testutil.KeyFromName("wallet/" + name)
}

// TweetKey derives a scenario tweet account's keypair from its name.
func TweetKey(name string) solana.PrivateKey {
	return testutil.KeyFromName("tweet/" + name)
}

// Harness executes one scenario.
type Harness struct {
	store   *store.Store
	runtime *runtime.Runtime
	clock   *testutil.ManualClock
	logger  *slog.Logger

	// names maps derived public keys back to scenario names.
	names map[solana.PublicKey]string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and runtime
// 2. Airdrop to wallets
// 3. Send each step's tweet and check its expectation
// 4. Evaluate assertions against the final ledger
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	start := scenario.ClockStart
	if start == 0 {
		start = DefaultClockStart
	}
	clock := testutil.NewManualClock(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	rt, err := runtime.New(ctx, st,
		runtime.WithClock(clock),
		runtime.WithIDGenerator(&testutil.CountingIDGenerator{}),
		runtime.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime: %w", err)
	}

	h := &Harness{
		store:   st,
		runtime: rt,
		clock:   clock,
		logger:  logger,
		names:   make(map[solana.PublicKey]string),
	}

	if err := h.fundWallets(ctx, scenario.Wallets); err != nil {
		return nil, fmt.Errorf("failed to fund wallets: %w", err)
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Ctx:     ctx,
		Store:   st,
		Runtime: rt,
		Names:   h.names,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// fundWallets airdrops to wallets in name order.
func (h *Harness) fundWallets(ctx context.Context, wallets map[string]uint64) error {
	names := make([]string, 0, len(wallets))
	for name := range wallets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pk := WalletKey(name).PublicKey()
		h.names[pk] = name
		if wallets[name] == 0 {
			continue
		}
		if err := h.runtime.Airdrop(ctx, pk, wallets[name]); err != nil {
			return err
		}
	}
	return nil
}

// executeSteps sends each step's tweet and records its outcome.
func (h *Harness) executeSteps(ctx context.Context, scenario *Scenario, result *Result) error {
	for i, step := range scenario.Steps {
		h.clock.Advance(step.Advance)

		wallet := WalletKey(step.Author)
		h.names[wallet.PublicKey()] = step.Author
		name := step.TweetName(i)
		tweetKey := TweetKey(name)
		h.names[tweetKey.PublicKey()] = name

		c := client.New(h.runtime, wallet,
			client.WithKeySource(fixedKey{tweetKey}),
			client.WithNormalizeNFC(scenario.NormalizeNFC),
		)

		topic, content := step.TopicText(), step.ContentText()
		_, receipt, err := c.SendTweet(ctx, topic, content)
		var txErr *runtime.TxError
		if err != nil && !errors.As(err, &txErr) {
			return fmt.Errorf("step %d: %w", i, err)
		}

		outcome := ExpectOK
		if receipt.Status != store.StatusOK {
			outcome = receipt.ErrorCode
		}
		if want := step.ExpectedOutcome(); outcome != want {
			result.AddError(fmt.Sprintf("steps[%d]: expected %s, got %s", i, want, outcome))
		}

		result.AddTrace(TraceEvent{
			Step:         i + 1,
			Slot:         receipt.Slot,
			Receipt:      receipt.ID,
			Author:       step.Author,
			Tweet:        name,
			TopicChars:   tweet.CharCount(topic),
			ContentChars: tweet.CharCount(content),
			Timestamp:    receipt.Timestamp,
			Status:       receipt.Status,
			ErrorCode:    receipt.ErrorCode,
		})

		h.logger.Info("step completed",
			"step", i,
			"author", step.Author,
			"tweet", name,
			"status", receipt.Status,
			"error_code", receipt.ErrorCode,
		)
	}
	return nil
}

// fixedKey is a client.KeySource that always returns the same key.
type fixedKey struct {
	key solana.PrivateKey
}

func (f fixedKey) NewKey() (solana.PrivateKey, error) {
	return f.key, nil
}
