package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/program"
	"github.com/roach88/soltweet/internal/store"
)

// Runtime executes transactions against the store.
type Runtime struct {
	store  *store.Store
	clock  program.Clock
	slots  *SlotClock
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithClock sets the wall clock handed to the program.
// Default: SystemClock.
func WithClock(c program.Clock) Option {
	return func(r *Runtime) {
		r.clock = c
	}
}

// WithIDGenerator sets the receipt ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Runtime) {
		r.ids = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// New creates a Runtime over st. The slot clock resumes after the last
// slot recorded in st.
func New(ctx context.Context, st *store.Store, opts ...Option) (*Runtime, error) {
	last, err := st.LastSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume slot clock: %w", err)
	}

	r := &Runtime{
		store:  st,
		clock:  SystemClock{},
		slots:  NewSlotClockAt(last),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// CurrentSlot returns the slot of the most recently processed transaction.
func (r *Runtime) CurrentSlot() int64 {
	return r.slots.Current()
}

// ProcessRaw decodes a wire-format transaction and processes it.
func (r *Runtime) ProcessRaw(ctx context.Context, raw []byte) (store.Receipt, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return store.Receipt{}, &TxError{
			Code:        ErrCodeMalformedTransaction,
			Message:     "transaction did not decode",
			Instruction: -1,
			Err:         err,
		}
	}
	return r.Process(ctx, tx)
}

// Process verifies and executes tx.
//
// On success every instruction's effects are committed together with an
// "ok" receipt. On failure nothing but a "failed" receipt is written, and
// the returned error is a *TxError. Both cases return the receipt.
func (r *Runtime) Process(ctx context.Context, tx *solana.Transaction) (store.Receipt, error) {
	slot := r.slots.Next()
	now := r.clock.UnixTimestamp()

	receipt := store.Receipt{
		ID:        r.ids.Generate(),
		Slot:      slot,
		Status:    store.StatusOK,
		Timestamp: now,
	}
	if len(tx.Signatures) > 0 {
		receipt.Signature = tx.Signatures[0].String()
	}
	if len(tx.Message.AccountKeys) > 0 {
		receipt.FeePayer = tx.Message.AccountKeys[0].String()
	}

	r.logger.Debug("processing transaction",
		"slot", slot,
		"signature", receipt.Signature,
		"instructions", len(tx.Message.Instructions),
	)

	err := r.store.WithTx(ctx, func(stx *store.Tx) error {
		if err := r.execute(ctx, stx, tx, slot, now); err != nil {
			return err
		}
		return stx.WriteReceipt(ctx, receipt)
	})
	if err == nil {
		r.logger.Info("transaction committed", "slot", slot, "signature", receipt.Signature)
		return receipt, nil
	}

	var txErr *TxError
	if !errors.As(err, &txErr) {
		// Store failure: nothing was committed and no receipt can be trusted.
		return store.Receipt{}, fmt.Errorf("process slot %d: %w", slot, err)
	}

	receipt.Status = store.StatusFailed
	receipt.ErrorCode = txErr.ReceiptCode()
	receipt.ErrorMessage = txErr.Message
	r.logger.Warn("transaction failed",
		"slot", slot,
		"signature", receipt.Signature,
		"code", receipt.ErrorCode,
		"error", txErr.Message,
	)
	if werr := r.store.WriteReceipt(ctx, receipt); werr != nil {
		return receipt, errors.Join(txErr, werr)
	}
	return receipt, txErr
}

// Confirm returns the latest receipt recorded for a signature.
func (r *Runtime) Confirm(ctx context.Context, sig solana.Signature) (store.Receipt, error) {
	return r.store.ReadReceiptBySignature(ctx, sig.String())
}

// GetAccount reads an account.
func (r *Runtime) GetAccount(ctx context.Context, pubkey solana.PublicKey) (store.Account, error) {
	return r.store.ReadAccount(ctx, pubkey)
}

// GetBalance returns an account's lamports, or 0 if it does not exist.
func (r *Runtime) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	acct, err := r.store.ReadAccount(ctx, pubkey)
	if errors.Is(err, store.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

// Airdrop credits lamports to a wallet, creating it if needed.
func (r *Runtime) Airdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) error {
	err := r.store.WithTx(ctx, func(stx *store.Tx) error {
		acct, err := stx.ReadAccount(ctx, pubkey)
		if errors.Is(err, store.ErrAccountNotFound) {
			return stx.CreateAccount(ctx, store.Account{
				PubKey:      pubkey,
				Owner:       solana.SystemProgramID,
				Lamports:    lamports,
				CreatedSlot: r.slots.Current(),
			})
		}
		if err != nil {
			return err
		}
		if acct.Lamports+lamports < acct.Lamports {
			return fmt.Errorf("balance overflow")
		}
		return stx.SetLamports(ctx, pubkey, acct.Lamports+lamports)
	})
	if err != nil {
		return fmt.Errorf("airdrop to %s: %w", pubkey, err)
	}
	r.logger.Info("airdrop", "pubkey", pubkey.String(), "lamports", lamports)
	return nil
}
