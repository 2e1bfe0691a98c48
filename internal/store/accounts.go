package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when no account exists for a key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account whose key is taken.
	ErrAccountExists = errors.New("account already exists")
)

// Account is one stored account.
type Account struct {
	PubKey      solana.PublicKey
	Owner       solana.PublicKey
	Lamports    uint64
	Data        []byte
	CreatedSlot int64
}

// ReadAccount retrieves an account by public key.
// Returns ErrAccountNotFound if it does not exist.
func (s *Store) ReadAccount(ctx context.Context, pubkey solana.PublicKey) (Account, error) {
	return readAccount(ctx, s.db, pubkey)
}

// ReadAccount retrieves an account inside the transaction.
func (t *Tx) ReadAccount(ctx context.Context, pubkey solana.PublicKey) (Account, error) {
	return readAccount(ctx, t.tx, pubkey)
}

// CreateAccount inserts a new account.
// Returns ErrAccountExists if the key is already in use; the existing row
// is left untouched.
func (t *Tx) CreateAccount(ctx context.Context, acct Account) error {
	if acct.Lamports > math.MaxInt64 {
		return fmt.Errorf("create account %s: lamports overflow", acct.PubKey)
	}
	data := acct.Data
	if data == nil {
		data = []byte{}
	}

	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (pubkey, owner, lamports, data, created_slot)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pubkey) DO NOTHING
	`,
		acct.PubKey.String(),
		acct.Owner.String(),
		int64(acct.Lamports),
		data,
		acct.CreatedSlot,
	)
	if err != nil {
		return fmt.Errorf("create account %s: %w", acct.PubKey, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create account %s: rows affected: %w", acct.PubKey, err)
	}
	if n == 0 {
		return fmt.Errorf("create account %s: %w", acct.PubKey, ErrAccountExists)
	}
	return nil
}

// SetLamports overwrites the balance of an existing account.
func (t *Tx) SetLamports(ctx context.Context, pubkey solana.PublicKey, lamports uint64) error {
	if lamports > math.MaxInt64 {
		return fmt.Errorf("set lamports %s: overflow", pubkey)
	}
	result, err := t.tx.ExecContext(ctx, `
		UPDATE accounts SET lamports = ? WHERE pubkey = ?
	`, int64(lamports), pubkey.String())
	if err != nil {
		return fmt.Errorf("set lamports %s: %w", pubkey, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set lamports %s: rows affected: %w", pubkey, err)
	}
	if n == 0 {
		return fmt.Errorf("set lamports %s: %w", pubkey, ErrAccountNotFound)
	}
	return nil
}

func readAccount(ctx context.Context, q querier, pubkey solana.PublicKey) (Account, error) {
	var (
		owner    string
		lamports int64
		acct     Account
	)
	err := q.QueryRowContext(ctx, `
		SELECT owner, lamports, data, created_slot
		FROM accounts
		WHERE pubkey = ?
	`, pubkey.String()).Scan(&owner, &lamports, &acct.Data, &acct.CreatedSlot)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("read account %s: %w", pubkey, ErrAccountNotFound)
	}
	if err != nil {
		return Account{}, fmt.Errorf("read account %s: %w", pubkey, err)
	}

	acct.Owner, err = solana.PublicKeyFromBase58(owner)
	if err != nil {
		return Account{}, fmt.Errorf("read account %s: owner: %w", pubkey, err)
	}
	acct.PubKey = pubkey
	acct.Lamports = uint64(lamports)
	return acct, nil
}
