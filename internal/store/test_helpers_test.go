package store

import (
	"context"
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testKey derives a stable public key from a name.
func testKey(name string) solana.PublicKey {
	return solana.PublicKeyFromBytes(func() []byte {
		sum := sha256.Sum256([]byte(name))
		return sum[:]
	}())
}

// mustCreateAccount inserts an account in its own transaction.
func mustCreateAccount(t *testing.T, s *Store, acct Account) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		return tx.CreateAccount(context.Background(), acct)
	})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
}
