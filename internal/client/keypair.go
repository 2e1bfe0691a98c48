package client

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

// ErrInvalidKeypair is returned when a keypair file is not a 64-byte
// ed25519 key in the Solana CLI format.
var ErrInvalidKeypair = errors.New("invalid keypair file")

// LoadKeypair reads a keypair file written by solana-keygen or SaveKeypair:
// a JSON array of 64 numbers, seed followed by public key.
func LoadKeypair(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read keypair: %w", err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKeypair, path, err)
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: %s: want %d bytes, got %d", ErrInvalidKeypair, path, ed25519.PrivateKeySize, len(key))
	}
	if !bytes.Equal(ed25519.NewKeyFromSeed(key[:ed25519.SeedSize]), key) {
		return nil, fmt.Errorf("%w: %s: public half does not match seed", ErrInvalidKeypair, path)
	}
	return key, nil
}

// SaveKeypair writes key in the Solana CLI format with owner-only
// permissions. An existing file is never overwritten.
func SaveKeypair(path string, key solana.PrivateKey) error {
	nums := make([]int, len(key))
	for i, b := range key {
		nums[i] = int(b)
	}
	data, err := json.Marshal(nums)
	if err != nil {
		return fmt.Errorf("encode keypair: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create keypair dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create keypair: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write keypair: %w", err)
	}
	return f.Close()
}
