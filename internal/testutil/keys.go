package testutil

import (
	"crypto/ed25519"
	"crypto/sha256"
	"strconv"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// KeyFromName derives a deterministic keypair from a name.
//
// The same name always yields the same key, so scenario traces and golden
// files stay stable across runs. Never use this outside tests.
func KeyFromName(name string) solana.PrivateKey {
	seed := sha256.Sum256([]byte("soltweet/testkey/" + name))
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:]))
}

// SequentialKeySource hands out deterministic keypairs named
// prefix-1, prefix-2, ...
//
// Thread-safety: SequentialKeySource is safe for concurrent use via internal mutex.
type SequentialKeySource struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialKeySource creates a key source for the given name prefix.
func NewSequentialKeySource(prefix string) *SequentialKeySource {
	return &SequentialKeySource{prefix: prefix}
}

// NewKey returns the next key in the sequence.
func (s *SequentialKeySource) NewKey() (solana.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return KeyFromName(s.prefix + "-" + strconv.Itoa(s.n)), nil
}

// FixedIDGenerator returns predetermined receipt IDs in order.
//
// Panics if all IDs have been consumed, to catch a test that processed more
// transactions than it expected.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// CountingIDGenerator returns receipt-1, receipt-2, ...
type CountingIDGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next ID.
func (g *CountingIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "receipt-" + strconv.Itoa(g.n)
}
