package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/soltweet/internal/program"
	"github.com/roach88/soltweet/internal/store"
	"github.com/roach88/soltweet/internal/tweet"
)

// ErrNotTweetAccount is returned by FetchTweet for accounts that do not
// hold a committed tweet.
var ErrNotTweetAccount = errors.New("not a tweet account")

// Submitter processes transactions and serves account reads.
// Implemented by *runtime.Runtime.
type Submitter interface {
	Process(ctx context.Context, tx *solana.Transaction) (store.Receipt, error)
	GetAccount(ctx context.Context, pubkey solana.PublicKey) (store.Account, error)
}

// KeySource produces keypairs for new tweet accounts.
type KeySource interface {
	NewKey() (solana.PrivateKey, error)
}

// RandomKeySource generates fresh random keypairs.
type RandomKeySource struct{}

// NewKey returns a new random keypair.
func (RandomKeySource) NewKey() (solana.PrivateKey, error) {
	return solana.NewRandomPrivateKey()
}

// Client sends tweets on behalf of one wallet.
type Client struct {
	submitter Submitter
	wallet    solana.PrivateKey
	keys      KeySource
	nfc       bool
}

// Option configures a Client.
type Option func(*Client)

// WithKeySource sets where tweet account keypairs come from.
// Default: RandomKeySource.
func WithKeySource(ks KeySource) Option {
	return func(c *Client) {
		c.keys = ks
	}
}

// WithNormalizeNFC composes topic and content to Unicode NFC before
// sending, so "e" + U+0301 counts as one character instead of two.
func WithNormalizeNFC(enabled bool) Option {
	return func(c *Client) {
		c.nfc = enabled
	}
}

// New creates a client that signs and pays with wallet.
func New(submitter Submitter, wallet solana.PrivateKey, opts ...Option) *Client {
	c := &Client{
		submitter: submitter,
		wallet:    wallet,
		keys:      RandomKeySource{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wallet returns the public key tweets are authored by.
func (c *Client) Wallet() solana.PublicKey {
	return c.wallet.PublicKey()
}

// SendTweet publishes a tweet in a new account and returns its address.
//
// The receipt is returned even when the transaction fails, so callers can
// report the recorded error code.
func (c *Client) SendTweet(ctx context.Context, topic, content string) (solana.PublicKey, store.Receipt, error) {
	if c.nfc {
		topic = norm.NFC.String(topic)
		content = norm.NFC.String(content)
	}

	tweetKey, err := c.keys.NewKey()
	if err != nil {
		return solana.PublicKey{}, store.Receipt{}, fmt.Errorf("generate tweet key: %w", err)
	}
	address := tweetKey.PublicKey()

	ix, err := program.NewSendTweetInstruction(address, c.wallet.PublicKey(), topic, content)
	if err != nil {
		return solana.PublicKey{}, store.Receipt{}, err
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		solana.Hash{},
		solana.TransactionPayer(c.wallet.PublicKey()),
	)
	if err != nil {
		return solana.PublicKey{}, store.Receipt{}, fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch {
		case key.Equals(address):
			return &tweetKey
		case key.Equals(c.wallet.PublicKey()):
			return &c.wallet
		}
		return nil
	})
	if err != nil {
		return solana.PublicKey{}, store.Receipt{}, fmt.Errorf("sign transaction: %w", err)
	}

	receipt, err := c.submitter.Process(ctx, tx)
	return address, receipt, err
}

// FetchTweet reads and decodes the tweet stored at address.
func (c *Client) FetchTweet(ctx context.Context, address solana.PublicKey) (tweet.Tweet, error) {
	return FetchTweet(ctx, c.submitter, address)
}

// FetchTweet reads and decodes the tweet stored at address using any
// Submitter, without needing a wallet.
func FetchTweet(ctx context.Context, s Submitter, address solana.PublicKey) (tweet.Tweet, error) {
	acct, err := s.GetAccount(ctx, address)
	if err != nil {
		return tweet.Tweet{}, err
	}
	if !acct.Owner.Equals(program.ID) {
		return tweet.Tweet{}, fmt.Errorf("%w: %s is owned by %s", ErrNotTweetAccount, address, acct.Owner)
	}
	if state := tweet.StateOf(acct.Data); state != tweet.Committed {
		return tweet.Tweet{}, fmt.Errorf("%w: %s is %s", ErrNotTweetAccount, address, state)
	}
	return tweet.Decode(acct.Data)
}
