package program

import (
	"bytes"
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/tweet"
)

// ID is the address the tweet program is deployed at.
var ID = solana.MustPublicKeyFromBase58("8NMfKrcjkHAJpacYTLbL6gPb9TFbta5JwbhLHDGay9cY")

// Clock supplies the environment's wall-clock time in unix seconds.
type Clock interface {
	UnixTimestamp() int64
}

// Env is what the execution environment hands to an instruction handler.
type Env struct {
	Clock Clock
}

// AccountInfo is one account passed to an instruction, as resolved by the
// execution environment. Data aliases the slot the environment will
// persist; handlers mutate it in place.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// instructionNamespace prefixes handler names when deriving their
// discriminators. Format: sha256("global:" + name)[:8].
const instructionNamespace = "global:"

// InstructionDiscriminatorLength is the length of the handler tag that
// leads every instruction's data.
const InstructionDiscriminatorLength = 8

// SendTweetDiscriminator tags send_tweet instruction data.
var SendTweetDiscriminator = InstructionDiscriminator("send_tweet")

// InstructionDiscriminator derives the 8-byte handler tag for name.
func InstructionDiscriminator(name string) [InstructionDiscriminatorLength]byte {
	sum := sha256.Sum256([]byte(instructionNamespace + name))
	var d [InstructionDiscriminatorLength]byte
	copy(d[:], sum[:InstructionDiscriminatorLength])
	return d
}

// Process decodes instruction data and dispatches it to its handler.
func Process(env Env, accounts []*AccountInfo, data []byte) error {
	if len(data) < InstructionDiscriminatorLength {
		return ErrInstructionMissing
	}
	tag, payload := data[:InstructionDiscriminatorLength], data[InstructionDiscriminatorLength:]

	switch {
	case bytes.Equal(tag, SendTweetDiscriminator[:]):
		args, err := DecodeSendTweetArgs(payload)
		if err != nil {
			return err
		}
		accts, err := bindSendTweetAccounts(accounts)
		if err != nil {
			return err
		}
		return SendTweet(env, accts, args)
	default:
		return ErrInstructionFallbackNotFound
	}
}

// Allocation is an account the environment must create, zero-filled and
// funded by Payer, before the handler runs. Indices refer to the
// instruction's account list.
type Allocation struct {
	Account int
	Payer   int
	Space   int
}

// Allocations reports the accounts an instruction initialises.
// Unknown or malformed instruction data yields no allocations; Process
// reports the error.
func Allocations(data []byte) []Allocation {
	if len(data) < InstructionDiscriminatorLength {
		return nil
	}
	if bytes.Equal(data[:InstructionDiscriminatorLength], SendTweetDiscriminator[:]) {
		return []Allocation{{Account: 0, Payer: 1, Space: tweet.Len}}
	}
	return nil
}
