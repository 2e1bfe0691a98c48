package program

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SendTweetArgs are the borsh-encoded arguments of send_tweet.
type SendTweetArgs struct {
	Topic   string
	Content string
}

// EncodeSendTweetArgs produces send_tweet instruction data:
// the handler discriminator followed by borsh(topic, content).
func EncodeSendTweetArgs(args SendTweetArgs) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(SendTweetDiscriminator[:])
	if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode send_tweet args: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSendTweetArgs parses the borsh payload that follows the
// discriminator. Strings must be valid UTF-8.
func DecodeSendTweetArgs(payload []byte) (SendTweetArgs, error) {
	var args SendTweetArgs
	if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
		return SendTweetArgs{}, fmt.Errorf("%w: %v", ErrInstructionDidNotDeserialize, err)
	}
	if !utf8.ValidString(args.Topic) || !utf8.ValidString(args.Content) {
		return SendTweetArgs{}, fmt.Errorf("%w: invalid UTF-8", ErrInstructionDidNotDeserialize)
	}
	return args, nil
}

// NewSendTweetInstruction builds a send_tweet instruction.
//
// Accounts, in order:
//  0. tweet          writable, signer (fresh keypair for the new account)
//  1. author         writable, signer (pays for the account)
//  2. system program
func NewSendTweetInstruction(tweetAccount, author solana.PublicKey, topic, content string) (solana.Instruction, error) {
	data, err := EncodeSendTweetArgs(SendTweetArgs{Topic: topic, Content: content})
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(
		ID,
		solana.AccountMetaSlice{
			solana.Meta(tweetAccount).WRITE().SIGNER(),
			solana.Meta(author).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
		},
		data,
	), nil
}
