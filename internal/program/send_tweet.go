package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/tweet"
)

// SendTweetAccounts are the validated accounts of a send_tweet call.
type SendTweetAccounts struct {
	Tweet         *AccountInfo
	Author        *AccountInfo
	SystemProgram solana.PublicKey
}

// bindSendTweetAccounts checks account constraints before the handler runs.
func bindSendTweetAccounts(accounts []*AccountInfo) (SendTweetAccounts, error) {
	if len(accounts) < 3 {
		return SendTweetAccounts{}, ErrAccountNotEnoughKeys
	}
	tw, author, system := accounts[0], accounts[1], accounts[2]

	if !tw.IsSigner || !author.IsSigner {
		return SendTweetAccounts{}, ErrAccountNotSigner
	}
	if !tw.IsWritable || !author.IsWritable {
		return SendTweetAccounts{}, ErrConstraintMut
	}
	if !system.Key.Equals(solana.SystemProgramID) {
		return SendTweetAccounts{}, ErrInvalidProgramID
	}
	if len(tw.Data) != tweet.Len || tweet.StateOf(tw.Data) != tweet.Uninitialized {
		return SendTweetAccounts{}, ErrAccountDiscriminatorAlreadySet
	}

	return SendTweetAccounts{
		Tweet:         tw,
		Author:        author,
		SystemProgram: system.Key,
	}, nil
}

// SendTweet validates topic and content and commits the tweet account.
//
// Checks run in order and the first failure wins: topic length, then
// content length. On failure the tweet slot is not modified.
func SendTweet(env Env, accts SendTweetAccounts, args SendTweetArgs) error {
	if tweet.CharCount(args.Topic) > tweet.MaxTopicChars {
		return ErrTopicTooLong
	}
	if tweet.CharCount(args.Content) > tweet.MaxContentChars {
		return ErrContentTooLong
	}

	record := tweet.Tweet{
		Author:    accts.Author.Key,
		Timestamp: env.Clock.UnixTimestamp(),
		Topic:     args.Topic,
		Content:   args.Content,
	}
	if err := record.EncodeInto(accts.Tweet.Data); err != nil {
		return ErrAccountDidNotSerialize
	}
	return nil
}
