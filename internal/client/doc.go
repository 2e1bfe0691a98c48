// Package client builds, signs and submits send_tweet transactions and
// reads tweets back.
//
// A Client wraps a wallet keypair and a Submitter (normally a
// *runtime.Runtime). Each SendTweet call creates a fresh keypair for the
// tweet account, as the account address must sign its own creation.
package client
