// Package program implements the tweet program: the on-chain logic that
// validates a send_tweet instruction and commits one tweet account.
//
// The program never allocates, funds, or persists accounts itself. The
// execution environment (internal/runtime) verifies signatures, allocates a
// zero-filled slot of tweet.Len bytes, and persists the slot only when
// Process returns nil. Process therefore either fully populates the slot or
// leaves it untouched.
package program
