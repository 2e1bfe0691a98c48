// Package harness runs tweet scenarios against a fresh in-memory ledger.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	clock_start: 1700000000
//	wallets:
//	  alice: 1000000000
//	steps:
//	  - author: alice
//	    tweet: first
//	    topic: veganism
//	    content: "Hummus, am I right?"
//	  - author: alice
//	    advance: 60
//	    topic_repeat: { text: "x", count: 51 }
//	    content: "too much topic"
//	    expect: TopicTooLong
//	assertions:
//	  - type: tweet
//	    tweet: first
//	    expect: { author: alice, topic: veganism }
//	  - type: absent
//	    tweet: tweet-2
//	  - type: receipt_count
//	    status: failed
//	    count: 1
//
// Unknown fields are rejected.
//
// # Steps
//
// Each step sends one tweet signed by its author's wallet. The tweet
// account key is derived from the step's tweet name, or tweet-N for the
// Nth step. advance moves the ledger clock forward before sending. expect
// is "ok" (the default) or the error code the receipt must carry, either a
// program error name such as ContentTooLong or a transaction error such as
// ACCOUNT_IN_USE.
//
// # Assertion Types
//
//   - tweet: the named tweet exists and its fields match expect (subset)
//   - absent: no account exists for the named tweet
//   - receipt_count: the number of receipts with status (all if empty)
//   - balance: a wallet holds exactly lamports
//
// # Determinism
//
// Keys are derived from names, receipt IDs count up from receipt-1 and
// the clock only moves when a step says so. Traces are therefore stable
// across runs and compare byte for byte against golden files.
package harness
