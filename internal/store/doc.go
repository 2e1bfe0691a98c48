// Package store provides SQLite-backed durable storage for the soltweet
// ledger.
//
// The store holds two tables:
//   - Accounts: wallet and tweet accounts, keyed by base58 public key
//   - Receipts: one row per processed transaction, ordered by slot
//
// Account data is stored as an opaque BLOB. The store never interprets
// it; layout and validation belong to internal/tweet and internal/program.
//
// # Atomicity
//
// WithTx runs a function inside one SQLite transaction. The runtime uses it
// so that every instruction of a transaction commits together or not at all.
// Account rows are never updated in place except for lamport balances, and
// never deleted.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
