// Package runtime is the execution environment for the tweet program.
//
// It plays the part the chain plays for an on-chain program:
//   - verifies every required transaction signature
//   - resolves instruction accounts and their signer/writable flags
//   - allocates and funds accounts an instruction initialises
//   - supplies the wall clock
//   - commits all instructions of a transaction atomically, or none
//
// Every processed transaction receives the next slot from a monotonic
// logical clock and leaves a receipt in the store, whether it committed or
// failed. Failed transactions change no accounts.
//
// Thread-safety: Process and Airdrop may be called from any goroutine; the
// store serialises writers.
package runtime
