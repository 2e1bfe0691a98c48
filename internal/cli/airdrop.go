package cli

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/client"
)

// AirdropResult is the airdrop command's output.
type AirdropResult struct {
	PublicKey string `json:"pubkey"`
	Lamports  uint64 `json:"lamports"`
	Balance   uint64 `json:"balance"`
}

// NewAirdropCommand creates the airdrop command.
func NewAirdropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <lamports> [pubkey]",
		Short: "Credit lamports to a wallet",
		Long: `Credit lamports to a wallet on the local ledger.

Without a pubkey the configured keypair's wallet is credited. A tweet
account needs 10467840 lamports to be rent-exempt.

Examples:
  soltweet airdrop 1000000000
  soltweet airdrop 50000000 8NMfKrcjkHAJpacYTLbL6gPb9TFbta5JwbhLHDGay9cY`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAirdrop(rootOpts, args, cmd)
		},
	}
}

func runAirdrop(opts *RootOptions, args []string, cmd *cobra.Command) error {
	lamports, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || lamports == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid lamports %q: must be a positive integer", args[0]))
	}

	var pubkey solana.PublicKey
	if len(args) == 2 {
		pubkey, err = solana.PublicKeyFromBase58(args[1])
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid pubkey %q", args[1]), err)
		}
	} else {
		wallet, err := client.LoadKeypair(opts.Config.Keypair)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load keypair", err)
		}
		pubkey = wallet.PublicKey()
	}

	ctx := cmd.Context()
	st, rt, err := opts.openLedger(ctx)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	if err := rt.Airdrop(ctx, pubkey, lamports); err != nil {
		return WrapExitError(ExitFailure, "airdrop failed", err)
	}
	balance, err := rt.GetBalance(ctx, pubkey)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read balance", err)
	}

	formatter := opts.formatter(cmd)
	result := AirdropResult{PublicKey: pubkey.String(), Lamports: lamports, Balance: balance}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Airdropped %d lamports to %s\n", result.Lamports, result.PublicKey)
	fmt.Fprintf(formatter.Writer, "balance: %d\n", result.Balance)
	return nil
}
