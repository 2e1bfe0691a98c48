package cli

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/store"
)

// NewConfirmCommand creates the confirm command.
func NewConfirmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <signature>",
		Short: "Show the receipt of a transaction",
		Long: `Look up the receipt recorded for a transaction signature.

Exit codes:
  0 - Transaction committed
  1 - Transaction failed or unknown
  2 - Command error

Example:
  soltweet confirm 4PSaCf...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirm(rootOpts, args[0], cmd)
		},
	}
}

func runConfirm(opts *RootOptions, arg string, cmd *cobra.Command) error {
	sig, err := solana.SignatureFromBase58(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid signature %q", arg), err)
	}

	ctx := cmd.Context()
	st, rt, err := opts.openLedger(ctx)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	formatter := opts.formatter(cmd)
	receipt, err := rt.Confirm(ctx, sig)
	if errors.Is(err, store.ErrReceiptNotFound) {
		_ = formatter.Error("SIGNATURE_NOT_FOUND", fmt.Sprintf("no receipt for %s", arg), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("no receipt for %s", arg))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read receipt", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(receipt); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "slot:      %d\n", receipt.Slot)
		fmt.Fprintf(w, "status:    %s\n", receipt.Status)
		if receipt.ErrorCode != "" {
			fmt.Fprintf(w, "error:     %s: %s\n", receipt.ErrorCode, receipt.ErrorMessage)
		}
		fmt.Fprintf(w, "fee payer: %s\n", receipt.FeePayer)
		fmt.Fprintf(w, "receipt:   %s\n", receipt.ID)
	}

	if receipt.Status != store.StatusOK {
		return NewExitError(ExitFailure, fmt.Sprintf("transaction failed: %s", receipt.ErrorCode))
	}
	return nil
}
