package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/client"
	"github.com/roach88/soltweet/internal/runtime"
	"github.com/roach88/soltweet/internal/store"
	"github.com/roach88/soltweet/internal/tweet"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Topic string
	NFC   bool
}

// SendResult is the send command's output.
type SendResult struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Slot      int64  `json:"slot"`
	Receipt   string `json:"receipt"`
	Timestamp int64  `json:"timestamp"`
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Send a tweet",
		Long: `Send a tweet signed by the configured wallet.

The tweet is stored in a new account whose address is printed on success.
Topics hold at most 50 characters and content at most 280; longer input
is rejected with TopicTooLong or ContentTooLong and nothing is stored.

Exit codes:
  0 - Tweet stored
  1 - Transaction rejected
  2 - Command error (missing keypair, unreadable ledger, etc.)

Examples:
  soltweet send "Hummus, am I right?" --topic veganism
  soltweet send "gm" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Topic, "topic", "t", "", "tweet topic")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "compose text to Unicode NFC before sending (default: config normalize_nfc)")

	return cmd
}

func runSend(opts *SendOptions, content string, cmd *cobra.Command) error {
	wallet, err := client.LoadKeypair(opts.Config.Keypair)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load keypair", err)
	}

	nfc := opts.Config.NormalizeNFC
	if cmd.Flags().Changed("nfc") {
		nfc = opts.NFC
	}

	ctx := cmd.Context()
	st, rt, err := opts.openLedger(ctx)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	formatter := opts.formatter(cmd)
	formatter.VerboseLog("Sending tweet from %s (%d topic, %d content characters)",
		wallet.PublicKey(), tweet.CharCount(opts.Topic), tweet.CharCount(content))

	c := client.New(rt, wallet, client.WithNormalizeNFC(nfc))
	address, receipt, err := c.SendTweet(ctx, opts.Topic, content)

	var txErr *runtime.TxError
	if errors.As(err, &txErr) {
		_ = formatter.Rejected(receipt)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", receipt.ErrorCode, txErr.Message))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to send tweet", err)
	}

	return outputSendSuccess(formatter, address.String(), receipt)
}

func outputSendSuccess(formatter *OutputFormatter, address string, receipt store.Receipt) error {
	result := SendResult{
		Address:   address,
		Signature: receipt.Signature,
		Slot:      receipt.Slot,
		Receipt:   receipt.ID,
		Timestamp: receipt.Timestamp,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Tweet stored at %s\n", result.Address)
	fmt.Fprintf(formatter.Writer, "  signature: %s\n", result.Signature)
	fmt.Fprintf(formatter.Writer, "  slot: %d\n", result.Slot)
	return nil
}
