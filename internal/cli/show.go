package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/client"
	"github.com/roach88/soltweet/internal/store"
	"github.com/roach88/soltweet/internal/tweet"
)

// ShowResult is the show command's output.
type ShowResult struct {
	Address string `json:"address"`
	tweet.Tweet
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <address>",
		Short: "Show a stored tweet",
		Long: `Read and decode the tweet stored at an account address.

Examples:
  soltweet show <address>
  soltweet show <address> --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	address, err := solana.PublicKeyFromBase58(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid address %q", arg), err)
	}

	ctx := cmd.Context()
	st, rt, err := opts.openLedger(ctx)
	if err != nil {
		return err
	}
	defer opts.closeStore(st)

	formatter := opts.formatter(cmd)
	t, err := client.FetchTweet(ctx, rt, address)
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		_ = formatter.Error("ACCOUNT_NOT_FOUND", fmt.Sprintf("no account at %s", address), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("no account at %s", address))
	case errors.Is(err, client.ErrNotTweetAccount):
		_ = formatter.Error("NOT_A_TWEET", err.Error(), nil)
		return WrapExitError(ExitFailure, "not a tweet", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to read tweet", err)
	}

	result := ShowResult{Address: address.String(), Tweet: t}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "address:   %s\n", result.Address)
	fmt.Fprintf(w, "author:    %s\n", t.Author)
	fmt.Fprintf(w, "timestamp: %d (%s)\n", t.Timestamp, time.Unix(t.Timestamp, 0).UTC().Format(time.RFC3339))
	if t.Topic != "" {
		fmt.Fprintf(w, "topic:     #%s\n", t.Topic)
	}
	fmt.Fprintf(w, "content:   %s\n", t.Content)
	return nil
}
