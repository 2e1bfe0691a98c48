package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/roach88/soltweet/internal/client"
)

// KeygenOptions holds flags for the keygen command.
type KeygenOptions struct {
	*RootOptions
	Outfile string
}

// KeygenResult is the keygen command's output.
type KeygenResult struct {
	Path      string `json:"path"`
	PublicKey string `json:"pubkey"`
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeygenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a wallet keypair",
		Long: `Generate a new wallet keypair in the Solana CLI format.

The keypair is written to --outfile, or to the configured keypair path.
An existing file is never overwritten.

Examples:
  soltweet keygen
  soltweet keygen -o ~/.config/soltweet/bob.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Outfile, "outfile", "o", "", "keypair path (default: configured keypair)")

	return cmd
}

func runKeygen(opts *KeygenOptions, cmd *cobra.Command) error {
	path := opts.Outfile
	if path == "" {
		path = opts.Config.Keypair
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to generate keypair", err)
	}
	if err := client.SaveKeypair(path, key); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return NewExitError(ExitCommandError, fmt.Sprintf("keypair already exists: %s", path))
		}
		return WrapExitError(ExitCommandError, "failed to save keypair", err)
	}

	formatter := opts.formatter(cmd)
	result := KeygenResult{Path: path, PublicKey: key.PublicKey().String()}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Wrote keypair to %s\n", result.Path)
	fmt.Fprintf(formatter.Writer, "pubkey: %s\n", result.PublicKey)
	return nil
}
