package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/session"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var balanceProvider string

// balanceCmd looks up the balance of any address through a connected wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the balance of an address through a connected wallet",
	Long: `Connect to a wallet and ask it for the ether balance of <address>. The
address does not need to belong to the wallet; the wallet's node answers.
Without --provider the first announced wallet is used.

Example:
  mipd balance 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045
  mipd balance 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --provider "PublicNode Watch"`,
	Args: cobra.ExactArgs(1),
	RunE: runBalance,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&balanceProvider, "provider", "p", "", "wallet uuid, name or rdns (default: first announced)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithTimeout(cmd, commandTimeout(cfg))
	defer cancel()

	d, err := discover(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	var detail eip6963.ProviderDetail
	if balanceProvider != "" {
		detail, err = d.find(balanceProvider)
	} else {
		detail, err = d.first()
	}
	if err != nil {
		return err
	}

	sess, err := connectSession(ctx, d, detail)
	if sess.State().Status != session.StatusConnected {
		return err
	}
	if err != nil {
		logger.Debug("account balance unavailable: %v", err)
	}

	if err := sess.CheckBalance(ctx, args[0]); err != nil {
		return err
	}

	renderView(cmd, sess.State(), args[0])
	return nil
}
