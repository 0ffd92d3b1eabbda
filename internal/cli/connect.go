package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/output"
	"github.com/mrz1836/mipd/internal/service/balance"
	"github.com/mrz1836/mipd/internal/session"
)

// connectCmd connects to one announced wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect <provider>",
	Short: "Connect to a wallet and show its account balance",
	Long: `Discover wallets, request account access from the one matching <provider>
(uuid, name or rdns) and show the first authorized account with its balance.

Example:
  mipd connect "PublicNode Watch"
  mipd connect com.publicnode.watch -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
}

// connectResult is the JSON shape of a connection.
type connectResult struct {
	Provider     eip6963.ProviderInfo `json:"provider"`
	Account      string               `json:"account"`
	Balance      string               `json:"balance,omitempty"`
	InputAddress string               `json:"input_address,omitempty"`
	InputBalance string               `json:"input_balance,omitempty"`
	Status       string               `json:"status"`
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx, cancel := contextWithTimeout(cmd, commandTimeout(cfg))
	defer cancel()

	d, err := discover(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	detail, err := d.find(args[0])
	if err != nil {
		return err
	}

	sess, err := connectSession(ctx, d, detail)
	if sess.State().SelectedProvider != nil {
		renderView(cmd, sess.State(), "")
	}
	return err
}

// connectSession opens a session on detail. The session is returned even when
// Connect fails so callers can show what state was reached.
func connectSession(ctx context.Context, d *discovery, detail eip6963.ProviderDetail) (*session.Session, error) {
	sess := session.New(d.registry,
		session.WithLogger(logger),
		session.WithBalanceService(balance.NewService(&balance.Config{Logger: logger})),
	)
	return sess, sess.Connect(ctx, detail)
}

// renderView prints a connected session.
func renderView(cmd *cobra.Command, v session.View, inputAddress string) {
	if v.SelectedProvider == nil {
		return
	}

	if formatter.IsJSON() {
		res := connectResult{
			Provider: v.SelectedProvider.Info,
			Account:  v.ActiveAccount,
			Balance:  v.Balance,
			Status:   v.Status.String(),
		}
		if inputAddress != "" {
			res.InputAddress = inputAddress
			res.InputBalance = v.InputBalance
		}
		_ = formatter.Print(res)
		return
	}

	w := cmd.OutOrStdout()
	out(w, "Provider: %s (%s)\n", v.SelectedProvider.Info.Name, v.SelectedProvider.Info.RDNS)
	out(w, "Account:  %s\n", output.FormatAddress(v.ActiveAccount))
	if v.Balance != "" {
		out(w, "Balance:  %s ETH\n", v.Balance)
	}
	if inputAddress != "" && v.InputBalance != "" {
		out(w, "Address:  %s\n", output.FormatAddress(inputAddress))
		out(w, "Balance:  %s ETH\n", v.InputBalance)
	}
}
