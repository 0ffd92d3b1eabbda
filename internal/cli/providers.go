package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/output"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// providersCmd lists the wallets heard during discovery.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List announced wallet providers",
	Long: `Run the discovery handshake and list every wallet that announced itself,
in the order it was first heard.

Example:
  mipd providers
  mipd providers -o json`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, commandTimeout(cfg))
	defer cancel()

	d, err := discover(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	snapshot := d.registry.Snapshot()
	if formatter.IsJSON() {
		infos := make([]eip6963.ProviderInfo, 0, len(snapshot))
		for _, p := range snapshot {
			infos = append(infos, p.Info)
		}
		return formatter.Print(infos)
	}

	w := cmd.OutOrStdout()
	if len(snapshot) == 0 {
		outln(w, mipderr.ErrNoProviders.Message)
		return nil
	}

	table := output.NewTable("UUID", "NAME", "RDNS")
	for _, p := range snapshot {
		table.AddRow(p.Info.UUID, p.Info.Name, p.Info.RDNS)
	}
	return table.Render(w)
}
