package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/mipd/internal/config"
	"github.com/mrz1836/mipd/internal/output"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and initialize mipd configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.mipd/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  mipd config init
  mipd config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration, after environment overrides.

Example:
  mipd config show
  mipd config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd prints one configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its dot-separated path.

Examples:
  mipd config get discovery.window
  mipd config get rpc.timeout
  mipd config get wallets.0.rpc`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.Path(cfg.GetHome())
	}

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return mipderr.WithSuggestion(
			mipderr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.GetHome()
	defaultCfg.Logging.File = filepath.Join(cfg.GetHome(), "mipd.log")

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	if err := output.FormatSuccess(w, "Configuration initialized at "+configPath, formatter.Format()); err != nil {
		return err
	}
	if formatter.IsJSON() {
		return nil
	}
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - wallets: The wallets announced during discovery")
	outln(w, "  - discovery.window: How long to listen for announcements")
	outln(w, "  - rpc.timeout: Per-request node timeout")
	outln(w, "  - logging.level: Log level (off/error/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return displayConfigJSON(w, cfg)
	}
	return displayConfigText(w, cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}
	outln(cmd.OutOrStdout(), value)
	return nil
}

func displayConfigText(w io.Writer, c *config.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	out(w, "%s", data)
	return nil
}

func displayConfigJSON(w io.Writer, c *config.Config) error {
	// Round-trip through YAML so durations and keys match the file layout.
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}

// getConfigValue resolves a dot path against the YAML form of c. List
// elements are addressed by index.
func getConfigValue(c *config.Config, path string) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	for _, part := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return "", unknownConfigKey(path)
			}
			node = next
		case []any:
			i, convErr := strconv.Atoi(part)
			if convErr != nil || i < 0 || i >= len(v) {
				return "", unknownConfigKey(path)
			}
			node = v[i]
		default:
			return "", unknownConfigKey(path)
		}
	}

	switch v := node.(type) {
	case map[string]any, []any:
		return "", mipderr.WithSuggestion(
			mipderr.WithDetails(mipderr.ErrUnknownConfigKey, map[string]string{"path": path}),
			"path names a section; use 'mipd config show' or a longer path",
		)
	case nil:
		return "", nil
	default:
		return fmt.Sprint(v), nil
	}
}

func unknownConfigKey(path string) error {
	return mipderr.WithSuggestion(
		mipderr.WithDetails(mipderr.ErrUnknownConfigKey, map[string]string{"path": path}),
		"run 'mipd config show' to list configuration keys",
	)
}
