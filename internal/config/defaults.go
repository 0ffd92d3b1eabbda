package config

import "time"

// DefaultRPCURL is the node the default watch wallet reads from.
// PublicNode requires no API key.
const DefaultRPCURL = "https://ethereum-rpc.publicnode.com"

// Default tuning values.
const (
	DefaultDiscoveryWindow = 500 * time.Millisecond
	DefaultRPCTimeout      = 30 * time.Second
	DefaultRatePerSecond   = 10
	DefaultBurst           = 5
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.mipd",
		Wallets: []WalletConfig{
			{
				Name:     "PublicNode Watch",
				RDNS:     "com.publicnode.watch",
				RPC:      DefaultRPCURL,
				Accounts: []string{"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"},
			},
		},
		Discovery: DiscoveryConfig{
			Window: DefaultDiscoveryWindow,
		},
		RPC: RPCConfig{
			Timeout:       DefaultRPCTimeout,
			RatePerSecond: DefaultRatePerSecond,
			Burst:         DefaultBurst,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.mipd/mipd.log",
		},
	}
}
