package provider

import (
	"fmt"

	"github.com/mrz1836/mipd/internal/config"
	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/provider/rpc"
)

// FromConfig builds one provider detail per configured wallet. Wallets that
// share a node share its rate limit. UUIDs left empty are assigned by the
// announcer. opts apply to every node client.
func FromConfig(cfg *config.Config, opts ...rpc.Option) ([]eip6963.ProviderDetail, error) {
	limiter := rpc.NewRateLimiter(cfg.RPC.RatePerSecond, cfg.RPC.Burst)

	details := make([]eip6963.ProviderDetail, 0, len(cfg.Wallets))
	for _, w := range cfg.Wallets {
		clientOpts := append([]rpc.Option{
			rpc.WithTimeout(cfg.RPC.Timeout),
			rpc.WithRateLimiter(limiter),
		}, opts...)
		client := rpc.NewClient(w.RPC, clientOpts...)

		watch, err := NewWatch(client, w.Accounts, WithRejection(w.Reject))
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", w.Name, err)
		}

		details = append(details, eip6963.ProviderDetail{
			Info: eip6963.ProviderInfo{
				UUID: w.UUID,
				Name: w.Name,
				Icon: w.Icon,
				RDNS: w.RDNS,
			},
			Provider: watch,
		})
	}
	return details, nil
}
