package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/mrz1836/mipd/internal/config"
	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/provider"
	"github.com/mrz1836/mipd/internal/provider/rpc"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// maxNameDistance is the largest edit distance still offered as a suggestion.
const maxNameDistance = 3

// discovery is one run of the handshake: the configured wallets announce on a
// private bus and a listener collects them into the registry.
type discovery struct {
	registry  *eip6963.Registry
	listener  *eip6963.Listener
	announcer *eip6963.Announcer
}

// discover announces the configured wallets and waits until all of them are
// registered or the discovery window closes.
func discover(ctx context.Context, c *config.Config, log *config.Logger) (*discovery, error) {
	if err := config.Validate(c); err != nil {
		return nil, mipderr.WithSuggestion(err, "fix the wallets section of your config, or run 'mipd config init --force'")
	}

	details, err := provider.FromConfig(c, rpc.WithUserAgent(buildInfo.UserAgent()))
	if err != nil {
		return nil, mipderr.WithMessage(mipderr.ErrConfigInvalid, err.Error(), err)
	}

	bus := eip6963.NewBus()
	d := &discovery{
		registry:  eip6963.NewRegistry(),
		announcer: eip6963.NewAnnouncer(bus, details, eip6963.WithAnnouncerLogger(log)),
	}
	d.listener = eip6963.NewListener(bus, d.registry, eip6963.WithListenerLogger(log))

	updates := make(chan []eip6963.ProviderDetail, len(details)+1)
	sub := d.registry.Subscribe(updates)
	defer sub.Unsubscribe()

	if err := d.announcer.Start(); err != nil {
		return nil, fmt.Errorf("starting announcer: %w", err)
	}
	if err := d.listener.Attach(); err != nil {
		d.announcer.Stop()
		return nil, fmt.Errorf("attaching listener: %w", err)
	}

	timer := time.NewTimer(c.Discovery.Window)
	defer timer.Stop()

	for d.registry.Len() < len(details) {
		select {
		case <-updates:
		case <-timer.C:
			log.Debug("discovery window closed with %d of %d wallet(s)", d.registry.Len(), len(details))
			return d, nil
		case <-ctx.Done():
			sub.Unsubscribe()
			d.Close()
			return nil, ctx.Err()
		}
	}
	return d, nil
}

// Close detaches the listener and stops announcing.
func (d *discovery) Close() {
	d.listener.Detach()
	d.announcer.Stop()
}

// find resolves a uuid, name or rdns to an announced provider. An unknown
// query fails with a suggestion when a provider name is close to it.
func (d *discovery) find(query string) (eip6963.ProviderDetail, error) {
	if detail, ok := d.registry.Find(query); ok {
		return detail, nil
	}

	err := mipderr.WithDetails(mipderr.ErrProviderNotFound, map[string]string{"query": query})
	if s := suggestProvider(query, d.registry.Snapshot()); s != "" {
		return eip6963.ProviderDetail{}, mipderr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", s))
	}
	return eip6963.ProviderDetail{}, mipderr.WithSuggestion(err, "run 'mipd providers' to list announced wallets")
}

// first returns the first announced provider.
func (d *discovery) first() (eip6963.ProviderDetail, error) {
	snapshot := d.registry.Snapshot()
	if len(snapshot) == 0 {
		return eip6963.ProviderDetail{}, mipderr.WithSuggestion(mipderr.ErrNoProviders,
			"add a wallet to your config with 'mipd config init'")
	}
	return snapshot[0], nil
}

// suggestProvider returns the provider name or rdns closest to query, or ""
// when nothing is within maxNameDistance.
func suggestProvider(query string, providers []eip6963.ProviderDetail) string {
	query = strings.ToLower(strings.TrimSpace(query))

	minDist := math.MaxInt
	var suggestion string
	for _, p := range providers {
		for _, candidate := range []string{p.Info.Name, p.Info.RDNS} {
			if candidate == "" {
				continue
			}
			dist := levenshtein.ComputeDistance(query, strings.ToLower(candidate))
			if dist < minDist {
				minDist = dist
				suggestion = candidate
			}
		}
	}

	if minDist <= maxNameDistance {
		return suggestion
	}
	return ""
}
