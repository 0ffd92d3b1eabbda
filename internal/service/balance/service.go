// Package balance queries an announced wallet provider for the native
// balance of an address and renders it in ether.
package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/units"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// Config holds the configuration for the balance service.
type Config struct {
	Logger Logger
}

// Service fetches balances through a provider's request handle.
type Service struct {
	logger Logger
}

// NewService creates a new balance service. A nil cfg is allowed.
func NewService(cfg *Config) *Service {
	s := &Service{logger: nopLogger{}}
	if cfg != nil && cfg.Logger != nil {
		s.logger = cfg.Logger
	}
	return s
}

// GetBalance returns the balance of address in ether with four fractional
// digits. Preconditions are checked before any request is issued:
//
//   - a blank address fails with ErrValidation, with or without a handle
//   - a nil handle fails with ErrNoProvider
//
// Every provider or decoding failure is an ErrBalanceFetch carrying the
// scope's message; the provider error is kept as the cause.
func (s *Service) GetBalance(ctx context.Context, handle eip6963.Provider, address string, scope Scope) (string, error) {
	if strings.TrimSpace(address) == "" {
		return "", mipderr.ErrValidation
	}
	if handle == nil {
		return "", mipderr.ErrNoProvider
	}

	raw, err := handle.Request(ctx, eip6963.RequestArguments{
		Method: eip6963.MethodGetBalance,
		Params: []any{address, eip6963.BlockLatest},
	})
	if err != nil {
		return "", s.fail(scope, address, err)
	}

	var hexWei string
	if err := json.Unmarshal(raw, &hexWei); err != nil {
		return "", s.fail(scope, address, fmt.Errorf("decoding balance result: %w", err))
	}

	balance, err := units.HexToDecimalBalance(hexWei)
	if err != nil {
		return "", s.fail(scope, address, err)
	}

	s.logger.Debug("balance %s (%s): %s", address, scope, balance)
	return balance, nil
}

func (s *Service) fail(scope Scope, address string, cause error) error {
	s.logger.Error("fetching %s balance for %s: %v", scope, address, cause)
	return mipderr.WithMessage(mipderr.ErrBalanceFetch, scope.failureMessage(), cause)
}
