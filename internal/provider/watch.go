// Package provider builds the wallet providers mipd announces: watch-only
// wallets that answer account requests from configuration and read chain
// state through a node.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/provider/rpc"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
)

// Watch is a watch-only wallet. It holds no keys.
type Watch struct {
	accounts []string
	reject   bool
	backend  eip6963.Provider
}

var _ eip6963.Provider = (*Watch)(nil)

// WatchOption configures a Watch wallet.
type WatchOption func(*Watch)

// WithRejection makes the wallet refuse every account request, as a user
// dismissing the connection prompt would.
func WithRejection(reject bool) WatchOption {
	return func(w *Watch) {
		w.reject = reject
	}
}

// NewWatch creates a watch wallet exposing accounts and forwarding chain reads
// to backend. Accounts are stored in EIP-55 checksum form.
func NewWatch(backend eip6963.Provider, accounts []string, opts ...WatchOption) (*Watch, error) {
	w := &Watch{backend: backend}
	for _, a := range accounts {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid account %q", a)
		}
		w.accounts = append(w.accounts, common.HexToAddress(a).Hex())
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Accounts returns a copy of the wallet's accounts.
func (w *Watch) Accounts() []string {
	return append([]string(nil), w.accounts...)
}

// Request implements eip6963.Provider.
func (w *Watch) Request(ctx context.Context, args eip6963.RequestArguments) (json.RawMessage, error) {
	if args.Method != eip6963.MethodRequestAccounts {
		if w.backend == nil {
			return nil, &rpc.Error{Code: CodeUnsupportedMethod, Message: "Unsupported Method"}
		}
		return w.backend.Request(ctx, args)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.reject {
		return nil, &rpc.Error{Code: CodeUserRejected, Message: "User rejected the request."}
	}
	if len(w.accounts) == 0 {
		return nil, &rpc.Error{Code: CodeUnauthorized, Message: "Unauthorized"}
	}
	return json.Marshal(w.accounts)
}
