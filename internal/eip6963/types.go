// Package eip6963 implements the multi injected provider discovery handshake:
// wallets announce themselves on a shared bus, listeners collect the
// announcements into a deduplicated, insertion-ordered registry.
package eip6963

import (
	"context"
	"encoding/json"
)

// Event names used on the announcement bus.
const (
	EventAnnounceProvider = "eip6963:announceProvider"
	EventRequestProvider  = "eip6963:requestProvider"
)

// Provider request methods and block tags used by this module.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodGetBalance      = "eth_getBalance"
	BlockLatest           = "latest"
)

// ProviderInfo describes a wallet provider. UUID is the registry key and is
// stable for one announcement session.
type ProviderInfo struct {
	UUID string `json:"uuid" yaml:"uuid" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
	Icon string `json:"icon" yaml:"icon"`
	RDNS string `json:"rdns" yaml:"rdns"`
}

// RequestArguments is the EIP-1193 request payload.
type RequestArguments struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// Provider is the EIP-1193 request interface exposed by an announced wallet.
// Request blocks until the wallet answers or ctx is done.
type Provider interface {
	Request(ctx context.Context, args RequestArguments) (json.RawMessage, error)
}

// ProviderDetail pairs a provider's metadata with its request handle.
type ProviderDetail struct {
	Info     ProviderInfo `json:"info"`
	Provider Provider     `json:"-"`
}

// AnnounceEvent carries exactly one announced provider.
type AnnounceEvent struct {
	Detail ProviderDetail
}

// RequestEvent asks every wallet on the bus to announce again. It has no payload.
type RequestEvent struct{}

// Logger is the logging surface used by this package.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
