// Package session runs the wallet connection workflow: it authorizes an
// account on a chosen provider, fetches balances through it, and keeps the
// single user-facing error slot.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mrz1836/mipd/internal/eip6963"
	"github.com/mrz1836/mipd/internal/metrics"
	"github.com/mrz1836/mipd/internal/service/balance"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// EIP-1193 code reported when a wallet authorizes no accounts.
const codeUnauthorized = 4100

// Status is the connection state.
type Status int

// Connection states. Failed is re-enterable: a new Connect starts over.
const (
	StatusIdle Status = iota
	StatusAuthorizing
	StatusConnected
	StatusFailed
)

// String returns the state name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAuthorizing:
		return "authorizing"
	case StatusConnected:
		return "connected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View is a copy of the session state for display. Empty strings are unset.
type View struct {
	SelectedProvider *eip6963.ProviderDetail
	ActiveAccount    string
	Balance          string
	InputBalance     string
	ErrorMessage     string
	Status           Status
}

// Logger is the logging surface used by the session.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(logger Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBalanceService sets the service used for balance queries.
func WithBalanceService(svc *balance.Service) Option {
	return func(s *Session) {
		if svc != nil {
			s.balances = svc
		}
	}
}

// Session holds one user's connection state.
//
// Connect attempts and address lookups each carry a generation number; a
// result is written only if no newer operation of the same kind has started.
// The connected account's balance and the looked-up address balance live in
// separate slots and never overwrite each other.
type Session struct {
	registry *eip6963.Registry
	balances *balance.Service
	logger   Logger

	mu         sync.Mutex
	state      View
	connectGen uint64
	lookupGen  uint64
}

// New creates a session reading providers from registry, which may be nil.
func New(registry *eip6963.Registry, opts ...Option) *Session {
	s := &Session{
		registry: registry,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.balances == nil {
		s.balances = balance.NewService(&balance.Config{Logger: s.logger})
	}
	return s
}

// Providers returns the currently announced providers in discovery order.
func (s *Session) Providers() []eip6963.ProviderDetail {
	if s.registry == nil {
		return nil
	}
	return s.registry.Snapshot()
}

// State returns a copy of the session state.
func (s *Session) State() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.state
	if v.SelectedProvider != nil {
		detail := *v.SelectedProvider
		v.SelectedProvider = &detail
	}
	return v
}

// SetError replaces the error slot.
func (s *Session) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ErrorMessage = message
}

// ClearError empties the error slot.
func (s *Session) ClearError() {
	s.SetError("")
}

// Connect asks detail's wallet for account access. On success the wallet
// becomes the selected provider, its first account the active account, and
// that account's balance is fetched. A balance failure is returned but keeps
// the session connected. On authorization failure the error slot receives
// the provider's code and message and the previous selection is kept.
//
// If another Connect starts before this one finishes, this one writes nothing
// and returns ErrSuperseded.
func (s *Session) Connect(ctx context.Context, detail eip6963.ProviderDetail) error {
	s.mu.Lock()
	s.connectGen++
	gen := s.connectGen
	s.state.Status = StatusAuthorizing
	s.mu.Unlock()

	s.logger.Debug("connecting to %s (%s)", detail.Info.Name, detail.Info.UUID)

	if detail.Provider == nil {
		err := s.failConnect(gen, mipderr.ErrNoProvider)
		metrics.Global.RecordConnect(err, isSuperseded(err))
		return err
	}

	account, err := s.requestAccount(ctx, detail.Provider)
	if err != nil {
		message := FormatAuthorizationError(err)
		s.logger.Error("authorizing %s: %v", detail.Info.Name, err)
		err = s.failConnect(gen, mipderr.WithMessage(mipderr.ErrAuthorization, message, err))
		metrics.Global.RecordConnect(err, isSuperseded(err))
		return err
	}

	s.mu.Lock()
	if gen != s.connectGen {
		s.mu.Unlock()
		metrics.Global.RecordConnect(ErrSuperseded, true)
		return ErrSuperseded
	}
	selected := detail
	s.state.SelectedProvider = &selected
	s.state.ActiveAccount = account
	s.state.Balance = ""
	s.state.Status = StatusConnected
	s.mu.Unlock()

	metrics.Global.RecordConnect(nil, false)
	s.logger.Debug("connected to %s as %s", detail.Info.Name, account)

	bal, err := s.balances.GetBalance(ctx, detail.Provider, account, balance.ScopeAccount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.connectGen {
		return ErrSuperseded
	}
	if err != nil {
		s.state.ErrorMessage = mipderr.UserMessage(err)
		return err
	}
	s.state.Balance = bal
	return nil
}

// CheckBalance fetches the balance of an arbitrary address through the
// selected provider into the lookup slot. With no selected provider it fails
// without issuing a request. Failures go to the error slot.
//
// If another CheckBalance starts before this one finishes, this one writes
// nothing and returns ErrSuperseded.
func (s *Session) CheckBalance(ctx context.Context, address string) error {
	s.mu.Lock()
	s.lookupGen++
	gen := s.lookupGen
	var handle eip6963.Provider
	if s.state.SelectedProvider != nil {
		handle = s.state.SelectedProvider.Provider
	}
	s.mu.Unlock()

	bal, err := s.balances.GetBalance(ctx, handle, address, balance.ScopeAddress)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.lookupGen {
		return ErrSuperseded
	}
	if err != nil {
		s.state.ErrorMessage = mipderr.UserMessage(err)
		return err
	}
	s.state.InputBalance = bal
	return nil
}

// requestAccount returns the first account the wallet authorizes.
func (s *Session) requestAccount(ctx context.Context, handle eip6963.Provider) (string, error) {
	raw, err := handle.Request(ctx, eip6963.RequestArguments{Method: eip6963.MethodRequestAccounts})
	if err != nil {
		return "", err
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return "", &accountsError{message: fmt.Sprintf("malformed accounts result: %v", err)}
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", &accountsError{code: codeUnauthorized, message: "no accounts authorized"}
	}
	return accounts[0], nil
}

// failConnect records a failed attempt unless it was superseded.
func (s *Session) failConnect(gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.connectGen {
		return ErrSuperseded
	}
	s.state.ErrorMessage = mipderr.UserMessage(err)
	s.state.Status = StatusFailed
	return err
}

func isSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
