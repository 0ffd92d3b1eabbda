package balance

// Scope says whose balance is being fetched. It selects the user-facing
// failure message.
type Scope int

const (
	// ScopeAccount is the connected account's own balance.
	ScopeAccount Scope = iota
	// ScopeAddress is an arbitrary address entered by the user.
	ScopeAddress
)

// Failure messages per scope.
const (
	MsgAccountFetchFailed = "Failed to fetch balance"
	MsgAddressFetchFailed = "Failed to fetch balance for the provided address"
)

// String returns the scope name used in logs.
func (s Scope) String() string {
	switch s {
	case ScopeAccount:
		return "account"
	case ScopeAddress:
		return "address"
	default:
		return "unknown"
	}
}

// failureMessage returns the message shown when a fetch in this scope fails.
func (s Scope) failureMessage() string {
	if s == ScopeAddress {
		return MsgAddressFetchFailed
	}
	return MsgAccountFetchFailed
}

// Logger is the logging surface used by the service.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
