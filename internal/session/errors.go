package session

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by an operation whose result was discarded
// because a newer operation of the same kind started after it.
var ErrSuperseded = errors.New("superseded by a newer request")

// authorizationFormat renders a provider failure in the error slot.
const authorizationFormat = "Code: %d \nError Message: %s"

// codedError is the structured provider failure shape. go-ethereum's rpc.Error
// and the node client's *rpc.Error both satisfy it.
type codedError interface {
	error
	ErrorCode() int
}

// messageError exposes the provider's message without decoration.
type messageError interface {
	ErrorMessage() string
}

// ProviderError coerces any provider failure into a code and a message.
// Structured failures keep their own fields; anything else reports code 0
// and the error text.
func ProviderError(err error) (code int, message string) {
	if err == nil {
		return 0, ""
	}

	var ce codedError
	if errors.As(err, &ce) {
		if me, ok := ce.(messageError); ok {
			return ce.ErrorCode(), me.ErrorMessage()
		}
		return ce.ErrorCode(), ce.Error()
	}

	return 0, err.Error()
}

// FormatAuthorizationError renders a provider failure the way the session
// stores it in its error slot.
func FormatAuthorizationError(err error) string {
	code, message := ProviderError(err)
	return fmt.Sprintf(authorizationFormat, code, message)
}

// accountsError is a synthesized provider failure for unusable
// eth_requestAccounts results.
type accountsError struct {
	code    int
	message string
}

func (e *accountsError) Error() string { return e.message }

// ErrorCode returns the EIP-1193 code.
func (e *accountsError) ErrorCode() int { return e.code }

// ErrorMessage returns the message.
func (e *accountsError) ErrorMessage() string { return e.message }
