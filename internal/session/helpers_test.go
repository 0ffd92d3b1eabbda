package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mrz1836/mipd/internal/eip6963"
)

// fakeWallet answers eth_requestAccounts and eth_getBalance from fixed data.
// Calls whose key (the method for account requests, the address for balance
// requests) has a gate block until the gate is closed.
type fakeWallet struct {
	accounts    []string
	accountsRaw json.RawMessage
	accountsErr error
	balances    map[string]string
	balanceErr  error
	gates       map[string]chan struct{}
	entered     chan string

	mu    sync.Mutex
	calls []eip6963.RequestArguments
}

func (w *fakeWallet) Request(ctx context.Context, args eip6963.RequestArguments) (json.RawMessage, error) {
	w.mu.Lock()
	w.calls = append(w.calls, args)
	w.mu.Unlock()

	key := args.Method
	if args.Method == eip6963.MethodGetBalance && len(args.Params) > 0 {
		key, _ = args.Params[0].(string)
	}
	if w.entered != nil {
		w.entered <- key
	}
	if gate := w.gates[key]; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	switch args.Method {
	case eip6963.MethodRequestAccounts:
		if w.accountsErr != nil {
			return nil, w.accountsErr
		}
		if w.accountsRaw != nil {
			return w.accountsRaw, nil
		}
		return json.Marshal(w.accounts)
	case eip6963.MethodGetBalance:
		if w.balanceErr != nil {
			return nil, w.balanceErr
		}
		return json.Marshal(w.balances[key])
	}
	return nil, &accountsError{code: 4200, message: "Unsupported Method"}
}

func (w *fakeWallet) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func walletDetail(uuid, name string, w *fakeWallet) eip6963.ProviderDetail {
	return eip6963.ProviderDetail{
		Info:     eip6963.ProviderInfo{UUID: uuid, Name: name, RDNS: "io.mipd." + name},
		Provider: w,
	}
}
