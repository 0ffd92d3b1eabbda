package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/mipd/internal/config"
)

const (
	testAccount = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	testLookup  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	twoEtherHex = "0x1bc16d674ec80000"
	oneEtherHex = "0xde0b6b3a7640000"
)

// testNode is a JSON-RPC endpoint answering eth_getBalance.
type testNode struct {
	*httptest.Server

	balances map[string]string
	fail     bool
	calls    atomic.Int32
}

func newTestNode(t *testing.T, balances map[string]string) *testNode {
	t.Helper()

	n := &testNode{balances: balances}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.calls.Add(1)

		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if n.fail {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32000, "message": "header not found"},
			})
			return
		}

		address, _ := req.Params[0].(string)
		result, ok := n.balances[address]
		if !ok {
			result = "0x0"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(n.Close)
	return n
}

// writeTestConfig saves a config with wallets into a fresh home and returns
// the home directory.
func writeTestConfig(t *testing.T, wallets ...config.WalletConfig) string {
	t.Helper()

	home := t.TempDir()
	c := config.Defaults()
	c.Home = home
	c.Wallets = wallets
	c.Discovery.Window = 2 * time.Second
	c.RPC.Timeout = 5 * time.Second
	c.Logging.Level = "off"
	c.Logging.File = ""
	require.NoError(t, config.Save(c, config.Path(home)))
	return home
}

// resetGlobals restores flag variables between runs; cobra binds them once.
func resetGlobals(t *testing.T) {
	t.Helper()

	t.Setenv(config.EnvHome, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvDiscoveryWindow, "")
	t.Setenv(config.EnvRPCTimeout, "")

	homeDir = ""
	configFile = ""
	outputFormat = "auto"
	verbose = false
	balanceProvider = ""
	configForce = false
	cfg = nil
	logger = nil
	formatter = nil
}

// runCLI executes the root command and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetGlobals(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(BuildInfo{Version: "v0.0.1-test", Commit: "abc1234", Date: "2026-10-01"})
	return stdout.String(), stderr.String(), err
}

func homeArgs(home string, args ...string) []string {
	return append([]string{"--home", home, "--config", filepath.Join(home, "config.yaml")}, args...)
}
