package eip6963

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type stubProvider struct {
	id string
}

func (s *stubProvider) Request(_ context.Context, _ RequestArguments) (json.RawMessage, error) {
	return json.RawMessage(`null`), nil
}

func detail(uuid, name string) ProviderDetail {
	return ProviderDetail{
		Info: ProviderInfo{
			UUID: uuid,
			Name: name,
			Icon: "data:image/svg+xml;base64,PHN2Zy8+",
			RDNS: "com.example." + name,
		},
		Provider: &stubProvider{id: uuid},
	}
}

// recordingLogger captures log lines for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	debugs []string
	errors []string
}

func (r *recordingLogger) Debug(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugs = append(r.debugs, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Error(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

func (r *recordingLogger) debugLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.debugs...)
}

func (r *recordingLogger) errorLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func uuids(details []ProviderDetail) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, d.Info.UUID)
	}
	return out
}
