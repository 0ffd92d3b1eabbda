package eip6963

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

// Registry is an insertion-ordered set of announced providers keyed by UUID.
// A repeated UUID replaces the stored detail and keeps its first-seen
// position. Providers are never removed.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	details map[string]ProviderDetail

	// sendMu orders publication so subscribers see snapshots in mutation order.
	sendMu sync.Mutex
	feed   event.Feed
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		details: make(map[string]ProviderDetail),
	}
}

// Upsert inserts or replaces the detail keyed by its UUID and publishes the
// resulting snapshot to subscribers. Concurrent upserts publish in the order
// they were applied.
func (r *Registry) Upsert(detail ProviderDetail) {
	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	r.mu.Lock()
	id := detail.Info.UUID
	if _, exists := r.details[id]; !exists {
		r.order = append(r.order, id)
	}
	r.details[id] = detail
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	r.feed.Send(snapshot)
}

// Snapshot returns the current providers in first-seen order. The slice is a
// copy owned by the caller.
func (r *Registry) Snapshot() []ProviderDetail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Get returns the provider announced under uuid.
func (r *Registry) Get(uuid string) (ProviderDetail, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.details[uuid]
	return d, ok
}

// Find looks a provider up by UUID, reverse-DNS name or display name.
// Name and RDNS comparisons ignore case. The first match in order wins.
func (r *Registry) Find(query string) (ProviderDetail, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ProviderDetail{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.details[query]; ok {
		return d, true
	}
	for _, id := range r.order {
		d := r.details[id]
		if strings.EqualFold(d.Info.RDNS, query) || strings.EqualFold(d.Info.Name, query) {
			return d, true
		}
	}
	return ProviderDetail{}, false
}

// Len returns the number of distinct providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Subscribe delivers a fresh snapshot to ch after every Upsert.
// Upsert blocks until ch accepts the value, so ch should be buffered and drained.
func (r *Registry) Subscribe(ch chan<- []ProviderDetail) event.Subscription {
	return r.feed.Subscribe(ch)
}

func (r *Registry) snapshotLocked() []ProviderDetail {
	out := make([]ProviderDetail, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.details[id])
	}
	return out
}
