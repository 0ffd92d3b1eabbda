// Package metrics provides application-level metrics collection using atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Provider request metrics
	requestsTotal   atomic.Int64
	requestErrors   atomic.Int64
	requestLatNanos atomic.Int64
	balanceRequests atomic.Int64
	accountRequests atomic.Int64

	// Discovery metrics
	announcements        atomic.Int64
	announcementsDropped atomic.Int64

	// Workflow metrics
	connectsTotal  atomic.Int64
	connectsFailed atomic.Int64
	connectsStale  atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRequest records a provider request with its duration and outcome.
func (m *Metrics) RecordRequest(method string, duration time.Duration, err error) {
	m.requestsTotal.Add(1)
	m.requestLatNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.requestErrors.Add(1)
	}

	switch method {
	case "eth_getBalance":
		m.balanceRequests.Add(1)
	case "eth_requestAccounts":
		m.accountRequests.Add(1)
	}
}

// RecordAnnouncement records a received announcement. A non-nil err means it was dropped.
func (m *Metrics) RecordAnnouncement(err error) {
	m.announcements.Add(1)
	if err != nil {
		m.announcementsDropped.Add(1)
	}
}

// RecordConnect records a connect attempt outcome.
func (m *Metrics) RecordConnect(err error, stale bool) {
	m.connectsTotal.Add(1)
	switch {
	case stale:
		m.connectsStale.Add(1)
	case err != nil:
		m.connectsFailed.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RequestsTotal        int64 `json:"requests_total"`
	RequestErrors        int64 `json:"request_errors"`
	RequestLatencyNanos  int64 `json:"request_latency_nanos"`
	BalanceRequests      int64 `json:"balance_requests"`
	AccountRequests      int64 `json:"account_requests"`
	Announcements        int64 `json:"announcements"`
	AnnouncementsDropped int64 `json:"announcements_dropped"`
	ConnectsTotal        int64 `json:"connects_total"`
	ConnectsFailed       int64 `json:"connects_failed"`
	ConnectsStale        int64 `json:"connects_stale"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RequestsTotal:        m.requestsTotal.Load(),
		RequestErrors:        m.requestErrors.Load(),
		RequestLatencyNanos:  m.requestLatNanos.Load(),
		BalanceRequests:      m.balanceRequests.Load(),
		AccountRequests:      m.accountRequests.Load(),
		Announcements:        m.announcements.Load(),
		AnnouncementsDropped: m.announcementsDropped.Load(),
		ConnectsTotal:        m.connectsTotal.Load(),
		ConnectsFailed:       m.connectsFailed.Load(),
		ConnectsStale:        m.connectsStale.Load(),
	}
}

// RequestLatencyAvgMs returns the average request latency in milliseconds.
// Returns 0 if no requests have been made.
func (m *Metrics) RequestLatencyAvgMs() float64 {
	calls := m.requestsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.requestLatNanos.Load()) / float64(calls) / 1e6
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.requestErrors.Store(0)
	m.requestLatNanos.Store(0)
	m.balanceRequests.Store(0)
	m.accountRequests.Store(0)
	m.announcements.Store(0)
	m.announcementsDropped.Store(0)
	m.connectsTotal.Store(0)
	m.connectsFailed.Store(0)
	m.connectsStale.Store(0)
}
