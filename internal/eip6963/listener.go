package eip6963

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/go-playground/validator/v10"

	"github.com/mrz1836/mipd/internal/metrics"
)

// DefaultListenerBuffer is the announcement channel capacity of a Listener.
const DefaultListenerBuffer = 16

var (
	// ErrAlreadyAttached is returned by Attach on an attached listener.
	ErrAlreadyAttached = errors.New("listener already attached")

	// ErrInvalidAnnouncement indicates an announcement that cannot be registered.
	ErrInvalidAnnouncement = errors.New("invalid provider announcement")
)

//nolint:gochecknoglobals // Shared validator instance, safe for concurrent use
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateDetail reports whether an announced detail can be registered.
func ValidateDetail(detail ProviderDetail) error {
	if detail.Provider == nil {
		return fmt.Errorf("%w: provider handle is nil", ErrInvalidAnnouncement)
	}
	if err := getValidator().Struct(detail.Info); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnnouncement, err)
	}
	return nil
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithListenerLogger sets the listener's logger.
func WithListenerLogger(logger Logger) ListenerOption {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithListenerBuffer sets the announcement channel capacity.
func WithListenerBuffer(n int) ListenerOption {
	return func(l *Listener) {
		if n > 0 {
			l.buffer = n
		}
	}
}

// Listener moves announcements from a Bus into a Registry.
// Announcements are handled one at a time, in arrival order.
type Listener struct {
	bus      *Bus
	registry *Registry
	logger   Logger
	buffer   int

	mu   sync.Mutex
	sub  event.Subscription
	done chan struct{}
}

// NewListener creates a detached listener.
func NewListener(bus *Bus, registry *Registry, opts ...ListenerOption) *Listener {
	l := &Listener{
		bus:      bus,
		registry: registry,
		logger:   nopLogger{},
		buffer:   DefaultListenerBuffer,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Attach subscribes to announcements and then asks every wallet on the bus to
// announce again, so wallets that announced before Attach are discovered.
func (l *Listener) Attach() error {
	l.mu.Lock()
	if l.sub != nil {
		l.mu.Unlock()
		return ErrAlreadyAttached
	}

	ch := make(chan AnnounceEvent, l.buffer)
	sub := l.bus.SubscribeAnnounce(ch)
	done := make(chan struct{})
	l.sub = sub
	l.done = done
	l.mu.Unlock()

	go l.loop(ch, sub, done)

	reached := l.bus.RequestProviders()
	l.logger.Debug("listener attached, %s sent to %d wallet(s)", EventRequestProvider, reached)
	return nil
}

// Detach unsubscribes and waits for the handler to stop. Once Detach returns
// this listener no longer touches the registry. Detaching a detached listener
// is a no-op.
func (l *Listener) Detach() {
	l.mu.Lock()
	sub, done := l.sub, l.done
	l.sub, l.done = nil, nil
	l.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Unsubscribe()
	<-done
	l.logger.Debug("listener detached")
}

// Attached reports whether the listener is currently subscribed.
func (l *Listener) Attached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sub != nil
}

func (l *Listener) loop(ch <-chan AnnounceEvent, sub event.Subscription, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case ev := <-ch:
			l.handle(ev.Detail)
		case <-sub.Err():
			return
		}
	}
}

func (l *Listener) handle(detail ProviderDetail) {
	if err := ValidateDetail(detail); err != nil {
		metrics.Global.RecordAnnouncement(err)
		l.logger.Error("%s: dropping %q: %v", EventAnnounceProvider, detail.Info.Name, err)
		return
	}
	metrics.Global.RecordAnnouncement(nil)
	l.registry.Upsert(detail)
	l.logger.Debug("%s: registered %s (%s)", EventAnnounceProvider, detail.Info.Name, detail.Info.UUID)
}
