package eip6963

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
)

// ErrAlreadyStarted is returned by Start on a running announcer.
var ErrAlreadyStarted = errors.New("announcer already started")

// AnnouncerOption configures an Announcer.
type AnnouncerOption func(*Announcer)

// WithAnnouncerLogger sets the announcer's logger.
func WithAnnouncerLogger(logger Logger) AnnouncerOption {
	return func(a *Announcer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Announcer is the wallet side of the handshake. It announces a fixed set of
// providers when started and again on every RequestEvent.
type Announcer struct {
	bus     *Bus
	details []ProviderDetail
	logger  Logger

	mu   sync.Mutex
	sub  event.Subscription
	done chan struct{}
}

// NewAnnouncer creates a stopped announcer. Details without a UUID get a
// random one that stays fixed for the announcer's lifetime.
func NewAnnouncer(bus *Bus, details []ProviderDetail, opts ...AnnouncerOption) *Announcer {
	owned := make([]ProviderDetail, len(details))
	copy(owned, details)
	for i := range owned {
		if owned[i].Info.UUID == "" {
			owned[i].Info.UUID = uuid.NewString()
		}
	}

	a := &Announcer{
		bus:     bus,
		details: owned,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Details returns the announced providers with their session UUIDs.
func (a *Announcer) Details() []ProviderDetail {
	out := make([]ProviderDetail, len(a.details))
	copy(out, a.details)
	return out
}

// Start subscribes to re-announcement requests and announces every provider once.
func (a *Announcer) Start() error {
	a.mu.Lock()
	if a.sub != nil {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	ch := make(chan RequestEvent, 1)
	sub := a.bus.SubscribeRequest(ch)
	done := make(chan struct{})
	a.sub = sub
	a.done = done
	a.mu.Unlock()

	go a.loop(ch, sub, done)

	a.announceAll()
	return nil
}

// Stop unsubscribes from requests and waits for the announcer to go idle.
func (a *Announcer) Stop() {
	a.mu.Lock()
	sub, done := a.sub, a.done
	a.sub, a.done = nil, nil
	a.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Unsubscribe()
	<-done
}

func (a *Announcer) loop(ch <-chan RequestEvent, sub event.Subscription, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ch:
			a.announceAll()
		case <-sub.Err():
			return
		}
	}
}

func (a *Announcer) announceAll() {
	for _, d := range a.details {
		n := a.bus.Announce(d)
		a.logger.Debug("%s: %s (%s) reached %d listener(s)", EventAnnounceProvider, d.Info.Name, d.Info.UUID, n)
	}
}
