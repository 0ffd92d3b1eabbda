package eip6963

import (
	"github.com/ethereum/go-ethereum/event"
)

// Bus is the process-wide announcement channel. Wallets publish
// AnnounceEvents; listeners publish RequestEvents. Create one per process and
// pass it to every Listener and Announcer.
//
// Send on an event.Feed blocks until every subscriber has accepted the value,
// so subscribers should read from buffered channels in their own goroutine.
type Bus struct {
	announce event.Feed
	request  event.Feed
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Announce publishes a provider announcement and returns the number of
// subscribers that received it.
func (b *Bus) Announce(detail ProviderDetail) int {
	return b.announce.Send(AnnounceEvent{Detail: detail})
}

// RequestProviders publishes a request for every wallet to re-announce.
func (b *Bus) RequestProviders() int {
	return b.request.Send(RequestEvent{})
}

// SubscribeAnnounce delivers every announcement to ch until unsubscribed.
func (b *Bus) SubscribeAnnounce(ch chan<- AnnounceEvent) event.Subscription {
	return b.announce.Subscribe(ch)
}

// SubscribeRequest delivers every re-announcement request to ch until unsubscribed.
func (b *Bus) SubscribeRequest(ch chan<- RequestEvent) event.Subscription {
	return b.request.Subscribe(ch)
}
