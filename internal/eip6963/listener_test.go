package eip6963

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func TestListener_AttachRequestsAnnouncementOnce(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	requests := make(chan RequestEvent, 4)
	sub := bus.SubscribeRequest(requests)
	defer sub.Unsubscribe()

	l := NewListener(bus, NewRegistry())
	require.NoError(t, l.Attach())
	defer l.Detach()

	select {
	case <-requests:
	case <-time.After(waitFor):
		t.Fatal("attach did not request announcements")
	}
	select {
	case <-requests:
		t.Fatal("attach requested announcements more than once")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListener_RegistersAnnouncementsInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	reg := NewRegistry()
	l := NewListener(bus, reg)
	require.NoError(t, l.Attach())
	defer l.Detach()

	assert.Equal(t, 1, bus.Announce(detail("1", "first")))
	bus.Announce(detail("2", "second"))
	bus.Announce(detail("1", "first"))

	require.Eventually(t, func() bool { return reg.Len() == 2 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{"1", "2"}, uuids(reg.Snapshot()))
}

func TestListener_DropsInvalidAnnouncements(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	reg := NewRegistry()
	logger := &recordingLogger{}
	l := NewListener(bus, reg, WithListenerLogger(logger))
	require.NoError(t, l.Attach())
	defer l.Detach()

	noProvider := detail("x", "no-provider")
	noProvider.Provider = nil

	bus.Announce(detail("", "no-uuid"))
	bus.Announce(detail("y", ""))
	bus.Announce(noProvider)
	bus.Announce(detail("ok", "valid"))

	require.Eventually(t, func() bool { return reg.Len() == 1 }, waitFor, 5*time.Millisecond)
	require.Eventually(t, func() bool { return logger.errorCount() == 3 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{"ok"}, uuids(reg.Snapshot()))

	for _, line := range logger.errorLines() {
		assert.True(t, strings.HasPrefix(line, EventAnnounceProvider+": dropping"), line)
	}
	assert.Contains(t, logger.debugLines()[0], EventRequestProvider)
	require.Eventually(t, func() bool {
		for _, line := range logger.debugLines() {
			if line == EventAnnounceProvider+": registered valid (ok)" {
				return true
			}
		}
		return false
	}, waitFor, 5*time.Millisecond)
}

func TestListener_DetachStopsMutations(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	reg := NewRegistry()
	l := NewListener(bus, reg)
	require.NoError(t, l.Attach())
	assert.True(t, l.Attached())

	bus.Announce(detail("1", "first"))
	require.Eventually(t, func() bool { return reg.Len() == 1 }, waitFor, 5*time.Millisecond)

	l.Detach()
	assert.False(t, l.Attached())

	assert.Equal(t, 0, bus.Announce(detail("2", "second")))
	assert.Equal(t, 1, reg.Len())

	l.Detach()
}

func TestListener_AttachTwice(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	l := NewListener(bus, NewRegistry())
	require.NoError(t, l.Attach())
	require.ErrorIs(t, l.Attach(), ErrAlreadyAttached)

	l.Detach()
	require.NoError(t, l.Attach(), "reattach after detach")
	l.Detach()
}

func TestListener_DiscoversEarlierAnnouncer(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ann := NewAnnouncer(bus, []ProviderDetail{detail("1", "first"), detail("2", "second")})
	require.NoError(t, ann.Start())
	defer ann.Stop()

	// the announcer's initial announcements went nowhere
	reg := NewRegistry()
	l := NewListener(bus, reg)
	require.NoError(t, l.Attach())
	defer l.Detach()

	require.Eventually(t, func() bool { return reg.Len() == 2 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, []string{"1", "2"}, uuids(reg.Snapshot()))
}

func TestListener_TwoListenersShareBus(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	regA, regB := NewRegistry(), NewRegistry()
	a := NewListener(bus, regA)
	b := NewListener(bus, regB)
	require.NoError(t, a.Attach())
	defer a.Detach()
	require.NoError(t, b.Attach())
	defer b.Detach()

	assert.Equal(t, 2, bus.Announce(detail("1", "first")))

	require.Eventually(t, func() bool { return regA.Len() == 1 && regB.Len() == 1 }, waitFor, 5*time.Millisecond)
}
