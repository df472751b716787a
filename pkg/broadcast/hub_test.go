package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(4)
	events, cancel := hub.Subscribe("reg-1")
	defer cancel()

	hub.Publish("reg-1", Event{Type: EventUpdateCart, Payload: "hello"})

	select {
	case e := <-events:
		assert.Equal(t, EventUpdateCart, e.Type)
		assert.Equal(t, "hello", e.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestTopicsAreIsolatedByRegister(t *testing.T) {
	hub := NewHub(4)
	one, cancelOne := hub.Subscribe("reg-1")
	defer cancelOne()
	two, cancelTwo := hub.Subscribe("reg-2")
	defer cancelTwo()

	hub.Publish("reg-1", Event{Type: EventPaymentStart})

	select {
	case e := <-one:
		assert.Equal(t, EventPaymentStart, e.Type)
	case <-time.After(time.Second):
		t.Fatal("expected an event on reg-1")
	}

	select {
	case <-two:
		t.Fatal("reg-2 must not receive reg-1 events")
	default:
	}
}

func TestPublishWithoutSubscribersDrops(t *testing.T) {
	hub := NewHub(4)
	// Must not panic or block
	hub.Publish("nobody", Event{Type: EventReset})
	assert.Zero(t, hub.Subscribers("nobody"))
}

func TestFullSubscriberMissesEvents(t *testing.T) {
	hub := NewHub(1)
	events, cancel := hub.Subscribe("reg-1")
	defer cancel()

	hub.Publish("reg-1", Event{Type: EventUpdateCart, Payload: 1})
	// Buffer full: this one is dropped rather than blocking the register
	hub.Publish("reg-1", Event{Type: EventUpdateCart, Payload: 2})

	e := <-events
	assert.Equal(t, 1, e.Payload)

	select {
	case <-events:
		t.Fatal("second event should have been dropped")
	default:
	}
}

func TestCancelRemovesSubscriptionAndClosesChannel(t *testing.T) {
	hub := NewHub(4)
	events, cancel := hub.Subscribe("reg-1")
	require.Equal(t, 1, hub.Subscribers("reg-1"))

	cancel()
	assert.Zero(t, hub.Subscribers("reg-1"))

	_, open := <-events
	assert.False(t, open)

	// Cancel is safe to call again
	cancel()
}

func TestMultipleSubscribersEachReceive(t *testing.T) {
	hub := NewHub(4)
	one, cancelOne := hub.Subscribe("reg-1")
	defer cancelOne()
	two, cancelTwo := hub.Subscribe("reg-1")
	defer cancelTwo()

	hub.Publish("reg-1", Event{Type: EventPaymentSuccess})

	for _, ch := range []<-chan Event{one, two} {
		select {
		case e := <-ch:
			assert.Equal(t, EventPaymentSuccess, e.Type)
		case <-time.After(time.Second):
			t.Fatal("expected the event on every subscriber")
		}
	}
}
