package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcredit/loanscreen/pkg/eventbus"
)

type transitionEvent struct {
	From string
	To   string
}

func newQuietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestPublish_DispatchesToMatchingSubscriber(t *testing.T) {
	bus := newQuietBus()

	var received []transitionEvent
	bus.Subscribe(func(e transitionEvent) {
		received = append(received, e)
	})

	bus.Publish(transitionEvent{From: "SUBMITTED", To: "DOCUMENT_VERIFICATION_IN_PROGRESS"})
	require.Len(t, received, 1)
	assert.Equal(t, "SUBMITTED", received[0].From)
}

func TestPublish_SkipsNonMatchingSubscriber(t *testing.T) {
	bus := newQuietBus()

	called := false
	bus.Subscribe(func(s string) { called = true })

	bus.Publish(transitionEvent{})
	assert.False(t, called)
}

func TestPublish_HandlerPanicIsContained(t *testing.T) {
	bus := newQuietBus()

	bus.Subscribe(func(e transitionEvent) { panic("boom") })
	var received int
	bus.Subscribe(func(e transitionEvent) { received++ })

	require.NotPanics(t, func() {
		bus.Publish(transitionEvent{})
	})
	assert.Equal(t, 1, received, "a panicking handler must not starve the others")
}

func TestUnsubscribe(t *testing.T) {
	bus := newQuietBus()

	handler := func(e transitionEvent) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestClear(t *testing.T) {
	bus := newQuietBus()
	bus.Subscribe(func(e transitionEvent) {})
	bus.Subscribe(func(s string) {})
	bus.Clear()
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	assert.True(t, eventbus.MatchSignature(func(transitionEvent) {}, []any{transitionEvent{}}))
	assert.False(t, eventbus.MatchSignature(func(string) {}, []any{transitionEvent{}}))
	assert.False(t, eventbus.MatchSignature(func(transitionEvent, string) {}, []any{transitionEvent{}}))
	assert.False(t, eventbus.MatchSignature("not a func", []any{transitionEvent{}}))
}
