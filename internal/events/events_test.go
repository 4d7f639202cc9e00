package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecmafuzz/internal/ir"
)

func TestBus_PublishCallsSubscribersInOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe(ValidFound, func(Event) { order = append(order, 1) })
	b.Subscribe(ValidFound, func(Event) { order = append(order, 2) })

	b.Publish(Event{Kind: ValidFound, Program: ir.New()})
	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_PublishOnlyCallsMatchingKind(t *testing.T) {
	b := New()
	called := false
	b.Subscribe(CrashFound, func(Event) { called = true })

	b.Publish(Event{Kind: ValidFound})
	assert.False(t, called)

	b.Publish(Event{Kind: CrashFound})
	assert.True(t, called)
}

func TestBus_SubscriberCount(t *testing.T) {
	b := New()
	assert.Equal(t, 0, b.SubscriberCount(TimeOutFound))
	b.Subscribe(TimeOutFound, func(Event) {})
	assert.Equal(t, 1, b.SubscriberCount(TimeOutFound))
}

func TestBus_PublishWithNoSubscribersIsANoop(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish(Event{Kind: PostExecute})
	})
}
