package reactive_test

import (
	"testing"

	"github.com/asgeY/poet/pkg/reactive"
	"github.com/stretchr/testify/assert"
)

func TestChannel_NoReplay(t *testing.T) {
	ch := reactive.NewChannel[string]()
	ch.Send("lost")

	var got []string
	sub := ch.Subscribe(func(v string) { got = append(got, v) })
	defer sub.Cancel()

	assert.Empty(t, got, "a value sent before subscribing must never be observed")

	ch.Send("seen")
	assert.Equal(t, []string{"seen"}, got)
}

func TestChannel_DeliversInSubscriptionOrder(t *testing.T) {
	ch := reactive.NewChannel[int]()

	var order []string
	s1 := ch.Subscribe(func(int) { order = append(order, "one") })
	s2 := ch.Subscribe(func(int) { order = append(order, "two") })
	s3 := ch.Subscribe(func(int) { order = append(order, "three") })
	defer s1.Cancel()
	defer s3.Cancel()

	ch.Send(1)
	s2.Cancel()
	ch.Send(2)

	assert.Equal(t, []string{"one", "two", "three", "one", "three"}, order)
}

func TestChannel_ReentrantSendIsQueued(t *testing.T) {
	ch := reactive.NewChannel[int]()

	var seen []int
	sub := ch.Subscribe(func(v int) {
		seen = append(seen, v)
		if v < 3 {
			ch.Send(v + 1)
			seen = append(seen, -v)
		}
	})
	defer sub.Cancel()

	ch.Send(1)
	assert.Equal(t, []int{1, -1, 2, -2, 3}, seen)
}

func TestChannel_SubscriberAddedDuringFanOutMissesQueuedValues(t *testing.T) {
	ch := reactive.NewChannel[string]()

	var late []string
	var lateSub *reactive.Subscription
	sub := ch.Subscribe(func(v string) {
		if v == "first" {
			ch.Send("queued")
			lateSub = ch.Subscribe(func(v string) { late = append(late, v) })
		}
	})
	defer sub.Cancel()

	ch.Send("first")
	defer lateSub.Cancel()

	assert.Empty(t, late)
	ch.Send("after")
	assert.Equal(t, []string{"after"}, late)
}

func TestPlease_Fire(t *testing.T) {
	please := reactive.NewPlease()
	please.Fire()

	fired := 0
	sub := please.Subscribe(func(struct{}) { fired++ })
	defer sub.Cancel()

	please.Fire()
	please.Fire()
	assert.Equal(t, 2, fired)
}

func TestForward(t *testing.T) {
	src := reactive.NewChannel[string]()
	dst := reactive.NewChannel[string]()

	var got []string
	out := dst.Subscribe(func(v string) { got = append(got, v) })
	defer out.Cancel()

	fwd := reactive.Forward[string](src, dst)
	src.Send("x")
	fwd.Cancel()
	src.Send("y")

	assert.Equal(t, []string{"x"}, got)
}
