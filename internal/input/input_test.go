package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	var got []string
	unA := b.Subscribe(func(e Event) { got = append(got, "a:"+e.Kind.String()) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.Kind.String()) })
	assert.Equal(t, 2, b.Len())

	b.Publish(Event{Kind: PointerDown})
	unA()
	unA()
	b.Publish(Event{Kind: Wheel})

	assert.Equal(t, []string{"a:pointer-down", "b:pointer-down", "b:wheel"}, got)
	assert.Equal(t, 1, b.Len())
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var un func()
	un = b.Subscribe(func(Event) {
		calls++
		un()
	})
	b.Subscribe(func(Event) { calls++ })

	b.Publish(Event{Kind: PointerMove})
	assert.Equal(t, 2, calls, "the current event still reaches every subscriber")
	b.Publish(Event{Kind: PointerMove})
	assert.Equal(t, 3, calls)
}
