package permission

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDelivers(t *testing.T) {
	bus := NewBus()

	var got []Error
	unsubscribe := bus.Subscribe(func(e Error) { got = append(got, e) })

	bus.Publish(Error{Path: "/v1/admin/orders", Status: 403, Reason: "admin role required"})
	require.Len(t, got, 1)
	assert.Equal(t, "/v1/admin/orders", got[0].Path)
	assert.False(t, got[0].At.IsZero())

	unsubscribe()
	bus.Publish(Error{Path: "/v1/cart", Status: 401})
	assert.Len(t, got, 1)
}

func TestBus_ListenerPanicIsRecovered(t *testing.T) {
	bus := NewBus()

	var recovered interface{}
	bus.OnListenerPanic(func(r interface{}) { recovered = r })

	delivered := false
	bus.Subscribe(func(Error) { panic("boom") })
	bus.Subscribe(func(Error) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(Error{Path: "/x"}) })
	assert.Equal(t, "boom", recovered)
	assert.True(t, delivered)
}

func TestBus_RecentIsBounded(t *testing.T) {
	bus := NewBus()
	for i := 0; i < recentCapacity+5; i++ {
		bus.Publish(Error{Path: fmt.Sprintf("/p/%d", i)})
	}

	all := bus.Recent(0)
	require.Len(t, all, recentCapacity)
	assert.Equal(t, fmt.Sprintf("/p/%d", recentCapacity+4), all[0].Path)
	assert.Equal(t, "/p/5", all[len(all)-1].Path)

	assert.Len(t, bus.Recent(3), 3)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(func(Error) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Error{Status: 401})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
	assert.Len(t, bus.Recent(0), 50)
}
