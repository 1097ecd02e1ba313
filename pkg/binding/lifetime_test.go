package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifetimeEndRunsCallbacksOnce(t *testing.T) {
	lt := newLifetime(1)
	var order []int
	lt.OnEnd(func() { order = append(order, 1) })
	lt.OnEnd(func() { order = append(order, 2) })

	assert.True(t, lt.Alive())
	assert.True(t, lt.End())
	assert.False(t, lt.End())
	assert.False(t, lt.Alive())
	assert.Equal(t, []int{1, 2}, order)

	select {
	case <-lt.Done():
	default:
		t.Fatal("Done should be closed after End")
	}
	assert.Error(t, lt.Context().Err())
}

func TestLifetimeOnEndAfterEndRunsImmediately(t *testing.T) {
	lt := newLifetime(1)
	lt.End()

	ran := false
	lt.OnEnd(func() { ran = true })
	assert.True(t, ran)
}

func TestLifetimesRenewEndsOldFirst(t *testing.T) {
	ls := NewLifetimes()
	first := ls.Current()
	assert.Equal(t, uint64(1), first.Generation())

	var aliveAtEnd []bool
	first.OnEnd(func() {
		aliveAtEnd = append(aliveAtEnd, ls.Current() == first)
	})

	second := ls.Renew()
	assert.False(t, first.Alive())
	assert.True(t, second.Alive())
	assert.Equal(t, uint64(2), second.Generation())
	assert.Same(t, second, ls.Current())
	assert.Equal(t, []bool{true}, aliveAtEnd, "old lifetime ends before the new one is armed")
}

func TestLifetimesCloseIsIdempotent(t *testing.T) {
	ls := NewLifetimes()
	ends := 0
	ls.Current().OnEnd(func() { ends++ })

	assert.True(t, ls.Close())
	assert.False(t, ls.Close())
	assert.True(t, ls.Closed())
	assert.Equal(t, 1, ends)

	after := ls.Renew()
	assert.False(t, after.Alive(), "renew after close returns the ended lifetime")
	assert.Equal(t, uint64(1), after.Generation())
}
