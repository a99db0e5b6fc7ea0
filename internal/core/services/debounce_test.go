package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLastScheduledCallFires(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	var last atomic.Value

	for _, q := range []string{"n", "ne", "net", "netw"} {
		q := q
		d.Schedule(q, func() {
			fired.Add(1)
			last.Store(q)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, "netw", last.Load())
}

func TestDebouncer_QuietWindowRespected(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Schedule("query", func() { fired.Add(1) })

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "must not fire before the window elapses")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_BlankQueryBypassesWindow(t *testing.T) {
	d := NewDebouncer(time.Hour)

	var pending, blank atomic.Int32
	d.Schedule("query", func() { pending.Add(1) })
	d.Schedule("   ", func() { blank.Add(1) })

	assert.Equal(t, int32(1), blank.Load(), "blank query evaluates immediately")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), pending.Load(), "blank query cancels the pending evaluation")
}

func TestDebouncer_CancelDiscardsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Schedule("query", func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestDebouncer_FlushRunsNow(t *testing.T) {
	d := NewDebouncer(time.Hour)

	var pending, flushed atomic.Int32
	d.Schedule("query", func() { pending.Add(1) })
	d.Flush(func() { flushed.Add(1) })

	assert.Equal(t, int32(1), flushed.Load())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), pending.Load(), "flush supersedes the pending evaluation")
}

func TestDebouncer_DefaultWindowWhenUnset(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, 300*time.Millisecond, d.window)
}
