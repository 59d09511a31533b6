package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	values []T
	mu     sync.Mutex
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func TestDebouncer_EmitsLatestOnce(t *testing.T) {
	rec := &recorder[string]{}
	d := New(50*time.Millisecond, rec.record)

	d.Push("1")
	d.Push("12")
	d.Push("123")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	// Nothing else arrives after the quiet period.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"123"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_EachPushResetsTimer(t *testing.T) {
	rec := &recorder[int]{}
	d := New(80*time.Millisecond, rec.record)

	for i := 0; i < 5; i++ {
		d.Push(i)
		time.Sleep(30 * time.Millisecond)
		assert.Empty(t, rec.snapshot(), "emitted before quiet period at push %d", i)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{4}, rec.snapshot())
}

func TestDebouncer_Cancel(t *testing.T) {
	rec := &recorder[int]{}
	d := New(30*time.Millisecond, rec.record)

	d.Push(1)
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestDebouncer_Restartable(t *testing.T) {
	rec := &recorder[int]{}
	d := New(20*time.Millisecond, rec.record)

	d.Push(1)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Push(2)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)

	d.Cancel()
	d.Push(3)
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 3 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []int{1, 2, 3}, rec.snapshot())
	assert.Equal(t, 20*time.Millisecond, d.Delay())
}

func TestDebouncer_ConcurrentPushes(t *testing.T) {
	rec := &recorder[int]{}
	d := New(40*time.Millisecond, rec.record)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			d.Push(v)
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}
