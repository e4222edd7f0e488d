package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDoesNotRunSynchronously(t *testing.T) {
	l := New()
	ran := false
	l.Enqueue(func() { ran = true })

	assert.False(t, ran, "task must wait for Drain")
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 1, l.Drain())
	assert.True(t, ran)
	assert.Equal(t, 0, l.Len())
}

func TestDrainPreservesOrder(t *testing.T) {
	l := New()
	var got []int
	for i := range 5 {
		l.Enqueue(func() { got = append(got, i) })
	}
	l.Drain()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestDrainRunsTasksEnqueuedWhileDraining(t *testing.T) {
	l := New()
	var got []string
	l.Enqueue(func() {
		got = append(got, "first")
		l.Enqueue(func() { got = append(got, "nested") })
	})
	l.Enqueue(func() { got = append(got, "second") })

	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []string{"first", "second", "nested"}, got)
}

func TestEnqueueNilIsIgnored(t *testing.T) {
	l := New()
	l.Enqueue(nil)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Drain())
}

func TestRunProcessesTasksFromOtherGoroutines(t *testing.T) {
	l := New()
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Enqueue(func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	l.Close()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Equal(t, 10, count)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	l := New()
	l.Close()
	l.Close()
	require.NoError(t, l.Run(context.Background()))
}
