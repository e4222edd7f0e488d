// Package loop provides a minimal task queue used to defer work to the next
// scheduling turn.
//
// A Loop never runs a task inside Enqueue. Work enqueued during the current
// call stack therefore only runs once the caller returns to Drain or Run,
// which lets listeners registered right after an operation still observe
// the signals that operation scheduled.
//
// Enqueue is safe for concurrent use. Drain and Run must not be called from
// more than one goroutine at a time: the tasks of one Loop always execute
// serially, on whichever goroutine is draining it.
package loop

import (
	"context"
	"sync"
)

// Loop is a FIFO queue of deferred tasks.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Enqueue appends task to the queue. A nil task is ignored.
func (l *Loop) Enqueue(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of tasks waiting to run.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain runs queued tasks on the calling goroutine until the queue is empty,
// including tasks enqueued by the tasks themselves. It returns the number of
// tasks that ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		task, ok := l.pop()
		if !ok {
			return n
		}
		task()
		n++
	}
}

// Run drains the queue whenever tasks arrive and blocks until ctx is done or
// Close is called. After Close, tasks already queued are drained before Run
// returns nil.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			l.Drain()
			return nil
		case <-l.wake:
		}
	}
}

// Close makes Run return once the queue is drained. It is safe to call more
// than once.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.closed) })
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}
