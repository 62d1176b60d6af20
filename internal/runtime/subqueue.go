package runtime

import "sync"

// SubQueue decouples a producer from a single consumer: Enqueue never blocks,
// and a dispatcher goroutine feeds queued values to Chan in order.
type SubQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []T
	closed bool

	outCh chan T
}

func NewSubQueue[T any](outBuf int) *SubQueue[T] {
	sq := &SubQueue[T]{
		outCh: make(chan T, outBuf),
	}
	sq.cond = sync.NewCond(&sq.mu)
	go sq.dispatch()
	return sq
}

// Chan delivers queued values in order. It is closed by Close.
func (sq *SubQueue[T]) Chan() <-chan T { return sq.outCh }

// Enqueue queues ev. It is a no-op after Close.
func (sq *SubQueue[T]) Enqueue(ev T) {
	sq.mu.Lock()
	if !sq.closed {
		sq.queue = append(sq.queue, ev)
		sq.cond.Signal()
	}
	sq.mu.Unlock()
}

// Close stops the dispatcher and closes the out channel. Values still queued
// are dropped.
func (sq *SubQueue[T]) Close() {
	sq.mu.Lock()
	sq.closed = true
	sq.cond.Broadcast()
	sq.mu.Unlock()
}

func (sq *SubQueue[T]) dispatch() {
	defer close(sq.outCh)
	for {
		ev, ok := sq.next()
		if !ok {
			return
		}
		sq.outCh <- ev
	}
}

// next blocks until a value is queued or the queue is closed.
func (sq *SubQueue[T]) next() (T, bool) {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	for !sq.closed && len(sq.queue) == 0 {
		sq.cond.Wait()
	}

	var zero T
	if sq.closed {
		return zero, false
	}
	ev := sq.queue[0]
	sq.queue[0] = zero
	sq.queue = sq.queue[1:]
	return ev, true
}
