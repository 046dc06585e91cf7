// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

import "sync"

// Concurrency helpers. The engine's default model is single-threaded
// cooperative suspension; these are the only places true parallelism
// enters. Both are built on a mutex (plus a condition variable for the
// blocking read) — every appended chunk is observed exactly once, in
// submission order, and a reader finding no data waits instead of polling.

// loopCell is a mutex-protected single-slot chunk cell. Writers merge into
// the pending chunk under the lock; the eof flag stays monotonic through
// Chunk.Append.
type loopCell[O ChunkData[O]] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    Chunk[O]
	filled bool
}

func newLoopCell[O ChunkData[O]]() *loopCell[O] {
	l := &loopCell[O]{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *loopCell[O]) put(c Chunk[O]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.filled {
		l.buf = l.buf.Append(c)
	} else {
		l.buf = c
		l.filled = true
	}
	l.cond.Signal()
}

func (l *loopCell[O]) take() Chunk[O] {
	l.mu.Lock()
	defer l.mu.Unlock()
	for !l.filled {
		l.cond.Wait()
	}
	c := l.buf
	l.buf = emptyChunk[O]()
	l.filled = false
	return c
}

// Loopback creates a connected consumer/producer pair: chunks fed to the
// returned sink become the output of the returned source. The sink and the
// source may be driven from different goroutines; the source blocks until
// data is written and terminates when an eof chunk is drained.
func Loopback[O ChunkData[O], A any]() (Iter[O, struct{}], Onum[O, A]) {
	cell := newLoopCell[O]()

	// The sink publishes inside the continuation itself rather than behind
	// an Effect: the write must be visible to the reader as soon as the
	// chunk is delivered, not when the next step happens to run effects.
	var sink func() Iter[O, struct{}]
	sink = func() Iter[O, struct{}] {
		return &NeedInput[O, struct{}]{K: func(c Chunk[O]) Iter[O, struct{}] {
			cell.put(c)
			if c.EOF {
				return &Done[O, struct{}]{Value: struct{}{}, Leftover: ChunkEOF[O]()}
			}
			return sink()
		}}
	}

	var src Codec[Nil, O]
	src = func() Iter[Nil, CodecR[Nil, O]] {
		return &Effect[Nil, CodecR[Nil, O]]{Action: func() Iter[Nil, CodecR[Nil, O]] {
			c := cell.take()
			if c.EOF {
				return Pure[Nil](CodecR[Nil, O]{Data: c.Data})
			}
			return Pure[Nil](CodecR[Nil, O]{Data: c.Data, More: src})
		}}
	}

	return sink(), MkInum[A](src)
}

// Split wraps a single consumer behind a mutex so multiple independent
// producers can drive it one chunk at a time. Each Feed takes the current
// state under the lock, steps it, and stores the new state, giving a
// linearizable interleaving of concurrently produced chunks into one
// logical consumer.
type Split[T ChunkData[T], A any] struct {
	mu sync.Mutex
	it Iter[T, A]
}

// SplitIter wraps it for concurrent feeding.
func SplitIter[T ChunkData[T], A any](it Iter[T, A]) *Split[T, A] {
	return &Split[T, A]{it: it}
}

// Feed steps the shared consumer with one chunk and reports whether it is
// still active.
func (s *Split[T, A]) Feed(c Chunk[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.it = Step(s.it, c)
	return IsActive(s.it)
}

// Iter returns the consumer's current state.
func (s *Split[T, A]) Iter() Iter[T, A] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.it
}

// Result drives the consumer to termination — forcing eof if it still
// awaits input — and returns its outcome. The terminal state is retained,
// so Result is idempotent.
func (s *Split[T, A]) Result() (A, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.it = finishIter(s.it)
	return Run(s.it)
}
