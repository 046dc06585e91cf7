// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Composition operators for enumerators: sequential concatenation, fusion
// of transcoder layers, and resumption after a transcoder fault.

// Inum is an enumerator/transcoder: it consumes a stream of I and feeds a
// stream of O to an inner consumer. Applying it yields a computation over
// the outer type whose result is the (possibly still-running) inner
// computation, so driving can continue across enumerator boundaries.
type Inum[I ChunkData[I], O ChunkData[O], A any] func(Iter[O, A]) Iter[I, Iter[O, A]]

// Onum is an enumerator with no real input: a pure, self-driven source.
type Onum[O ChunkData[O], A any] = Inum[Nil, O, A]

// Cat concatenates two enumerators: a runs until it stops feeding its
// consumer or fails; if the consumer is then still active, b continues
// driving it. Transcoder failures propagate with their resumable inner
// state preserved — b does not run after a fault, but [Resume] followed by
// b can.
func Cat[I ChunkData[I], O ChunkData[O], A any](a, b Inum[I, O, A]) Inum[I, O, A] {
	return func(it Iter[O, A]) Iter[I, Iter[O, A]] {
		return catResume(a(it), b)
	}
}

func catResume[I ChunkData[I], O ChunkData[O], A any](r Iter[I, Iter[O, A]], b Inum[I, O, A]) Iter[I, Iter[O, A]] {
	switch v := r.(type) {
	case *NeedInput[I, Iter[O, A]]:
		return &NeedInput[I, Iter[O, A]]{K: func(c Chunk[I]) Iter[I, Iter[O, A]] {
			return catResume(Step[I, Iter[O, A]](v, c), b)
		}}
	case *Effect[I, Iter[O, A]]:
		return &Effect[I, Iter[O, A]]{Action: func() Iter[I, Iter[O, A]] {
			return catResume(v.Action(), b)
		}}
	case *Control[I, Iter[O, A]]:
		req := v.Req
		return &Control[I, Iter[O, A]]{Req: &CtlReq[I, Iter[O, A]]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[I, Iter[O, A]] {
				return catResume(req.K(res, ok), b)
			},
		}}
	case *Done[I, Iter[O, A]]:
		if !IsActive(v.Value) {
			return r
		}
		return Step(b(v.Value), v.Leftover)
	default:
		// Fail, InumFail: propagate, keeping any resumable inner state.
		return r
	}
}

// joinI grafts an enumerator result onto the outer stream. When the outer
// computation completes — or fails as a transcoder — holding a
// still-running inner computation, the inner is driven to completion with
// eof. Transcoder failure detail is preserved rather than collapsed to a
// plain failure; that preservation is what allows resumption across
// composed layers.
func joinI[I ChunkData[I], M ChunkData[M], X any](r Iter[I, Iter[M, X]]) Iter[I, X] {
	switch v := r.(type) {
	case *NeedInput[I, Iter[M, X]]:
		return &NeedInput[I, X]{K: func(c Chunk[I]) Iter[I, X] {
			return joinI[I, M, X](Step[I, Iter[M, X]](v, c))
		}}
	case *Effect[I, Iter[M, X]]:
		return &Effect[I, X]{Action: func() Iter[I, X] {
			return joinI[I, M, X](v.Action())
		}}
	case *Control[I, Iter[M, X]]:
		req := v.Req
		return &Control[I, X]{Req: &CtlReq[I, X]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[I, X] {
				return joinI[I, M, X](req.K(res, ok))
			},
		}}
	case *Done[I, Iter[M, X]]:
		inner, leftover := v.Value, v.Leftover
		return &Effect[I, X]{Action: func() Iter[I, X] {
			switch t := finishIter(inner).(type) {
			case *Done[M, X]:
				return &Done[I, X]{Value: t.Value, Leftover: leftover}
			case *Fail[M, X]:
				return &Fail[I, X]{Err: t.Err}
			default:
				f := t.(*InumFail[M, X])
				return &InumFail[I, X]{Err: f.Err, Inner: f.Inner}
			}
		}}
	case *Fail[I, Iter[M, X]]:
		return &Fail[I, X]{Err: v.Err}
	default:
		f := r.(*InumFail[I, Iter[M, X]])
		return &Effect[I, X]{Action: func() Iter[I, X] {
			switch t := finishIter(f.Inner).(type) {
			case *Done[M, X]:
				return &InumFail[I, X]{Err: f.Err, Inner: t.Value}
			case *Fail[M, X]:
				return &Fail[I, X]{Err: t.Err}
			default:
				ff := t.(*InumFail[M, X])
				return &InumFail[I, X]{Err: ff.Err, Inner: ff.Inner}
			}
		}}
	}
}

// finishIter drives it to a terminal state: input requests are fed eof
// chunks, effects run, and control requests resolve to no result (there is
// no enclosing enumerator left to service them).
func finishIter[M ChunkData[M], X any](it Iter[M, X]) Iter[M, X] {
	for {
		switch v := it.(type) {
		case *NeedInput[M, X]:
			it = Step(it, ChunkEOF[M]())
		case *Effect[M, X]:
			it = v.Action()
		case *Control[M, X]:
			it = v.Req.K(nil, false)
		default:
			return it
		}
	}
}

// FuseInum composes two transcoders into one: outer consumes I and feeds
// M, inner consumes M and feeds O. The joined enumerator preserves
// transcoder-failure detail across the boundary, so a consumer surviving a
// fault in either layer remains resumable.
func FuseInum[I ChunkData[I], M ChunkData[M], O ChunkData[O], A any](
	outer Inum[I, M, Iter[O, A]],
	inner Inum[M, O, A],
) Inum[I, O, A] {
	return func(it Iter[O, A]) Iter[I, Iter[O, A]] {
		return joinI[I, M, Iter[O, A]](outer(inner(it)))
	}
}

// FuseIter applies a transcoder to a consumer, yielding a consumer over
// the outer type.
func FuseIter[I ChunkData[I], O ChunkData[O], A any](in Inum[I, O, A], it Iter[O, A]) Iter[I, A] {
	return joinI[I, O, A](in(it))
}

// Resume extracts the still-active consumer from a transcoder fault so a
// different enumerator can keep driving it, typically after [Cat]. On any
// other state Resume is the identity.
func Resume[T ChunkData[T], A any](it Iter[T, A]) Iter[T, A] {
	if f, ok := it.(*InumFail[T, A]); ok {
		return &Done[T, A]{Value: f.Inner, Leftover: emptyChunk[T]()}
	}
	return it
}
