// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Resource safety primitives for exception-safe enumerator construction.
// These provide the minimal interface for bracketed resource handling.

// Finally runs cleanup exactly once when it reaches a terminal state —
// success, consumer failure, or transcoder failure — and then delivers
// that terminal state. A failure inside cleanup supersedes the result.
func Finally[T ChunkData[T], A any](it Iter[T, A], cleanup func() Iter[T, struct{}]) Iter[T, A] {
	switch v := it.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, A]{K: func(c Chunk[T]) Iter[T, A] {
			return Finally(Step[T, A](v, c), cleanup)
		}}
	case *Effect[T, A]:
		return &Effect[T, A]{Action: func() Iter[T, A] {
			return Finally(v.Action(), cleanup)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, A]{Req: &CtlReq[T, A]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, A] {
				return Finally(req.K(res, ok), cleanup)
			},
		}}
	default:
		return Bind(cleanup(), func(struct{}) Iter[T, A] { return it })
	}
}

// OnFail runs cleanup only when the computation terminates in failure,
// re-delivering the original failure afterwards.
func OnFail[T ChunkData[T], A any](it Iter[T, A], cleanup func() Iter[T, struct{}]) Iter[T, A] {
	switch v := it.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, A]{K: func(c Chunk[T]) Iter[T, A] {
			return OnFail(Step[T, A](v, c), cleanup)
		}}
	case *Effect[T, A]:
		return &Effect[T, A]{Action: func() Iter[T, A] {
			return OnFail(v.Action(), cleanup)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, A]{Req: &CtlReq[T, A]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, A] {
				return OnFail(req.K(res, ok), cleanup)
			},
		}}
	case *Done[T, A]:
		return it
	default:
		return Bind(cleanup(), func(struct{}) Iter[T, A] { return it })
	}
}

// InumBracket composes an acquire step, a codec parameterized by the
// acquired resource, and a release step into an enumerator. Release runs
// exactly once on every path that terminates the enumerator — normal
// completion, consumer failure, or transcoder failure. If acquire fails,
// the resource was never obtained and release does not run.
func InumBracket[A, R any, I ChunkData[I], O ChunkData[O]](
	acquire Iter[I, R],
	codec func(R) Codec[I, O],
	release func(R) Iter[I, struct{}],
) Inum[I, O, A] {
	return InumBracketC[A](acquire, codec, release, PassCtl)
}

// InumBracketC is [InumBracket] with a control handler for the drive loop.
func InumBracketC[A, R any, I ChunkData[I], O ChunkData[O]](
	acquire Iter[I, R],
	codec func(R) Codec[I, O],
	release func(R) Iter[I, struct{}],
	h CtlHandler,
) Inum[I, O, A] {
	return func(it Iter[O, A]) Iter[I, Iter[O, A]] {
		return Bind(acquire, func(r R) Iter[I, Iter[O, A]] {
			return Finally(inumRun(codec(r), h, it, false, 0), func() Iter[I, struct{}] {
				return release(r)
			})
		})
	}
}
