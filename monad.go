// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Monad operations for iteratees.
//
// Minimal definition: Pure (unit) and Bind are necessary and sufficient.
// Map and Then are derived operations kept as optimizations to avoid
// intermediate Done allocations and Step calls.

// Bind sequences two computations: it runs m, then passes the result to f.
//
// A completed m immediately re-steps f's result with m's leftover, which is
// how unconsumed input flows from one consumer to the next. Suspended
// states wrap lazily, so the pending-bind chain deepens only with the
// number of outstanding binds, never with the number of chunks fed.
//
// Bind collapses [InumFail] into plain [Fail], discarding the resumable
// inner state. Only the dedicated join operations ([FuseInum], [FuseIter],
// [Cat]) preserve resumability across a transcoder fault.
func Bind[T ChunkData[T], A, B any](m Iter[T, A], f func(A) Iter[T, B]) Iter[T, B] {
	switch v := m.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, B]{K: func(c Chunk[T]) Iter[T, B] {
			return Bind(Step[T, A](v, c), f)
		}}
	case *Effect[T, A]:
		return &Effect[T, B]{Action: func() Iter[T, B] {
			return Bind(v.Action(), f)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, B]{Req: &CtlReq[T, B]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, B] {
				return Bind(req.K(res, ok), f)
			},
		}}
	case *Done[T, A]:
		return Step(f(v.Value), v.Leftover)
	case *Fail[T, A]:
		return &Fail[T, B]{Err: v.Err}
	default:
		return &Fail[T, B]{Err: m.(*InumFail[T, A]).Err}
	}
}

// Map applies a pure function to the result of a computation.
//
// Allocation note: Map is equivalent to Bind(m, compose(Pure, f)) but
// preserves the leftover chunk directly instead of routing it through an
// intermediate Done and Step.
func Map[T ChunkData[T], A, B any](m Iter[T, A], f func(A) B) Iter[T, B] {
	switch v := m.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, B]{K: func(c Chunk[T]) Iter[T, B] {
			return Map(Step[T, A](v, c), f)
		}}
	case *Effect[T, A]:
		return &Effect[T, B]{Action: func() Iter[T, B] {
			return Map(v.Action(), f)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, B]{Req: &CtlReq[T, B]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, B] {
				return Map(req.K(res, ok), f)
			},
		}}
	case *Done[T, A]:
		return &Done[T, B]{Value: f(v.Value), Leftover: v.Leftover}
	case *Fail[T, A]:
		return &Fail[T, B]{Err: v.Err}
	default:
		return &Fail[T, B]{Err: m.(*InumFail[T, A]).Err}
	}
}

// Then sequences two computations, discarding the first result.
func Then[T ChunkData[T], A, B any](m Iter[T, A], n Iter[T, B]) Iter[T, B] {
	return Bind(m, func(A) Iter[T, B] { return n })
}
