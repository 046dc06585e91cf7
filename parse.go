// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

import "errors"

// Backtracking parse combinators.
//
// The buffered variants replay previously consumed input to a different
// continuation after a recoverable failure. Buffering costs O(bytes fed);
// it is only appropriate for bounded-lookahead grammars. [MultiParse]
// avoids buffering while both alternatives consume input in lockstep.

// inputCopy pairs the terminal state a computation reached with every
// chunk fed to it since copying began.
type inputCopy[T ChunkData[T], A any] struct {
	Result Iter[T, A]
	Input  Chunk[T]
}

// copyInput runs it to a terminal state while accumulating all input fed
// along the way. The accumulated input allows callers to rewind: on
// failure, handing Input to the next consumer makes the stream
// byte-identical to what it was before copying began.
func copyInput[T ChunkData[T], A any](it Iter[T, A]) Iter[T, inputCopy[T, A]] {
	return copyLoop(it, emptyChunk[T]())
}

func copyLoop[T ChunkData[T], A any](it Iter[T, A], acc Chunk[T]) Iter[T, inputCopy[T, A]] {
	switch v := it.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, inputCopy[T, A]]{K: func(c Chunk[T]) Iter[T, inputCopy[T, A]] {
			return copyLoop(Step[T, A](v, c), acc.Append(c))
		}}
	case *Effect[T, A]:
		return &Effect[T, inputCopy[T, A]]{Action: func() Iter[T, inputCopy[T, A]] {
			return copyLoop(v.Action(), acc)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, inputCopy[T, A]]{Req: &CtlReq[T, inputCopy[T, A]]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, inputCopy[T, A]] {
				return copyLoop(req.K(res, ok), acc)
			},
		}}
	default:
		return &Done[T, inputCopy[T, A]]{
			Value:    inputCopy[T, A]{Result: it, Input: acc},
			Leftover: emptyChunk[T](),
		}
	}
}

// Failure pairs a consumer fault with the Iter state that faulted, so the
// caller can inspect the error or resume the state.
type Failure[T ChunkData[T], A any] struct {
	Err  error
	Iter Iter[T, A]
}

// TryI runs it to completion. On success the result is Right of the value;
// on failure it is Left of the typed error together with the failing state.
// Input consumed before the failure is not replayed; use [TryBI] when the
// stream must be rewound.
func TryI[T ChunkData[T], A any](it Iter[T, A]) Iter[T, Either[Failure[T, A], A]] {
	switch v := it.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, Either[Failure[T, A], A]]{K: func(c Chunk[T]) Iter[T, Either[Failure[T, A], A]] {
			return TryI(Step[T, A](v, c))
		}}
	case *Effect[T, A]:
		return &Effect[T, Either[Failure[T, A], A]]{Action: func() Iter[T, Either[Failure[T, A], A]] {
			return TryI(v.Action())
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, Either[Failure[T, A], A]]{Req: &CtlReq[T, Either[Failure[T, A], A]]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, Either[Failure[T, A], A]] {
				return TryI(req.K(res, ok))
			},
		}}
	case *Done[T, A]:
		return &Done[T, Either[Failure[T, A], A]]{
			Value:    Right[Failure[T, A]](v.Value),
			Leftover: v.Leftover,
		}
	case *Fail[T, A]:
		return &Done[T, Either[Failure[T, A], A]]{
			Value:    Left[Failure[T, A], A](Failure[T, A]{Err: v.Err, Iter: it}),
			Leftover: emptyChunk[T](),
		}
	default:
		f := it.(*InumFail[T, A])
		return &Done[T, Either[Failure[T, A], A]]{
			Value:    Left[Failure[T, A], A](Failure[T, A]{Err: f.Err, Iter: it}),
			Leftover: emptyChunk[T](),
		}
	}
}

// TryBI runs it while buffering every chunk fed to it. On a failure whose
// error matches E, the stream is rewound — the next consumer sees input
// byte-identical to the pre-invocation stream — and the typed error is
// returned as Left. Failures not matching E propagate. On success, exactly
// the wrapped computation's own consumption is reflected.
func TryBI[E error, T ChunkData[T], A any](it Iter[T, A]) Iter[T, Either[E, A]] {
	return Bind(copyInput(it), func(pc inputCopy[T, A]) Iter[T, Either[E, A]] {
		switch v := pc.Result.(type) {
		case *Done[T, A]:
			return &Done[T, Either[E, A]]{Value: Right[E](v.Value), Leftover: v.Leftover}
		case *Fail[T, A]:
			var target E
			if errors.As(v.Err, &target) {
				return &Done[T, Either[E, A]]{Value: Left[E, A](target), Leftover: pc.Input}
			}
			return &Fail[T, Either[E, A]]{Err: v.Err}
		default:
			f := pc.Result.(*InumFail[T, A])
			var target E
			if errors.As(f.Err, &target) {
				return &Done[T, Either[E, A]]{Value: Left[E, A](target), Leftover: pc.Input}
			}
			return &Fail[T, Either[E, A]]{Err: f.Err}
		}
	})
}

// CatchI runs it and, on a failure whose error matches E, invokes handler
// with the typed error and the failing state. Other failures pass through.
// Input consumed before the failure is not replayed.
func CatchI[E error, T ChunkData[T], A any](it Iter[T, A], handler func(E, Iter[T, A]) Iter[T, A]) Iter[T, A] {
	return Bind(TryI(it), func(r Either[Failure[T, A], A]) Iter[T, A] {
		fail, isFail := r.GetLeft()
		if !isFail {
			a, _ := r.GetRight()
			return Pure[T](a)
		}
		var target E
		if errors.As(fail.Err, &target) {
			return handler(target, fail.Iter)
		}
		return fail.Iter
	})
}

// CatchBI is the buffering variant of [CatchI]: on a matching failure the
// stream is rewound before the handler runs, so the handler's replacement
// computation sees the exact input the failed one saw.
func CatchBI[E error, T ChunkData[T], A any](it Iter[T, A], handler func(E) Iter[T, A]) Iter[T, A] {
	return Bind(TryBI[E](it), func(r Either[E, A]) Iter[T, A] {
		if e, isFail := r.GetLeft(); isFail {
			return handler(e)
		}
		a, _ := r.GetRight()
		return Pure[T](a)
	})
}

// mapFail transforms the error of a failing computation, preserving the
// failure variant.
func mapFail[T ChunkData[T], A any](it Iter[T, A], f func(error) error) Iter[T, A] {
	switch v := it.(type) {
	case *NeedInput[T, A]:
		return &NeedInput[T, A]{K: func(c Chunk[T]) Iter[T, A] {
			return mapFail(Step[T, A](v, c), f)
		}}
	case *Effect[T, A]:
		return &Effect[T, A]{Action: func() Iter[T, A] {
			return mapFail(v.Action(), f)
		}}
	case *Control[T, A]:
		req := v.Req
		return &Control[T, A]{Req: &CtlReq[T, A]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, A] {
				return mapFail(req.K(res, ok), f)
			},
		}}
	case *Fail[T, A]:
		return &Fail[T, A]{Err: f(v.Err)}
	case *InumFail[T, A]:
		return &InumFail[T, A]{Err: f(v.Err), Inner: v.Inner}
	default:
		return it
	}
}

// combineExpected merges the expected-token diagnostic of a failed
// alternative into whatever failure alt eventually produces. The saw of
// the branch that actually consumed input wins; wanted lists concatenate.
func combineExpected[T ChunkData[T], A any](err error, alt Iter[T, A]) Iter[T, A] {
	var e1 *Expected
	if !errors.As(err, &e1) {
		return alt
	}
	return mapFail(alt, func(err2 error) error {
		var e2 *Expected
		if !errors.As(err2, &e2) {
			return err2
		}
		saw := e2.Saw
		if saw == "" {
			saw = e1.Saw
		}
		wanted := make([]string, 0, len(e1.Wanted)+len(e2.Wanted))
		wanted = append(wanted, e1.Wanted...)
		wanted = append(wanted, e2.Wanted...)
		return &Expected{Saw: saw, Wanted: wanted}
	})
}

// IfParse runs p with full input buffering. On success, yes continues the
// computation — no backtracking is available beyond that point. On a
// no-parse failure the stream is rewound and no runs in its place, with
// p's expected-token diagnostics merged into no's eventual failure.
// Failures outside the no-parse family propagate.
func IfParse[T ChunkData[T], A, B any](p Iter[T, A], yes func(A) Iter[T, B], no Iter[T, B]) Iter[T, B] {
	return Bind(copyInput(p), func(pc inputCopy[T, A]) Iter[T, B] {
		switch v := pc.Result.(type) {
		case *Done[T, A]:
			return Step(yes(v.Value), v.Leftover)
		case *Fail[T, A]:
			if IsNoParse(v.Err) {
				return Step(combineExpected[T, B](v.Err, no), pc.Input)
			}
			return &Fail[T, B]{Err: v.Err}
		default:
			return &Fail[T, B]{Err: pc.Result.(*InumFail[T, A]).Err}
		}
	})
}

// MultiParse runs two alternatives against the same input. While both
// request input, chunks are fed to each in lockstep with no buffering. If
// b stops requesting input — it completed, or needs an effect or control
// exchange — before a fails, MultiParse falls back to buffered replay
// ([IfParse] semantics) to stay correct. When a fails with a no-parse
// error, b continues from its already-advanced state with a's
// expected-token diagnostics merged in; when a completes or fails
// otherwise, b is discarded.
func MultiParse[T ChunkData[T], A any](a, b Iter[T, A]) Iter[T, A] {
	switch va := a.(type) {
	case *NeedInput[T, A]:
		if _, lockstep := b.(*NeedInput[T, A]); lockstep {
			return &NeedInput[T, A]{K: func(c Chunk[T]) Iter[T, A] {
				return MultiParse(Step[T, A](a, c), Step[T, A](b, c))
			}}
		}
		return Bind(copyInput(a), func(pc inputCopy[T, A]) Iter[T, A] {
			switch v := pc.Result.(type) {
			case *Done[T, A]:
				return pc.Result
			case *Fail[T, A]:
				if IsNoParse(v.Err) {
					return Step(combineExpected(v.Err, b), pc.Input)
				}
				return pc.Result
			default:
				return &Fail[T, A]{Err: pc.Result.(*InumFail[T, A]).Err}
			}
		})
	case *Effect[T, A]:
		return &Effect[T, A]{Action: func() Iter[T, A] {
			return MultiParse(va.Action(), b)
		}}
	case *Control[T, A]:
		req := va.Req
		return &Control[T, A]{Req: &CtlReq[T, A]{
			Op: req.Op,
			K: func(res CtlRes, ok bool) Iter[T, A] {
				return MultiParse(req.K(res, ok), b)
			},
		}}
	case *Done[T, A]:
		return a
	case *Fail[T, A]:
		if IsNoParse(va.Err) {
			return combineExpected(va.Err, b)
		}
		return a
	default:
		return &Fail[T, A]{Err: a.(*InumFail[T, A]).Err}
	}
}
