// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

import (
	"io"

	"github.com/pkg/errors"
)

// Stepping engine. Step advances an Iter by one chunk; Run drives an Iter
// to termination. Both are written as explicit loops: deep effect chains
// and long chunk sequences must not grow the native stack.

// Step feeds one chunk to an Iter and returns the advanced state.
//
// Feeding an empty chunk is the identity. Effects encountered on the way
// are executed in-loop and re-stepped with the same chunk. A pending
// control request is rebuilt so the chunk is delivered after resolution.
// A completed Iter absorbs the chunk into its leftover — this is how
// unconsumed input threads through sequencing.
//
// Two end-of-stream invariants are enforced here. A step on a non-eof chunk
// must not fabricate eof in its result; that is a fatal contract violation
// and panics. A step on an eof chunk must resolve: a continuation that
// requests input again after eof fails with [EOFError].
func Step[T ChunkData[T], A any](it Iter[T, A], c Chunk[T]) Iter[T, A] {
	if c.Empty() {
		return it
	}
	for {
		switch v := it.(type) {
		case *NeedInput[T, A]:
			next := v.K(c)
			if !c.EOF {
				if d, ok := next.(*Done[T, A]); ok && d.Leftover.EOF {
					panic("iterio: step on a non-eof chunk fabricated eof")
				}
				return next
			}
			if _, again := next.(*NeedInput[T, A]); again {
				return &Fail[T, A]{Err: &EOFError{}}
			}
			return next
		case *Effect[T, A]:
			it = v.Action()
		case *Control[T, A]:
			req := v.Req
			return &Control[T, A]{Req: &CtlReq[T, A]{
				Op: req.Op,
				K: func(res CtlRes, ok bool) Iter[T, A] {
					return Step(req.K(res, ok), c)
				},
			}}
		case *Done[T, A]:
			return &Done[T, A]{Value: v.Value, Leftover: v.Leftover.Append(c)}
		default:
			// Fail, InumFail: terminal states pass through unchanged.
			return it
		}
	}
}

// Run drives an Iter to termination: it feeds eof chunks for input
// requests, executes effects, and resolves stray control requests with no
// result. Any escaping failure becomes a host-level error; an escaping
// [EOFError] is re-tagged as [io.EOF] so callers need not understand the
// internal parse-error wrapping.
func Run[T ChunkData[T], A any](it Iter[T, A]) (A, error) {
	for {
		switch v := it.(type) {
		case *NeedInput[T, A]:
			it = Step(it, ChunkEOF[T]())
		case *Effect[T, A]:
			it = v.Action()
		case *Control[T, A]:
			it = v.Req.K(nil, false)
		case *Done[T, A]:
			return v.Value, nil
		case *Fail[T, A]:
			var zero A
			if isEOF(v.Err) {
				return zero, io.EOF
			}
			return zero, v.Err
		case *InumFail[T, A]:
			var zero A
			if isEOF(v.Err) {
				return zero, io.EOF
			}
			return zero, v.Err
		}
	}
}

// Pipe applies a pure source to a consumer and drives the pair to
// completion, forcing an eof step if the consumer still awaits input when
// the source ends. Failures escaping the source are annotated; failures of
// the consumer surface as in [Run].
func Pipe[O ChunkData[O], A any](src Onum[O, A], it Iter[O, A]) (A, error) {
	inner, err := Run(src(it))
	if err != nil {
		var zero A
		if err == io.EOF {
			return zero, err
		}
		return zero, errors.WithMessage(err, "pipe")
	}
	return Run(inner)
}

// Throwf fails the computation with a formatted, stack-carrying error.
func Throwf[T ChunkData[T], A any](format string, args ...any) Iter[T, A] {
	return &Fail[T, A]{Err: errors.Errorf(format, args...)}
}
