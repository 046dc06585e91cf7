// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Typed out-of-band control requests.
//
// A control request carries an argument of some request-specific type and a
// continuation expecting an optional result. The argument type uniquely
// determines the result type; the association is expressed with the
// F-bounded [CtlOp] constraint and validated at resolution time by a
// runtime downcast. Requests thread through nested enumerators to whichever
// layer can service them; a request reaching the top unhandled resolves to
// "no result".

// CtlArg represents a type-erased control request argument.
// All values passed to a [CtlHandler] implement some concrete [CtlOp].
type CtlArg = any

// CtlRes represents a type-erased control result flowing back to the
// requester. Concrete types are recovered at the request's continuation.
type CtlRes = any

// CtlOp is the F-bounded interface for control request arguments.
// Each request defines a concrete type implementing CtlOp with its result
// type parameter. The self-referencing constraint gives the compiler
// knowledge of both the concrete request type and its result type.
//
// Example:
//
//	type Tell struct{ iterio.Phantom[int64] }
type CtlOp[O CtlOp[O, R], R any] interface {
	CtlResult() R // phantom type marker for the result
}

// Phantom is an embeddable zero-size type that provides the [CtlOp] result
// marker. Embed Phantom[R] in a request struct to satisfy [CtlOp] without
// writing a manual CtlResult method.
type Phantom[R any] struct{}

// CtlResult implements the phantom type marker for [CtlOp].
func (Phantom[R]) CtlResult() R { panic("phantom") }

// CtlReq pairs a type-erased request argument with the continuation that
// resumes the issuing computation. K receives (result, true) when a layer
// resolved the request with a value, or (nil, false) for "no result".
type CtlReq[T ChunkData[T], A any] struct {
	Op CtlArg
	K  func(CtlRes, bool) Iter[T, A]
}

// CtlI issues a control request and suspends until some enclosing layer
// resolves it. The result is Some when a handler serviced the request with
// a value, None when it was rejected or reached the top unhandled. A
// handler resolving with a value of the wrong type fails the computation
// with [CtlError].
//
// The element type is not inferable from the argument:
//
//	CtlI[Bytes](Tell{})
func CtlI[T ChunkData[T], O CtlOp[O, R], R any](op O) Iter[T, Option[R]] {
	return &Control[T, Option[R]]{Req: &CtlReq[T, Option[R]]{
		Op: op,
		K: func(res CtlRes, ok bool) Iter[T, Option[R]] {
			if !ok {
				return Pure[T](None[R]())
			}
			r, good := res.(R)
			if !good {
				return &Fail[T, Option[R]]{Err: &CtlError{Op: op, Res: res}}
			}
			return Pure[T](Some(r))
		},
	}}
}

// CtlHandler services control requests during enumerator driving.
// It returns (result, true) to resolve a request — a nil result resolves it
// to "no result" — or (nil, false) to decline, propagating the request to
// the next enclosing enumerator.
type CtlHandler func(op CtlArg) (CtlRes, bool)

// HandleCtl builds a single-type handler: it services requests of type O
// and declines everything else. f returns (result, true) to resolve with a
// value, or (zero, false) to resolve with no result.
func HandleCtl[O CtlOp[O, R], R any](f func(O) (R, bool)) CtlHandler {
	return func(op CtlArg) (CtlRes, bool) {
		o, ok := op.(O)
		if !ok {
			return nil, false
		}
		r, ok := f(o)
		if !ok {
			return nil, true
		}
		return r, true
	}
}

// ChainCtl builds a dispatcher from an ordered list of handlers: the first
// handler that accepts the request's type is used; if none match, the
// request is declined and propagates outward.
func ChainCtl(hs ...CtlHandler) CtlHandler {
	return func(op CtlArg) (CtlRes, bool) {
		for _, h := range hs {
			if res, ok := h(op); ok {
				return res, true
			}
		}
		return nil, false
	}
}

// PassCtl declines every request, propagating it to the enclosing
// enumerator. This is the default handler of [MkInum].
func PassCtl(CtlArg) (CtlRes, bool) { return nil, false }

// RejectCtl resolves every request to "no result" immediately, without
// propagating. Use it when a transcoding step invalidates the semantics
// outer callers expect — byte offsets are meaningless after decompression,
// so a decompressing enumerator rejects seek rather than forwarding it.
func RejectCtl(CtlArg) (CtlRes, bool) { return nil, true }
