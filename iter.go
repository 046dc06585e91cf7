// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Iter is a suspendable chunk consumer that eventually produces a value of
// type A or fails. Iter[T, A] is a tagged union; the variant structs below
// are its only implementations. Dispatch uses type switches, not tags —
// the iter method is a pure marker.
//
// An Iter is a plain resumable value: it is constructed by user or library
// code and driven by repeatedly applying [Step] with chunks until it reaches
// one of the terminal variants [Done], [Fail], or [InumFail]. Ownership
// transfers with each step; no other entity owns it during its active
// lifetime.
type Iter[T ChunkData[T], A any] interface {
	iter(Chunk[T], A) // unexported marker method
}

// NeedInput awaits the next chunk. K maps the chunk to the next state.
//
// Contract: when the chunk's eof flag is false, K must not fabricate eof in
// its result; when the flag is true, K must resolve rather than request
// more input (a persistent request after eof becomes an [EOFError] fault).
type NeedInput[T ChunkData[T], A any] struct {
	K func(Chunk[T]) Iter[T, A]
}

func (*NeedInput[T, A]) iter(Chunk[T], A) {}

// Effect defers an action in the host environment. The action runs to
// completion before control returns to the driver; no concurrency is
// implied. Drivers execute it to obtain the next state.
type Effect[T ChunkData[T], A any] struct {
	Action func() Iter[T, A]
}

func (*Effect[T, A]) iter(Chunk[T], A) {}

// Control issues a typed out-of-band request and awaits an optional result.
// The request propagates through nested enumerators to whichever layer can
// service it; see [CtlI] and [CtlHandler].
type Control[T ChunkData[T], A any] struct {
	Req *CtlReq[T, A]
}

func (*Control[T, A]) iter(Chunk[T], A) {}

// Done is terminal success. Leftover holds unconsumed input, which is
// propagated to whatever computation runs next.
type Done[T ChunkData[T], A any] struct {
	Value    A
	Leftover Chunk[T]
}

func (*Done[T, A]) iter(Chunk[T], A) {}

// Fail is a terminal fault that originated in the consumer itself.
type Fail[T ChunkData[T], A any] struct {
	Err error
}

func (*Fail[T, A]) iter(Chunk[T], A) {}

// InumFail is a terminal fault that originated in an enclosing transcoder.
// Inner retains the still-alive inner computation (for an enumerator result,
// an Iter over the transcoded type) so processing can resume after the
// fault; see [Resume]. Plain [Bind] collapses InumFail into [Fail],
// discarding Inner — only the dedicated join operations preserve it.
type InumFail[T ChunkData[T], A any] struct {
	Err   error
	Inner A
}

func (*InumFail[T, A]) iter(Chunk[T], A) {}

// Pure lifts a value into a completed Iter with no leftover input.
func Pure[T ChunkData[T], A any](a A) Iter[T, A] {
	return &Done[T, A]{Value: a, Leftover: emptyChunk[T]()}
}

// Throw fails the computation with err.
func Throw[T ChunkData[T], A any](err error) Iter[T, A] {
	return &Fail[T, A]{Err: err}
}

// Lift runs f as a host effect, completing with its value or failing with
// its error.
func Lift[T ChunkData[T], A any](f func() (A, error)) Iter[T, A] {
	return &Effect[T, A]{Action: func() Iter[T, A] {
		a, err := f()
		if err != nil {
			return &Fail[T, A]{Err: err}
		}
		return Pure[T](a)
	}}
}

// IsActive reports whether the Iter still runs: it awaits input, an effect,
// or a control result. Terminal states are not active.
func IsActive[T ChunkData[T], A any](it Iter[T, A]) bool {
	switch it.(type) {
	case *NeedInput[T, A], *Effect[T, A], *Control[T, A]:
		return true
	}
	return false
}

// ChunkI returns the next chunk, including its eof flag. The eof flag is
// retained in the leftover so subsequent consumers observe it too.
func ChunkI[T ChunkData[T]]() Iter[T, Chunk[T]] {
	var z T
	return &NeedInput[T, Chunk[T]]{K: func(c Chunk[T]) Iter[T, Chunk[T]] {
		return &Done[T, Chunk[T]]{Value: c, Leftover: Chunk[T]{Data: z.Null(), EOF: c.EOF}}
	}}
}

// DataI returns the next non-empty unit of data, or fails with [EOFError]
// at end of stream.
func DataI[T ChunkData[T]]() Iter[T, T] {
	var z T
	return &NeedInput[T, T]{K: func(c Chunk[T]) Iter[T, T] {
		if c.Data.Empty() {
			return &Fail[T, T]{Err: &EOFError{Op: "DataI"}}
		}
		return &Done[T, T]{Value: c.Data, Leftover: Chunk[T]{Data: z.Null(), EOF: c.EOF}}
	}}
}

// NullI discards all input until end of stream.
func NullI[T ChunkData[T]]() Iter[T, struct{}] {
	return &NeedInput[T, struct{}]{K: func(c Chunk[T]) Iter[T, struct{}] {
		if c.EOF {
			return &Done[T, struct{}]{Value: struct{}{}, Leftover: ChunkEOF[T]()}
		}
		return NullI[T]()
	}}
}

// AllI collects and returns all remaining input up to end of stream.
func AllI[T ChunkData[T]]() Iter[T, T] {
	var z T
	return allI(z.Null())
}

func allI[T ChunkData[T]](acc T) Iter[T, T] {
	return &NeedInput[T, T]{K: func(c Chunk[T]) Iter[T, T] {
		next := acc.Append(c.Data)
		if c.EOF {
			return &Done[T, T]{Value: next, Leftover: ChunkEOF[T]()}
		}
		return allI(next)
	}}
}

// Unget pushes data back onto the stream: it completes immediately with the
// data as leftover, so the next consumer in a [Bind] chain reads it first.
func Unget[T ChunkData[T]](data T) Iter[T, struct{}] {
	return &Done[T, struct{}]{Value: struct{}{}, Leftover: Chunk[T]{Data: data}}
}
