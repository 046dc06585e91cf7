// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

import (
	"fmt"
	"strconv"
)

// ChunkData is the capability constraint stream element types must satisfy.
// It is used F-bounded: a type T implements ChunkData[T] over itself
// (type Bytes implements ChunkData[Bytes]), giving the compiler the concrete
// element type at monomorphization time.
type ChunkData[T any] interface {
	// Null returns the empty value of the type.
	Null() T
	// Append concatenates two values.
	Append(T) T
	// Empty reports whether the value contains no data.
	Empty() bool
	// String returns a debug representation.
	String() string
}

// Chunk is the unit of stream data: a value plus an end-of-stream flag.
//
// The EOF flag is monotonic: once raised, later merges may only append
// empty data. Append enforces this.
type Chunk[T ChunkData[T]] struct {
	Data T
	EOF  bool
}

// NewChunk wraps data in a chunk with the eof flag unset.
func NewChunk[T ChunkData[T]](data T) Chunk[T] {
	return Chunk[T]{Data: data}
}

// ChunkEOF returns an empty chunk with the eof flag set.
func ChunkEOF[T ChunkData[T]]() Chunk[T] {
	var z T
	return Chunk[T]{Data: z.Null(), EOF: true}
}

// emptyChunk returns an empty chunk with the eof flag unset.
// Feeding it to Step is the identity.
func emptyChunk[T ChunkData[T]]() Chunk[T] {
	var z T
	return Chunk[T]{Data: z.Null()}
}

// Empty reports whether the chunk carries neither data nor an eof signal.
// An eof chunk is never empty: the flag itself is information.
func (c Chunk[T]) Empty() bool {
	return c.Data.Empty() && !c.EOF
}

// Append merges two chunks, concatenating data and or-ing eof flags.
// Panics if the receiver already signalled eof and d carries data.
func (c Chunk[T]) Append(d Chunk[T]) Chunk[T] {
	if c.EOF && !d.Data.Empty() {
		panic("iterio: append of data to a chunk after eof")
	}
	return Chunk[T]{Data: c.Data.Append(d.Data), EOF: c.EOF || d.EOF}
}

// String returns a debug representation of the chunk.
func (c Chunk[T]) String() string {
	if c.EOF {
		return fmt.Sprintf("Chunk(%s, eof)", c.Data.String())
	}
	return fmt.Sprintf("Chunk(%s)", c.Data.String())
}

// Bytes is the canonical byte-stream element type.
type Bytes []byte

// Null implements ChunkData.
func (Bytes) Null() Bytes { return nil }

// Append implements ChunkData. The receiver is not aliased: appending
// never mutates previously handed-out slices.
func (b Bytes) Append(o Bytes) Bytes {
	if len(o) == 0 {
		return b
	}
	return append(b[:len(b):len(b)], o...)
}

// Empty implements ChunkData.
func (b Bytes) Empty() bool { return len(b) == 0 }

// String implements ChunkData.
func (b Bytes) String() string { return strconv.Quote(string(b)) }

// Slice is a generic element-list stream type.
type Slice[E any] []E

// Null implements ChunkData.
func (Slice[E]) Null() Slice[E] { return nil }

// Append implements ChunkData.
func (s Slice[E]) Append(o Slice[E]) Slice[E] {
	if len(o) == 0 {
		return s
	}
	return append(s[:len(s):len(s)], o...)
}

// Empty implements ChunkData.
func (s Slice[E]) Empty() bool { return len(s) == 0 }

// String implements ChunkData.
func (s Slice[E]) String() string { return fmt.Sprintf("%v", []E(s)) }

// Nil is the void element type. A stream of Nil carries no data, only the
// eof signal; it is the outer type of Onum, making it a pure source.
type Nil struct{}

// Null implements ChunkData.
func (Nil) Null() Nil { return Nil{} }

// Append implements ChunkData.
func (Nil) Append(Nil) Nil { return Nil{} }

// Empty implements ChunkData.
func (Nil) Empty() bool { return true }

// String implements ChunkData.
func (Nil) String() string { return "()" }
