// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Standard control request types.
//
// These define the request/result contracts for common stream positioning
// operations. Concrete implementations live with the adapter that owns the
// underlying resource (a file, a buffer); an enumerator that can service
// them installs a handler via [MkInumC], and one that cannot preserve their
// meaning installs [RejectCtl].

// Seek requests repositioning of the underlying stream to an absolute
// offset. Resolves with no payload: Some means the seek happened.
type Seek struct {
	Phantom[struct{}]
	Offset int64
}

// Tell requests the current position of the underlying stream.
type Tell struct {
	Phantom[int64]
}

// Size requests the total size of the underlying stream, when known.
type Size struct {
	Phantom[int64]
}

// SeekI issues a [Seek] request; the result reports whether any layer
// serviced it.
func SeekI[T ChunkData[T]](offset int64) Iter[T, bool] {
	return Map(CtlI[T](Seek{Offset: offset}), func(o Option[struct{}]) bool {
		return o.IsSome()
	})
}

// TellI issues a [Tell] request.
func TellI[T ChunkData[T]]() Iter[T, Option[int64]] {
	return CtlI[T](Tell{})
}

// SizeI issues a [Size] request.
func SizeI[T ChunkData[T]]() Iter[T, Option[int64]] {
	return CtlI[T](Size{})
}
