// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package iterio provides composable stream processing via iteratees and
// enumerators in Go.
//
// The core type [Iter] represents a suspendable chunk consumer that
// eventually produces a value or fails. Producers and transcoders are
// enumerators ([Inum], [Onum]) that feed chunks to an inner Iter and hand
// it back when they stop. Protocol layers — framing, compression,
// encryption, parsing — are built by composing these pieces rather than by
// writing monolithic read loops.
//
// # Design Philosophy
//
// iterio provides:
//   - Minimal but complete interfaces for chunks, consumers, transcoders,
//     and out-of-band control
//   - F-bounded polymorphism for compile-time knowledge of element and
//     request types
//   - Iterative driving loops: long chunk sequences and deep effect chains
//     never grow the native stack
//
// # Data Model
//
// A [Chunk] is a unit of stream data plus a monotonic end-of-stream flag;
// element types satisfy the [ChunkData] capability ([Bytes], [Slice], and
// the void type [Nil] are provided). An [Iter] is a tagged union with
// exactly six states: [NeedInput], [Effect], [Control], [Done], [Fail],
// and [InumFail]. The two failure states are deliberately distinct —
// [Fail] originates in the consumer, while [InumFail] originates in a
// transcoder and retains the still-alive consumer so processing can
// [Resume] after the fault.
//
// # Core Operations
//
// Construction and sequencing:
//
//   - [Pure], [Throw], [Throwf], [Lift]: lift values, errors, and host
//     actions into computations
//   - [Bind], [Map], [Then]: monadic sequencing; leftover input threads
//     from each completed consumer to the next
//   - [ChunkI], [DataI], [NullI], [AllI], [Unget]: basic consumers
//
// Driving:
//
//   - [Step]: feed one chunk, enforcing the end-of-stream invariants
//   - [Run]: drive to termination, re-tagging an escaping end-of-stream
//     fault as [io.EOF]
//   - [Pipe]: apply a pure source to a consumer and run the pair
//
// # Backtracking
//
// Recoverable failures form the no-parse family ([EOFError], [Expected],
// [ParseError]); [IsNoParse] classifies them. Combinators:
//
//   - [TryI], [CatchI]: inspect or handle a failure together with the
//     failing state
//   - [TryBI], [CatchBI]: buffering variants that rewind the stream so the
//     next consumer sees the exact pre-invocation input
//   - [IfParse]: buffered alternative with expected-token diagnostics
//     merged across branches
//   - [MultiParse]: lockstep alternative that avoids buffering while both
//     branches consume input
//
// # Enumerators
//
// An [Inum] consumes an outer stream and feeds a transcoded stream to an
// inner consumer; an [Onum] is a pure source. Builders and composition:
//
//   - [MkInum], [MkInumC]: drive a [Codec] step function against a
//     consumer, with clean-stop, transcoder-fault, and eof-forcing
//     semantics
//   - [InumBracket]: acquire/codec/release with release guaranteed exactly
//     once on every terminal path ([Finally], [OnFail] underneath)
//   - [Cat]: sequential concatenation
//   - [FuseInum], [FuseIter]: fuse transcoder layers, preserving
//     resumability across the boundary
//   - [Resume]: recover the consumer from a transcoder fault
//
// # Control Requests
//
// A [Control] state carries a typed, type-erased side-channel request
// threaded through nested enumerators to whichever layer can service it.
// Request types implement the F-bounded [CtlOp] constraint via an embedded
// [Phantom] result marker; [Seek], [Tell], and [Size] are the standard
// positioning requests. Handlers use the [CtlHandler] dispatch signature:
//
//   - [CtlI]: issue a request, suspending for an [Option] result
//   - [HandleCtl]: single-request-type handler
//   - [ChainCtl]: ordered first-match dispatcher
//   - [PassCtl], [RejectCtl]: propagate everything / resolve everything to
//     no result
//
// # Concurrency
//
// The default model is single-threaded cooperative suspension; an Iter is
// a plain resumable value. True parallelism exists only in the helpers:
//
//   - [Loopback]: a mutex-and-condition single-slot cell connecting a
//     consumer to a source across goroutines
//   - [Split]: a mutex-wrapped consumer that multiple producers feed one
//     chunk at a time, linearizably
//
// There is no cancellation primitive: delivering eof is this engine's
// analogue of cancellation, after which an Iter resolves in a bounded
// number of steps.
//
// # Example
//
//	src := iterio.MkInum[iterio.Bytes](next) // some Codec[Nil, Bytes]
//	result, err := iterio.Pipe(src, iterio.AllI[iterio.Bytes]())
package iterio
