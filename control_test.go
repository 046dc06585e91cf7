// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio_test

import (
	"errors"
	"testing"

	iterio "github.com/vendethiel/iterIO"
)

// tellOr runs TellI and unwraps the result, defaulting to -1.
func tellOr() iterio.Iter[iterio.Bytes, int64] {
	return iterio.Map(iterio.TellI[iterio.Bytes](), func(o iterio.Option[int64]) int64 {
		if v, ok := o.Get(); ok {
			return v
		}
		return -1
	})
}

func emptySource() iterio.Codec[iterio.Nil, iterio.Bytes] {
	return partsCodec(nil, &iterio.EOFError{})
}

// --- CtlI ---

func TestCtlIHandled(t *testing.T) {
	h := iterio.HandleCtl(func(iterio.Tell) (int64, bool) { return 42, true })
	got, err := iterio.Pipe(iterio.MkInumC[int64](emptySource(), h), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestCtlIUnhandledResolvesToNone(t *testing.T) {
	got, err := iterio.Pipe(iterio.MkInum[int64](emptySource()), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1 for an unhandled request", got)
	}
}

func TestHandleCtlResolveWithoutValue(t *testing.T) {
	h := iterio.HandleCtl(func(iterio.Tell) (int64, bool) { return 0, false })
	got, err := iterio.Pipe(iterio.MkInumC[int64](emptySource(), h), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1: handler resolved with no result", got)
	}
}

func TestCtlErrorOnWrongResultType(t *testing.T) {
	bad := func(iterio.CtlArg) (iterio.CtlRes, bool) { return "not an int64", true }
	_, err := iterio.Pipe(iterio.MkInumC[int64](emptySource(), bad), tellOr())
	var e *iterio.CtlError
	if !errors.As(err, &e) {
		t.Fatalf("expected CtlError, got %v", err)
	}
}

// --- Dispatch ---

func TestChainCtlFirstMatchWins(t *testing.T) {
	seeks := 0
	h := iterio.ChainCtl(
		iterio.HandleCtl(func(iterio.Seek) (struct{}, bool) { seeks++; return struct{}{}, true }),
		iterio.HandleCtl(func(iterio.Tell) (int64, bool) { return 7, true }),
	)
	consumer := iterio.Bind(iterio.SeekI[iterio.Bytes](3), func(serviced bool) iterio.Iter[iterio.Bytes, int64] {
		if !serviced {
			return iterio.Throwf[iterio.Bytes, int64]("seek not serviced")
		}
		return tellOr()
	})
	got, err := iterio.Pipe(iterio.MkInumC[int64](emptySource(), h), consumer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if seeks != 1 {
		t.Fatalf("seek handler ran %d times, want 1", seeks)
	}
}

func TestChainCtlUnmatchedDeclines(t *testing.T) {
	h := iterio.ChainCtl(
		iterio.HandleCtl(func(iterio.Seek) (struct{}, bool) { return struct{}{}, true }),
	)
	got, err := iterio.Pipe(iterio.MkInumC[int64](emptySource(), h), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1: Tell has no handler in the chain", got)
	}
}

func TestRejectCtlAnswersNoResultWithoutPropagating(t *testing.T) {
	// The outer layer could answer Tell, but the inner layer rejects it
	// first. Offsets are meaningless across a transcoding boundary.
	outer := iterio.MkInumC[iterio.Iter[iterio.Bytes, int64]](
		partsCodec([]string{"ab"}, &iterio.EOFError{}),
		iterio.HandleCtl(func(iterio.Tell) (int64, bool) { return 99, true }),
	)
	inner := iterio.MkInumC[int64](upperCodec(), iterio.RejectCtl)
	got, err := iterio.Pipe(iterio.FuseInum(outer, inner), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1: the rejecting layer must shadow the outer handler", got)
	}
}

// --- Propagation ---

func TestCtlPropagatesThroughPassingLayer(t *testing.T) {
	outer := iterio.MkInumC[iterio.Iter[iterio.Bytes, int64]](
		partsCodec([]string{"ab"}, &iterio.EOFError{}),
		iterio.HandleCtl(func(iterio.Tell) (int64, bool) { return 42, true }),
	)
	inner := iterio.MkInum[int64](upperCodec())
	got, err := iterio.Pipe(iterio.FuseInum(outer, inner), tellOr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42: the request must cross the passing layer", got)
	}
}

func TestCtlRequestDuringStreaming(t *testing.T) {
	// Interleave data consumption with a control exchange.
	h := iterio.HandleCtl(func(iterio.Size) (int64, bool) { return 4, true })
	consumer := iterio.Bind(iterio.DataI[iterio.Bytes](), func(d iterio.Bytes) iterio.Iter[iterio.Bytes, string] {
		return iterio.Bind(iterio.SizeI[iterio.Bytes](), func(o iterio.Option[int64]) iterio.Iter[iterio.Bytes, string] {
			total, _ := o.Get()
			return iterio.Map(iterio.AllI[iterio.Bytes](), func(rest iterio.Bytes) string {
				if int64(len(d)+len(rest)) != total {
					return "size mismatch"
				}
				return string(d) + string(rest)
			})
		})
	})
	src := iterio.MkInumC[string](partsCodec([]string{"ab", "cd"}, &iterio.EOFError{}), h)
	got, err := iterio.Pipe(src, consumer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abcd" {
		t.Fatalf("got %q, want %q", got, "abcd")
	}
}

// --- Request constructors ---

func TestSeekIReportsUnserviced(t *testing.T) {
	got, err := iterio.Run(iterio.SeekI[iterio.Bytes](10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatal("a seek with no handler anywhere must report unserviced")
	}
}

func TestSeekICarriesOffset(t *testing.T) {
	var gotOffset int64 = -1
	h := iterio.HandleCtl(func(s iterio.Seek) (struct{}, bool) {
		gotOffset = s.Offset
		return struct{}{}, true
	})
	ok, err := iterio.Pipe(iterio.MkInumC[bool](emptySource(), h), iterio.SeekI[iterio.Bytes](17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || gotOffset != 17 {
		t.Fatalf("got (serviced=%v, offset=%d), want (true, 17)", ok, gotOffset)
	}
}
