// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

// Codec-driven enumerator construction.
//
// A Codec is the stateful step function behind an enumerator: each
// invocation yields a computation over the outer stream that produces one
// unit of transcoded output, either with a continuation codec for more
// output or as the final unit. MkInum turns a codec into an Inum by
// driving it against an inner consumer.

// CodecR is one codec step result: output data plus the continuation
// codec. A nil More marks the final output — the enumerator completes
// after delivering Data.
type CodecR[I ChunkData[I], O ChunkData[O]] struct {
	Data O
	More Codec[I, O]
}

// Codec produces transcoded output on demand. The returned computation
// consumes the outer stream; it may fail with a no-parse error to stop the
// enumerator cleanly, with [EOFError] in particular signalling the true
// upstream end.
type Codec[I ChunkData[I], O ChunkData[O]] func() Iter[I, CodecR[I, O]]

// MkInum builds an enumerator from a codec. Control requests from the
// inner consumer propagate to the enclosing enumerator; use [MkInumC] to
// service them.
func MkInum[A any, I ChunkData[I], O ChunkData[O]](codec Codec[I, O]) Inum[I, O, A] {
	return MkInumC[A](codec, PassCtl)
}

// MkInumC builds an enumerator from a codec and a control handler.
//
// The drive loop obtains codec output whenever the inner consumer requests
// input, feeds it in, and continues with the codec's successor. A codec
// no-parse failure stops the enumerator cleanly: the consumer is handed
// back untouched, with unconsumed outer input rewound, so a concatenated
// enumerator can continue it. Any other codec failure yields a transcoder
// fault retaining the consumer for resumption. Once the codec reports the
// true upstream end, the loop stops requesting output and feeds the
// consumer empty eof chunks until it resolves — except that a control
// exchange serviced with a result re-enables exactly one more codec cycle,
// which is what lets a late seek unblock a consumer that would otherwise
// be forced to terminate.
func MkInumC[A any, I ChunkData[I], O ChunkData[O]](codec Codec[I, O], h CtlHandler) Inum[I, O, A] {
	return func(it Iter[O, A]) Iter[I, Iter[O, A]] {
		return inumRun(codec, h, it, false, 0)
	}
}

// inumRun is the codec drive loop. forced marks the eof-forcing mode
// entered at the true upstream end; grace counts real-data codec cycles
// granted by a successful control exchange while forced.
func inumRun[A any, I ChunkData[I], O ChunkData[O]](
	codec Codec[I, O], h CtlHandler, it Iter[O, A], forced bool, grace int,
) Iter[I, Iter[O, A]] {
	for {
		switch v := it.(type) {
		case *Effect[O, A]:
			it = v.Action()
		case *Control[O, A]:
			req := v.Req
			if res, handled := h(req.Op); handled {
				ok := res != nil
				if forced && ok {
					grace = 1
				}
				it = req.K(res, ok)
				continue
			}
			// Declined: re-raise the request at the outer type so the
			// next enclosing enumerator can service it.
			fc, gc := forced, grace
			return &Control[I, Iter[O, A]]{Req: &CtlReq[I, Iter[O, A]]{
				Op: req.Op,
				K: func(res CtlRes, ok bool) Iter[I, Iter[O, A]] {
					g := gc
					if fc && ok {
						g = 1
					}
					return inumRun(codec, h, req.K(res, ok), fc, g)
				},
			}}
		case *NeedInput[O, A]:
			if forced && grace == 0 {
				it = Step[O, A](v, ChunkEOF[O]())
				continue
			}
			if forced {
				grace--
			}
			inner, wasForced := it, forced
			return Bind(tryCodec(codec()), func(r codecTry[I, O]) Iter[I, Iter[O, A]] {
				if r.err != nil {
					if r.fatal {
						return &InumFail[I, Iter[O, A]]{Err: r.err, Inner: inner}
					}
					if r.eof {
						return inumRun(codec, h, inner, true, 0)
					}
					return &Done[I, Iter[O, A]]{Value: inner, Leftover: emptyChunk[I]()}
				}
				next := Step[O, A](inner, Chunk[O]{Data: r.out.Data})
				if r.out.More == nil {
					return &Done[I, Iter[O, A]]{Value: next, Leftover: emptyChunk[I]()}
				}
				return inumRun(r.out.More, h, next, wasForced, 0)
			})
		default:
			// Done, Fail, InumFail: stop driving immediately.
			return &Done[I, Iter[O, A]]{Value: it, Leftover: emptyChunk[I]()}
		}
	}
}

// codecTry is the outcome of one guarded codec invocation.
type codecTry[I ChunkData[I], O ChunkData[O]] struct {
	out   CodecR[I, O]
	err   error // non-nil when the codec failed
	fatal bool  // the failure is not a recoverable stop
	eof   bool  // the failure was the true upstream end
}

// tryCodec runs one codec step under input buffering. No-parse failures
// stop cleanly with the buffered outer input rewound; other failures are
// reported fatal.
func tryCodec[I ChunkData[I], O ChunkData[O]](ci Iter[I, CodecR[I, O]]) Iter[I, codecTry[I, O]] {
	return Bind(copyInput(ci), func(pc inputCopy[I, CodecR[I, O]]) Iter[I, codecTry[I, O]] {
		switch v := pc.Result.(type) {
		case *Done[I, CodecR[I, O]]:
			return &Done[I, codecTry[I, O]]{Value: codecTry[I, O]{out: v.Value}, Leftover: v.Leftover}
		case *Fail[I, CodecR[I, O]]:
			if IsNoParse(v.Err) {
				return &Done[I, codecTry[I, O]]{
					Value:    codecTry[I, O]{err: v.Err, eof: isEOF(v.Err)},
					Leftover: pc.Input,
				}
			}
			return &Done[I, codecTry[I, O]]{
				Value:    codecTry[I, O]{err: v.Err, fatal: true},
				Leftover: emptyChunk[I](),
			}
		default:
			err := pc.Result.(*InumFail[I, CodecR[I, O]]).Err
			return &Done[I, codecTry[I, O]]{
				Value:    codecTry[I, O]{err: err, fatal: true},
				Leftover: emptyChunk[I](),
			}
		}
	})
}
