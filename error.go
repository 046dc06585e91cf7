// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy.
//
// Two top-level categories exist at the Iter level: [Fail] (the consumer
// itself faulted) and [InumFail] (an enclosing transcoder faulted while the
// consumer is still alive). Within consumer faults, the recoverable
// "no-parse" family below is what the backtracking combinators catch and
// combine; anything else is catchable by type but carries no recovery
// contract.

// NoParse marks the recoverable parse-failure family: end of stream while
// more input was required, an expected-token mismatch, or a free-form parse
// error. The interface is sealed; [IsNoParse] matches through wrapping.
type NoParse interface {
	error
	noParse() // unexported marker method
}

// EOFError reports end of stream while more input was required.
// Op optionally names the operation for diagnostics; it is carried on the
// value rather than read from any process-global state.
type EOFError struct {
	Op string
}

func (e *EOFError) noParse() {}

// Error implements error.
func (e *EOFError) Error() string {
	if e.Op == "" {
		return "unexpected end of stream"
	}
	return e.Op + ": unexpected end of stream"
}

// Expected reports an expected-token mismatch: what was seen, and the list
// of alternatives that were acceptable at that point. The backtracking
// combinators merge Wanted lists across failed alternatives.
type Expected struct {
	Saw    string
	Wanted []string
}

func (e *Expected) noParse() {}

// Error implements error.
func (e *Expected) Error() string {
	if e.Saw == "" {
		return "expected " + strings.Join(e.Wanted, " or ")
	}
	return fmt.Sprintf("expected %s, saw %s", strings.Join(e.Wanted, " or "), e.Saw)
}

// ParseError is a free-form recoverable parse failure.
type ParseError struct {
	Msg string
}

func (e *ParseError) noParse() {}

// Error implements error.
func (e *ParseError) Error() string { return e.Msg }

// CtlError reports a control request whose handler resolved it with a value
// of the wrong result type. This is a programming error in the handler:
// each request type is associated with exactly one result type.
type CtlError struct {
	Op  CtlArg
	Res CtlRes
}

// Error implements error.
func (e *CtlError) Error() string {
	return fmt.Sprintf("control result type mismatch for %T: got %T", e.Op, e.Res)
}

// IsNoParse reports whether err belongs to the recoverable no-parse family.
func IsNoParse(err error) bool {
	var np NoParse
	return errors.As(err, &np)
}

// isEOF reports whether err is (or wraps) an end-of-stream failure.
func isEOF(err error) bool {
	var e *EOFError
	return errors.As(err, &e)
}

// ExpectedI fails with an expected-token mismatch.
func ExpectedI[T ChunkData[T], A any](saw string, wanted ...string) Iter[T, A] {
	return &Fail[T, A]{Err: &Expected{Saw: saw, Wanted: wanted}}
}

// Either represents a value that is either Left (error) or Right (success).
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

// Left creates a Left (error) value.
func Left[E, A any](e E) Either[E, A] {
	return Either[E, A]{isRight: false, left: e}
}

// Right creates a Right (success) value.
func Right[E, A any](a A) Either[E, A] {
	return Either[E, A]{isRight: true, right: a}
}

// IsRight returns true if this is a Right value.
func (e Either[E, A]) IsRight() bool { return e.isRight }

// IsLeft returns true if this is a Left value.
func (e Either[E, A]) IsLeft() bool { return !e.isRight }

// GetRight returns the Right value and true, or zero and false.
func (e Either[E, A]) GetRight() (A, bool) {
	if e.isRight {
		return e.right, true
	}
	var zero A
	return zero, false
}

// GetLeft returns the Left value and true, or zero and false.
func (e Either[E, A]) GetLeft() (E, bool) {
	if !e.isRight {
		return e.left, true
	}
	var zero E
	return zero, false
}

// MatchEither pattern matches on the Either, calling onLeft or onRight.
func MatchEither[E, A, R any](e Either[E, A], onLeft func(E) R, onRight func(A) R) R {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// Option represents an optional value.
type Option[A any] struct {
	value A
	ok    bool
}

// Some creates a present Option.
func Some[A any](a A) Option[A] {
	return Option[A]{value: a, ok: true}
}

// None creates an absent Option.
func None[A any]() Option[A] {
	return Option[A]{}
}

// IsSome reports whether the Option holds a value.
func (o Option[A]) IsSome() bool { return o.ok }

// Get returns the value and true, or zero and false.
func (o Option[A]) Get() (A, bool) {
	if o.ok {
		return o.value, true
	}
	var zero A
	return zero, false
}
