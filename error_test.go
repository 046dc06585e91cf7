// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio_test

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	iterio "github.com/vendethiel/iterIO"
)

// --- Taxonomy ---

func TestEOFErrorMessage(t *testing.T) {
	require.EqualError(t, &iterio.EOFError{}, "unexpected end of stream")
	require.EqualError(t, &iterio.EOFError{Op: "DataI"}, "DataI: unexpected end of stream")
}

func TestExpectedMessage(t *testing.T) {
	require.EqualError(t,
		&iterio.Expected{Saw: "xyz", Wanted: []string{"digit", "sign"}},
		"expected digit or sign, saw xyz")
	require.EqualError(t,
		&iterio.Expected{Wanted: []string{"digit"}},
		"expected digit")
}

func TestParseErrorMessage(t *testing.T) {
	require.EqualError(t, &iterio.ParseError{Msg: "bad frame"}, "bad frame")
}

func TestCtlErrorMessage(t *testing.T) {
	err := &iterio.CtlError{Op: iterio.Tell{}, Res: "nope"}
	require.EqualError(t, err, "control result type mismatch for iterio.Tell: got string")
}

func TestIsNoParse(t *testing.T) {
	require.True(t, iterio.IsNoParse(&iterio.EOFError{}))
	require.True(t, iterio.IsNoParse(&iterio.Expected{Wanted: []string{"x"}}))
	require.True(t, iterio.IsNoParse(&iterio.ParseError{Msg: "m"}))
	require.False(t, iterio.IsNoParse(&iterio.CtlError{}))
	require.False(t, iterio.IsNoParse(pkgerrors.New("plain")))
}

func TestIsNoParseThroughWrapping(t *testing.T) {
	wrapped := pkgerrors.WithMessage(&iterio.ParseError{Msg: "inner"}, "while decoding header")
	require.True(t, iterio.IsNoParse(wrapped), "classification must see through wrapping")
}

func TestExpectedIFails(t *testing.T) {
	_, err := iterio.Run(iterio.ExpectedI[iterio.Bytes, int]("got-this", "a", "b"))
	var e *iterio.Expected
	require.ErrorAs(t, err, &e)
	require.Equal(t, "got-this", e.Saw)
	require.Equal(t, []string{"a", "b"}, e.Wanted)
}

// --- Either ---

func TestEitherAccessors(t *testing.T) {
	r := iterio.Right[error](41)
	require.True(t, r.IsRight())
	require.False(t, r.IsLeft())
	v, ok := r.GetRight()
	require.True(t, ok)
	require.Equal(t, 41, v)
	_, ok = r.GetLeft()
	require.False(t, ok)

	l := iterio.Left[string, int]("oops")
	require.True(t, l.IsLeft())
	e, ok := l.GetLeft()
	require.True(t, ok)
	require.Equal(t, "oops", e)
}

func TestMatchEither(t *testing.T) {
	double := func(x int) int { return x * 2 }
	negate := func(string) int { return -1 }
	require.Equal(t, 10, iterio.MatchEither(iterio.Right[string](5), negate, double))
	require.Equal(t, -1, iterio.MatchEither(iterio.Left[string, int]("e"), negate, double))
}

// --- Option ---

func TestOptionAccessors(t *testing.T) {
	s := iterio.Some("v")
	require.True(t, s.IsSome())
	v, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, "v", v)

	n := iterio.None[string]()
	require.False(t, n.IsSome())
	_, ok = n.Get()
	require.False(t, ok)
}
