// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	iterio "github.com/vendethiel/iterIO"
)

// word consumes data and succeeds only if it starts with the given prefix,
// returning the prefix and ungetting the surplus.
func word(prefix string) iterio.Iter[iterio.Bytes, string] {
	return iterio.Bind(iterio.DataI[iterio.Bytes](), func(d iterio.Bytes) iterio.Iter[iterio.Bytes, string] {
		if !strings.HasPrefix(string(d), prefix) {
			return iterio.ExpectedI[iterio.Bytes, string](string(d), prefix)
		}
		return iterio.Then(iterio.Unget[iterio.Bytes](d[len(prefix):]), iterio.Pure[iterio.Bytes](prefix))
	})
}

// --- TryI ---

func TestTryISuccess(t *testing.T) {
	m := iterio.TryI(iterio.Step(word("ab"), feed("abc")))
	r, err := iterio.Run(m)
	require.NoError(t, err)
	v, ok := r.GetRight()
	require.True(t, ok)
	require.Equal(t, "ab", v)
}

func TestTryIFailureCarriesState(t *testing.T) {
	m := iterio.TryI(iterio.Step(word("xy"), feed("abc")))
	r, err := iterio.Run(m)
	require.NoError(t, err)
	fail, ok := r.GetLeft()
	require.True(t, ok)
	var e *iterio.Expected
	require.ErrorAs(t, fail.Err, &e)
	require.Equal(t, []string{"xy"}, e.Wanted)
	require.NotNil(t, fail.Iter)
}

// --- TryBI / CatchBI ---

func TestTryBIRewindsOnMatch(t *testing.T) {
	// word("xy") consumes "abc" before failing; the buffered variant must
	// hand the same bytes to the continuation.
	m := iterio.Bind(iterio.TryBI[*iterio.Expected](word("xy")),
		func(r iterio.Either[*iterio.Expected, string]) iterio.Iter[iterio.Bytes, string] {
			if _, failed := r.GetLeft(); failed {
				return iterio.Map(iterio.AllI[iterio.Bytes](), func(b iterio.Bytes) string { return string(b) })
			}
			v, _ := r.GetRight()
			return iterio.Pure[iterio.Bytes](v)
		})
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "abc", got, "stream must be byte-identical after rewind")
}

func TestTryBIPropagatesNonMatching(t *testing.T) {
	boom := errors.New("boom")
	m := iterio.TryBI[*iterio.Expected](iterio.Throw[iterio.Bytes, string](boom))
	_, err := iterio.Run(m)
	require.ErrorIs(t, err, boom)
}

func TestTryBISuccessKeepsConsumption(t *testing.T) {
	m := iterio.Bind(iterio.TryBI[*iterio.Expected](word("ab")),
		func(r iterio.Either[*iterio.Expected, string]) iterio.Iter[iterio.Bytes, string] {
			v, ok := r.GetRight()
			require.True(t, ok)
			return iterio.Map(iterio.AllI[iterio.Bytes](), func(rest iterio.Bytes) string {
				return v + "|" + string(rest)
			})
		})
	got, err := iterio.Run(iterio.Step(m, feed("abcd")))
	require.NoError(t, err)
	require.Equal(t, "ab|cd", got)
}

func TestCatchBIHandlerSeesRewoundInput(t *testing.T) {
	m := iterio.CatchBI(word("xy"), func(e *iterio.Expected) iterio.Iter[iterio.Bytes, string] {
		return iterio.Map(iterio.AllI[iterio.Bytes](), func(b iterio.Bytes) string { return string(b) })
	})
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestCatchIHandlerGetsTypedError(t *testing.T) {
	var caught *iterio.Expected
	m := iterio.CatchI(word("xy"), func(e *iterio.Expected, _ iterio.Iter[iterio.Bytes, string]) iterio.Iter[iterio.Bytes, string] {
		caught = e
		return iterio.Pure[iterio.Bytes]("recovered")
	})
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "recovered", got)
	require.NotNil(t, caught)
	require.Equal(t, "abc", caught.Saw)
}

func TestCatchIOtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	m := iterio.CatchI(iterio.Throw[iterio.Bytes, string](boom),
		func(*iterio.Expected, iterio.Iter[iterio.Bytes, string]) iterio.Iter[iterio.Bytes, string] {
			t.Fatal("handler must not run for non-matching errors")
			return nil
		})
	_, err := iterio.Run(m)
	require.ErrorIs(t, err, boom)
}

// --- IfParse ---

func TestIfParseTakesYesBranch(t *testing.T) {
	m := iterio.IfParse(word("ab"),
		func(v string) iterio.Iter[iterio.Bytes, string] {
			return iterio.Pure[iterio.Bytes]("yes:" + v)
		},
		iterio.Pure[iterio.Bytes]("no"))
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "yes:ab", got)
}

func TestIfParseRewindsForNoBranch(t *testing.T) {
	m := iterio.IfParse(word("xy"),
		func(string) iterio.Iter[iterio.Bytes, string] {
			t.Fatal("yes branch must not run")
			return nil
		},
		iterio.Map(iterio.AllI[iterio.Bytes](), func(b iterio.Bytes) string { return string(b) }))
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestIfParseMergesExpected(t *testing.T) {
	m := iterio.IfParse(word("xy"),
		func(v string) iterio.Iter[iterio.Bytes, string] { return iterio.Pure[iterio.Bytes](v) },
		word("pq"))
	_, err := iterio.Run(iterio.Step(m, feed("abc")))
	var e *iterio.Expected
	require.ErrorAs(t, err, &e)
	require.Equal(t, []string{"xy", "pq"}, e.Wanted, "diagnostics from both branches")
}

func TestIfParseNonNoParsePropagates(t *testing.T) {
	boom := errors.New("boom")
	m := iterio.IfParse(iterio.Throw[iterio.Bytes, string](boom),
		func(v string) iterio.Iter[iterio.Bytes, string] { return iterio.Pure[iterio.Bytes](v) },
		iterio.Pure[iterio.Bytes]("no"))
	_, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.ErrorIs(t, err, boom)
}

// --- MultiParse ---

func TestMultiParseFirstWins(t *testing.T) {
	m := iterio.MultiParse(word("ab"), word("abc"))
	got, err := iterio.Run(iterio.Step(m, feed("abcd")))
	require.NoError(t, err)
	require.Equal(t, "ab", got)
}

func TestMultiParseSecondContinues(t *testing.T) {
	m := iterio.MultiParse(word("xy"), word("ab"))
	got, err := iterio.Run(iterio.Step(m, feed("abc")))
	require.NoError(t, err)
	require.Equal(t, "ab", got)
}

func TestMultiParseLockstepAcrossChunks(t *testing.T) {
	// Both alternatives need several chunks; neither is buffered while both
	// remain in lockstep.
	m := iterio.MultiParse(twoChunkWord("xx", "yy"), twoChunkWord("aa", "bb"))
	it := iterio.Step(m, feed("aa"))
	it = iterio.Step(it, feed("bb"))
	got, err := iterio.Run(it)
	require.NoError(t, err)
	require.Equal(t, "aabb", got)
}

func TestMultiParseMergesBothFailures(t *testing.T) {
	m := iterio.MultiParse(word("xy"), word("pq"))
	_, err := iterio.Run(iterio.Step(m, feed("abc")))
	var e *iterio.Expected
	require.ErrorAs(t, err, &e)
	require.Equal(t, []string{"xy", "pq"}, e.Wanted)
}

// twoChunkWord matches first then second as two successive data units.
func twoChunkWord(first, second string) iterio.Iter[iterio.Bytes, string] {
	return iterio.Bind(word(first), func(a string) iterio.Iter[iterio.Bytes, string] {
		return iterio.Map(word(second), func(b string) string { return a + b })
	})
}
