package demo

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStep(t *testing.T, s Step) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, s.Run(&buf))
	return buf.String()
}

func TestTextStep(t *testing.T) {
	assert.Equal(t, "Hello, world!\n", runStep(t, TextStep{Text: "Hello, world!"}))
}

func TestSequenceStep_VisitsEachOnceInOrder(t *testing.T) {
	out := runStep(t, SequenceStep{Values: []int{1, 2, 3, 4, 5}})
	assert.Equal(t, "1\n2\n3\n4\n5\n", out)
}

func TestSequenceStep_Empty(t *testing.T) {
	assert.Empty(t, runStep(t, SequenceStep{}))
}

func TestLookupStep(t *testing.T) {
	entries := map[string]int{"key1": 10, "key2": 20}

	t.Run("present keys", func(t *testing.T) {
		assert.Equal(t, "10\n", runStep(t, LookupStep{Entries: entries, Key: "key1"}))
		assert.Equal(t, "20\n", runStep(t, LookupStep{Entries: entries, Key: "key2"}))
	})

	t.Run("absent key fails", func(t *testing.T) {
		var buf bytes.Buffer
		err := LookupStep{Entries: entries, Key: "key3"}.Run(&buf)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Contains(t, err.Error(), `"key3"`)
		assert.Empty(t, buf.String(), "a failed lookup must not write")
	})

	t.Run("nil map fails", func(t *testing.T) {
		err := LookupStep{Key: "key1"}.Run(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestAdd(t *testing.T) {
	assert.Equal(t, 30, Add(10, 20))

	// Sum property over a spread of representable pairs.
	cases := [][2]int{{0, 0}, {-1, 1}, {7, -13}, {1 << 30, 1 << 2}, {-(1 << 40), 1 << 40}}
	for _, c := range cases {
		assert.Equal(t, c[0]+c[1], Add(c[0], c[1]))
		assert.Equal(t, Add(c[0], c[1]), Add(c[1], c[0]), "addition is commutative")
	}
}

func TestSquare(t *testing.T) {
	assert.Equal(t, 25, Square(5))

	for _, x := range []int{0, 1, -1, 12, -12, 1 << 20} {
		assert.Equal(t, x*x, Square(x))
		assert.GreaterOrEqual(t, Square(x), 0)
	}
}

func TestBinaryOpStep(t *testing.T) {
	assert.Equal(t, "30\n", runStep(t, BinaryOpStep{Fn: Add, A: 10, B: 20}))

	err := BinaryOpStep{A: 1, B: 2}.Run(&bytes.Buffer{})
	assert.Error(t, err, "unbound function must fail")
}

func TestUnaryOpStep(t *testing.T) {
	assert.Equal(t, "25\n", runStep(t, UnaryOpStep{Fn: Square, X: 5}))

	err := UnaryOpStep{X: 5}.Run(&bytes.Buffer{})
	assert.Error(t, err, "unbound function must fail")
}

func TestCountStep(t *testing.T) {
	t.Run("default range", func(t *testing.T) {
		out := runStep(t, CountStep{Start: 0, End: 5})
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		require.Len(t, lines, 5)
		for i, line := range lines {
			v, err := strconv.Atoi(line)
			require.NoError(t, err)
			assert.Equal(t, i, v)
			assert.Less(t, v, 5)
			assert.GreaterOrEqual(t, v, 0)
		}
	})

	t.Run("empty range", func(t *testing.T) {
		assert.Empty(t, runStep(t, CountStep{Start: 3, End: 3}))
	})

	t.Run("inverted range", func(t *testing.T) {
		assert.Empty(t, runStep(t, CountStep{Start: 5, End: 0}))
	})
}
