package demo

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProgram_Output(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultProgram().Run(&buf))

	want := strings.Join([]string{
		"Hello, world!",
		"1", "2", "3", "4", "5",
		"10",
		"30",
		"0", "1", "2", "3", "4",
		"25",
	}, "\n") + "\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultProgram_LineCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultProgram().Run(&buf))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"), "output must end with a newline")
	assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 14)
}

func TestRunner_StopsAtFirstError(t *testing.T) {
	r := NewRunner(
		TextStep{Text: "before"},
		LookupStep{Entries: map[string]int{"key1": 10}, Key: "missing"},
		TextStep{Text: "after"},
	)

	var buf bytes.Buffer
	err := r.Run(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "step 2 (lookup)")
	assert.Equal(t, "before\n", buf.String(), "nothing after the failing step may be written")
}

func TestRunner_EmptyProgram(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRunner().Run(&buf))
	assert.Empty(t, buf.String())
}

// failingWriter errors after n successful writes.
type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, fmt.Errorf("sink closed")
	}
	w.n--
	return len(p), nil
}

func TestRunner_SinkErrorPropagates(t *testing.T) {
	r := NewRunner(SequenceStep{Values: []int{1, 2, 3}})
	err := r.Run(&failingWriter{n: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (sequence)")
}
