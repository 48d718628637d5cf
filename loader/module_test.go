package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineWriterSplitsLines(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	w.Write([]byte("hello\nwor"))
	assert.Equal(t, []string{"hello"}, lines)

	w.Write([]byte("ld\n"))
	assert.Equal(t, []string{"hello", "world"}, lines)
}

func TestLineWriterManyLinesInOneWrite(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	w.Write([]byte("a\nb\nc\n"))
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestLineWriterEmptyLines(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	w.Write([]byte("\n\nx\n"))
	assert.Equal(t, []string{"", "", "x"}, lines)
}

func TestLineWriterHoldsPartialLine(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	n, err := w.Write([]byte("no newline yet"))
	assert.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.Empty(t, lines)
}
