// Package diff computes line-level diffs between the original and fixed
// contents of a file, for preview before a fix is applied.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType classifies a diff line.
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line is a single line in the diff.
type Line struct {
	// OldNum and NewNum are 1-based line numbers; -1 when the line does
	// not exist on that side.
	OldNum  int
	NewNum  int
	Content string
	Type    LineType
}

// Hunk is a contiguous group of changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff holds all changes between two versions of a file.
type FileDiff struct {
	Path  string
	Hunks []Hunk
}

// HasChanges reports whether the diff contains any added or removed line.
func (d *FileDiff) HasChanges() bool {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			if l.Type != LineContext {
				return true
			}
		}
	}
	return false
}

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// Compute diffs oldContent against newContent line by line. The line-level
// reduction avoids newline boundary artifacts when converting character
// diffs back to line operations.
func Compute(path, oldContent, newContent string) *FileDiff {
	fd := &FileDiff{Path: path}
	if oldContent == newContent {
		return fd
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	fd.Hunks = groupIntoHunks(toLines(diffs))
	return fd
}

// toLines flattens diffmatchpatch diffs into per-line records with both
// side line numbers tracked.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	oldNum, newNum := 1, 1

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" && d.Text != "\n" {
			continue
		}
		for _, content := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Line{OldNum: oldNum, NewNum: newNum, Content: content, Type: LineContext})
				oldNum++
				newNum++
			case diffmatchpatch.DiffDelete:
				out = append(out, Line{OldNum: oldNum, NewNum: -1, Content: content, Type: LineRemoved})
				oldNum++
			case diffmatchpatch.DiffInsert:
				out = append(out, Line{OldNum: -1, NewNum: newNum, Content: content, Type: LineAdded})
				newNum++
			}
		}
	}
	return out
}

// groupIntoHunks splits the flat line list into hunks, keeping at most
// contextLines unchanged lines on either side of each change run.
func groupIntoHunks(lines []Line) []Hunk {
	var hunks []Hunk
	var current *Hunk
	lastChange := -1

	for i, line := range lines {
		if line.Type != LineContext {
			if current == nil {
				current = &Hunk{}
				start := i - contextLines
				if start < 0 {
					start = 0
				}
				for j := start; j < i; j++ {
					current.Lines = append(current.Lines, lines[j])
				}
			}
			lastChange = i
		}

		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, line)

		if line.Type == LineContext && i-lastChange >= contextLines {
			// Close the hunk unless another change follows within reach.
			if !changeWithin(lines, i+1, contextLines) {
				hunks = append(hunks, finishHunk(current))
				current = nil
			}
		}
	}

	if current != nil {
		hunks = append(hunks, finishHunk(current))
	}
	return hunks
}

func changeWithin(lines []Line, from, n int) bool {
	for i := from; i < len(lines) && i < from+n; i++ {
		if lines[i].Type != LineContext {
			return true
		}
	}
	return false
}

func finishHunk(h *Hunk) Hunk {
	for _, l := range h.Lines {
		if l.Type != LineAdded {
			if h.OldStart == 0 {
				h.OldStart = l.OldNum
			}
			h.OldCount++
		}
		if l.Type != LineRemoved {
			if h.NewStart == 0 {
				h.NewStart = l.NewNum
			}
			h.NewCount++
		}
	}
	return *h
}
