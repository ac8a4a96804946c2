// Package source holds the position types shared by the Java declaration tree
// and the markup tree. Lines and columns are zero based; columns count bytes.
package source

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

type Position struct {
	Line   int
	Column int
}

func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) IsZero() bool {
	return s == Span{}
}

// Contains reports whether pos lies within the span. The end position is
// inclusive so that a cursor placed right after the last character still
// counts as inside.
func (s Span) Contains(pos Position) bool {
	if pos.Before(s.Start) {
		return false
	}
	return !s.End.Before(pos)
}

// LineIndex converts byte offsets into positions and back.
type LineIndex struct {
	content []byte
	starts  []int
	size    int
}

func NewLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{content: content, starts: starts, size: len(content)}
}

func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return Position{Line: line, Column: offset - li.starts[line]}
}

func (li *LineIndex) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(li.starts) {
		return li.size
	}
	off := li.starts[pos.Line] + pos.Column
	if off > li.size {
		return li.size
	}
	return off
}

func (li *LineIndex) Span(start, end int) Span {
	return Span{Start: li.Position(start), End: li.Position(end)}
}

// lineEnd returns the offset of the newline ending line, or the size of the
// content for the last line.
func (li *LineIndex) lineEnd(line int) int {
	if line+1 < len(li.starts) {
		return li.starts[line+1] - 1
	}
	return li.size
}

// ToUTF16 converts the byte column of pos to UTF-16 code units. Columns past
// the end of the line are clamped to it.
func (li *LineIndex) ToUTF16(pos Position) Position {
	if pos.Line < 0 || pos.Line >= len(li.starts) {
		return pos
	}
	start := li.starts[pos.Line]
	end := li.Offset(pos)
	if e := li.lineEnd(pos.Line); end > e {
		end = e
	}
	col := 0
	for _, r := range string(li.content[start:end]) {
		col += utf16.RuneLen(r)
	}
	return Position{Line: pos.Line, Column: col}
}

// FromUTF16 converts a column counted in UTF-16 code units to bytes. A
// column inside a surrogate pair moves past the character.
func (li *LineIndex) FromUTF16(pos Position) Position {
	if pos.Line < 0 || pos.Line >= len(li.starts) {
		return pos
	}
	start, end := li.starts[pos.Line], li.lineEnd(pos.Line)
	off, units := start, 0
	for off < end && units < pos.Column {
		r, n := utf8.DecodeRune(li.content[off:end])
		units += utf16.RuneLen(r)
		off += n
	}
	return Position{Line: pos.Line, Column: off - start}
}
