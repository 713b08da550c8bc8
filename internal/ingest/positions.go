package ingest

import (
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
)

// lineIndex converts SCIP line/character positions into byte offsets.
type lineIndex struct {
	text     string
	starts   []int
	encoding scippb.PositionEncoding
}

func newLineIndex(text string, encoding scippb.PositionEncoding) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts, encoding: encoding}
}

// span converts a SCIP range ([line, startChar, endChar] or
// [startLine, startChar, endLine, endChar]) into a byte offset and length.
func (li *lineIndex) span(r []int32) (start, length int, ok bool) {
	var startLine, startChar, endLine, endChar int32
	switch len(r) {
	case 3:
		startLine, startChar, endLine, endChar = r[0], r[1], r[0], r[2]
	case 4:
		startLine, startChar, endLine, endChar = r[0], r[1], r[2], r[3]
	default:
		return 0, 0, false
	}

	start, ok = li.offset(int(startLine), int(startChar))
	if !ok {
		return 0, 0, false
	}
	end, ok := li.offset(int(endLine), int(endChar))
	if !ok || end < start {
		return 0, 0, false
	}
	return start, end - start, true
}

func (li *lineIndex) offset(line, char int) (int, bool) {
	if line < 0 || line >= len(li.starts) || char < 0 {
		return 0, false
	}
	lineStart := li.starts[line]
	lineEnd := len(li.text)
	if line+1 < len(li.starts) {
		lineEnd = li.starts[line+1] - 1
	}
	content := li.text[lineStart:lineEnd]

	if li.encoding == scippb.PositionEncoding_UTF8CodeUnitOffsetFromLineStart {
		if char > len(content) {
			return 0, false
		}
		return lineStart + char, true
	}

	// UTF-16 is the default: Java indexers count in UTF-16 code units.
	units := 0
	for i, r := range content {
		if units == char {
			return lineStart + i, true
		}
		if units > char {
			return 0, false
		}
		switch {
		case li.encoding == scippb.PositionEncoding_UTF32CodeUnitOffsetFromLineStart:
			units++
		case r >= 0x10000:
			units += 2
		default:
			units++
		}
	}
	if units == char {
		return lineEnd, true
	}
	return 0, false
}

