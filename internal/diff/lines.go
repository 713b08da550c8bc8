// Package diff aligns two revisions of a source file line by line and
// marks the characters that changed inside replaced lines.
package diff

import "strings"

// Line is a byte range [Start, End) over a file's text. End includes the
// trailing newline when there is one.
type Line struct {
	Start int
	End   int
}

// Range is a byte range relative to the start of its line.
type Range struct {
	Start int
	End   int
}

// SplitLines cuts text at each '\n', keeping the newline with its line.
// A trailing newline does not open an extra empty line.
func SplitLines(text string) []Line {
	var lines []Line
	start := 0
	for start < len(text) {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			lines = append(lines, Line{Start: start, End: len(text)})
			break
		}
		lines = append(lines, Line{Start: start, End: start + i + 1})
		start += i + 1
	}
	return lines
}

func lineTexts(text string, lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = text[l.Start:l.End]
	}
	return out
}
