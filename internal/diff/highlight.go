package diff

import (
	"strings"
	"unicode/utf8"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// highlightReplace pairs the lines of a replaced block positionally and
// records the characters that differ within each pair. Unpaired lines are
// left without highlights.
func (a *Alignment) highlightReplace(op Op, oldLines, newLines []string) {
	n := min(op.OldEnd-op.OldStart, op.NewEnd-op.NewStart)
	for k := 0; k < n; k++ {
		oi, ni := op.OldStart+k, op.NewStart+k
		oldR, newR := charChanges(oldLines[oi], newLines[ni])
		if len(oldR) > 0 {
			a.OldHighlights[oi] = oldR
		}
		if len(newR) > 0 {
			a.NewHighlights[ni] = newR
		}
	}
}

// charChanges returns the changed byte ranges of two lines. The trailing
// newline is never highlighted. Lines with nothing in common yield no
// ranges since the whole line is already marked.
func charChanges(oldLine, newLine string) (oldRanges, newRanges []Range) {
	oldLine = strings.TrimSuffix(oldLine, "\n")
	newLine = strings.TrimSuffix(newLine, "\n")

	oldChars, oldOffsets := splitChars(oldLine)
	newChars, newOffsets := splitChars(newLine)

	m := difflib.NewMatcherWithJunk(oldChars, newChars, false, nil)
	codes := m.GetOpCodes()

	common := false
	for _, oc := range codes {
		if oc.Tag == 'e' && oc.I2 > oc.I1 {
			common = true
			break
		}
	}
	if !common {
		return nil, nil
	}

	for _, oc := range codes {
		switch oc.Tag {
		case 'r':
			oldRanges = appendRange(oldRanges, oldOffsets[oc.I1], oldOffsets[oc.I2])
			newRanges = appendRange(newRanges, newOffsets[oc.J1], newOffsets[oc.J2])
		case 'd':
			oldRanges = appendRange(oldRanges, oldOffsets[oc.I1], oldOffsets[oc.I2])
		case 'i':
			newRanges = appendRange(newRanges, newOffsets[oc.J1], newOffsets[oc.J2])
		}
	}
	return oldRanges, newRanges
}

// splitChars returns the runes of s as strings along with the byte offset
// of each rune; offsets has one extra element holding len(s).
func splitChars(s string) ([]string, []int) {
	chars := make([]string, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		chars = append(chars, s[i:i+size])
		offsets = append(offsets, i)
		i += size
	}
	offsets = append(offsets, len(s))
	return chars, offsets
}

func appendRange(ranges []Range, start, end int) []Range {
	if start >= end {
		return ranges
	}
	if n := len(ranges); n > 0 && ranges[n-1].End == start {
		ranges[n-1].End = end
		return ranges
	}
	return append(ranges, Range{Start: start, End: end})
}
