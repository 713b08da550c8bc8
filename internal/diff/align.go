package diff

import (
	"javabrowser/internal/source"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultMaxCells bounds the weighted LCS table. Larger middles fall back
// to difflib's matcher.
const DefaultMaxCells = 4_000_000

// OpKind classifies an aligned block.
type OpKind uint8

const (
	Equal OpKind = iota
	Insert
	Delete
	Replace
)

func (k OpKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	}
	return "unknown"
}

// Op covers old lines [OldStart, OldEnd) and new lines [NewStart, NewEnd).
type Op struct {
	Kind     OpKind
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
}

// Options configures Align.
type Options struct {
	// MaxCells caps the LCS table size. 0 means DefaultMaxCells.
	MaxCells int
}

// Alignment is the line correlation between an old and a new text.
type Alignment struct {
	Ops      []Op
	OldLines []Line
	NewLines []Line

	// Highlights hold changed character ranges of paired replaced lines,
	// keyed by line index.
	OldHighlights map[int][]Range
	NewHighlights map[int][]Range
}

// Align correlates old and new. Either side may be nil, in which case the
// other side is entirely inserted or deleted.
func Align(oldFile, newFile *source.File, opts Options) *Alignment {
	var oldText, newText string
	if oldFile != nil {
		oldText = oldFile.Text
	}
	if newFile != nil {
		newText = newFile.Text
	}
	return AlignText(oldText, newText, opts)
}

// AlignText correlates two texts.
func AlignText(oldText, newText string, opts Options) *Alignment {
	maxCells := opts.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}

	a := &Alignment{
		OldLines:      SplitLines(oldText),
		NewLines:      SplitLines(newText),
		OldHighlights: make(map[int][]Range),
		NewHighlights: make(map[int][]Range),
	}
	oldLines := lineTexts(oldText, a.OldLines)
	newLines := lineTexts(newText, a.NewLines)

	a.Ops = opsFromMatches(matchLines(oldLines, newLines, maxCells), len(oldLines), len(newLines))
	for _, op := range a.Ops {
		if op.Kind == Replace {
			a.highlightReplace(op, oldLines, newLines)
		}
	}
	return a
}

type match struct{ old, new int }

// matchLines returns the correlated line pairs in increasing order.
func matchLines(a, b []string, maxCells int) []match {
	var matches []match

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		matches = append(matches, match{prefix, prefix})
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]
	if len(midA) > 0 && len(midB) > 0 {
		var mid []match
		if (len(midA)+1)*(len(midB)+1) <= maxCells {
			mid = weightedLCS(midA, midB)
		} else {
			mid = matcherPairs(midA, midB)
		}
		for _, m := range mid {
			matches = append(matches, match{m.old + prefix, m.new + prefix})
		}
	}

	for k := suffix; k > 0; k-- {
		matches = append(matches, match{len(a) - k, len(b) - k})
	}
	return matches
}

// weight orders alignments by matched line count, then matched bytes.
func weight(line string) int64 {
	return 1<<40 + int64(len(line))
}

// weightedLCS finds a maximal weight common subsequence. Ties between
// skipping an old or a new line are broken by content, skipping the greater
// line first, so swapping the inputs mirrors the result.
func weightedLCS(a, b []string) []match {
	n, m := len(a), len(b)
	stride := m + 1
	score := make([]int64, (n+1)*stride)
	at := func(i, j int) int64 { return score[i*stride+j] }

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			var s int64
			if a[i] == b[j] {
				s = weight(a[i]) + at(i+1, j+1)
			} else {
				s = max(at(i+1, j), at(i, j+1))
			}
			score[i*stride+j] = s
		}
	}

	var matches []match
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			matches = append(matches, match{i, j})
			i++
			j++
		case at(i+1, j) > at(i, j+1):
			i++
		case at(i, j+1) > at(i+1, j):
			j++
		case a[i] > b[j]:
			i++
		default:
			j++
		}
	}
	return matches
}

func matcherPairs(a, b []string) []match {
	var matches []match
	for _, oc := range difflib.NewMatcher(a, b).GetOpCodes() {
		if oc.Tag != 'e' {
			continue
		}
		for k := 0; k < oc.I2-oc.I1; k++ {
			matches = append(matches, match{oc.I1 + k, oc.J1 + k})
		}
	}
	return matches
}

func opsFromMatches(matches []match, n, m int) []Op {
	var ops []Op
	gap := func(i0, i1, j0, j1 int) {
		switch {
		case i0 < i1 && j0 < j1:
			ops = append(ops, Op{Kind: Replace, OldStart: i0, OldEnd: i1, NewStart: j0, NewEnd: j1})
		case i0 < i1:
			ops = append(ops, Op{Kind: Delete, OldStart: i0, OldEnd: i1, NewStart: j0, NewEnd: j0})
		case j0 < j1:
			ops = append(ops, Op{Kind: Insert, OldStart: i0, OldEnd: i0, NewStart: j0, NewEnd: j1})
		}
	}

	i, j := 0, 0
	for _, mt := range matches {
		gap(i, mt.old, j, mt.new)
		if last := len(ops) - 1; last >= 0 && ops[last].Kind == Equal &&
			ops[last].OldEnd == mt.old && ops[last].NewEnd == mt.new {
			ops[last].OldEnd++
			ops[last].NewEnd++
		} else {
			ops = append(ops, Op{Kind: Equal, OldStart: mt.old, OldEnd: mt.old + 1, NewStart: mt.new, NewEnd: mt.new + 1})
		}
		i, j = mt.old+1, mt.new+1
	}
	gap(i, n, j, m)
	return ops
}

// RowKind classifies a displayed diff row.
type RowKind uint8

const (
	RowEqual RowKind = iota
	RowDeleted
	RowInserted
)

// Row is one displayed line. Old or New is -1 when the side has no line.
type Row struct {
	Kind RowKind
	Old  int
	New  int
}

// Rows flattens the ops into display order. Within a replaced block the
// deleted lines come before the inserted ones.
func (a *Alignment) Rows() []Row {
	var rows []Row
	for _, op := range a.Ops {
		switch op.Kind {
		case Equal:
			for k := 0; k < op.OldEnd-op.OldStart; k++ {
				rows = append(rows, Row{Kind: RowEqual, Old: op.OldStart + k, New: op.NewStart + k})
			}
		default:
			for i := op.OldStart; i < op.OldEnd; i++ {
				rows = append(rows, Row{Kind: RowDeleted, Old: i, New: -1})
			}
			for j := op.NewStart; j < op.NewEnd; j++ {
				rows = append(rows, Row{Kind: RowInserted, Old: -1, New: j})
			}
		}
	}
	return rows
}

// Stats counts inserted and deleted lines.
func (a *Alignment) Stats() (inserted, deleted int) {
	for _, op := range a.Ops {
		if op.Kind == Equal {
			continue
		}
		inserted += op.NewEnd - op.NewStart
		deleted += op.OldEnd - op.OldStart
	}
	return inserted, deleted
}

// Swap returns the alignment seen from the other side.
func (a *Alignment) Swap() *Alignment {
	out := &Alignment{
		OldLines:      a.NewLines,
		NewLines:      a.OldLines,
		OldHighlights: a.NewHighlights,
		NewHighlights: a.OldHighlights,
	}
	for _, op := range a.Ops {
		k := op.Kind
		switch k {
		case Insert:
			k = Delete
		case Delete:
			k = Insert
		}
		out.Ops = append(out.Ops, Op{Kind: k, OldStart: op.NewStart, OldEnd: op.NewEnd, NewStart: op.OldStart, NewEnd: op.OldEnd})
	}
	return out
}
