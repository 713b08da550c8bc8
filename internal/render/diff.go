package render

import "javabrowser/internal/diff"

// PrintDiff interleaves the lines of two printers according to alignment.
// Either printer may be nil when that side of the file does not exist; the
// alignment then holds no lines for it. Both printers must have been built
// over emitter.
func PrintDiff[M any](oldP, newP *Printer[M], alignment *diff.Alignment, emitter DiffEmitter[M]) {
	for _, row := range alignment.Rows() {
		switch row.Kind {
		case diff.RowEqual:
			newLine, oldLine := row.New, row.Old
			emitter.DiffLineMarker(&newLine, &oldLine)
			l := alignment.NewLines[row.New]
			newP.PrintRange(l.Start, l.End)

		case diff.RowDeleted:
			oldLine := row.Old
			emitter.DiffLineMarker(nil, &oldLine)
			emitter.BeginDeletion()
			printSegments(oldP, alignment.OldLines[row.Old], alignment.OldHighlights[row.Old], emitter)
			emitter.EndDeletion()

		case diff.RowInserted:
			newLine := row.New
			emitter.DiffLineMarker(&newLine, nil)
			emitter.BeginInsertion()
			printSegments(newP, alignment.NewLines[row.New], alignment.NewHighlights[row.New], emitter)
			emitter.EndInsertion()
		}
	}
}

// printSegments prints one line, wrapping its changed ranges in highlights.
func printSegments[M any](p *Printer[M], line diff.Line, highlights []diff.Range, emitter DiffEmitter[M]) {
	pos := line.Start
	for _, h := range highlights {
		start, end := line.Start+h.Start, line.Start+h.End
		if pos < start {
			p.PrintRange(pos, start)
		}
		emitter.BeginHighlight()
		p.PrintRange(start, end)
		emitter.EndHighlight()
		pos = end
	}
	if pos < line.End {
		p.PrintRange(pos, line.End)
	}
}
