package ingest

import (
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
)

func positionEncoding(n int) scippb.PositionEncoding {
	return scippb.PositionEncoding(n)
}

const pkgPrefix = "semanticdb maven . . "

func def(symbol string, r ...int32) *scippb.Occurrence {
	return &scippb.Occurrence{Range: r, Symbol: symbol, SymbolRoles: int32(scippb.SymbolRole_Definition)}
}

func ref(symbol string, r ...int32) *scippb.Occurrence {
	return &scippb.Occurrence{Range: r, Symbol: symbol}
}

func syntax(kind scippb.SyntaxKind, r ...int32) *scippb.Occurrence {
	return &scippb.Occurrence{Range: r, SyntaxKind: kind}
}

// classA is a small document exercising every annotation kind.
const classA = "package app;\n" +
	"class A extends B {\n" +
	"  static {}\n" +
	"  int f;\n" +
	"  void m() { int x = f; }\n" +
	"}\n"

func classADocument() *scippb.Document {
	return &scippb.Document{
		RelativePath: "app/A.java",
		Language:     "java",
		Occurrences: []*scippb.Occurrence{
			syntax(scippb.SyntaxKind_Keyword, 1, 0, 5),
			def(pkgPrefix+"app/A#", 1, 6, 7),
			ref(pkgPrefix+"app/B#", 1, 16, 17),
			def(pkgPrefix+"app/A#`<clinit>`().", 2, 2, 8),
			def(pkgPrefix+"app/A#f.", 3, 6, 7),
			def(pkgPrefix+"app/A#m().", 4, 7, 8),
			def("local 0", 4, 17, 18),
			ref(pkgPrefix+"app/A#f.", 4, 21, 22),
			// partially overlaps the keyword
			syntax(scippb.SyntaxKind_Comment, 1, 4, 7),
			// outside the text
			ref(pkgPrefix+"app/B#", 40, 0, 1),
		},
		Symbols: []*scippb.SymbolInformation{
			{
				Symbol:        pkgPrefix + "app/A#",
				DisplayName:   "A",
				Relationships: []*scippb.Relationship{{Symbol: pkgPrefix + "app/B#", IsImplementation: true}},
			},
		},
	}
}

func classAIndex() *scippb.Index {
	return &scippb.Index{
		Metadata:  &scippb.Metadata{ProjectRoot: "file:///src"},
		Documents: []*scippb.Document{classADocument()},
		ExternalSymbols: []*scippb.SymbolInformation{
			{Symbol: pkgPrefix + "app/B#", DisplayName: "Base"},
		},
	}
}
