// Package highlight derives syntax Style entries for Java sources that come
// without syntax information from the indexer.
package highlight

// CSS classes attached to Style entries.
const (
	ClassKeyword    = "keyword"
	ClassComment    = "comment"
	ClassString     = "string"
	ClassNumber     = "number"
	ClassType       = "type"
	ClassAnnotation = "annotation"
	ClassConstant   = "constant"
)
