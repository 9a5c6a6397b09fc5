package normalize

import (
	"radiox-catalog/pkg/record"
)

// Format names the segment encoding a record was written with.
type Format string

const (
	FormatStructured Format = "structured"
	FormatLegacy     Format = "legacy"
)

// Input is the classified segment payload of a record: either StructuredInput or
// LegacyInput. Classification happens once, up front, so each builder works on a
// typed view and never re-inspects the raw shape.
type Input interface {
	Format() Format
}

// StructuredInput holds the per-topic segment objects of the newer generator, each
// carrying its own speaker lines.
type StructuredInput struct {
	Segments []record.Raw
}

func (StructuredInput) Format() Format { return FormatStructured }

// LegacyInput holds a flat show-wide transcript plus the related articles that
// define the chapters.
type LegacyInput struct {
	Lines    []any
	Articles []record.Raw
}

func (LegacyInput) Format() Format { return FormatLegacy }

// Classify inspects the record's segment field and returns the typed input for the
// matching builder. Records that are not structured are treated as legacy; an empty
// legacy input simply builds no segments.
func Classify(r record.Raw) Input {
	payload := record.Decode(record.Resolve(r, segmentFieldKeys...))

	if segments, ok := structuredSegments(payload); ok {
		return StructuredInput{Segments: segments}
	}

	lines, _ := record.Array(payload)
	return LegacyInput{
		Lines:    lines,
		Articles: newsArticles(record.Resolve(r, newsFieldKeys...)),
	}
}

func structuredSegments(payload any) ([]record.Raw, bool) {
	obj, ok := record.Object(payload)
	if !ok {
		return nil, false
	}
	items, ok := record.Array(record.Decode(obj["segments"]))
	if !ok {
		return nil, false
	}

	segments := record.Objects(items)
	for _, seg := range segments {
		if _, ok := record.Array(seg[structuredLinesKey]); ok {
			return segments, true
		}
	}
	return nil, false
}
