package normalize

import (
	"math"
	"strings"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

const unknownSpeaker = "Unknown"

// parseFlatTranscript reads a show-wide transcript with absolute timestamps. It
// accepts the legacy flat list as well as a structured payload, whose speaker lines
// are flattened in segment order. Lines without text are dropped.
func parseFlatTranscript(payload any) []domain.TranscriptLine {
	payload = record.Decode(payload)

	if items, ok := record.Array(payload); ok {
		return parseLines(record.Objects(items))
	}

	obj, ok := record.Object(payload)
	if !ok {
		return nil
	}
	items, ok := record.Array(record.Decode(obj["segments"]))
	if !ok {
		return nil
	}

	var lines []domain.TranscriptLine
	for _, seg := range record.Objects(items) {
		raw, _ := record.Array(seg[structuredLinesKey])
		lines = append(lines, parseLines(record.Objects(raw))...)
	}
	return lines
}

func parseLines(raw []record.Raw) []domain.TranscriptLine {
	lines := make([]domain.TranscriptLine, 0, len(raw))
	for _, r := range raw {
		line, ok := parseLine(r)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func parseLine(r record.Raw) (domain.TranscriptLine, bool) {
	text := strings.TrimSpace(record.String(record.Resolve(r, lineTextKeys...)))
	if text == "" {
		return domain.TranscriptLine{}, false
	}
	return domain.TranscriptLine{
		Speaker:   record.ResolveString(r, unknownSpeaker, lineSpeakerKeys...),
		Text:      text,
		Timestamp: record.ResolveFloat(r, 0, lineStartKeys...),
	}, true
}

// sliceTranscript selects the lines whose absolute timestamp falls in [start, end)
// and rewrites them relative to start.
func sliceTranscript(lines []domain.TranscriptLine, start, end float64) []domain.TranscriptLine {
	out := make([]domain.TranscriptLine, 0)
	for _, line := range lines {
		if line.Timestamp < start || line.Timestamp >= end {
			continue
		}
		line.Timestamp -= start
		out = append(out, line)
	}
	return out
}

// relativeTo converts an absolute timestamp to one relative to start, never negative.
func relativeTo(absolute, start float64) float64 {
	return math.Max(0, absolute-start)
}

// distributeLines spreads lines evenly over duration, for transcripts that carry no
// timing of their own.
func distributeLines(lines []domain.TranscriptLine, duration float64) []domain.TranscriptLine {
	if len(lines) == 0 {
		return lines
	}
	step := duration / float64(len(lines))
	out := make([]domain.TranscriptLine, len(lines))
	for i, line := range lines {
		line.Timestamp = float64(i) * step
		out[i] = line
	}
	return out
}

// clampTranscript floors negative timestamps at zero.
func clampTranscript(lines []domain.TranscriptLine) []domain.TranscriptLine {
	out := make([]domain.TranscriptLine, len(lines))
	for i, line := range lines {
		line.Timestamp = math.Max(0, line.Timestamp)
		out[i] = line
	}
	return out
}
