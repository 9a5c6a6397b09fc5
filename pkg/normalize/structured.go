package normalize

import (
	"fmt"
	"math"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

// untimedSegmentSeconds is the even-split slot used when neither the segments nor the
// show carry any timing.
const untimedSegmentSeconds = 60.0

// buildStructured builds one segment per structured entry, in input order.
//
// Segments with explicit timing anywhere (on the segment or on any of its lines) use
// it. Segments without timing get an even slot of the total audio duration, so the
// result stays monotonic and non-overlapping at the cost of precision.
func buildStructured(sc showContext, in StructuredInput) []domain.Segment {
	count := len(in.Segments)
	segments := make([]domain.Segment, 0, count)

	for i, seg := range in.Segments {
		rawLines, _ := record.Array(seg[structuredLinesKey])
		lineObjs := record.Objects(rawLines)

		var (
			start, duration float64
			transcript      []domain.TranscriptLine
		)
		if hasExplicitTiming(seg, lineObjs) {
			start, duration = explicitSpan(seg, lineObjs)
			transcript = timedLines(lineObjs, start)
		} else {
			duration = evenSlot(sc.TotalDuration, count)
			start = float64(i) * duration
			transcript = distributeLines(parseLines(lineObjs), duration)
		}

		segments = append(segments, structuredSegment(sc, seg, i, start, duration, transcript))
	}
	return segments
}

func structuredSegment(sc showContext, seg record.Raw, i int, start, duration float64, transcript []domain.TranscriptLine) domain.Segment {
	attr := resolveSource(seg)

	id := record.String(record.Resolve(seg, structuredSegIDKeys...))
	if id == "" {
		id = fmt.Sprintf("%s-topic-%d", sc.ID, i)
	}

	image := record.String(record.Resolve(seg, structuredImageKeys...))
	if image == "" {
		articleID := record.String(record.Resolve(seg, structuredArticleKeys...))
		image = sc.News.Lookup(articleID, attr.URL)
	}

	return domain.Segment{
		ID:                 id,
		Title:              record.ResolveString(seg, topicTitle(i), structuredTitleKeys...),
		Category:           record.ResolveString(seg, defaultCategory, structuredCategoryKeys...),
		Duration:           duration,
		StartTime:          start,
		SourceURL:          attr.URL,
		SourceName:         attr.Name,
		ArticleTitle:       attr.Title,
		ArticleDescription: record.String(record.Resolve(seg, structuredSummaryKeys...)),
		ArticleImageURL:    image,
		SourcePublishedAt:  attr.PublishedAt,
		AudioURL:           record.ResolveString(seg, sc.AudioURL, structuredAudioKeys...),
		Transcript:         transcript,
	}
}

func hasExplicitTiming(seg record.Raw, lines []record.Raw) bool {
	if record.HasNumber(record.Resolve(seg, structuredStartKeys...)) ||
		record.HasNumber(record.Resolve(seg, structuredEndKeys...)) {
		return true
	}
	for _, line := range lines {
		if record.HasNumber(record.Resolve(line, lineStartKeys...)) ||
			record.HasNumber(record.Resolve(line, lineEndKeys...)) {
			return true
		}
	}
	return false
}

// explicitSpan returns the absolute start and the duration of a timed segment.
// Start falls back from the segment to its first line, end from the segment to its
// last line and then to start.
func explicitSpan(seg record.Raw, lines []record.Raw) (float64, float64) {
	start := math.NaN()
	if v := record.Resolve(seg, structuredStartKeys...); record.HasNumber(v) {
		start = record.Float(v, 0)
	} else if len(lines) > 0 {
		start = record.Float(record.Resolve(lines[0], lineStartKeys...), math.NaN())
	}
	if math.IsNaN(start) {
		start = 0
	}

	end := math.NaN()
	if v := record.Resolve(seg, structuredEndKeys...); record.HasNumber(v) {
		end = record.Float(v, 0)
	} else if len(lines) > 0 {
		end = record.Float(record.Resolve(lines[len(lines)-1], lineEndKeys...), math.NaN())
	}
	if math.IsNaN(end) {
		end = start
	}

	return start, math.Max(0, end-start)
}

// timedLines parses lines and makes their absolute timestamps relative to start.
// Lines without their own start sit at the segment start.
func timedLines(lines []record.Raw, start float64) []domain.TranscriptLine {
	out := make([]domain.TranscriptLine, 0, len(lines))
	for _, raw := range lines {
		line, ok := parseLine(raw)
		if !ok {
			continue
		}
		absolute := record.ResolveFloat(raw, start, lineStartKeys...)
		line.Timestamp = relativeTo(absolute, start)
		out = append(out, line)
	}
	return out
}

func evenSlot(total float64, count int) float64 {
	if total > 0 && count > 0 {
		return total / float64(count)
	}
	return untimedSegmentSeconds
}

func topicTitle(i int) string {
	return fmt.Sprintf("Topic %d", i+1)
}
