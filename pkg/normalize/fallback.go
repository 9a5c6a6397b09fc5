package normalize

import (
	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

const (
	fallbackTitle      = "Full Episode"
	fallbackCategory   = "Podcast"
	fallbackSourceName = "RadioX Archive"

	// fallbackSeconds is the episode length assumed when the show has no duration.
	fallbackSeconds = 1800.0
)

// fallbackSegment covers the whole episode when no chapter structure was found, so a
// show always has something to play. Its transcript is whatever the raw transcript
// field yields, with show-wide timestamps (the segment starts at zero).
func fallbackSegment(sc showContext, r record.Raw, description string) domain.Segment {
	duration := fallbackSeconds
	if sc.TotalDuration > 0 {
		duration = sc.TotalDuration
	}

	return domain.Segment{
		ID:                 sc.ID + "-full",
		Title:              fallbackTitle,
		Category:           fallbackCategory,
		Duration:           duration,
		StartTime:          0,
		SourceName:         fallbackSourceName,
		ArticleDescription: description,
		AudioURL:           sc.AudioURL,
		Transcript:         clampTranscript(parseFlatTranscript(record.Resolve(r, segmentFieldKeys...))),
	}
}
