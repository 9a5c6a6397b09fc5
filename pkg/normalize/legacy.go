package normalize

import (
	"fmt"
	"sort"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

// lastChapterSeconds is the duration given to a final chapter when the show duration
// does not reach past its start.
const lastChapterSeconds = 300.0

// buildLegacy turns the related articles into chapters ordered by their audio
// timestamp and hands each chapter the slice of the flat transcript it covers.
func buildLegacy(sc showContext, in LegacyInput) []domain.Segment {
	if len(in.Articles) == 0 {
		return nil
	}

	transcript := parseLines(record.Objects(in.Lines))

	articles := make([]record.Raw, len(in.Articles))
	copy(articles, in.Articles)
	sort.SliceStable(articles, func(i, j int) bool {
		return articleStart(articles[i]) < articleStart(articles[j])
	})

	segments := make([]domain.Segment, 0, len(articles))
	for i, article := range articles {
		start := articleStart(article)
		duration := chapterDuration(sc, articles, i)

		image := record.ResolveString(article, sc.CoverURL, articleImageKeys...)

		segments = append(segments, domain.Segment{
			ID:                 fmt.Sprintf("%s-topic-%d", sc.ID, i),
			Title:              record.ResolveString(article, topicTitle(i), articleTitleKeys...),
			Category:           record.ResolveString(article, defaultCategory, articleCategoryKeys...),
			Duration:           duration,
			StartTime:          start,
			SourceURL:          record.String(record.Resolve(article, articleLinkKeys...)),
			SourceName:         record.ResolveString(article, defaultSourceName, articleSourceKeys...),
			ArticleTitle:       record.String(record.Resolve(article, articleTitleKeys...)),
			ArticleDescription: record.String(record.Resolve(article, articleSummaryKeys...)),
			ArticleImageURL:    image,
			SourcePublishedAt:  record.String(record.Resolve(article, articlePublishedKeys...)),
			AudioURL:           sc.AudioURL,
			Transcript:         sliceTranscript(transcript, start, start+duration),
		})
	}
	return segments
}

func articleStart(article record.Raw) float64 {
	return record.ResolveFloat(article, 0, articleTimestampKeys...)
}

// chapterDuration prefers the article's own duration, then the gap to the next
// chapter, and for the last chapter the remainder of the show.
func chapterDuration(sc showContext, sorted []record.Raw, i int) float64 {
	if d := record.ResolveFloat(sorted[i], 0, articleDurationKeys...); d > 0 {
		return d
	}

	start := articleStart(sorted[i])
	if i+1 < len(sorted) {
		if next := articleStart(sorted[i+1]); next > start {
			return next - start
		}
		return 0
	}

	if sc.TotalDuration > start {
		return sc.TotalDuration - start
	}
	return lastChapterSeconds
}
