package normalize

// Field aliases per logical field, most trusted first. The store has been written by
// several generations of the show generator, each with its own naming.
var (
	showIDKeys          = []string{"id"}
	showTitleKeys       = []string{"title", "show_name", "name"}
	showHostKeys        = []string{"speakers", "hosts", "metadata.speakers"}
	showCreatedKeys     = []string{"created_at", "date"}
	showCoverKeys       = []string{"cover_url", "image_url", "thumbnail"}
	showAudioKeys       = []string{"audio_url", "file_url", "url"}
	showDescriptionKeys = []string{"script_preview", "description", "summary"}
	showLongDescKeys    = []string{"long_description", "full_description"}
	showTagKeys         = []string{"tags", "seo_tags", "keywords"}
	showDurationKeys    = []string{"audio_duration_seconds", "duration", "total_duration"}

	segmentFieldKeys = []string{"segments", "structured_segments", "transcript"}
	newsFieldKeys    = []string{"used_news", "news", "chapters"}

	// Keys under which a related-articles payload nests its list.
	newsNestingKeys = []string{"articles", "items", "news", "used_news"}

	articleIDKeys        = []string{"id", "news_id", "article_id"}
	articleURLKeys       = []string{"url", "link", "article_url", "web_link"}
	articleImageKeys     = []string{"image_url", "article_image_url", "urlToImage", "image", "thumbnail"}
	articleTimestampKeys = []string{"audio_timestamp", "start_time", "start", "timestamp"}
	articleDurationKeys  = []string{"duration", "length"}
	articleTitleKeys     = []string{"title", "headline"}
	articleCategoryKeys  = []string{"category", "topic"}
	articleLinkKeys      = []string{"link", "url", "article_url", "web_link"}
	articleSourceKeys    = []string{"source", "publisher", "outlet"}
	articleSummaryKeys   = []string{"summary", "description", "content"}
	articlePublishedKeys = []string{"published_at", "published_date", "pubDate", "publishedAt", "date"}

	structuredLinesKey     = "speaker_lines"
	structuredSegIDKeys    = []string{"id", "segment_id"}
	structuredTitleKeys    = []string{"title", "topic", "headline"}
	structuredCategoryKeys = []string{"category", "topic_category"}
	structuredSummaryKeys  = []string{"summary", "description", "article_description"}
	structuredStartKeys    = []string{"timestamp_start", "start_time", "start"}
	structuredEndKeys      = []string{"timestamp_end", "end_time", "end"}
	structuredArticleKeys  = []string{"news_id", "article_id"}
	structuredImageKeys    = []string{"article_image_url", "image_url", "image"}
	structuredAudioKeys    = []string{"audio_url"}

	lineSpeakerKeys = []string{"speaker", "speaker_name"}
	lineTextKeys    = []string{"display_text", "text"}
	lineStartKeys   = []string{"timestamp_start", "start_time", "timestamp", "start"}
	lineEndKeys     = []string{"timestamp_end", "end_time", "end"}

	sourcesKey       = "sources"
	primarySourceKey = "primary_source"
	sourceURLKeys    = []string{"url", "link", "href", "source_url", "article_url"}
	sourceTitleKeys  = []string{"title", "headline"}
	sourceNameKeys   = []string{"source_name", "name", "source", "publisher"}
)
