package domain

// Show is the canonical representation of a single RadioX episode, normalized from
// whatever schema generation the backing store row was written in.
//
// A Show always carries at least one Segment.
type Show struct {
	// ID is the store identifier, or a stable synthesized one when the row has none.
	ID string `bson:"_id" json:"id"`

	Title string `bson:"title" json:"title"`
	Hosts string `bson:"hosts" json:"hosts"`

	// Date is a human-readable rendering of CreatedAt (e.g. 24.11.2025).
	Date string `bson:"date" json:"date"`

	// CreatedAt is the ISO-8601 UTC instant the show was released.
	CreatedAt string `bson:"created_at" json:"createdAt"`

	CoverURL        string   `bson:"cover_url" json:"coverUrl"`
	AudioURL        string   `bson:"audio_url,omitempty" json:"audioUrl,omitempty"`
	Description     string   `bson:"description" json:"description"`
	LongDescription string   `bson:"long_description,omitempty" json:"longDescription,omitempty"`
	Tags            []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// TotalDuration is in seconds. Backend-supplied values win over derived ones.
	TotalDuration *float64 `bson:"total_duration,omitempty" json:"totalDuration,omitempty"`

	// Segments are in playback order.
	Segments []Segment `bson:"segments" json:"segments"`
}

// Segment is one chapter or topic within a show.
type Segment struct {
	ID       string `bson:"id" json:"id"`
	Title    string `bson:"title" json:"title"`
	Category string `bson:"category" json:"category"`

	// Duration and StartTime are in seconds; StartTime is measured from the show start.
	Duration  float64 `bson:"duration" json:"duration"`
	StartTime float64 `bson:"start_time" json:"startTime"`

	SourceURL          string `bson:"source_url,omitempty" json:"sourceUrl,omitempty"`
	SourceName         string `bson:"source_name,omitempty" json:"sourceName,omitempty"`
	ArticleTitle       string `bson:"article_title,omitempty" json:"articleTitle,omitempty"`
	ArticleDescription string `bson:"article_description,omitempty" json:"articleDescription,omitempty"`
	ArticleImageURL    string `bson:"article_image_url,omitempty" json:"articleImageUrl,omitempty"`
	SourcePublishedAt  string `bson:"source_published_at,omitempty" json:"sourcePublishedAt,omitempty"`
	AudioURL           string `bson:"audio_url,omitempty" json:"audioUrl,omitempty"`

	// Transcript timestamps are relative to StartTime.
	Transcript []TranscriptLine `bson:"transcript" json:"transcript"`
}

// End returns the absolute end time of the segment in seconds.
func (s Segment) End() float64 {
	return s.StartTime + s.Duration
}

// TranscriptLine is a single speaker-attributed line of a segment transcript.
type TranscriptLine struct {
	Speaker   string  `bson:"speaker" json:"speaker"`
	Text      string  `bson:"text" json:"text"`
	Timestamp float64 `bson:"timestamp" json:"timestamp"`
}

// Speaker is a catalog entry used to decorate transcript lines by name.
type Speaker struct {
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatar_url" json:"avatarUrl"`
}
