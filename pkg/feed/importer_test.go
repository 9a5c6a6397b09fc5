package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"radiox-catalog/pkg/normalize"
	"radiox-catalog/pkg/record"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>RadioX Daily</title>
  <link>https://radiox.example</link>
  <description>Daily news</description>
  <itunes:author>Anna Schmidt &amp; Ben Weber</itunes:author>
  <itunes:image href="https://radiox.example/cover.jpg"/>
  <item>
    <title>Monday Briefing</title>
    <guid>ep-101</guid>
    <link>https://radiox.example/ep/101</link>
    <pubDate>Mon, 24 Nov 2025 07:00:00 +0100</pubDate>
    <description><![CDATA[<p>Rain in <b>Berlin</b>,   trains late.</p>]]></description>
    <content:encoded><![CDATA[<p>Full notes</p><img src="https://radiox.example/ep101.jpg"/>]]></content:encoded>
    <enclosure url="https://cdn.radiox.example/ep101.mp3" length="1234" type="audio/mpeg"/>
    <itunes:duration>00:12:30</itunes:duration>
    <itunes:keywords>weather, Berlin, transport</itunes:keywords>
    <category>Weather</category>
    <category>berlin</category>
  </item>
  <item>
    <title>Tuesday Briefing</title>
    <link>https://radiox.example/ep/102</link>
    <description>Short one</description>
    <itunes:author>Cleo</itunes:author>
    <itunes:duration>95</itunes:duration>
    <enclosure url="https://cdn.radiox.example/ep102.m4a" length="1" type="application/octet-stream"/>
  </item>
</channel>
</rss>`

func TestParse_MapsItems(t *testing.T) {
	records, err := NewImporter(nil).Parse(sampleFeed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	checks := map[string]any{
		"id":                     "ep-101",
		"title":                  "Monday Briefing",
		"audio_url":              "https://cdn.radiox.example/ep101.mp3",
		"audio_duration_seconds": 750.0,
		"description":            "Rain in Berlin, trains late.",
		"long_description":       "Full notes",
		"cover_url":              "https://radiox.example/ep101.jpg",
		"created_at":             "2025-11-24T06:00:00Z",
	}
	for key, want := range checks {
		if got := first[key]; got != want {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}
	if got, want := first["hosts"], []any{"Anna Schmidt", "Ben Weber"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hosts = %#v, want %#v", got, want)
	}
	if got, want := first["tags"], []any{"Weather", "berlin", "transport"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %#v, want %#v", got, want)
	}

	second := records[1]
	if second["id"] != "https://radiox.example/ep/102" {
		t.Errorf("id = %v, want link fallback", second["id"])
	}
	if second["audio_url"] != "https://cdn.radiox.example/ep102.m4a" {
		t.Errorf("audio_url = %v", second["audio_url"])
	}
	if second["audio_duration_seconds"] != 95.0 {
		t.Errorf("audio_duration_seconds = %v", second["audio_duration_seconds"])
	}
	if second["cover_url"] != "https://radiox.example/cover.jpg" {
		t.Errorf("cover_url = %v, want feed image", second["cover_url"])
	}
	if !reflect.DeepEqual(second["hosts"], []any{"Cleo"}) {
		t.Errorf("hosts = %#v", second["hosts"])
	}
	if _, ok := second["tags"]; ok {
		t.Errorf("unexpected tags %v", second["tags"])
	}
}

func TestParse_NormalizesToFullEpisode(t *testing.T) {
	records, err := NewImporter(nil).Parse(sampleFeed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	show := normalize.Normalize(records[0])
	if show.ID != "ep-101" || show.Hosts != "Anna Schmidt & Ben Weber" {
		t.Errorf("unexpected show %q / %q", show.ID, show.Hosts)
	}
	if len(show.Segments) != 1 || show.Segments[0].Duration != 750 {
		t.Fatalf("expected one 750s segment, got %+v", show.Segments)
	}
	if show.Segments[0].AudioURL != "https://cdn.radiox.example/ep101.mp3" {
		t.Errorf("segment audio = %q", show.Segments[0].AudioURL)
	}
}

func TestParse_Errors(t *testing.T) {
	imp := NewImporter(nil)
	if _, err := imp.Parse("not a feed"); err == nil {
		t.Error("expected error for invalid document")
	}
	empty := `<rss version="2.0"><channel><title>x</title></channel></rss>`
	if _, err := imp.Parse(empty); err == nil {
		t.Error("expected error for feed without items")
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	records, err := NewImporter(nil).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 2 || record.String(records[0]["id"]) != "ep-101" {
		t.Errorf("unexpected records %v", records)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"01:02:03", 3723, true},
		{"12:30", 750, true},
		{"95", 95, true},
		{" 61.5 ", 61.5, true},
		{"", 0, false},
		{"1:2:3:4", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStripHTMLAndFirstImage(t *testing.T) {
	if got := StripHTML("<div><p>Hello</p>\n<p>world  !</p></div>"); got != "Hello world !" {
		t.Errorf("StripHTML = %q", got)
	}
	if got := StripHTML("   "); got != "" {
		t.Errorf("StripHTML(blank) = %q", got)
	}
	if got := FirstImage(`<p>x</p><img alt="a"><img src=" /a.png ">`); got != "/a.png" {
		t.Errorf("FirstImage = %q", got)
	}
	if got := FirstImage("no images"); got != "" {
		t.Errorf("FirstImage(no images) = %q", got)
	}
}
