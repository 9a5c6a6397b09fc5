package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"radiox-catalog/pkg/httpclient"
	"radiox-catalog/pkg/record"
)

// Importer turns podcast feeds into raw show records, using the same field names the
// show store uses so that they normalize like any stored show.
type Importer struct {
	feedParser *gofeed.Parser
}

// NewImporter creates an importer. A nil client uses a plain http client profile.
func NewImporter(client *httpclient.HTTPClient) *Importer {
	if client == nil {
		client = httpclient.NewClient(httpclient.SimpleClient, 0)
	}
	p := gofeed.NewParser()
	p.Client = client.Client()
	return &Importer{feedParser: p}
}

// Fetch downloads and parses the feed at feedURL.
func (i *Importer) Fetch(ctx context.Context, feedURL string) ([]record.Raw, error) {
	f, err := i.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return Records(f)
}

// Parse parses a feed document held in memory.
func (i *Importer) Parse(doc string) ([]record.Raw, error) {
	f, err := i.feedParser.ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return Records(f)
}

// Records maps every feed item to a raw show record.
func Records(f *gofeed.Feed) ([]record.Raw, error) {
	if f == nil || len(f.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	out := make([]record.Raw, 0, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		out = append(out, itemRecord(f, item))
	}
	return out, nil
}

func itemRecord(f *gofeed.Feed, item *gofeed.Item) record.Raw {
	r := record.Raw{}
	set := func(key string, v any) {
		switch t := v.(type) {
		case string:
			if t == "" {
				return
			}
		case []any:
			if len(t) == 0 {
				return
			}
		}
		r[key] = v
	}

	id := strings.TrimSpace(item.GUID)
	if id == "" {
		id = strings.TrimSpace(item.Link)
	}
	set("id", id)
	set("title", strings.TrimSpace(item.Title))
	set("link", item.Link)
	set("audio_url", audioEnclosure(item))

	if item.ITunesExt != nil {
		if secs, ok := ParseDuration(item.ITunesExt.Duration); ok {
			r["audio_duration_seconds"] = secs
		}
	}

	description := StripHTML(item.Description)
	if description == "" && item.ITunesExt != nil {
		description = strings.TrimSpace(item.ITunesExt.Summary)
	}
	set("description", description)
	if long := StripHTML(item.Content); long != description {
		set("long_description", long)
	}

	set("cover_url", coverURL(f, item))

	if published := itemTime(item); !published.IsZero() {
		r["created_at"] = published.UTC().Format(time.RFC3339)
	}

	set("hosts", hosts(f, item))
	set("tags", tags(item))
	return r
}

func audioEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "audio/") {
			return enc.URL
		}
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		lower := strings.ToLower(enc.URL)
		if strings.HasSuffix(lower, ".mp3") || strings.HasSuffix(lower, ".m4a") || strings.HasSuffix(lower, ".ogg") {
			return enc.URL
		}
	}
	return ""
}

func coverURL(f *gofeed.Feed, item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return item.ITunesExt.Image
	}
	if img := FirstImage(item.Content); img != "" {
		return img
	}
	if img := FirstImage(item.Description); img != "" {
		return img
	}
	if f.Image != nil && f.Image.URL != "" {
		return f.Image.URL
	}
	if f.ITunesExt != nil {
		return f.ITunesExt.Image
	}
	return ""
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func hosts(f *gofeed.Feed, item *gofeed.Item) []any {
	if item.ITunesExt != nil && strings.TrimSpace(item.ITunesExt.Author) != "" {
		return splitNames(item.ITunesExt.Author)
	}
	if names := personNames(item.Authors); len(names) > 0 {
		return names
	}
	if f.ITunesExt != nil && strings.TrimSpace(f.ITunesExt.Author) != "" {
		return splitNames(f.ITunesExt.Author)
	}
	return personNames(f.Authors)
}

func personNames(people []*gofeed.Person) []any {
	var names []any
	for _, p := range people {
		if p == nil {
			continue
		}
		if name := strings.TrimSpace(p.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// splitNames splits "Anna & Ben, Cleo" style author strings.
func splitNames(s string) []any {
	s = strings.ReplaceAll(s, "&", ",")
	s = strings.ReplaceAll(s, " and ", ",")
	var names []any
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func tags(item *gofeed.Item) []any {
	seen := map[string]bool{}
	var out []any
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, tag)
	}

	for _, c := range item.Categories {
		add(c)
	}
	if item.ITunesExt != nil {
		for _, k := range strings.Split(item.ITunesExt.Keywords, ",") {
			add(k)
		}
	}
	return out
}

// ParseDuration reads an iTunes duration: seconds, "mm:ss" or "hh:mm:ss".
func ParseDuration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}

	total := 0.0
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func StripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
