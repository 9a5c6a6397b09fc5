package normalize

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"radiox-catalog/pkg/record"
)

const defaultSourceName = "Source"

// attribution is the article a segment was produced from.
type attribution struct {
	URL         string
	Name        string
	Title       string
	PublishedAt string
}

// resolveSource picks the segment's source article. The sources list mixes bare URL
// strings and richer objects; the first entry exposing an http(s) URL wins. A
// primary_source object, when present, supplies title, publish date and name.
func resolveSource(seg record.Raw) attribution {
	var attr attribution

	sources, _ := record.Array(record.Decode(seg[sourcesKey]))
	for _, entry := range sources {
		if s, ok := entry.(string); ok {
			if isHTTPURL(s) {
				attr.URL = strings.TrimSpace(s)
				break
			}
			continue
		}
		obj, ok := record.Object(entry)
		if !ok {
			continue
		}
		if u := firstHTTPURL(obj); u != "" {
			attr.URL = u
			attr.fill(obj)
			break
		}
	}

	if primary, ok := record.Object(record.Decode(seg[primarySourceKey])); ok {
		if attr.URL == "" {
			attr.URL = firstHTTPURL(primary)
		}
		primaryAttr := attribution{}
		primaryAttr.fill(primary)
		attr.merge(primaryAttr)
	}

	if attr.Name == "" {
		attr.Name = hostDisplayName(attr.URL)
	}
	if attr.Name == "" {
		attr.Name = defaultSourceName
	}
	return attr
}

func (a *attribution) fill(obj record.Raw) {
	a.Title = record.String(record.Resolve(obj, sourceTitleKeys...))
	a.Name = record.String(record.Resolve(obj, sourceNameKeys...))
	a.PublishedAt = record.String(record.Resolve(obj, articlePublishedKeys...))
}

// merge overwrites descriptive fields with the non-empty ones of other.
func (a *attribution) merge(other attribution) {
	if other.Title != "" {
		a.Title = other.Title
	}
	if other.Name != "" {
		a.Name = other.Name
	}
	if other.PublishedAt != "" {
		a.PublishedAt = other.PublishedAt
	}
}

func firstHTTPURL(obj record.Raw) string {
	for _, key := range sourceURLKeys {
		if s := record.String(obj[key]); isHTTPURL(s) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func isHTTPURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// hostDisplayName turns https://www.tagesschau.de/x into "Tagesschau.de".
func hostDisplayName(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(host)
	return string(unicode.ToUpper(r)) + host[size:]
}
