package normalize

import (
	"radiox-catalog/pkg/record"
)

// NewsIndex maps article identifiers and URLs to article image URLs. It backfills
// images for segments that reference an article without carrying the image themselves.
type NewsIndex map[string]string

// BuildNewsIndex scans a related-articles payload, which may be an array, a
// JSON-encoded string or an object wrapping the array, and registers every article
// image under both the article id and its URL. Later articles overwrite earlier ones.
func BuildNewsIndex(v any) NewsIndex {
	index := NewsIndex{}
	for _, article := range newsArticles(v) {
		image := record.String(record.Resolve(article, articleImageKeys...))
		if image == "" {
			continue
		}
		if id := record.String(record.Resolve(article, articleIDKeys...)); id != "" {
			index[id] = image
		}
		if u := record.String(record.Resolve(article, articleURLKeys...)); u != "" {
			index[u] = image
		}
	}
	return index
}

// Lookup returns the image registered for the article id, falling back to the URL.
func (n NewsIndex) Lookup(id, url string) string {
	if id != "" {
		if image, ok := n[id]; ok {
			return image
		}
	}
	if url != "" {
		return n[url]
	}
	return ""
}

// newsArticles normalizes a related-articles payload to its article objects.
// Malformed payloads degrade to an empty list.
func newsArticles(v any) []record.Raw {
	items, ok := newsItems(v)
	if !ok {
		return nil
	}
	return record.Objects(items)
}

func newsItems(v any) ([]any, bool) {
	v = record.Decode(v)
	if items, ok := record.Array(v); ok {
		return items, true
	}
	obj, ok := record.Object(v)
	if !ok {
		return nil, false
	}
	for _, key := range newsNestingKeys {
		if items, ok := record.Array(record.Decode(obj[key])); ok {
			return items, true
		}
	}
	return nil, false
}
