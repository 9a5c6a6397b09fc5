package normalize

import (
	"testing"
)

func TestBuildNewsIndex(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  NewsIndex
	}{
		{
			name: "array with id and url",
			input: []any{
				map[string]any{"id": "a1", "url": "https://a.example.com", "image_url": "a.jpg"},
				map[string]any{"link": "https://b.example.com", "urlToImage": "b.jpg"},
				map[string]any{"id": "c1", "url": "https://c.example.com"},
				"https://plain.example.com",
			},
			want: NewsIndex{"a1": "a.jpg", "https://a.example.com": "a.jpg", "https://b.example.com": "b.jpg"},
		},
		{
			name:  "json string with nesting",
			input: `{"items": [{"news_id": 9, "image": "n.jpg"}]}`,
			want:  NewsIndex{"9": "n.jpg"},
		},
		{
			name:  "object with nested array",
			input: map[string]any{"articles": []any{map[string]any{"web_link": "https://w.example.com", "thumbnail": "w.jpg"}}},
			want:  NewsIndex{"https://w.example.com": "w.jpg"},
		},
		{
			name:  "last write wins",
			input: `[{"id": "x", "image_url": "1.jpg"}, {"id": "x", "image_url": "2.jpg"}]`,
			want:  NewsIndex{"x": "2.jpg"},
		},
		{name: "malformed json", input: `[{"id": `, want: NewsIndex{}},
		{name: "unsupported type", input: 42.0, want: NewsIndex{}},
		{name: "nil", input: nil, want: NewsIndex{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildNewsIndex(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("BuildNewsIndex = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("index[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestNewsIndexLookup(t *testing.T) {
	index := NewsIndex{"id-1": "by-id.jpg", "https://x.example.com": "by-url.jpg"}

	tests := []struct {
		id, url, want string
	}{
		{id: "id-1", url: "https://x.example.com", want: "by-id.jpg"},
		{id: "missing", url: "https://x.example.com", want: "by-url.jpg"},
		{id: "", url: "", want: ""},
		{id: "missing", url: "https://nope.example.com", want: ""},
	}

	for _, tt := range tests {
		if got := index.Lookup(tt.id, tt.url); got != tt.want {
			t.Errorf("Lookup(%q, %q) = %q, want %q", tt.id, tt.url, got, tt.want)
		}
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name    string
		seg     map[string]any
		wantURL string
		want    string
	}{
		{name: "no sources", seg: map[string]any{}, wantURL: "", want: "Source"},
		{name: "bare string", seg: map[string]any{"sources": []any{"HTTPS://www.Spiegel.de/a"}}, wantURL: "HTTPS://www.Spiegel.de/a", want: "Spiegel.de"},
		{name: "json encoded list", seg: map[string]any{"sources": `["ftp://x", {"source_url": "https://heise.de/n"}]`}, wantURL: "https://heise.de/n", want: "Heise.de"},
		{name: "object name", seg: map[string]any{"sources": []any{map[string]any{"link": "https://x.example.com", "publisher": "X"}}}, wantURL: "https://x.example.com", want: "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveSource(tt.seg)
			if got.URL != tt.wantURL || got.Name != tt.want {
				t.Errorf("resolveSource = %+v, want url %q name %q", got, tt.wantURL, tt.want)
			}
		})
	}
}
