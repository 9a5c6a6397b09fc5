package record

import (
	"encoding/json"
	"testing"
)

func TestResolve(t *testing.T) {
	r := Raw{
		"title":     "",
		"show_name": nil,
		"name":      "Morning Briefing",
		"zero":      0,
		"metadata":  map[string]any{"speakers": []any{"Anna"}},
	}

	tests := []struct {
		name string
		keys []string
		want any
	}{
		{name: "skips empty and nil", keys: []string{"title", "show_name", "name"}, want: "Morning Briefing"},
		{name: "zero is a value", keys: []string{"zero", "name"}, want: 0},
		{name: "no match", keys: []string{"missing", "title"}, want: nil},
		{name: "no keys", keys: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(r, tt.keys...)
			if got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.keys, got, tt.want)
			}
		})
	}

	nested, ok := Array(Resolve(r, "speakers", "metadata.speakers"))
	if !ok || len(nested) != 1 || nested[0] != "Anna" {
		t.Errorf("Resolve(metadata.speakers) = %v, want [Anna]", nested)
	}

	if got := Resolve(nil, "title"); got != nil {
		t.Errorf("Resolve(nil) = %v, want nil", got)
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{in: 12.5, want: 12.5},
		{in: 7, want: 7},
		{in: " 42.25 ", want: 42.25},
		{in: json.Number("3"), want: 3},
		{in: "abc", want: -1},
		{in: nil, want: -1},
		{in: "NaN", want: -1},
		{in: []any{1}, want: -1},
	}

	for _, tt := range tests {
		if got := Float(tt.in, -1); got != tt.want {
			t.Errorf("Float(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: "abc", want: "abc"},
		{in: float64(1234567), want: "1234567"},
		{in: 1.5, want: "1.5"},
		{in: 9, want: "9"},
		{in: json.Number("17"), want: "17"},
		{in: map[string]any{}, want: ""},
		{in: nil, want: ""},
	}

	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	obj, ok := Object(Decode(`{"segments": []}`))
	if !ok {
		t.Fatal("Decode did not produce an object")
	}
	if _, ok := Array(obj["segments"]); !ok {
		t.Error("expected segments array")
	}

	if got := Decode(`{broken`); got != nil {
		t.Errorf("Decode(broken) = %v, want nil", got)
	}
	if got := Decode("   "); got != nil {
		t.Errorf("Decode(blank) = %v, want nil", got)
	}

	passthrough := []any{1.0}
	if got, ok := Array(Decode(passthrough)); !ok || len(got) != 1 {
		t.Errorf("Decode(array) = %v, want passthrough", got)
	}
}

func TestResolveDefaults(t *testing.T) {
	r := Raw{"duration": "900", "title": "   "}

	if got := ResolveFloat(r, 0, "audio_duration_seconds", "duration"); got != 900 {
		t.Errorf("ResolveFloat = %v, want 900", got)
	}
	if got := ResolveString(r, "Untitled Show", "title"); got != "Untitled Show" {
		t.Errorf("ResolveString = %q, want default", got)
	}
}

func TestObjects(t *testing.T) {
	items := []any{map[string]any{"a": 1}, "https://example.com", nil, Raw{"b": 2}}
	if got := Objects(items); len(got) != 2 {
		t.Errorf("Objects kept %d entries, want 2", len(got))
	}
}
