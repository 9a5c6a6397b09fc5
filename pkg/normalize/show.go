package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/record"
)

const (
	defaultTitle       = "Untitled Show"
	defaultHosts       = "RadioX Host"
	defaultDescription = "No description available."
	defaultCategory    = "News"
	defaultCoverURL    = "https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=800&auto=format&fit=crop&q=60"

	// DateLayout renders Show.Date.
	DateLayout = "02.01.2006"
	// CreatedAtLayout renders Show.CreatedAt, matching JavaScript's toISOString.
	CreatedAtLayout = "2006-01-02T15:04:05.000Z"

	// Numeric creation times outside [1980-01-01, 9999-12-31] are treated as missing.
	minUnixSeconds = 315532800
	maxUnixSeconds = 253402300799
)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// showContext carries the show-level values every segment builder needs.
type showContext struct {
	ID       string
	AudioURL string
	CoverURL string

	// TotalDuration is the backend-supplied audio length, 0 when unknown.
	TotalDuration float64
	News          NewsIndex
}

// Report describes how a record was normalized.
type Report struct {
	Format   Format
	Fallback bool
}

// Normalizer converts raw show rows into canonical shows. It holds no mutable state
// and is safe for concurrent use.
type Normalizer struct {
	now      func() time.Time
	location *time.Location
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the clock used when a record carries no creation time.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation sets the time zone Show.Date is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// New returns a Normalizer using the wall clock and UTC unless configured otherwise.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts r with a default Normalizer.
func Normalize(r record.Raw) domain.Show {
	return New().Normalize(r)
}

// Normalize converts r into a Show. It never fails: missing or malformed fields fall
// back to defaults and the returned show always has at least one segment.
func (n *Normalizer) Normalize(r record.Raw) domain.Show {
	show, _ := n.NormalizeReport(r)
	return show
}

// SafeNormalize is NormalizeReport for callers converting many records: a panic while
// converting r is returned as err together with a placeholder show that keeps only
// the record id.
func (n *Normalizer) SafeNormalize(r record.Raw) (show domain.Show, report Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("normalize record: %v", p)
			id := record.String(record.Resolve(r, showIDKeys...))
			show, report = n.NormalizeReport(record.Raw{"id": id})
		}
	}()
	show, report = n.NormalizeReport(r)
	return show, report, nil
}

// NormalizeReport is Normalize plus a description of the path taken.
func (n *Normalizer) NormalizeReport(r record.Raw) (domain.Show, Report) {
	description := record.ResolveString(r, defaultDescription, showDescriptionKeys...)

	sc := showContext{
		ID:            showID(r),
		AudioURL:      record.String(record.Resolve(r, showAudioKeys...)),
		CoverURL:      record.ResolveString(r, defaultCoverURL, showCoverKeys...),
		TotalDuration: math.Max(0, record.ResolveFloat(r, 0, showDurationKeys...)),
		News:          BuildNewsIndex(record.Resolve(r, newsFieldKeys...)),
	}

	input := Classify(r)
	report := Report{Format: input.Format()}

	var segments []domain.Segment
	switch in := input.(type) {
	case StructuredInput:
		segments = buildStructured(sc, in)
	case LegacyInput:
		segments = buildLegacy(sc, in)
	}
	if len(segments) == 0 {
		segments = []domain.Segment{fallbackSegment(sc, r, description)}
		report.Fallback = true
	}

	created := n.createdAt(r)

	show := domain.Show{
		ID:              sc.ID,
		Title:           record.ResolveString(r, defaultTitle, showTitleKeys...),
		Hosts:           hosts(r),
		Date:            created.In(n.location).Format(DateLayout),
		CreatedAt:       created.UTC().Format(CreatedAtLayout),
		CoverURL:        sc.CoverURL,
		AudioURL:        sc.AudioURL,
		Description:     description,
		LongDescription: record.ResolveString(r, description, showLongDescKeys...),
		Tags:            tags(r),
		TotalDuration:   totalDuration(sc.TotalDuration, segments),
		Segments:        segments,
	}
	return show, report
}

// showID returns the store id, or a name-based UUID of the record content so that
// normalizing the same record twice yields the same id.
func showID(r record.Raw) string {
	if id := strings.TrimSpace(record.String(record.Resolve(r, showIDKeys...))); id != "" {
		return id
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "show-" + uuid.NewString()
	}
	return "show-" + uuid.NewSHA1(uuid.NameSpaceOID, data).String()
}

func (n *Normalizer) createdAt(r record.Raw) time.Time {
	if t, ok := parseTime(record.Resolve(r, showCreatedKeys...)); ok {
		return t
	}
	return n.now()
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range createdAtLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	if !record.HasNumber(v) {
		return time.Time{}, false
	}
	secs := record.Float(v, 0)
	if secs > 1e12 {
		if secs > maxUnixSeconds*1000 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(secs)), true
	}
	if secs < minUnixSeconds || secs > maxUnixSeconds {
		return time.Time{}, false
	}
	return time.Unix(int64(secs), 0), true
}

// hosts joins the speaker list, which may be an array of names or speaker objects,
// a JSON-encoded array or a plain string.
func hosts(r record.Raw) string {
	v := record.Resolve(r, showHostKeys...)
	if s, ok := v.(string); ok {
		if decoded, isArray := record.Array(record.Decode(s)); isArray {
			v = decoded
		} else {
			return strings.TrimSpace(s)
		}
	}

	items, ok := record.Array(v)
	if !ok {
		return defaultHosts
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := record.String(item)
		if obj, isObj := record.Object(item); isObj {
			name = record.String(record.Resolve(obj, "name", "speaker"))
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return defaultHosts
	}
	return strings.Join(names, " & ")
}

func tags(r record.Raw) []string {
	v := record.Resolve(r, showTagKeys...)
	if s, ok := v.(string); ok {
		if decoded, isArray := record.Array(record.Decode(s)); isArray {
			v = decoded
		} else {
			v = splitComma(s)
		}
	}

	items, ok := record.Array(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if tag := strings.TrimSpace(record.String(item)); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func splitComma(s string) []any {
	parts := strings.Split(s, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// totalDuration prefers the backend value and otherwise uses the furthest segment end.
func totalDuration(backend float64, segments []domain.Segment) *float64 {
	if backend > 0 {
		return &backend
	}
	var derived float64
	for _, seg := range segments {
		derived = math.Max(derived, seg.End())
	}
	if derived <= 0 {
		return nil
	}
	return &derived
}
