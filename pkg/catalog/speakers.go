package catalog

import (
	"strings"

	"radiox-catalog/pkg/domain"
)

// SpeakerDirectory indexes speakers by name, ignoring case and surrounding space.
type SpeakerDirectory struct {
	speakers []domain.Speaker
	byName   map[string]domain.Speaker
}

// NewSpeakerDirectory builds a directory. The first entry wins on duplicate names.
func NewSpeakerDirectory(speakers []domain.Speaker) *SpeakerDirectory {
	d := &SpeakerDirectory{
		speakers: speakers,
		byName:   make(map[string]domain.Speaker, len(speakers)),
	}
	for _, sp := range speakers {
		key := speakerKey(sp.Name)
		if key == "" {
			continue
		}
		if _, exists := d.byName[key]; !exists {
			d.byName[key] = sp
		}
	}
	return d
}

// All returns the speakers in store order.
func (d *SpeakerDirectory) All() []domain.Speaker {
	return d.speakers
}

// Lookup finds a speaker by name.
func (d *SpeakerDirectory) Lookup(name string) (domain.Speaker, bool) {
	sp, ok := d.byName[speakerKey(name)]
	return sp, ok
}

// AvatarURL returns the avatar for name, or "" when unknown.
func (d *SpeakerDirectory) AvatarURL(name string) string {
	sp, _ := d.Lookup(name)
	return sp.AvatarURL
}

func speakerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
