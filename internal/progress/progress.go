// Package progress remembers the campaign position across sessions: the map
// played last and the furthest map completed. Data lives in the per-user
// application data directory managed by gdata.
package progress

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the application data directory.
const AppName = "ascent"

const (
	progressObject   = "progress"
	progressProperty = "campaign"
)

// Progress is the saved campaign state. Highest is -1 before any map is
// completed.
type Progress struct {
	Last    int `yaml:"last"`
	Highest int `yaml:"highest"`
}

// Fresh returns the state of a new player.
func Fresh() Progress {
	return Progress{Last: 0, Highest: -1}
}

// Unlocked reports whether map id may be played: every completed map and the
// one after the furthest.
func (p Progress) Unlocked(id int) bool {
	return id <= p.Highest+1
}

// Tracker loads and saves Progress. A nil manager keeps progress in memory
// only.
type Tracker struct {
	m *gdata.Manager
	p Progress
}

// Open creates a tracker backed by the data directory of appName.
func Open(appName string) (*Tracker, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("progress: open data dir: %w", err)
	}
	t := NewTracker(m)
	if err := t.Load(); err != nil {
		return t, err
	}
	return t, nil
}

// NewTracker wraps an existing manager. m may be nil.
func NewTracker(m *gdata.Manager) *Tracker {
	return &Tracker{m: m, p: Fresh()}
}

// Load reads saved progress. Missing data is not an error; corrupt data
// resets to Fresh and is reported.
func (t *Tracker) Load() error {
	t.p = Fresh()
	if t.m == nil || !t.m.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := t.m.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("progress: load: %w", err)
	}
	var p Progress
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("progress: decode: %w", err)
	}
	t.p = p
	return nil
}

func (t *Tracker) save() error {
	if t.m == nil {
		return nil
	}
	data, err := yaml.Marshal(t.p)
	if err != nil {
		return fmt.Errorf("progress: encode: %w", err)
	}
	if err := t.m.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("progress: save: %w", err)
	}
	return nil
}

// Progress returns the current state.
func (t *Tracker) Progress() Progress { return t.p }

// SetLast records the map being played.
func (t *Tracker) SetLast(id int) error {
	if t.p.Last == id {
		return nil
	}
	t.p.Last = id
	return t.save()
}

// MarkCompleted records a finished map. Completing an earlier map never
// lowers Highest.
func (t *Tracker) MarkCompleted(id int) error {
	t.p.Last = id
	if id > t.p.Highest {
		t.p.Highest = id
	}
	return t.save()
}

// Reset forgets all progress.
func (t *Tracker) Reset() error {
	t.p = Fresh()
	return t.save()
}
