package ui

import (
	"github.com/sirupsen/logrus"

	"github.com/five82/perch/internal/menu"
	"github.com/five82/perch/internal/prefs"
)

// readToggle is the show-read switch embedded as the menu's first item.
// It owns one element for its whole life and rewrites the label in place.
type readToggle struct {
	prefs *prefs.Prefs
	path  string
	log   logrus.FieldLogger
	el    *menu.Element
}

func newReadToggle(p *prefs.Prefs, path string, log logrus.FieldLogger) *readToggle {
	t := &readToggle{
		prefs: p,
		path:  path,
		log:   log,
		el:    menu.NewElement(menu.ToggleClass, ""),
	}
	t.sync()
	return t
}

// toggleFactory adapts newReadToggle to the menu's factory contract and
// records the built toggle so the model can flip it.
func toggleFactory(path string, log logrus.FieldLogger, built **readToggle) menu.ToggleFactory {
	return func(p *prefs.Prefs) menu.Widget {
		t := newReadToggle(p, path, log)
		if built != nil {
			*built = t
		}
		return t
	}
}

// Render returns the toggle's element with a current label.
func (t *readToggle) Render() *menu.Element {
	t.sync()
	return t.el
}

// Toggle flips ShowRead and persists the preferences. Save failures are
// logged and the in-memory value is kept.
func (t *readToggle) Toggle() {
	t.prefs.ShowRead = !t.prefs.ShowRead
	t.sync()
	if t.path == "" {
		return
	}
	if err := prefs.Save(t.path, *t.prefs); err != nil && t.log != nil {
		t.log.WithError(err).Warn("save preferences")
	}
}

func (t *readToggle) sync() {
	if t.prefs.ShowRead {
		t.el.Label = "Show read: on"
	} else {
		t.el.Label = "Show read: off"
	}
}
