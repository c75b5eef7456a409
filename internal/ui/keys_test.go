package ui

import (
	"testing"

	"github.com/five82/perch/internal/menu"
)

func TestCommandBindings_CoverMenuInOrder(t *testing.T) {
	keys := DefaultKeyMap()
	bindings := keys.commandBindings()
	cmds := menu.Commands()
	if len(bindings) != len(cmds) {
		t.Fatalf("%d bindings for %d commands", len(bindings), len(cmds))
	}
	for i, cb := range bindings {
		if cb.cmd != cmds[i] {
			t.Fatalf("binding %d = %q, want %q", i, cb.cmd, cmds[i])
		}
		if keys.hintFor(string(cb.cmd)) == "" {
			t.Fatalf("no hint for %q", cb.cmd)
		}
	}
	if keys.hintFor(menu.ToggleClass) != "t" {
		t.Fatalf("toggle hint = %q", keys.hintFor(menu.ToggleClass))
	}
}
