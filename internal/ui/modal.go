package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// modalStack holds the open dialogs, topmost last. Dialogs push themselves
// from Show; the model pops them when Update reports closed.
type modalStack struct {
	open []Modal
}

func (s *modalStack) push(m Modal) {
	s.open = append(s.open, m)
}

func (s *modalStack) top() Modal {
	if len(s.open) == 0 {
		return nil
	}
	return s.open[len(s.open)-1]
}

func (s *modalStack) replaceTop(m Modal) {
	if len(s.open) == 0 {
		return
	}
	s.open[len(s.open)-1] = m
}

func (s *modalStack) pop() {
	if len(s.open) == 0 {
		return
	}
	s.open[len(s.open)-1] = nil
	s.open = s.open[:len(s.open)-1]
}

func (s *modalStack) len() int {
	return len(s.open)
}
