package main

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"hotlyric/hotkey"
	"hotlyric/tray"
)

// bindingState is the user-facing label for a binding.
func bindingState(b *hotkey.Binding) string {
	switch {
	case !b.IsComplete():
		return "not set"
	case b.Enabled():
		return "active"
	default:
		return "unavailable"
	}
}

type bindingRow struct {
	Action   string
	Combo    string
	State    string
	Conflict bool
}

func snapshotRows(c *hotkey.Coordinator) []bindingRow {
	conflicted := make(map[hotkey.Action]bool)
	for _, group := range c.Conflicts() {
		for _, b := range group {
			conflicted[b.Name()] = true
		}
	}
	bs := c.Bindings()
	rows := make([]bindingRow, len(bs))
	for i, b := range bs {
		rows[i] = bindingRow{
			Action:   string(b.Name()),
			Combo:    b.Combination().String(),
			State:    bindingState(b),
			Conflict: conflicted[b.Name()],
		}
	}
	return rows
}

// lineSink writes one line per event; used by test mode and headless runs.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineSink) HotkeyInvoked(b *hotkey.Binding) {
	s.mu.Lock()
	fmt.Fprintf(s.w, "invoked %s\n", b.Name())
	s.mu.Unlock()
}

func (s *lineSink) BindingChanged(b *hotkey.Binding) {
	s.status(b)
}

func (s *lineSink) status(b *hotkey.Binding) {
	s.mu.Lock()
	fmt.Fprintf(s.w, "status %s %s %s\n", b.Name(), b.Combination(), bindingState(b))
	s.mu.Unlock()
}

// invocationCounter feeds log.SessionEnd.
type invocationCounter struct {
	n atomic.Int64
}

func (c *invocationCounter) HotkeyInvoked(*hotkey.Binding)  { c.n.Add(1) }
func (c *invocationCounter) BindingChanged(*hotkey.Binding) {}
func (c *invocationCounter) Count() int                     { return int(c.n.Load()) }

// traySink mirrors binding state into the tray menu.
type traySink struct {
	coord *hotkey.Coordinator
}

func (t traySink) HotkeyInvoked(*hotkey.Binding) {}

func (t traySink) BindingChanged(*hotkey.Binding) {
	rows := snapshotRows(t.coord)
	lines := make([]tray.Line, len(rows))
	for i, r := range rows {
		lines[i] = tray.Line{Action: r.Action, Combo: r.Combo, State: r.State}
	}
	tray.SetLines(lines)
	tray.SetPaused(!t.coord.Installed())
}
