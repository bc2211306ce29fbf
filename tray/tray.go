package tray

import (
	"sync"
)

// Line is one binding's status as shown in the menu.
type Line struct {
	Action string
	Combo  string
	State  string
}

func (l Line) String() string {
	return l.Action + ": " + l.Combo + " (" + l.State + ")"
}

// Callbacks are invoked from the tray's event goroutine.
type Callbacks struct {
	OnPause func(paused bool)
	OnReset func()
	OnQuit  func()
}

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	stateMu   sync.Mutex
	callbacks Callbacks
	lines     []Line
	paused    bool
	warning   bool
)

// SetLines replaces the status lines and refreshes the menu and icon. A
// line whose state is "unavailable" switches the icon to the warning badge.
func SetLines(ls []Line) {
	stateMu.Lock()
	lines = append([]Line(nil), ls...)
	warning = hasWarning(lines)
	snapshot := append([]Line(nil), lines...)
	w, p := warning, paused
	stateMu.Unlock()

	updateLines(snapshot)
	updateIcon(p, w)
}

// SetPaused mirrors the install state into the checkbox and icon.
func SetPaused(on bool) {
	stateMu.Lock()
	paused = on
	w := warning
	stateMu.Unlock()

	updatePaused(on)
	updateIcon(on, w)
}

// Paused reports the last state passed to SetPaused.
func Paused() bool {
	stateMu.Lock()
	defer stateMu.Unlock()
	return paused
}

func hasWarning(ls []Line) bool {
	for _, l := range ls {
		if l.State == "unavailable" {
			return true
		}
	}
	return false
}

func currentCallbacks() Callbacks {
	stateMu.Lock()
	defer stateMu.Unlock()
	return callbacks
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}
