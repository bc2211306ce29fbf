//go:build darwin

package tray

import "hotlyric/log"

// The macOS main thread belongs to the hotkey event loop, so the menu-bar
// item is not started there.
func Init(cb Callbacks) <-chan struct{} {
	stateMu.Lock()
	callbacks = cb
	stateMu.Unlock()
	log.Warn("tray is not available on macOS")
	return quitCh
}

func updateLines([]Line)    {}
func updatePaused(bool)     {}
func updateIcon(bool, bool) {}
