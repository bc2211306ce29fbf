//go:build !windows && !linux && !darwin

package tray

func Init(cb Callbacks) <-chan struct{} { return quitCh }
func updateLines([]Line)                {}
func updatePaused(bool)                 {}
func updateIcon(bool, bool)             {}
