//go:build windows || linux

package tray

import (
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

var (
	ready     = make(chan struct{})
	readyOnce sync.Once
	lineItems []*systray.MenuItem
	mPause    *systray.MenuItem
	mReset    *systray.MenuItem
	mQuit     *systray.MenuItem
)

// Init starts the tray on its own locked thread and returns a channel closed
// when the user quits from the menu.
func Init(cb Callbacks) <-chan struct{} {
	stateMu.Lock()
	callbacks = cb
	stateMu.Unlock()

	go func() {
		runtime.LockOSThread()
		systray.Run(onReady, onExit)
	}()
	return quitCh
}

func onReady() {
	systray.SetIcon(iconActive)
	systray.SetTitle("hotlyric")
	systray.SetTooltip("hotlyric – global hotkeys")

	stateMu.Lock()
	initial := append([]Line(nil), lines...)
	stateMu.Unlock()

	for _, l := range initial {
		item := systray.AddMenuItem(l.String(), "")
		item.Disable()
		lineItems = append(lineItems, item)
	}

	systray.AddSeparator()
	mPause = systray.AddMenuItemCheckbox("Pause hotkeys", "Unregister all hotkeys", false)
	mReset = systray.AddMenuItem("Reset hotkeys to defaults", "Restore the built-in shortcuts")
	systray.AddSeparator()
	mQuit = systray.AddMenuItem("Quit", "Quit hotlyric")

	readyOnce.Do(func() { close(ready) })

	// Pick up anything set while the menu was being built.
	stateMu.Lock()
	ls := append([]Line(nil), lines...)
	p, w := paused, warning
	stateMu.Unlock()
	updateLines(ls)
	updatePaused(p)
	updateIcon(p, w)

	go handleMenuEvents()
}

func handleMenuEvents() {
	for {
		select {
		case <-mPause.ClickedCh:
			on := !mPause.Checked()
			if on {
				mPause.Check()
			} else {
				mPause.Uncheck()
			}
			if cb := currentCallbacks(); cb.OnPause != nil {
				cb.OnPause(on)
			}
		case <-mReset.ClickedCh:
			if cb := currentCallbacks(); cb.OnReset != nil {
				cb.OnReset()
			}
		case <-mQuit.ClickedCh:
			if cb := currentCallbacks(); cb.OnQuit != nil {
				cb.OnQuit()
			}
			Quit()
			systray.Quit()
			return
		case <-quitCh:
			systray.Quit()
			return
		}
	}
}

func isReady() bool {
	select {
	case <-ready:
		return true
	default:
		return false
	}
}

func updateLines(ls []Line) {
	if !isReady() {
		return
	}
	for i, item := range lineItems {
		if i < len(ls) {
			item.SetTitle(ls[i].String())
			item.Show()
		} else {
			item.Hide()
		}
	}
}

func updatePaused(on bool) {
	if !isReady() {
		return
	}
	if on {
		mPause.Check()
	} else {
		mPause.Uncheck()
	}
}

func updateIcon(paused, warn bool) {
	if !isReady() {
		return
	}
	switch {
	case paused:
		systray.SetIcon(iconPaused)
	case warn:
		systray.SetIcon(iconWarn)
	default:
		systray.SetIcon(iconActive)
	}
}

func onExit() {
	Quit()
}
