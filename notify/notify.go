// Package notify posts desktop notifications when a shortcut is taken.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"hotlyric/hotkey"
)

const appName = "hotlyric"

// Notifier is a hotkey.EventSink that notifies once each time a binding goes
// from enabled to disabled.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	last    map[hotkey.Action]bool
	send    func(title, message string) error
}

func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		last:    make(map[hotkey.Action]bool),
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

func (n *Notifier) HotkeyInvoked(*hotkey.Binding) {}

func (n *Notifier) BindingChanged(b *hotkey.Binding) {
	enabled := b.Enabled()

	n.mu.Lock()
	was, seen := n.last[b.Name()]
	n.last[b.Name()] = enabled
	on := n.enabled
	n.mu.Unlock()

	// First observation counts as enabled: a binding that fails at startup
	// is a transition too.
	if !seen {
		was = true
	}
	if !on || !was || enabled {
		return
	}
	msg := fmt.Sprintf("%s shortcut %s is in use by another application", b.Name(), b.Combination())
	// Notification failures are not critical.
	_ = n.send(appName, msg)
}
