package chime

import (
	"testing"

	"hotlyric/hotkey"
)

type counts struct{ ticks, alarms int }

func newTestSink() (*Sink, *counts) {
	c := &counts{}
	s := &Sink{
		tick:  func() { c.ticks++ },
		alarm: func() { c.alarms++ },
		last:  make(map[hotkey.Action]bool),
	}
	return s, c
}

func TestSinkTicksOnInvoke(t *testing.T) {
	s, c := newTestSink()
	b := hotkey.NewBinding(hotkey.ActionPlayPause, hotkey.DefaultCombination(hotkey.ActionPlayPause).Encode())

	s.HotkeyInvoked(b)
	s.HotkeyInvoked(b)
	if c.ticks != 2 {
		t.Errorf("ticks = %d, want 2", c.ticks)
	}
}

func TestSinkAlarmsOnTransition(t *testing.T) {
	fake := hotkey.NewFakeRegistrar()
	fake.Reserve(hotkey.DefaultCombination(hotkey.ActionLockUnlock))

	coord := hotkey.NewCoordinator(memStore{}, fake, hotkey.Options{})
	s, c := newTestSink()
	coord.AddSink(s)

	if err := coord.Install(); err != nil {
		t.Fatal(err)
	}
	defer coord.Uninstall()
	if c.alarms != 1 {
		t.Fatalf("alarms after install = %d, want 1", c.alarms)
	}

	// Still disabled: no repeat.
	coord.Refresh()
	if c.alarms != 1 {
		t.Errorf("alarms after refresh = %d, want 1", c.alarms)
	}

	fake.Release(hotkey.DefaultCombination(hotkey.ActionLockUnlock))
	coord.Refresh()
	if !coord.LockUnlock().Enabled() {
		t.Fatal("LockUnlock still disabled after release")
	}
	if c.alarms != 1 {
		t.Errorf("alarms after recovery = %d, want 1", c.alarms)
	}
}

type memStore struct{}

func (memStore) Load(_ string, def int) int { return def }
func (memStore) Save(string, int) error     { return nil }
