package doctor

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"hotlyric/hotkey"
	"hotlyric/settings"
)

func TestRunPassesWithFakeRegistrar(t *testing.T) {
	reg := hotkey.NewFakeRegistrar()
	var out bytes.Buffer

	// Keep pressing PlayPause until the run finishes.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(5 * time.Millisecond):
				reg.Fire(hotkey.DefaultCombination(hotkey.ActionPlayPause))
			}
		}
	}()

	code := run(Options{Store: settings.NewMemory(), Registrar: reg, FireWait: 2 * time.Second, Out: &out})
	if code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"[1/3]", "[2/3]", "[3/3]", "PASS: PlayPause dispatched", "All checks passed!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestStoreCheckLeavesNoKey(t *testing.T) {
	store := settings.NewMemory()
	var out bytes.Buffer

	if !checkStore(&out, store) {
		t.Fatalf("store check failed:\n%s", out.String())
	}
	if _, ok := store.Values()[probeKey]; ok {
		t.Errorf("%s left in the settings store", probeKey)
	}
}

func TestRunReportsTakenShortcut(t *testing.T) {
	reg := hotkey.NewFakeRegistrar()
	reg.Reserve(hotkey.DefaultCombination(hotkey.ActionShowHideLyric))
	var out bytes.Buffer

	code := run(Options{Store: settings.NewMemory(), Registrar: reg, FireWait: 10 * time.Millisecond, Out: &out})
	if code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "FAIL: ShowHideLyric") {
		t.Errorf("output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "[3/3]") {
		t.Error("dispatch check ran after a failure")
	}
}

func TestRunReportsConflicts(t *testing.T) {
	store := settings.NewMemory()
	store.Set(hotkey.SettingKey(hotkey.ActionOpenPlayer), hotkey.DefaultCombination(hotkey.ActionLockUnlock).Encode())
	var out bytes.Buffer

	run(Options{Store: store, Registrar: hotkey.NewFakeRegistrar(), FireWait: 10 * time.Millisecond, Out: &out})
	if !strings.Contains(out.String(), "WARN: LockUnlock, OpenPlayer share Ctrl+Alt+E") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunSessionFailure(t *testing.T) {
	reg := hotkey.NewFakeRegistrar()
	reg.FailSessions(hotkey.ErrUnsupported)
	var out bytes.Buffer

	if code := run(Options{Store: settings.NewMemory(), Registrar: reg, Out: &out}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "not supported") {
		t.Errorf("output:\n%s", out.String())
	}
}
