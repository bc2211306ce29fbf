package hotkey

import "testing"

func TestNewBindingDecodes(t *testing.T) {
	b := NewBinding(ActionPlayPause, DefaultCombination(ActionPlayPause).Encode())
	if b.Name() != ActionPlayPause {
		t.Errorf("name = %q", b.Name())
	}
	if b.Modifiers() != ModCtrl|ModAlt || b.Key() != Letter('P') {
		t.Errorf("got %v", b.Combination())
	}
	if !b.Enabled() {
		t.Error("new binding should start enabled")
	}
}

func TestNewBindingCorruptValue(t *testing.T) {
	b := NewBinding(ActionLockUnlock, -42)
	if b.Combination() != Unassigned {
		t.Errorf("got %v, want Unassigned", b.Combination())
	}
	if b.IsComplete() {
		t.Error("corrupt value should not be complete")
	}
}

func TestSetModifiersAndKeyNotifiesOnce(t *testing.T) {
	b := NewBinding(ActionPlayPause, 0)
	var calls []Combination
	b.OnChange(func(got *Binding) {
		if got != b {
			t.Error("callback received a different binding")
		}
		calls = append(calls, got.Combination())
	})

	b.SetModifiersAndKey(ModCtrl|ModShift, KeySpace)
	if len(calls) != 1 {
		t.Fatalf("got %d notifications, want 1", len(calls))
	}
	want := Combination{ModCtrl | ModShift, KeySpace}
	if calls[0] != want {
		t.Errorf("callback saw %v, want %v", calls[0], want)
	}
	if b.Encode() != want.Encode() {
		t.Errorf("Encode = %#x, want %#x", b.Encode(), want.Encode())
	}
}

func TestSettingKey(t *testing.T) {
	if got := SettingKey(ActionShowHideLyric); got != "Settings_HotKey_ShowHideLyric" {
		t.Errorf("got %q", got)
	}
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("nextmedia")
	if !ok || a != ActionNextMedia {
		t.Errorf("got %q, %v", a, ok)
	}
	if _, ok := ParseAction("Rewind"); ok {
		t.Error("unknown action parsed")
	}
}

func TestSetModifiersAndKeyDropsUnpersistableBits(t *testing.T) {
	const modNoRepeat Modifier = 0x4000
	b := NewBinding(ActionPlayPause, 0)

	b.SetModifiersAndKey(ModCtrl|modNoRepeat, Letter('Q'))
	want := Combination{ModCtrl, Letter('Q')}
	if b.Combination() != want {
		t.Fatalf("got %v, want %v", b.Combination(), want)
	}
	if got := Decode(b.Encode()); got != want {
		t.Errorf("Decode(Encode) = %v, want %v", got, want)
	}

	b.SetModifiersAndKey(ModAlt, Key(0x1FF))
	if b.IsComplete() {
		t.Errorf("%v: out-of-range key should leave the binding incomplete", b.Combination())
	}
	if got := Decode(b.Encode()); got != b.Combination() {
		t.Errorf("Decode(Encode) = %v, want %v", got, b.Combination())
	}
}
