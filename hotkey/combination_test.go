package hotkey

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for m := Modifier(0); m <= modMask; m++ {
		for k := Key(0); k <= maxKey; k++ {
			c := Combination{Modifiers: m, Key: k}
			if got := Decode(c.Encode()); got != c {
				t.Fatalf("Decode(Encode(%v)) = %v", c, got)
			}
		}
	}
}

func TestDefaultsEncodeDecode(t *testing.T) {
	for _, a := range Actions {
		c := DefaultCombination(a)
		if !c.IsComplete() {
			t.Errorf("%s default %v is not complete", a, c)
		}
		if got := Decode(c.Encode()); got != c {
			t.Errorf("%s: got %v, want %v", a, got, c)
		}
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	for _, v := range []int{-1, -0x30050, 0x100 << 16, 0x10 << 16, 0x0100, 0x3_1000} {
		if got := Decode(v); got != Unassigned {
			t.Errorf("Decode(%#x) = %v, want Unassigned", v, got)
		}
	}
}

func TestUnassignedIsNotComplete(t *testing.T) {
	cases := []Combination{
		Unassigned,
		{Modifiers: ModCtrl},
		{Key: Letter('P')},
		{Modifiers: 0x10, Key: Letter('P')},
	}
	for _, c := range cases {
		if c.IsComplete() {
			t.Errorf("%+v reported complete", c)
		}
	}
	if Unassigned.Encode() != 0 {
		t.Errorf("Unassigned encodes to %d, want 0", Unassigned.Encode())
	}
}

func TestEncodeLayout(t *testing.T) {
	c := Combination{Modifiers: ModCtrl | ModAlt, Key: Letter('P')}
	if got, want := c.Encode(), 0x3<<16|0x50; got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestCombinationString(t *testing.T) {
	tests := []struct {
		c    Combination
		want string
	}{
		{Unassigned, "None"},
		{Combination{ModCtrl | ModAlt, Letter('P')}, "Ctrl+Alt+P"},
		{Combination{ModWin | ModShift | ModCtrl, F(12)}, "Ctrl+Shift+Win+F12"},
		{Combination{ModCtrl, KeyNone}, "Ctrl"},
		{Combination{0, KeySpace}, "Space"},
		{Combination{ModAlt, Key(0xE2)}, "Alt+0xE2"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestParseCombination(t *testing.T) {
	tests := []struct {
		in   string
		want Combination
	}{
		{"Ctrl+Alt+P", Combination{ModCtrl | ModAlt, Letter('P')}},
		{"ctrl + shift + space", Combination{ModCtrl | ModShift, KeySpace}},
		{"Control+Option+Left", Combination{ModCtrl | ModAlt, KeyLeft}},
		{"cmd+f5", Combination{ModWin, F(5)}},
		{"Alt+0x41", Combination{ModAlt, Letter('A')}},
		{"Ctrl+7", Combination{ModCtrl, Key('7')}},
		{"Shift+Return", Combination{ModShift, KeyEnter}},
		{"none", Unassigned},
		{"", Unassigned},
	}
	for _, tt := range tests {
		got, err := ParseCombination(tt.in)
		if err != nil {
			t.Errorf("ParseCombination(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCombination(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCombinationErrors(t *testing.T) {
	for _, in := range []string{"Ctrl+", "Ctrl+P+Q", "Ctrl+Banana", "Alt+0x1FF", "Alt+0x0", "F25"} {
		if _, err := ParseCombination(in); err == nil {
			t.Errorf("ParseCombination(%q) succeeded, want error", in)
		}
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, a := range Actions {
		c := DefaultCombination(a)
		got, err := ParseCombination(c.String())
		if err != nil {
			t.Fatalf("%s: %v", a, err)
		}
		if got != c {
			t.Errorf("%s: got %v, want %v", a, got, c)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want Combination
	}{
		{Combination{ModCtrl | ModAlt, Letter('P')}, Combination{ModCtrl | ModAlt, Letter('P')}},
		{Combination{ModCtrl | 0x4000, Letter('Q')}, Combination{ModCtrl, Letter('Q')}},
		{Combination{ModShift, Key(0x100)}, Combination{ModShift, KeyNone}},
		{Combination{0x8000, Key(0xFFFF)}, Unassigned},
	}
	for _, tt := range tests {
		got := tt.in.Normalize()
		if got != tt.want {
			t.Errorf("Normalize(%#x/%#x) = %v, want %v", uint16(tt.in.Modifiers), uint16(tt.in.Key), got, tt.want)
		}
		if Decode(got.Encode()) != got {
			t.Errorf("%v does not round-trip", got)
		}
	}
}
