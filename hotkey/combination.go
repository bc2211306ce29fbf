package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a bitmask of modifier keys using the Win32 MOD_* values.
type Modifier uint16

const (
	ModAlt   Modifier = 0x0001
	ModCtrl  Modifier = 0x0002
	ModShift Modifier = 0x0004
	ModWin   Modifier = 0x0008 // Super on Linux, Cmd on macOS

	modMask = ModAlt | ModCtrl | ModShift | ModWin
)

// Key is a Win32 virtual-key code. KeyNone means no key is assigned.
type Key uint16

const (
	KeyNone      Key = 0x00
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0D
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20
	KeyPageUp    Key = 0x21
	KeyPageDown  Key = 0x22
	KeyEnd       Key = 0x23
	KeyHome      Key = 0x24
	KeyLeft      Key = 0x25
	KeyUp        Key = 0x26
	KeyRight     Key = 0x27
	KeyDown      Key = 0x28
	KeyInsert    Key = 0x2D
	KeyDelete    Key = 0x2E
	Key0         Key = 0x30
	Key9         Key = 0x39
	KeyA         Key = 0x41
	KeyZ         Key = 0x5A
	KeyF1        Key = 0x70
	KeyF24       Key = 0x87

	KeyMediaNext      Key = 0xB0
	KeyMediaPrev      Key = 0xB1
	KeyMediaStop      Key = 0xB2
	KeyMediaPlayPause Key = 0xB3

	maxKey Key = 0xFF
)

// Letter returns the virtual-key code for an ASCII letter.
func Letter(r rune) Key {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return KeyNone
	}
	return Key(r)
}

// F returns the virtual-key code for function key Fn (1..24).
func F(n int) Key {
	if n < 1 || n > 24 {
		return KeyNone
	}
	return KeyF1 + Key(n-1)
}

var namedKeys = map[Key]string{
	KeyBackspace:      "Backspace",
	KeyTab:            "Tab",
	KeyEnter:          "Enter",
	KeyEscape:         "Esc",
	KeySpace:          "Space",
	KeyPageUp:         "PgUp",
	KeyPageDown:       "PgDn",
	KeyEnd:            "End",
	KeyHome:           "Home",
	KeyLeft:           "Left",
	KeyUp:             "Up",
	KeyRight:          "Right",
	KeyDown:           "Down",
	KeyInsert:         "Insert",
	KeyDelete:         "Delete",
	KeyMediaNext:      "MediaNext",
	KeyMediaPrev:      "MediaPrev",
	KeyMediaStop:      "MediaStop",
	KeyMediaPlayPause: "MediaPlayPause",
}

var keyAliases = map[string]Key{
	"RETURN":   KeyEnter,
	"ESCAPE":   KeyEscape,
	"PAGEUP":   KeyPageUp,
	"PAGEDOWN": KeyPageDown,
	"DEL":      KeyDelete,
	"INS":      KeyInsert,
	"BACK":     KeyBackspace,
}

var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(namedKeys)+len(keyAliases))
	for k, name := range namedKeys {
		m[strings.ToUpper(name)] = k
	}
	for name, k := range keyAliases {
		m[name] = k
	}
	return m
}()

func (k Key) String() string {
	switch {
	case k == KeyNone:
		return ""
	case k >= KeyA && k <= KeyZ, k >= Key0 && k <= Key9:
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF24:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := namedKeys[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModWin, "Win"},
}

var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"SHIFT":   ModShift,
	"WIN":     ModWin,
	"SUPER":   ModWin,
	"CMD":     ModWin,
	"META":    ModWin,
}

func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m&o.mod != 0 {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// Combination is a modifier set plus a single key.
type Combination struct {
	Modifiers Modifier
	Key       Key
}

// Unassigned is the combination with no modifiers and no key.
var Unassigned = Combination{}

// IsComplete reports whether the combination has at least one modifier and a
// real key. Only complete combinations are ever sent to a registrar.
func (c Combination) IsComplete() bool {
	return c.Modifiers&modMask != 0 && c.Key != KeyNone
}

// Normalize drops modifier bits outside Alt/Ctrl/Shift/Win and clears a key
// beyond the virtual-key range, so the result always survives Encode/Decode.
func (c Combination) Normalize() Combination {
	c.Modifiers &= modMask
	if c.Key > maxKey {
		c.Key = KeyNone
	}
	return c
}

// Encode packs the combination into the integer persisted in settings.
func (c Combination) Encode() int {
	return int(c.Modifiers)<<16 | int(c.Key)
}

// Decode unpacks a persisted value. Values outside the valid range decode to
// Unassigned.
func Decode(v int) Combination {
	if v < 0 {
		return Unassigned
	}
	if v>>16 > int(modMask) || Key(v&0xFFFF) > maxKey {
		return Unassigned
	}
	return Combination{Modifiers: Modifier(v >> 16), Key: Key(v & 0xFFFF)}
}

func (c Combination) String() string {
	if c == Unassigned {
		return "None"
	}
	mods := c.Modifiers.String()
	switch {
	case mods == "":
		return c.Key.String()
	case c.Key == KeyNone:
		return mods
	}
	return mods + "+" + c.Key.String()
}

// ParseCombination parses strings such as "Ctrl+Alt+P", "ctrl+shift+f12" or
// "Alt+0x41". An empty string or "None" yields Unassigned.
func ParseCombination(s string) (Combination, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.EqualFold(raw, "none") {
		return Unassigned, nil
	}

	var c Combination
	for _, token := range strings.Split(raw, "+") {
		name := strings.ToUpper(strings.TrimSpace(token))
		if name == "" {
			return Unassigned, fmt.Errorf("empty token in hotkey %q", raw)
		}
		if mod, ok := modifierByName[name]; ok {
			c.Modifiers |= mod
			continue
		}
		if c.Key != KeyNone {
			return Unassigned, fmt.Errorf("hotkey %q has more than one key", raw)
		}
		key, err := parseKey(name)
		if err != nil {
			return Unassigned, fmt.Errorf("hotkey %q: %w", raw, err)
		}
		c.Key = key
	}
	return c, nil
}

func parseKey(name string) (Key, error) {
	if len(name) == 1 {
		ch := name[0]
		if ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' {
			return Key(ch), nil
		}
	}
	if k, ok := keyByName[name]; ok {
		return k, nil
	}
	if strings.HasPrefix(name, "F") {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			if k := F(n); k != KeyNone {
				return k, nil
			}
		}
	}
	if strings.HasPrefix(name, "0X") {
		v, err := strconv.ParseUint(name[2:], 16, 16)
		if err != nil || v == 0 || Key(v) > maxKey {
			return KeyNone, fmt.Errorf("invalid key code %q", name)
		}
		return Key(v), nil
	}
	return KeyNone, fmt.Errorf("unknown key %q", name)
}
