//go:build windows || darwin

package hotkey

import "golang.design/x/hotkey"

var nativeKeys = map[Key]hotkey.Key{
	KeySpace:  hotkey.KeySpace,
	KeyEnter:  hotkey.KeyReturn,
	KeyTab:    hotkey.KeyTab,
	KeyEscape: hotkey.KeyEscape,
	KeyDelete: hotkey.KeyDelete,
	KeyLeft:   hotkey.KeyLeft,
	KeyRight:  hotkey.KeyRight,
	KeyUp:     hotkey.KeyUp,
	KeyDown:   hotkey.KeyDown,

	Letter('A'): hotkey.KeyA, Letter('B'): hotkey.KeyB, Letter('C'): hotkey.KeyC,
	Letter('D'): hotkey.KeyD, Letter('E'): hotkey.KeyE, Letter('F'): hotkey.KeyF,
	Letter('G'): hotkey.KeyG, Letter('H'): hotkey.KeyH, Letter('I'): hotkey.KeyI,
	Letter('J'): hotkey.KeyJ, Letter('K'): hotkey.KeyK, Letter('L'): hotkey.KeyL,
	Letter('M'): hotkey.KeyM, Letter('N'): hotkey.KeyN, Letter('O'): hotkey.KeyO,
	Letter('P'): hotkey.KeyP, Letter('Q'): hotkey.KeyQ, Letter('R'): hotkey.KeyR,
	Letter('S'): hotkey.KeyS, Letter('T'): hotkey.KeyT, Letter('U'): hotkey.KeyU,
	Letter('V'): hotkey.KeyV, Letter('W'): hotkey.KeyW, Letter('X'): hotkey.KeyX,
	Letter('Y'): hotkey.KeyY, Letter('Z'): hotkey.KeyZ,

	Key('0'): hotkey.Key0, Key('1'): hotkey.Key1, Key('2'): hotkey.Key2,
	Key('3'): hotkey.Key3, Key('4'): hotkey.Key4, Key('5'): hotkey.Key5,
	Key('6'): hotkey.Key6, Key('7'): hotkey.Key7, Key('8'): hotkey.Key8,
	Key('9'): hotkey.Key9,

	F(1): hotkey.KeyF1, F(2): hotkey.KeyF2, F(3): hotkey.KeyF3, F(4): hotkey.KeyF4,
	F(5): hotkey.KeyF5, F(6): hotkey.KeyF6, F(7): hotkey.KeyF7, F(8): hotkey.KeyF8,
	F(9): hotkey.KeyF9, F(10): hotkey.KeyF10, F(11): hotkey.KeyF11, F(12): hotkey.KeyF12,
}

func toNative(c Combination) ([]hotkey.Modifier, hotkey.Key, bool) {
	key, ok := nativeKeys[c.Key]
	if !ok {
		return nil, 0, false
	}
	var mods []hotkey.Modifier
	for _, m := range []Modifier{ModCtrl, ModAlt, ModShift, ModWin} {
		if c.Modifiers&m != 0 {
			mods = append(mods, nativeModifiers[m])
		}
	}
	return mods, key, true
}
