//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// Alt is Option and Win is Cmd on macOS.
var nativeModifiers = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModWin:   hotkey.ModCmd,
}
