package doctor

import (
	"fmt"
	"runtime"
	"time"

	"github.com/micmonay/keybd_event"

	"hotlyric/hotkey"
)

var synthKeys = map[hotkey.Key]int{
	hotkey.KeySpace: keybd_event.VK_SPACE,

	hotkey.Letter('A'): keybd_event.VK_A, hotkey.Letter('B'): keybd_event.VK_B,
	hotkey.Letter('C'): keybd_event.VK_C, hotkey.Letter('D'): keybd_event.VK_D,
	hotkey.Letter('E'): keybd_event.VK_E, hotkey.Letter('F'): keybd_event.VK_F,
	hotkey.Letter('G'): keybd_event.VK_G, hotkey.Letter('H'): keybd_event.VK_H,
	hotkey.Letter('I'): keybd_event.VK_I, hotkey.Letter('J'): keybd_event.VK_J,
	hotkey.Letter('K'): keybd_event.VK_K, hotkey.Letter('L'): keybd_event.VK_L,
	hotkey.Letter('M'): keybd_event.VK_M, hotkey.Letter('N'): keybd_event.VK_N,
	hotkey.Letter('O'): keybd_event.VK_O, hotkey.Letter('P'): keybd_event.VK_P,
	hotkey.Letter('Q'): keybd_event.VK_Q, hotkey.Letter('R'): keybd_event.VK_R,
	hotkey.Letter('S'): keybd_event.VK_S, hotkey.Letter('T'): keybd_event.VK_T,
	hotkey.Letter('U'): keybd_event.VK_U, hotkey.Letter('V'): keybd_event.VK_V,
	hotkey.Letter('W'): keybd_event.VK_W, hotkey.Letter('X'): keybd_event.VK_X,
	hotkey.Letter('Y'): keybd_event.VK_Y, hotkey.Letter('Z'): keybd_event.VK_Z,

	hotkey.F(1): keybd_event.VK_F1, hotkey.F(2): keybd_event.VK_F2,
	hotkey.F(3): keybd_event.VK_F3, hotkey.F(4): keybd_event.VK_F4,
	hotkey.F(5): keybd_event.VK_F5, hotkey.F(6): keybd_event.VK_F6,
	hotkey.F(7): keybd_event.VK_F7, hotkey.F(8): keybd_event.VK_F8,
	hotkey.F(9): keybd_event.VK_F9, hotkey.F(10): keybd_event.VK_F10,
	hotkey.F(11): keybd_event.VK_F11, hotkey.F(12): keybd_event.VK_F12,
}

// synthesize presses and releases c through the OS input queue.
func synthesize(c hotkey.Combination) error {
	vk, ok := synthKeys[c.Key]
	if !ok {
		return fmt.Errorf("cannot synthesise key %s", c.Key)
	}
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("keyboard synthesis unavailable: %w", err)
	}
	// The uinput device needs a moment before it accepts events.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}
	kb.SetKeys(vk)
	kb.HasCTRL(c.Modifiers&hotkey.ModCtrl != 0)
	kb.HasALT(c.Modifiers&hotkey.ModAlt != 0)
	kb.HasSHIFT(c.Modifiers&hotkey.ModShift != 0)
	kb.HasSuper(c.Modifiers&hotkey.ModWin != 0)
	return kb.Launching()
}
