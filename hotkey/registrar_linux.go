//go:build linux

package hotkey

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

var evdevModifiers = map[uint16]Modifier{
	29:  ModCtrl,  // KEY_LEFTCTRL
	97:  ModCtrl,  // KEY_RIGHTCTRL
	42:  ModShift, // KEY_LEFTSHIFT
	54:  ModShift, // KEY_RIGHTSHIFT
	56:  ModAlt,   // KEY_LEFTALT
	100: ModAlt,   // KEY_RIGHTALT
	125: ModWin,   // KEY_LEFTMETA
	126: ModWin,   // KEY_RIGHTMETA
}

// evdevKeys maps virtual-key codes to Linux KEY_* codes.
var evdevKeys = map[Key]uint16{
	KeyBackspace: 14, KeyTab: 15, KeyEnter: 28, KeyEscape: 1, KeySpace: 57,
	KeyPageUp: 104, KeyPageDown: 109, KeyEnd: 107, KeyHome: 102,
	KeyLeft: 105, KeyUp: 103, KeyRight: 106, KeyDown: 108,
	KeyInsert: 110, KeyDelete: 111,
	KeyMediaNext: 163, KeyMediaPrev: 165, KeyMediaStop: 166, KeyMediaPlayPause: 164,

	Letter('A'): 30, Letter('B'): 48, Letter('C'): 46, Letter('D'): 32,
	Letter('E'): 18, Letter('F'): 33, Letter('G'): 34, Letter('H'): 35,
	Letter('I'): 23, Letter('J'): 36, Letter('K'): 37, Letter('L'): 38,
	Letter('M'): 50, Letter('N'): 49, Letter('O'): 24, Letter('P'): 25,
	Letter('Q'): 16, Letter('R'): 19, Letter('S'): 31, Letter('T'): 20,
	Letter('U'): 22, Letter('V'): 47, Letter('W'): 17, Letter('X'): 45,
	Letter('Y'): 21, Letter('Z'): 44,

	Key('1'): 2, Key('2'): 3, Key('3'): 4, Key('4'): 5, Key('5'): 6,
	Key('6'): 7, Key('7'): 8, Key('8'): 9, Key('9'): 10, Key('0'): 11,

	F(1): 59, F(2): 60, F(3): 61, F(4): 62, F(5): 63, F(6): 64,
	F(7): 65, F(8): 66, F(9): 67, F(10): 68, F(11): 87, F(12): 88,
}

var keysByEvdev = func() map[uint16]Key {
	m := make(map[uint16]Key, len(evdevKeys))
	for k, code := range evdevKeys {
		m[code] = k
	}
	return m
}()

type evdevRegistrar struct {
	claims *claimTable
}

// NewRegistrar returns the evdev registrar, which reads /dev/input directly.
// Requires the user to be in the 'input' group.
func NewRegistrar() Registrar {
	return &evdevRegistrar{claims: newClaimTable()}
}

func (r *evdevRegistrar) NewSession() (Session, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return nil, fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return nil, fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	s := &evdevSession{
		claims: r.claims,
		fired:  make(chan Combination, 8),
		stop:   make(chan struct{}),
	}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		s.files = append(s.files, f)
		go s.readEvents(f)
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return s, nil
}

type evdevSession struct {
	claims *claimTable
	fired  chan Combination
	files  []*os.File
	stop   chan struct{}
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

func (s *evdevSession) Register(ctx context.Context, c Combination) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSessionClosed
	}
	if _, ok := evdevKeys[c.Key]; !ok {
		return fmt.Errorf("register %s: %w", c, ErrUnsupportedKey)
	}
	if !s.claims.claim(c, s) {
		return fmt.Errorf("register %s: %w", c, ErrAlreadyRegistered)
	}
	return nil
}

func (s *evdevSession) UnregisterAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.claims.releaseOwner(s)
	return nil
}

func (s *evdevSession) Fired() <-chan Combination { return s.fired }

func (s *evdevSession) Close() error {
	var errs []error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stop)
		for _, f := range s.files {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.claims.releaseOwner(s)
	})
	return errors.Join(errs...)
}

func (s *evdevSession) owns(c Combination) bool {
	o, ok := s.claims.owner(c)
	return ok && o == s
}

func (s *evdevSession) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	held := make(map[uint16]bool)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			if _, isMod := evdevModifiers[evCode]; isMod {
				switch evValue {
				case keyPress:
					held[evCode] = true
				case keyRelease:
					delete(held, evCode)
				}
				continue
			}

			// Autorepeat (value 2) is ignored so a held combination fires once.
			if evValue != keyPress {
				continue
			}
			key, ok := keysByEvdev[evCode]
			if !ok {
				continue
			}
			var mods Modifier
			for code := range held {
				mods |= evdevModifiers[code]
			}
			c := Combination{Modifiers: mods, Key: key}
			if !s.owns(c) {
				continue
			}
			select {
			case s.fired <- c:
			case <-s.stop:
				return
			}
		}
	}
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks whether keyboard devices can be opened.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("evdev: %d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
