package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestLineString(t *testing.T) {
	l := Line{Action: "PlayPause", Combo: "Ctrl+Alt+P", State: "active"}
	if got := l.String(); got != "PlayPause: Ctrl+Alt+P (active)" {
		t.Errorf("got %q", got)
	}
}

func TestSetLinesWarning(t *testing.T) {
	SetLines([]Line{{"PlayPause", "Ctrl+Alt+P", "active"}, {"NextMedia", "Ctrl+Alt+Left", "unavailable"}})
	stateMu.Lock()
	w := warning
	stateMu.Unlock()
	if !w {
		t.Error("expected warning with an unavailable binding")
	}

	SetLines([]Line{{"PlayPause", "Ctrl+Alt+P", "active"}, {"NextMedia", "None", "not set"}})
	stateMu.Lock()
	w = warning
	stateMu.Unlock()
	if w {
		t.Error("unexpected warning")
	}
}

func TestIconsDecode(t *testing.T) {
	for _, data := range [][]byte{renderIcon(32, nil, 0), renderWarnIcon(32, nil, 0)} {
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWrapICO(t *testing.T) {
	p := renderIcon(32, nil, 0)
	ico := wrapICO(p, 32)
	if binary.LittleEndian.Uint16(ico[2:]) != 1 || binary.LittleEndian.Uint16(ico[4:]) != 1 {
		t.Fatal("bad ICONDIR header")
	}
	if got := binary.LittleEndian.Uint32(ico[14:]); int(got) != len(p) {
		t.Errorf("entry size %d, want %d", got, len(p))
	}
	if !bytes.Equal(ico[22:], p) {
		t.Error("payload is not the PNG")
	}
}

func TestQuitIdempotent(t *testing.T) {
	Quit()
	Quit()
	select {
	case <-quitCh:
	default:
		t.Error("quit channel not closed")
	}
}
