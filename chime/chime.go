// Package chime plays short audible cues for hotkey events.
package chime

import (
	"sync"

	"hotlyric/hotkey"
)

const (
	sampleRate = 44100

	// Invoked tick: high pitch, short
	tickFreq   = 1200
	tickVolume = 0.4
	tickDecay  = 60

	// Unavailable: low pitch double-beep
	alarmFreq   = 350
	alarmVolume = 0.6
	alarmDecay  = 30
)

// Sink is a hotkey.EventSink that ticks on every invocation and double-beeps
// when a binding goes from enabled to disabled.
type Sink struct {
	tick  func()
	alarm func()

	mu   sync.Mutex
	last map[hotkey.Action]bool
}

func NewSink() *Sink {
	return &Sink{
		tick:  playTick,
		alarm: playAlarm,
		last:  make(map[hotkey.Action]bool),
	}
}

// Init prepares the audio output so the first cue is not delayed.
func Init() {
	soundOnce.Do(initSound)
}

func (s *Sink) HotkeyInvoked(*hotkey.Binding) {
	s.tick()
}

func (s *Sink) BindingChanged(b *hotkey.Binding) {
	enabled := b.Enabled()

	s.mu.Lock()
	was, seen := s.last[b.Name()]
	s.last[b.Name()] = enabled
	s.mu.Unlock()

	if (!seen || was) && !enabled {
		s.alarm()
	}
}
