//go:build !linux && !darwin

package chime

import "sync"

// No audio playback on this platform.

var soundOnce sync.Once

func initSound() {}
func playTick()  {}
func playAlarm() {}
