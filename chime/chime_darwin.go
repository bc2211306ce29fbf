//go:build darwin

package chime

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx     *malgo.AllocatedContext
	device       *malgo.Device
	tickSamples  []byte
	alarmSamples []byte
	soundOnce    sync.Once

	// read from the device callback
	current atomic.Pointer[[]byte]
	pos     atomic.Uint32
	playMu  sync.Mutex
)

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{Data: fill})
	return err
}

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	tickSamples = generateTick(tickFreq, 0.03, tickVolume, tickDecay)
	alarmSamples = generateDoubleBeep(alarmFreq, 0.08, 0.05, alarmVolume, alarmDecay)

	if err := initDevice(); err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
	}
}

func fill(out, _ []byte, frameCount uint32) {
	clear(out)
	samples := current.Load()
	if samples == nil {
		return
	}
	p := pos.Load()
	remaining := uint32(len(*samples)) - p
	if remaining == 0 {
		current.Store(nil)
		return
	}
	n := min(frameCount*2, remaining)
	copy(out[:n], (*samples)[p:p+n])
	pos.Store(p + n)
}

// generateTick returns mono little-endian S16 bytes of a decaying sine.
func generateTick(freq, duration, volume, decay float64) []byte {
	n := int(sampleRate * duration)
	buf := make([]byte, n*2)
	for i := range n {
		t := float64(i) / sampleRate
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * math.Exp(-t*decay))
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

func generateDoubleBeep(freq, beepDur, gapDur, volume, decay float64) []byte {
	one := generateTick(freq, beepDur, volume, decay)
	gap := make([]byte, int(sampleRate*gapDur)*2)
	out := make([]byte, 0, len(one)*2+len(gap))
	out = append(out, one...)
	out = append(out, gap...)
	return append(out, one...)
}

func play(samples []byte) {
	if malgoCtx == nil || len(samples) == 0 {
		return
	}

	playMu.Lock()
	defer playMu.Unlock()
	if device == nil {
		return
	}

	device.Stop()
	pos.Store(0)
	current.Store(&samples)

	if err := device.Start(); err != nil {
		// The device goes stale across sleep/wake; rebuild it once.
		device.Uninit()
		if err := initDevice(); err != nil {
			current.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			current.Store(nil)
		}
	}
}

func playTick() {
	soundOnce.Do(initSound)
	play(tickSamples)
}

func playAlarm() {
	soundOnce.Do(initSound)
	play(alarmSamples)
}
