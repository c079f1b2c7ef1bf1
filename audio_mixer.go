// audio_mixer.go - 1-bit cassette-line audio emulation.
//
// The TRS-80 has no speaker. Games produce sound by rapidly toggling bit 1
// of port 0xFF at audio frequencies; the cassette output jack feeds an
// external amplifier. The original hardware's RC low-pass filter is
// replicated with a first-order IIR low-pass plus a DC-blocking high-pass,
// matching the teacher's push-model ring buffer so the oto backend can pull
// samples from a separate goroutine without locking on the hot path.

package main

import "sync"

const (
	audioSampleRate     = 44100
	audioTicksPerSample = 40 // 1,774,000 Hz / 44,100 Hz ≈ 40
	audioLPAlpha        = 0.363
	audioHPAlpha        = 0.999
	audioRingSize       = 1 << 14
)

// AudioMixer turns the port-0xFF sound bit into a stream of filtered
// float32 samples, buffered in a ring the oto backend drains from.
type AudioMixer struct {
	mu sync.Mutex

	lpState  float32
	hpState  float32
	ticksAcc uint64

	ring     [audioRingSize]float32
	writePos uint32
	readPos  uint32
	filled   uint32
}

func NewAudioMixer() *AudioMixer {
	return &AudioMixer{}
}

// Update is called once per CPU instruction from the frame driver.
// soundBit is bit 1 of the last port-0xFF write; active is false during
// cassette I/O or turbo mode, which mutes output without a hard pop.
func (m *AudioMixer) Update(soundBit bool, ticks int, active bool) {
	var raw float32
	if active {
		if soundBit {
			raw = 1.0
		} else {
			raw = -1.0
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticksAcc += uint64(ticks)
	for m.ticksAcc >= audioTicksPerSample {
		m.ticksAcc -= audioTicksPerSample

		lp := audioLPAlpha*raw + (1-audioLPAlpha)*m.lpState
		hp := lp - m.lpState + audioHPAlpha*m.hpState
		m.lpState = lp
		m.hpState = hp

		m.pushLocked(hp)
	}
}

func (m *AudioMixer) pushLocked(sample float32) {
	if m.filled >= audioRingSize {
		// Ring full: drop the oldest sample rather than block, bounding
		// latency the way the partial-push cap bounds SDL's queue.
		m.readPos = (m.readPos + 1) % audioRingSize
		m.filled--
	}
	m.ring[m.writePos] = sample
	m.writePos = (m.writePos + 1) % audioRingSize
	m.filled++
}

// ReadSampleFromRing is called from the audio backend's own goroutine to
// pull one sample at a time; it returns silence once the ring drains.
func (m *AudioMixer) ReadSampleFromRing() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.filled == 0 {
		return 0
	}
	s := m.ring[m.readPos]
	m.readPos = (m.readPos + 1) % audioRingSize
	m.filled--
	return s
}

// Clear discards all buffered samples and resets filter state so the next
// real sample doesn't pop. Call when leaving turbo mode.
func (m *AudioMixer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lpState = 0
	m.hpState = 0
	m.ticksAcc = 0
	m.writePos = 0
	m.readPos = 0
	m.filled = 0
}
