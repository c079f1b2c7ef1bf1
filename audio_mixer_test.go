package main

import "testing"

func TestAudioMixerSilentWhenInactive(t *testing.T) {
	m := NewAudioMixer()
	m.Update(true, audioTicksPerSample*4, false)
	if m.filled == 0 {
		t.Fatalf("Update should still push samples while inactive, just silent ones")
	}
	s := m.ReadSampleFromRing()
	if s != 0 {
		t.Fatalf("first sample while inactive = %v, want near 0 (cold filter state)", s)
	}
}

func TestAudioMixerProducesSamplesWhileActive(t *testing.T) {
	m := NewAudioMixer()
	m.Update(true, audioTicksPerSample*4, true)
	if m.filled == 0 {
		t.Fatalf("expected samples to be pushed into the ring")
	}
}

func TestReadSampleFromRingDrainsToSilence(t *testing.T) {
	m := NewAudioMixer()
	m.Update(true, audioTicksPerSample, true)
	for m.filled > 0 {
		m.ReadSampleFromRing()
	}
	if got := m.ReadSampleFromRing(); got != 0 {
		t.Fatalf("draining past empty should return silence, got %v", got)
	}
}

func TestAudioMixerRingDropsOldestWhenFull(t *testing.T) {
	m := NewAudioMixer()
	m.Update(true, audioTicksPerSample*(audioRingSize+10), true)
	if m.filled != audioRingSize {
		t.Fatalf("filled = %d, want the ring capped at %d", m.filled, audioRingSize)
	}
}

func TestClearResetsFilterAndRing(t *testing.T) {
	m := NewAudioMixer()
	m.Update(true, audioTicksPerSample*4, true)
	m.Clear()
	if m.filled != 0 || m.lpState != 0 || m.hpState != 0 {
		t.Fatalf("Clear should zero the ring and filter state")
	}
}
