package main

import "testing"

func TestCassetteStartsIdle(t *testing.T) {
	var c Cassette
	if !c.IsIdle() {
		t.Fatalf("a fresh Cassette should be Idle")
	}
}

func TestStartPlaybackThenStopReturnsToIdle(t *testing.T) {
	var c Cassette
	c.StartPlayback([]byte{0x01, 0x02}, 1000)
	if !c.IsPlaying() {
		t.Fatalf("expected Playing after StartPlayback")
	}
	c.StopCassette()
	if !c.IsIdle() {
		t.Fatalf("StopCassette should return to Idle")
	}
}

func TestRecordingAccumulatesBitsIntoBytes(t *testing.T) {
	var c Cassette
	c.StartRecording(0)

	// Two short intervals (below casCycleThresh) back to back record one
	// "1" bit; one long interval records a "0" bit. Feed 8 bits total.
	t0 := uint64(0)
	edge := func(delta uint64) {
		t0 += delta
		c.OnEdge(t0)
	}
	edge(0) // establishes the first edge, no bit recorded yet
	for i := 0; i < 8; i++ {
		edge(casCycleThresh + 1) // each edge alone records a "0" bit
	}

	out := c.StopCassette()
	if len(out) != 1 {
		t.Fatalf("recorded %d bytes, want 1", len(out))
	}
	if out[0] != 0x00 {
		t.Fatalf("recorded byte = 0x%02X, want 0x00 (all zero bits)", out[0])
	}
}

func TestIsRecordingIdleAfterTimeout(t *testing.T) {
	var c Cassette
	c.StartRecording(0)
	if c.IsRecordingIdle(casIdleTimeout) {
		t.Fatalf("should not be idle exactly at the timeout boundary")
	}
	if !c.IsRecordingIdle(casIdleTimeout + 1) {
		t.Fatalf("should be idle once past the timeout")
	}
}

func TestIsPlaybackDoneAfterDataPlusPad(t *testing.T) {
	var c Cassette
	data := []byte{0xA5}
	c.StartPlayback(data, 0)
	limit := uint64(len(data)+casPadBytes) * casBytePeriod
	if c.IsPlaybackDone(limit) {
		t.Fatalf("should not be done exactly at the limit boundary")
	}
	if !c.IsPlaybackDone(limit + 1) {
		t.Fatalf("should be done once past the limit")
	}
}

func TestPlaybackSignalLeadInIsLow(t *testing.T) {
	var c Cassette
	c.StartPlayback([]byte{0xFF}, 0)
	if c.playbackSignal(0) {
		t.Fatalf("the lead-in half-period should read low")
	}
}

func TestRealignClockSnapsToByteBoundary(t *testing.T) {
	var c Cassette
	c.StartPlayback([]byte{0x00, 0x00, 0x00}, 1000)
	// Advance into the middle of the second byte, then realign.
	now := uint64(1000) + casHalf0 + casBytePeriod + 50
	c.RealignClock(now)
	elapsed := now - c.startT
	if (elapsed-casHalf0)%casBytePeriod != 0 {
		t.Fatalf("RealignClock should leave now at an exact byte boundary")
	}
}
