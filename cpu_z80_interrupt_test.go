package main

import "testing"

func TestZ80DIAndEIDelay(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xF3, // DI
		0xFB, // EI
		0x00, // NOP
	})
	rig.cpu.IFF1 = true
	rig.cpu.IFF2 = true

	rig.cpu.Step()
	if rig.cpu.IFF1 || rig.cpu.IFF2 {
		t.Fatalf("DI should clear IFF1/IFF2")
	}

	rig.cpu.Step()
	if rig.cpu.IFF1 || rig.cpu.IFF2 {
		t.Fatalf("EI should not enable interrupts immediately")
	}

	rig.cpu.Step()
	if !rig.cpu.IFF1 || !rig.cpu.IFF2 {
		t.Fatalf("EI should enable interrupts after one instruction")
	}
}

// Interrupt and HALT-wake acceptance is performed by the frame driver, not
// the CPU core — see TestAcceptInterrupt* in frame_driver_test.go.
