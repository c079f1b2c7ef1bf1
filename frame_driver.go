// frame_driver.go - per-frame orchestration: runs the CPU for one video
// frame's worth of T-states (or 100x that in turbo mode while a keystroke
// is queued), delivers the maskable interrupt between instructions, and
// drives the cassette fast-loader, audio mixer, and freeze tracer.
//
// This is the ONLY place interrupt acceptance happens. CPU.Step never
// touches IFF1/IFF2/PC/SP for an interrupt on its own.

package main

import "time"

const (
	turboMultiplier  = 100
	turboRenderEvery = 10
)

type speedMode int

const (
	speedNormal speedMode = iota
	speedTurbo
)

// FrameDriver owns the single-goroutine run loop tying the CPU, bus,
// fast-loader, keystroke queue, audio mixer, and tracer together.
type FrameDriver struct {
	bus   *Bus
	cpu   *CPU_Z80
	mixer *AudioMixer

	tracer  *Tracer
	loader  *SoftwareLoader
	keys    *KeyInjector
	monitor *Monitor

	speed            speedMode
	turboRenderCount int
	totalTicks       uint64
}

func NewFrameDriver(bus *Bus, cpu *CPU_Z80, mixer *AudioMixer) *FrameDriver {
	return &FrameDriver{
		bus:    bus,
		cpu:    cpu,
		mixer:  mixer,
		tracer: NewTracer(),
		loader: NewSoftwareLoader(),
		keys:   NewKeyInjector(),
	}
}

func (fd *FrameDriver) KeyInjector() *KeyInjector       { return fd.keys }
func (fd *FrameDriver) SoftwareLoader() *SoftwareLoader { return fd.loader }
func (fd *FrameDriver) TotalTicks() uint64              { return fd.totalTicks }

// AttachMonitor wires a debug console into the instruction loop: each
// step checks ShouldHalt before executing, blocking there while paused.
func (fd *FrameDriver) AttachMonitor(m *Monitor) { fd.monitor = m }

// RunFrame executes one frame's worth of T-states (100x that in turbo
// mode) and reports whether the video frontend should render this frame.
func (fd *FrameDriver) RunFrame() bool {
	desired := speedNormal
	if fd.keys.IsActive() {
		desired = speedTurbo
	}
	if desired != fd.speed {
		fd.speed = desired
		fd.turboRenderCount = 0
		if fd.speed == speedNormal {
			fd.mixer.Clear()
		}
	}

	budget := uint64(videoTStatesPerFrame)
	if fd.speed == speedTurbo {
		budget *= turboMultiplier
	}

	var frameT uint64
	for frameT < budget {
		pc := fd.cpu.PC

		if fd.monitor != nil {
			for fd.monitor.ShouldHalt(pc) {
				time.Sleep(10 * time.Millisecond)
			}
		}

		fd.loader.OnSystemEntry(pc, fd.cpu, fd.bus)
		fd.loader.OnCloadEntry(pc, fd.cpu, fd.bus, fd.keys)
		fd.loader.OnCloadTracking(pc, fd.cpu, fd.bus, fd.keys)
		fd.loader.OnCsaveEntry(pc, fd.bus)

		if ticks, ok := fd.keys.HandleIntercept(pc, fd.cpu, fd.bus); ok {
			fd.bus.Tick(ticks)
			frameT += uint64(ticks)
			fd.totalTicks += uint64(ticks)
			continue
		}

		fd.tracer.Record(fd.cpu, fd.totalTicks)
		if fd.tracer.CheckFreeze(pc) {
			fd.tracer.Dump(fd.bus)
		}

		before := fd.bus.GlobalTicks()
		fd.cpu.Step()
		used := fd.bus.GlobalTicks() - before
		frameT += used
		fd.totalTicks += used

		active := fd.speed == speedNormal && fd.bus.GetCassetteState() == casIdle
		fd.mixer.Update(fd.bus.SoundBit(), int(used), active)

		accepted := deliverInterrupt(fd.cpu, fd.bus)
		frameT += accepted
		fd.totalTicks += accepted

		if fd.bus.IsRecordingIdle() {
			fd.bus.StopCassette()
		}
		if fd.bus.IsPlaybackDone() {
			fd.bus.StopCassette()
		}
	}

	if fd.speed == speedNormal {
		return true
	}
	fd.turboRenderCount++
	return fd.turboRenderCount%turboRenderEvery == 0
}

// deliverInterrupt delivers a maskable interrupt if one is pending and the
// CPU has interrupts enabled, returning the T-states charged (0 if no
// interrupt was delivered). The TRS-80 Model I wires IM 1: RST 38h (push
// PC, jump to 0x0038). IFF2 <- IFF1 (saved for RETI/RETN), IFF1 <- false.
// Do NOT clear IFF2 here: RETI sets IFF1 <- IFF2, so clearing IFF2 would
// permanently disable interrupts the first time the ISR returns.
func deliverInterrupt(cpu *CPU_Z80, bus *Bus) uint64 {
	if !bus.InterruptPending() || !cpu.IFF1 {
		return 0
	}
	bus.ClearInterrupt()
	cpu.IFF2 = cpu.IFF1
	cpu.IFF1 = false
	if cpu.Halted {
		cpu.Halted = false
		cpu.PC++
	}
	sp := cpu.SP - 2
	ret := cpu.PC
	bus.Write(sp, byte(ret))
	bus.Write(sp+1, byte(ret>>8))
	cpu.SP = sp
	cpu.PC = 0x0038

	bus.Tick(13) // IM1 latency: 2 sample + 11 push-and-jump
	return 13
}

// TitleStatus reports a short status string for the window title: the
// cassette status if one is active, tagged with [TURBO] in turbo mode.
func (fd *FrameDriver) TitleStatus() string {
	status := fd.bus.GetCassetteStatus()
	tag := ""
	if fd.speed == speedTurbo {
		tag = " [TURBO]"
	}
	if status == "" {
		return "TRS-80 Model I" + tag
	}
	return status + tag
}

// Shutdown dumps the trace buffer if the freeze detector never fired, so
// the last N instructions before an unexpected exit are still inspectable.
func (fd *FrameDriver) Shutdown() {
	if fd.tracer.HasEntries() {
		fd.tracer.Dump(fd.bus)
	}
}
