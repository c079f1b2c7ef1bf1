// loader.go - startup wiring: ROM/disk/cassette loading and the --load /
// --disk CLI surface, plus the exit-code policy from the error taxonomy.

package main

import (
	"fmt"
	"os"
)

const (
	exitOK       = 0
	exitInitFail = 1
)

// StartupConfig holds the parsed CLI flags main.go hands to Bootstrap.
type StartupConfig struct {
	ROMPath  string
	LoadName string
	DiskPath string
	Script   string
	Monitor  bool
}

// Bootstrap wires a fresh Bus/CPU/FrameDriver together per StartupConfig.
// ROM missing or the wrong size is the one unrecoverable setup error;
// everything else is reported and the affected peripheral sits idle.
func Bootstrap(cfg StartupConfig) (*FrameDriver, *Bus, *CPU_Z80, error) {
	bus := NewBus()
	if err := bus.LoadROM(cfg.ROMPath); err != nil {
		return nil, nil, nil, fmt.Errorf("fatal: %w", err)
	}

	cpu := NewCPU_Z80(bus)

	mixer := NewAudioMixer()
	fd := NewFrameDriver(bus, cpu, mixer)

	if cfg.DiskPath != "" {
		if err := bus.fdc.LoadDisk(0, cfg.DiskPath); err != nil {
			fmt.Fprintf(os.Stderr, "[DISK] %v (drive 0 stays empty)\n", err)
		}
	}

	if cfg.LoadName != "" {
		fd.SoftwareLoader().SetupFromCLI(cfg.LoadName, fd.KeyInjector())
	}

	return fd, bus, cpu, nil
}

// StartAudio wires the mixer into an OtoPlayer, logging and continuing
// silently if no audio device is available (a recoverable setup error).
func StartAudio(mixer *AudioMixer) *OtoPlayer {
	player, err := NewOtoPlayer(audioSampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[AUDIO] %v (continuing muted)\n", err)
		return nil
	}
	player.SetupPlayer(mixer)
	player.Start()
	return player
}
