//go:build headless

// video_frontend_headless.go - no-op video frontend for headless builds
// (CI and scripted scenario runs, where there is no display).

package main

// RunVideoFrontend runs the frame driver with no rendering, stepping
// forever until the process exits some other way (a script or monitor
// quit command). It exists only to keep main.go's call site identical
// across build tags.
func RunVideoFrontend(fd *FrameDriver, bus *Bus) error {
	for {
		fd.RunFrame()
	}
}
