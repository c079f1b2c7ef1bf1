//go:build !headless

// video_frontend_ebiten.go - Ebiten video frontend: renders the 64x16
// character VRAM grid and turns host key events into the TRS-80's 8x8
// keyboard matrix.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	trs80Cols    = 64
	trs80Rows    = 16
	trs80CellW   = 8
	trs80CellH   = 14
	trs80PixelW  = trs80Cols * trs80CellW
	trs80PixelH  = trs80Rows * trs80CellH
	defaultScale = 2
)

var (
	trs80FG = color.RGBA{0x30, 0xFF, 0x60, 0xFF}
	trs80BG = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

// keyCell locates a host key in the TRS-80's 8x8 matrix. shift forces the
// row 7 / col 0 shift line on regardless of whether the host shift key is
// physically held, for keys that only exist as a shifted TRS-80 key.
type keyCell struct {
	row, col int
	shift    bool
}

var ebitenKeyMatrix = map[ebiten.Key]keyCell{
	ebiten.KeyA: {0, 1, false}, ebiten.KeyB: {0, 2, false}, ebiten.KeyC: {0, 3, false},
	ebiten.KeyD: {0, 4, false}, ebiten.KeyE: {0, 5, false}, ebiten.KeyF: {0, 6, false},
	ebiten.KeyG: {0, 7, false},
	ebiten.KeyH: {1, 0, false}, ebiten.KeyI: {1, 1, false}, ebiten.KeyJ: {1, 2, false},
	ebiten.KeyK: {1, 3, false}, ebiten.KeyL: {1, 4, false}, ebiten.KeyM: {1, 5, false},
	ebiten.KeyN: {1, 6, false}, ebiten.KeyO: {1, 7, false},
	ebiten.KeyP: {2, 0, false}, ebiten.KeyQ: {2, 1, false}, ebiten.KeyR: {2, 2, false},
	ebiten.KeyS: {2, 3, false}, ebiten.KeyT: {2, 4, false}, ebiten.KeyU: {2, 5, false},
	ebiten.KeyV: {2, 6, false}, ebiten.KeyW: {2, 7, false},
	ebiten.KeyX: {3, 0, false}, ebiten.KeyY: {3, 1, false}, ebiten.KeyZ: {3, 2, false},

	ebiten.KeyDigit0: {4, 0, false}, ebiten.KeyDigit1: {4, 1, false}, ebiten.KeyDigit2: {4, 2, false},
	ebiten.KeyDigit3: {4, 3, false}, ebiten.KeyDigit4: {4, 4, false}, ebiten.KeyDigit5: {4, 5, false},
	ebiten.KeyDigit6: {4, 6, false}, ebiten.KeyDigit7: {4, 7, false},
	ebiten.KeyDigit8: {5, 0, false}, ebiten.KeyDigit9: {5, 1, false},
	ebiten.KeySemicolon: {5, 3, false}, ebiten.KeyComma: {5, 4, false},
	ebiten.KeyMinus: {5, 5, false}, ebiten.KeyPeriod: {5, 6, false}, ebiten.KeySlash: {5, 7, false},

	ebiten.KeyEnter:       {6, 0, false},
	ebiten.KeyNumpadEnter: {6, 0, false},
	ebiten.KeyHome:        {6, 1, false}, // CLEAR
	ebiten.KeyEscape:      {6, 2, false}, // BREAK
	ebiten.KeyArrowUp:     {6, 3, false},
	ebiten.KeyArrowDown:   {6, 4, false},
	ebiten.KeyBackspace:   {6, 5, false}, // LEFT ARROW
	ebiten.KeyArrowLeft:   {6, 5, false},
	ebiten.KeyArrowRight:  {6, 6, false},
	ebiten.KeySpace:       {6, 7, false},

	// Shift-only punctuation with no unshifted TRS-80 equivalent key.
	ebiten.KeyEqual:      {5, 3, true}, // '+' -> Shift+;
	ebiten.KeyApostrophe: {4, 7, true}, // '\'' -> Shift+7
}

// TRS80Frontend is the ebiten.Game implementation driving the emulator.
type TRS80Frontend struct {
	fd  *FrameDriver
	bus *Bus

	window *ebiten.Image

	mu           sync.Mutex
	vramSnapshot [vramSize]byte

	fullscreen bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewTRS80Frontend(fd *FrameDriver, bus *Bus) *TRS80Frontend {
	return &TRS80Frontend{fd: fd, bus: bus}
}

func (g *TRS80Frontend) Run() error {
	ebiten.SetWindowSize(trs80PixelW*defaultScale, trs80PixelH*defaultScale)
	ebiten.SetWindowTitle("TRS-80 Model I")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(g)
}

func (g *TRS80Frontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		g.fullscreen = !g.fullscreen
		ebiten.SetFullscreen(g.fullscreen)
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shiftHeld := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shiftHeld && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.handleClipboardPaste()
	}

	g.updateKeyboardMatrix(shiftHeld)

	if g.fd.RunFrame() {
		g.mu.Lock()
		g.vramSnapshot = g.bus.VRAM()
		g.mu.Unlock()
	}
	ebiten.SetWindowTitle(g.fd.TitleStatus())
	return nil
}

// updateKeyboardMatrix recomputes all 8 rows from the current key state.
// The TRS-80 matrix is level-based (a row reads high bits for every key
// currently down in that row), so this runs once per tick rather than
// reacting to individual press/release edges.
func (g *TRS80Frontend) updateKeyboardMatrix(shiftHeld bool) {
	var rows [8]byte
	for key, cell := range ebitenKeyMatrix {
		if !ebiten.IsKeyPressed(key) {
			continue
		}
		rows[cell.row] |= 1 << cell.col
		if cell.shift {
			shiftHeld = true
		}
	}
	if shiftHeld {
		rows[7] |= 0x01
	}
	for row, bits := range rows {
		g.bus.SetKeyboardRow(row, bits)
	}
}

func (g *TRS80Frontend) handleClipboardPaste() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	g.fd.KeyInjector().Enqueue(string(data))
}

func (g *TRS80Frontend) Draw(screen *ebiten.Image) {
	if g.window == nil {
		g.window = ebiten.NewImage(trs80PixelW, trs80PixelH)
	}
	g.window.Fill(trs80BG)

	g.mu.Lock()
	vram := g.vramSnapshot
	g.mu.Unlock()

	face := basicfont.Face7x13
	for row := 0; row < trs80Rows; row++ {
		baseY := row*trs80CellH + 11 // baseline within the cell
		for col := 0; col < trs80Cols; col++ {
			ch := vram[row*trs80Cols+col]
			baseX := col * trs80CellW
			switch {
			case ch >= 0x20 && ch < 0x7F:
				text.Draw(g.window, string(rune(ch)), face, baseX, baseY, trs80FG)
			case ch >= 0x80:
				g.drawSemigraphic(baseX, row*trs80CellH, ch)
			}
		}
	}
	screen.DrawImage(g.window, nil)
}

// drawSemigraphic renders a TRS-80 graphics-block character: a 2x3 grid
// of sub-cells, each filled when its corresponding low bit of ch is set.
func (g *TRS80Frontend) drawSemigraphic(x, y int, ch byte) {
	pattern := ch & 0x3F
	subW := trs80CellW / 2
	subH := trs80CellH / 3
	for blockRow := 0; blockRow < 3; blockRow++ {
		for blockCol := 0; blockCol < 2; blockCol++ {
			bit := blockRow*2 + blockCol
			if pattern&(1<<bit) == 0 {
				continue
			}
			px := float64(x + blockCol*subW)
			py := float64(y + blockRow*subH)
			ebitenutil.DrawRect(g.window, px, py, float64(subW), float64(subH), trs80FG)
		}
	}
}

func (g *TRS80Frontend) Layout(_, _ int) (int, int) {
	return trs80PixelW, trs80PixelH
}

// RunVideoFrontend starts the ebiten event loop. It blocks until the
// window is closed.
func RunVideoFrontend(fd *FrameDriver, bus *Bus) error {
	front := NewTRS80Frontend(fd, bus)
	if err := front.Run(); err != nil {
		return fmt.Errorf("video frontend: %w", err)
	}
	return nil
}
