// Package game hosts the kaleidoscope in an ebiten window.
package game

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/ncruces/zenity"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/kaleidoscope/internal/audio"
	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/kaleido"
	"github.com/iburimskiy/kaleidoscope/internal/surface/ebitencanvas"
)

// Game is the ebiten.Game running the kaleidoscope. Update runs the
// particle pass, Draw composites onto the screen.
type Game struct {
	cfg    config.Config
	engine *kaleido.Engine
	input  *field.Input

	buffer *ebitencanvas.Canvas
	screen *ebitencanvas.Canvas

	// audio
	player *audio.Player
	meter  audio.Meter

	// tilt clients, reported in the HUD
	TiltClients func() int

	// input edge detection
	prevKey map[ebiten.Key]bool
	cursor  cursorTracker

	// state
	width, height int
	started       bool
	paused        bool
	showHUD       bool
	lastErr       error
}

func New(cfg config.Config, in *field.Input) (*Game, error) {
	buffer := ebitencanvas.New(cfg.Render.BufferSize, cfg.Render.BufferSize)
	screen := ebitencanvas.New(cfg.Window.Width, cfg.Window.Height)
	engine, err := kaleido.NewEngine(cfg, buffer, screen, in.Field)
	if err != nil {
		return nil, err
	}
	engine.Initialize(cfg.BeadCount)
	log.Printf("%d beads, %d slices, %s boundary, %s input, seed %d",
		cfg.BeadCount, cfg.Render.Slices, cfg.Physics.Boundary, in.Provider.Name(), engine.Seed())

	return &Game{
		cfg:     cfg,
		engine:  engine,
		input:   in,
		buffer:  buffer,
		screen:  screen,
		player:  audio.NewPlayer(config.VisualRingSize),
		meter:   audio.Meter{Smoothing: config.SmoothingFactor},
		prevKey: map[ebiten.Key]bool{},
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
		showHUD: true,
	}, nil
}

func (g *Game) justPressed(k ebiten.Key) bool {
	pressed := ebiten.IsKeyPressed(k)
	jp := pressed && !g.prevKey[k]
	g.prevKey[k] = pressed
	return jp
}

func (g *Game) Update() error {
	if g.justPressed(ebiten.KeyEscape) || g.justPressed(ebiten.KeyQ) {
		if err := g.player.Close(); err != nil {
			log.Printf("close audio: %v", err)
		}
		return ebiten.Termination
	}

	if !g.started {
		if g.justPressed(ebiten.KeyEnter) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.start()
		}
		return nil
	}

	if g.justPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if g.player.Playing() {
			g.player.TogglePause()
		}
	}
	if g.justPressed(ebiten.KeyR) {
		g.engine.Reseed(time.Now().UnixNano())
		g.engine.Initialize(g.cfg.BeadCount)
		g.input.Field.Reset()
		g.meter.Reset()
	}
	if g.justPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.justPressed(ebiten.KeyO) {
		if err := g.openSoundtrack(); err != nil {
			g.lastErr = err
		}
	}

	g.pollInput()
	if !g.paused {
		g.engine.Step()
	}
	return nil
}

// start runs on the first click. Desktop hosts grant tilt straight away;
// phones ask through the tilt page instead.
func (g *Game) start() {
	g.started = true
	if o, ok := g.input.Provider.(*field.OrientationProvider); ok && g.TiltClients == nil {
		if err := o.RequestPermission(gamepadPermission); err != nil {
			g.lastErr = err
		}
	}
}

// gamepadPermission grants tilt when a gamepad is plugged in.
func gamepadPermission() (bool, error) {
	return len(ebiten.AppendGamepadIDs(nil)) > 0, nil
}

// pollInput forwards this frame's host input to the active provider.
func (g *Game) pollInput() {
	if p := image.Pt(ebiten.CursorPosition()); g.cursor.moved(p) {
		g.input.Dispatch(field.PointerEvent(float64(p.X), float64(p.Y)))
	}

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		beta, gamma := stickToTilt(
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		)
		g.input.Dispatch(field.OrientationEvent(beta, gamma))
		break
	}

	if samples := g.player.Snapshot(audio.LevelWindow); samples != nil {
		g.input.Dispatch(field.AudioEvent(g.meter.Update(samples)))
	}
}

// stickToTilt maps a stick deflection in [-1, 1] to device tilt in degrees:
// pushing right is a gamma tilt, pushing down a beta tilt.
func stickToTilt(x, y float64) (beta, gamma float64) {
	return field.ClampUnit(y) * maxStickTilt, field.ClampUnit(x) * maxStickTilt
}

const maxStickTilt = 90

// cursorTracker reports pointer movement. ebiten reports (0, 0) until the
// cursor first enters the window, so the first sample only primes it.
type cursorTracker struct {
	last image.Point
	seen bool
}

func (c *cursorTracker) moved(p image.Point) bool {
	if !c.seen {
		c.last, c.seen = p, true
		return false
	}
	if p == c.last {
		return false
	}
	c.last = p
	return true
}

func (g *Game) openSoundtrack() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: audio.Patterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return fmt.Errorf("open soundtrack: %w", err)
	}
	g.meter.Reset()
	return g.player.Load(filename)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Retarget(screen)
	g.engine.Composite(g.screen)

	if !g.started {
		g.drawOverlay(screen)
		return
	}
	if g.showHUD {
		ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	screen.Fill(color.NRGBA{A: 0xa0})
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(w)/2, float64(h)/2)
	op.ColorScale.ScaleWithColor(color.White)
	op.LineSpacing = 20
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, strings.Join(overlayLines, "\n"), overlayFace, op)
}

var overlayFace = text.NewGoXFace(basicfont.Face7x13)

var overlayLines = []string{
	"Kaleidoscope",
	"Click or press Enter to start",
	"Move the pointer, tilt a gamepad stick or play a soundtrack (O)",
}

func (g *Game) status() string {
	h := hud{
		fps:      ebiten.ActualFPS(),
		beads:    len(g.engine.System.Beads()),
		slices:   g.engine.Compositor.Slices,
		provider: g.input.Provider.Name(),
		force:    g.input.Field.Load(),
		paused:   g.paused,
		err:      g.lastErr,
	}
	if g.player.Playing() {
		h.track = g.player.Name()
		h.position, h.duration = g.player.Position()
	}
	if g.TiltClients != nil {
		h.tiltClients = g.TiltClients()
	}
	return h.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.input.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
