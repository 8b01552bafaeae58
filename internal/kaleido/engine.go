package kaleido

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/kaleidoscope/internal/bead"
	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/surface"
)

// Scheduler is the host's refresh loop. Loop calls frame once per display
// refresh until the host shuts down.
type Scheduler interface {
	Loop(frame func()) error
}

// Engine runs the particle pass and the compositor pass once per frame.
type Engine struct {
	System     *System
	Compositor *Compositor
	Field      *field.ForceField

	screen surface.Surface
	seed   int64
	rng    *rand.Rand
	frames uint64
}

// NewEngine wires a system and compositor from cfg. buffer is the
// intermediate surface, screen the visible one.
func NewEngine(cfg config.Config, buffer, screen surface.Surface, f *field.ForceField) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bg, err := colorful.Hex(cfg.Render.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: background %q: %v", config.ErrInvalid, cfg.Render.Background, err)
	}
	b, err := bead.NewBoundary(cfg.Physics)
	if err != nil {
		return nil, err
	}
	sys := NewSystem(buffer, f, cfg.Physics, b)
	if cfg.Render.Shadow {
		sys.Shadow = DefaultShadow(cfg.Render.ShadowBlur)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		System: sys,
		Compositor: &Compositor{
			Slices:     cfg.Render.Slices,
			Seam:       cfg.Render.Seam,
			Background: bg,
		},
		Field:  f,
		screen: screen,
		seed:   seed,
	}, nil
}

// Initialize (re)populates the bead set with beadCount beads and restarts
// the frame count. Calling it again with the same seed replays the same run.
func (e *Engine) Initialize(beadCount int) {
	e.rng = rand.New(rand.NewSource(e.seed)) // #nosec G404 -- visuals only
	e.System.Populate(e.rng, beadCount)
	e.frames = 0
}

// Reseed changes the seed used by the next Initialize.
func (e *Engine) Reseed(seed int64) { e.seed = seed }

func (e *Engine) Seed() int64 { return e.seed }

// SetScreen swaps the visible surface, e.g. after a resize.
func (e *Engine) SetScreen(s surface.Surface) { e.screen = s }

// Step runs the particle pass only.
func (e *Engine) Step() {
	e.System.Step()
	e.frames++
}

// Composite runs the compositor pass only, reading the buffer the last Step
// produced.
func (e *Engine) Composite(dst surface.Surface) {
	e.Compositor.Composite(dst, e.System.Buffer())
}

// RenderFrame is one full frame: all beads update and draw into the
// buffer, then the buffer is composited onto the screen.
func (e *Engine) RenderFrame() {
	e.Step()
	e.Composite(e.screen)
}

func (e *Engine) Frames() uint64 { return e.frames }

// Run hands RenderFrame to the host loop.
func (e *Engine) Run(s Scheduler) error {
	return s.Loop(e.RenderFrame)
}

// Start populates beadCount beads and runs until the host loop returns.
func (e *Engine) Start(beadCount int, s Scheduler) error {
	e.Initialize(beadCount)
	return e.Run(s)
}

// FixedFrames is a Scheduler that runs a set number of frames, optionally
// paced by Interval, calling After when each frame is done.
type FixedFrames struct {
	Count    int
	Interval time.Duration
	After    func(frame int) error
}

func (f FixedFrames) Loop(frame func()) error {
	var tick <-chan time.Time
	if f.Interval > 0 {
		t := time.NewTicker(f.Interval)
		defer t.Stop()
		tick = t.C
	}
	for i := 0; i < f.Count; i++ {
		if tick != nil {
			<-tick
		}
		frame()
		if f.After != nil {
			if err := f.After(i); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
	}
	return nil
}
