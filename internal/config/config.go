package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Simulation
	BeadCount    = 80
	MinBeads     = 1
	MaxBeads     = 1000
	Friction     = 0.92
	SpeedLimit   = 12.0
	SpinCoupling = 0.02
	RadiusMin    = 6.0
	RadiusMax    = 20.0
	SpawnHalf    = 200.0
	SpawnSpeed   = 1.0
	SpinRange    = 0.05

	// Bead colour (HSLA, hue is random)
	Saturation = 0.85
	Lightness  = 0.60
	Alpha      = 0.85

	// Boundary
	BoundaryReflective = "reflective"
	BoundaryToroidal   = "toroidal"
	Limit              = 400.0
	Restitution        = 0.2
	Bound              = 400.0

	// Compositing
	BufferSize = 1000
	Slices     = 6
	Seam       = 0.01
	Background = "#000000"
	ShadowBlur = 6.0

	// Input
	ProviderAuto        = "auto"
	ProviderPointer     = "pointer"
	ProviderOrientation = "tilt"
	ProviderAudio       = "audio"
	PointerScale        = 0.005
	TiltDivisor         = 45.0
	TiltMax             = 0.5
	Deadzone            = 0.05
	AudioMax            = 0.6
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width  int
	Height int
	Title  string
}

// Physics holds the per-bead tunables. Friction must lie in (0,1).
type Physics struct {
	Friction     float64
	SpeedLimit   float64 // per-component clamp, 0 disables
	SpinCoupling float64
	RadiusMin    float64
	RadiusMax    float64
	SpawnHalf    float64
	SpawnSpeed   float64
	SpinRange    float64
	Saturation   float64
	Lightness    float64
	Alpha        float64

	Boundary    string
	Limit       float64 // reflective radius
	Restitution float64 // reflective velocity attenuation
	Bound       float64 // toroidal half-extent
}

type Render struct {
	BufferSize int
	Slices     int
	Seam       float64
	Background string
	Shadow     bool
	ShadowBlur float64
}

type Input struct {
	Provider     string
	PointerScale float64
	TiltDivisor  float64
	TiltMax      float64
	Deadzone     float64
	AudioMax     float64
	TiltAddr     string // empty disables the phone tilt server
}

type Config struct {
	Window    Window
	Physics   Physics
	Render    Render
	Input     Input
	BeadCount int
	Seed      int64 // 0 means time-based
}

func Default() Config {
	return Config{
		Window: Window{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Kaleidoscope - click to start, R: restart, Space: pause, O: soundtrack, Esc/Q: quit",
		},
		Physics: Physics{
			Friction:     Friction,
			SpeedLimit:   SpeedLimit,
			SpinCoupling: SpinCoupling,
			RadiusMin:    RadiusMin,
			RadiusMax:    RadiusMax,
			SpawnHalf:    SpawnHalf,
			SpawnSpeed:   SpawnSpeed,
			SpinRange:    SpinRange,
			Saturation:   Saturation,
			Lightness:    Lightness,
			Alpha:        Alpha,
			Boundary:     BoundaryReflective,
			Limit:        Limit,
			Restitution:  Restitution,
			Bound:        Bound,
		},
		Render: Render{
			BufferSize: BufferSize,
			Slices:     Slices,
			Seam:       Seam,
			Background: Background,
			ShadowBlur: ShadowBlur,
		},
		Input: Input{
			Provider:     ProviderAuto,
			PointerScale: PointerScale,
			TiltDivisor:  TiltDivisor,
			TiltMax:      TiltMax,
			Deadzone:     Deadzone,
			AudioMax:     AudioMax,
		},
		BeadCount: BeadCount,
	}
}

// BindFlags registers the user-facing knobs on fs. Values not exposed keep
// their defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "window width in pixels")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "window height in pixels")
	fs.IntVar(&c.BeadCount, "beads", c.BeadCount, "number of beads")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.StringVar(&c.Physics.Boundary, "boundary", c.Physics.Boundary, "boundary policy: reflective or toroidal")
	fs.Float64Var(&c.Physics.Friction, "friction", c.Physics.Friction, "velocity damping per tick, in (0,1)")
	fs.Float64Var(&c.Physics.SpeedLimit, "speed-limit", c.Physics.SpeedLimit, "per-component velocity clamp (0 = off)")
	fs.IntVar(&c.Render.Slices, "slices", c.Render.Slices, "number of kaleidoscope wedges")
	fs.StringVar(&c.Render.Background, "background", c.Render.Background, "background colour (#rrggbb)")
	fs.BoolVar(&c.Render.Shadow, "shadow", c.Render.Shadow, "draw a soft drop shadow under beads")
	fs.StringVar(&c.Input.Provider, "input", c.Input.Provider, "force input: auto, pointer, tilt or audio")
	fs.StringVar(&c.Input.TiltAddr, "tilt-addr", c.Input.TiltAddr, "listen address for phone tilt over websocket (empty = off)")
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.BeadCount < MinBeads || c.BeadCount > MaxBeads:
		return fmt.Errorf("%w: bead count %d outside [%d, %d]", ErrInvalid, c.BeadCount, MinBeads, MaxBeads)
	case c.Physics.Friction <= 0 || c.Physics.Friction >= 1:
		return fmt.Errorf("%w: friction %v outside (0,1)", ErrInvalid, c.Physics.Friction)
	case c.Physics.SpeedLimit < 0:
		return fmt.Errorf("%w: negative speed limit %v", ErrInvalid, c.Physics.SpeedLimit)
	case c.Physics.RadiusMin <= 0 || c.Physics.RadiusMax < c.Physics.RadiusMin:
		return fmt.Errorf("%w: radius range [%v, %v)", ErrInvalid, c.Physics.RadiusMin, c.Physics.RadiusMax)
	case c.Render.Slices < 1:
		return fmt.Errorf("%w: slices %d", ErrInvalid, c.Render.Slices)
	case c.Render.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size %d", ErrInvalid, c.Render.BufferSize)
	}
	switch c.Physics.Boundary {
	case BoundaryReflective:
		if c.Physics.SpeedLimit == 0 {
			return fmt.Errorf("%w: reflective boundary needs a speed limit", ErrInvalid)
		}
		if c.Physics.Limit <= 0 || c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
			return fmt.Errorf("%w: reflective limit %v restitution %v", ErrInvalid, c.Physics.Limit, c.Physics.Restitution)
		}
	case BoundaryToroidal:
		if c.Physics.Bound <= 0 {
			return fmt.Errorf("%w: toroidal bound %v", ErrInvalid, c.Physics.Bound)
		}
	default:
		return fmt.Errorf("%w: unknown boundary %q", ErrInvalid, c.Physics.Boundary)
	}
	if need := c.ArenaSize(); float64(c.Render.BufferSize) < need {
		return fmt.Errorf("%w: buffer size %d cannot hold the arena, need %.0f", ErrInvalid, c.Render.BufferSize, math.Ceil(need))
	}
	switch c.Input.Provider {
	case ProviderAuto, ProviderPointer, ProviderOrientation, ProviderAudio:
	default:
		return fmt.Errorf("%w: unknown input provider %q", ErrInvalid, c.Input.Provider)
	}
	return nil
}

// ArenaSize is the smallest square buffer side that holds every bead the
// boundary allows. A rotated square reaches RadiusMax·√2 past its centre.
func (c Config) ArenaSize() float64 {
	extent := c.Physics.Limit
	if c.Physics.Boundary == BoundaryToroidal {
		extent = c.Physics.Bound
	}
	return 2 * (extent + c.Physics.RadiusMax*math.Sqrt2)
}
