package field

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
)

var (
	ErrUnknownProvider  = errors.New("unknown input provider")
	ErrPermissionDenied = errors.New("orientation permission denied")
)

type Kind uint8

const (
	// KindPointer carries clientX, clientY in window pixels.
	KindPointer Kind = iota
	// KindOrientation carries beta (front/back) and gamma (left/right) tilt
	// in degrees.
	KindOrientation
	// KindAudio carries stereo balance in [-1,1] and loudness in [0,1].
	KindAudio
)

// Event is one raw input sample. X and Y are interpreted according to Kind.
type Event struct {
	Kind Kind
	X, Y float64
}

func PointerEvent(clientX, clientY float64) Event {
	return Event{Kind: KindPointer, X: clientX, Y: clientY}
}

func OrientationEvent(beta, gamma float64) Event {
	return Event{Kind: KindOrientation, X: beta, Y: gamma}
}

func AudioEvent(balance, level float64) Event {
	return Event{Kind: KindAudio, X: balance, Y: level}
}

// Provider turns one kind of event into a force. Handle reports false for
// events it does not own, which leaves the field unchanged.
type Provider interface {
	Name() string
	Handle(ev Event) (r2.Vec, bool)
}

// PointerProvider pulls beads towards the pointer: the force grows linearly
// with the pointer's offset from the window centre.
type PointerProvider struct {
	Scale float64

	mu     sync.Mutex
	cx, cy float64
}

func NewPointerProvider(scale float64, width, height int) *PointerProvider {
	p := &PointerProvider{Scale: scale}
	p.Resize(width, height)
	return p
}

func (p *PointerProvider) Name() string { return config.ProviderPointer }

// Resize recentres the provider on a window of the given size.
func (p *PointerProvider) Resize(width, height int) {
	p.mu.Lock()
	p.cx, p.cy = float64(width)/2, float64(height)/2
	p.mu.Unlock()
}

func (p *PointerProvider) Handle(ev Event) (r2.Vec, bool) {
	if ev.Kind != KindPointer {
		return r2.Vec{}, false
	}
	p.mu.Lock()
	cx, cy := p.cx, p.cy
	p.mu.Unlock()
	return r2.Vec{X: (ev.X - cx) * p.Scale, Y: (ev.Y - cy) * p.Scale}, true
}

// OrientationProvider maps device tilt to force. Gamma drives X and beta
// drives Y. Events are dropped until permission has been granted.
type OrientationProvider struct {
	Divisor      float64
	MaxMagnitude float64
	Deadzone     float64

	granted atomic.Bool
}

func NewOrientationProvider(cfg config.Input) *OrientationProvider {
	return &OrientationProvider{
		Divisor:      cfg.TiltDivisor,
		MaxMagnitude: cfg.TiltMax,
		Deadzone:     cfg.Deadzone,
	}
}

func (o *OrientationProvider) Name() string { return config.ProviderOrientation }

// Grant marks orientation events as allowed without asking.
func (o *OrientationProvider) Grant() { o.granted.Store(true) }

func (o *OrientationProvider) Granted() bool { return o.granted.Load() }

// RequestPermission asks the host for tilt access. On denial or error the
// provider stays closed, so the field keeps its last value.
func (o *OrientationProvider) RequestPermission(ask func() (bool, error)) error {
	ok, err := ask()
	if err != nil {
		return fmt.Errorf("request orientation permission: %w", err)
	}
	if !ok {
		return ErrPermissionDenied
	}
	o.granted.Store(true)
	return nil
}

func (o *OrientationProvider) Handle(ev Event) (r2.Vec, bool) {
	if ev.Kind != KindOrientation || !o.granted.Load() {
		return r2.Vec{}, false
	}
	beta, gamma := ev.X, ev.Y
	return r2.Vec{X: o.normalize(gamma), Y: o.normalize(beta)}, true
}

// normalize is clamp(angle/Divisor, -1, 1) with small magnitudes zeroed,
// scaled to MaxMagnitude.
func (o *OrientationProvider) normalize(angle float64) float64 {
	if math.IsNaN(angle) || o.Divisor == 0 {
		return 0
	}
	n := ClampUnit(angle / o.Divisor)
	if math.Abs(n) < o.Deadzone {
		return 0
	}
	return n * o.MaxMagnitude
}

// AudioProvider pushes beads sideways with stereo balance and upwards with
// loudness.
type AudioProvider struct {
	MaxMagnitude float64
}

func (a *AudioProvider) Name() string { return config.ProviderAudio }

func (a *AudioProvider) Handle(ev Event) (r2.Vec, bool) {
	if ev.Kind != KindAudio {
		return r2.Vec{}, false
	}
	balance, level := ClampUnit(ev.X), clamp01(ev.Y)
	return r2.Vec{X: balance * a.MaxMagnitude, Y: -level * a.MaxMagnitude}, true
}

// ClampUnit clamps v to [-1, 1].
func ClampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
