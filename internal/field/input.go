package field

import (
	"fmt"

	"github.com/iburimskiy/kaleidoscope/internal/config"
)

// Capabilities describes what the host can deliver.
type Capabilities struct {
	Orientation bool // a tilt source exists (gamepad, phone link)
	Audio       bool
}

// Select picks the provider once at startup. "auto" prefers tilt when the
// host has it and falls back to the pointer.
func Select(kind string, caps Capabilities, cfg config.Input, width, height int) (Provider, error) {
	switch kind {
	case config.ProviderAuto:
		if caps.Orientation {
			return NewOrientationProvider(cfg), nil
		}
		return NewPointerProvider(cfg.PointerScale, width, height), nil
	case config.ProviderPointer:
		return NewPointerProvider(cfg.PointerScale, width, height), nil
	case config.ProviderOrientation:
		return NewOrientationProvider(cfg), nil
	case config.ProviderAudio:
		if !caps.Audio {
			return nil, fmt.Errorf("%w: %q needs an audio device", ErrUnknownProvider, kind)
		}
		return &AudioProvider{MaxMagnitude: cfg.AudioMax}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, kind)
}

// Input binds the selected provider to the field it writes.
type Input struct {
	Field    *ForceField
	Provider Provider
}

func NewInput(f *ForceField, p Provider) *Input {
	return &Input{Field: f, Provider: p}
}

// Dispatch hands ev to the provider and stores the resulting force. Events
// the provider rejects are ignored. Safe to call from any goroutine.
func (in *Input) Dispatch(ev Event) bool {
	v, ok := in.Provider.Handle(ev)
	if !ok {
		return false
	}
	in.Field.Store(v)
	return true
}

// Resizer is implemented by providers that depend on the window size.
type Resizer interface {
	Resize(width, height int)
}

func (in *Input) Resize(width, height int) {
	if r, ok := in.Provider.(Resizer); ok {
		r.Resize(width, height)
	}
}
