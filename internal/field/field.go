// Package field holds the shared force vector applied to every bead and the
// input providers that write it.
package field

import (
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// ForceField is a single 2D vector written by one input provider and read by
// the simulation every tick. Stores replace both components at once, so a
// reader sees either the old or the new vector, never a mix.
type ForceField struct {
	v atomic.Pointer[r2.Vec]
}

func New() *ForceField {
	f := &ForceField{}
	f.Reset()
	return f
}

// Load returns the current force. A zero-value ForceField reads as zero.
func (f *ForceField) Load() r2.Vec {
	if p := f.v.Load(); p != nil {
		return *p
	}
	return r2.Vec{}
}

func (f *ForceField) Store(v r2.Vec) { f.v.Store(&v) }

func (f *ForceField) Reset() { f.Store(r2.Vec{}) }
