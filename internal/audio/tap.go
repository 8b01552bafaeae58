// Package audio plays a soundtrack through beep and keeps the most recent
// samples around so the scene can react to them.
package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last samples it produced into a
// ring buffer. The speaker goroutine writes, the frame loop reads.
type Tap struct {
	Source beep.Streamer

	mu     sync.RWMutex
	ring   [][2]float64
	next   int
	filled int
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &Tap{Source: src, ring: make([][2]float64, ringSize)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for _, s := range samples[:n] {
			t.ring[t.next] = s
			t.next = (t.next + 1) % len(t.ring)
		}
		t.filled = min(t.filled+n, len(t.ring))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to the last n recorded samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	if n <= 0 {
		return nil
	}
	out := make([][2]float64, n)
	start := t.next - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}
