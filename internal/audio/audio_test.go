package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// ramp streams samples whose left channel counts up from 1.
type ramp struct {
	next, total int
}

func (r *ramp) Stream(samples [][2]float64) (int, bool) {
	if r.next >= r.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if r.next >= r.total {
			break
		}
		r.next++
		samples[i] = [2]float64{float64(r.next), -float64(r.next)}
		n++
	}
	return n, true
}

func (r *ramp) Err() error { return nil }

func TestTap_SnapshotOrderAndWrap(t *testing.T) {
	tap := NewTap(&ramp{total: 10}, 4)
	if got := tap.Snapshot(4); got != nil {
		t.Fatalf("empty tap returned %v", got)
	}

	buf := make([][2]float64, 3)
	tap.Stream(buf)
	got := tap.Snapshot(8)
	if len(got) != 3 || got[0][0] != 1 || got[2][0] != 3 {
		t.Fatalf("partial ring: %v", got)
	}

	tap.Stream(buf)
	tap.Stream(buf)
	got = tap.Snapshot(8)
	if len(got) != 4 {
		t.Fatalf("expected ring size 4, got %d", len(got))
	}
	for i, want := range []float64{6, 7, 8, 9} {
		if got[i][0] != want {
			t.Fatalf("snapshot %v, want oldest-first 6..9", got)
		}
	}
	if got := tap.Snapshot(2); got[0][0] != 8 || got[1][0] != 9 {
		t.Fatalf("last two: %v", got)
	}
}

func TestTap_PassesThrough(t *testing.T) {
	tap := NewTap(&ramp{total: 2}, 8)
	buf := make([][2]float64, 5)
	n, ok := tap.Stream(buf)
	if n != 2 || !ok || buf[1] != [2]float64{2, -2} {
		t.Fatalf("n=%d ok=%v buf=%v", n, ok, buf)
	}
	if n, ok := tap.Stream(buf); n != 0 || ok {
		t.Fatalf("drained source still streaming: n=%d ok=%v", n, ok)
	}
	if len(tap.Snapshot(8)) != 2 {
		t.Fatalf("drained stream must not record samples")
	}
}

func TestLevels(t *testing.T) {
	if b, l := Levels(nil); b != 0 || l != 0 {
		t.Fatalf("silence: %v %v", b, l)
	}
	mono := [][2]float64{{0.5, 0.5}, {-0.5, -0.5}}
	b, l := Levels(mono)
	if math.Abs(b) > 1e-12 || math.Abs(l-math.Pow(0.5, 0.3)) > 1e-12 {
		t.Fatalf("centred: balance %v level %v", b, l)
	}
	right := [][2]float64{{0, 1}, {0, -1}}
	if b, l := Levels(right); b != 1 || l > 1 || l <= 0 {
		t.Fatalf("hard right: balance %v level %v", b, l)
	}
	left := [][2]float64{{0.2, 0}}
	if b, _ := Levels(left); b != -1 {
		t.Fatalf("hard left: balance %v", b)
	}
	if _, l := Levels([][2]float64{{4, 4}}); l != 1 {
		t.Fatalf("clipped signal must cap at 1, got %v", l)
	}
}

func TestMeter_Smooths(t *testing.T) {
	m := &Meter{Smoothing: 0.5}
	loud := [][2]float64{{0, 1}}
	b1, _ := m.Update(loud)
	b2, _ := m.Update(loud)
	if b1 != 0.5 || b2 != 0.75 {
		t.Fatalf("balance readings %v, %v", b1, b2)
	}
	m.Reset()
	if b, l := m.Update(nil); b != 0 || l != 0 {
		t.Fatalf("reset meter: %v %v", b, l)
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Decode(filepath.Join(dir, "song.ogg")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, _, err := Decode(filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}

	path := filepath.Join(dir, "tone.WAV")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(400, &ramp{total: 1000}), format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s, got, err := Decode(path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer s.Close()
	if got.SampleRate != 8000 || s.Len() != 400 {
		t.Fatalf("format %+v len %d", got, s.Len())
	}
}
