package audio

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio file type")

// Patterns lists the file globs Decode understands, for file dialogs.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// Decode opens path and picks a decoder by extension. Closing the returned
// streamer closes the file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" && ext != ".flac" {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// Player plays one file at a time through the speaker: streamer -> tap ->
// ctrl. Loading a new file replaces the current one.
type Player struct {
	RingSize int

	mu       sync.Mutex
	name     string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
	initDone bool
	ended    atomic.Bool
}

func NewPlayer(ringSize int) *Player {
	return &Player{RingSize: ringSize}
}

// Load decodes path and starts playing it from the beginning.
func (p *Player) Load(path string) error {
	streamer, format, err := Decode(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.closeLocked()

	p.name = filepath.Base(path)
	p.streamer = streamer
	p.format = format
	p.tap = NewTap(streamer, p.RingSize)
	p.ctrl = &beep.Ctrl{Streamer: p.tap}
	p.ended.Store(false)

	// The callback runs on the speaker goroutine with the speaker locked, so
	// it only flips a flag.
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() { p.ended.Store(true) })))
	log.Printf("playing %s (%v)", p.name, p.durationLocked().Round(time.Second))
	return nil
}

// Snapshot returns the last n samples played, or nil when nothing plays.
func (p *Player) Snapshot(n int) [][2]float64 {
	p.mu.Lock()
	t := p.tap
	p.mu.Unlock()
	if t == nil || p.ended.Load() {
		return nil
	}
	return t.Snapshot(n)
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamer != nil && !p.ended.Load()
}

func (p *Player) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// TogglePause pauses or resumes playback and reports whether it is paused.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return false
	}
	speaker.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	paused := p.ctrl.Paused
	speaker.Unlock()
	return paused
}

// Position and Duration of the current track.
func (p *Player) Position() (pos, total time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0, 0
	}
	speaker.Lock()
	n := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(n), p.durationLocked()
}

func (p *Player) durationLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initDone {
		speaker.Clear()
	}
	return p.closeLocked()
}

func (p *Player) closeLocked() error {
	if p.streamer == nil {
		return nil
	}
	err := p.streamer.Close()
	p.streamer, p.ctrl, p.tap, p.name = nil, nil, nil, ""
	return err
}
