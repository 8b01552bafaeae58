// Command kaleido-render renders the kaleidoscope without a window, into an
// animated GIF or a directory of PNG frames. A fixed seed and force make the
// output reproducible.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/kaleido"
	"github.com/iburimskiy/kaleidoscope/internal/surface/softcanvas"
)

type options struct {
	Out    string
	Frames int
	Delay  int // GIF delay in 10ms units
	Force  r2.Vec
	// Warmup frames are simulated but not written.
	Warmup int
}

func main() {
	log.SetPrefix("kaleido-render: ")

	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 480, 480
	cfg.Seed = 1
	cfg.BindFlags(flag.CommandLine)

	var opts options
	flag.StringVar(&opts.Out, "out", "kaleidoscope.gif", "output .gif file, or a directory for PNG frames")
	flag.IntVar(&opts.Frames, "frames", 120, "number of frames to write")
	flag.IntVar(&opts.Warmup, "warmup", 0, "frames to simulate before writing")
	flag.IntVar(&opts.Delay, "delay", 2, "GIF frame delay in 10ms units")
	flag.IntVar(&cfg.Render.BufferSize, "buffer", cfg.Render.BufferSize, "intermediate buffer size in pixels")
	flag.Float64Var(&opts.Force.X, "force-x", 0.05, "constant horizontal force")
	flag.Float64Var(&opts.Force.Y, "force-y", 0.08, "constant vertical force")
	flag.Parse()

	if err := run(cfg, opts); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(cfg config.Config, opts options) error {
	if opts.Frames <= 0 {
		return fmt.Errorf("%w: -frames must be > 0", config.ErrInvalid)
	}
	start := time.Now()

	f := field.New()
	f.Store(opts.Force)
	buffer := softcanvas.NewSoftware(cfg.Render.BufferSize, cfg.Render.BufferSize)
	screen := softcanvas.NewSoftware(cfg.Window.Width, cfg.Window.Height)
	engine, err := kaleido.NewEngine(cfg, buffer, screen, f)
	if err != nil {
		return err
	}
	engine.Initialize(cfg.BeadCount)

	for i := 0; i < opts.Warmup; i++ {
		engine.Step()
	}

	var sink frameSink
	if strings.EqualFold(filepath.Ext(opts.Out), ".gif") {
		sink = &gifSink{path: opts.Out, delay: opts.Delay}
	} else {
		if err := os.MkdirAll(opts.Out, 0o755); err != nil {
			return err
		}
		sink = &pngSink{dir: opts.Out}
	}

	err = engine.Run(kaleido.FixedFrames{
		Count: opts.Frames,
		After: func(frame int) error {
			if err := screen.Err(); err != nil {
				return err
			}
			if err := sink.Add(frame, screen.RGBA()); err != nil {
				return err
			}
			if (frame+1)%30 == 0 || frame+1 == opts.Frames {
				log.Printf("Rendered frame %d/%d", frame+1, opts.Frames)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %q (%d frames, seed %d) in %v", opts.Out, opts.Frames, engine.Seed(), time.Since(start).Round(time.Millisecond))
	return nil
}

type frameSink interface {
	Add(frame int, img *image.RGBA) error
	Close() error
}

type gifSink struct {
	path  string
	delay int
	anim  gif.GIF
}

func (s *gifSink) Add(_ int, img *image.RGBA) error {
	pal := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pal, img.Bounds(), img, img.Bounds().Min)
	s.anim.Image = append(s.anim.Image, pal)
	s.anim.Delay = append(s.anim.Delay, s.delay)
	return nil
}

func (s *gifSink) Close() error {
	out, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := gif.EncodeAll(out, &s.anim); err != nil {
		out.Close()
		return fmt.Errorf("encode GIF: %w", err)
	}
	return out.Close()
}

type pngSink struct {
	dir string
}

func (s *pngSink) Add(frame int, img *image.RGBA) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame-%04d.png", frame))
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

func (s *pngSink) Close() error { return nil }
