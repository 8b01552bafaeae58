// Command kaleido-sdl runs the kaleidoscope in an SDL window through
// tfriedel6/canvas. Beads are rendered in software and composited with the
// window's GL canvas.
package main

import (
	"flag"
	"log"

	"github.com/tfriedel6/canvas/sdlcanvas"

	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/kaleido"
	"github.com/iburimskiy/kaleidoscope/internal/surface/softcanvas"
)

// windowLoop drives frames from the SDL main loop until the window closes.
type windowLoop struct {
	wnd    *sdlcanvas.Window
	screen *softcanvas.Canvas
}

func (l windowLoop) Loop(frame func()) error {
	l.wnd.MainLoop(func() {
		frame()
		if err := l.screen.Err(); err != nil {
			log.Printf("composite: %v", err)
		}
	})
	return nil
}

func main() {
	log.SetPrefix("kaleido-sdl: ")

	cfg := config.Default()
	cfg.Input.Provider = config.ProviderPointer
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	wnd, cv, err := sdlcanvas.CreateWindow(cfg.Window.Width, cfg.Window.Height, "Kaleidoscope")
	if err != nil {
		log.Fatal(err)
	}
	defer wnd.Destroy()

	// Only the pointer reaches this host.
	provider, err := field.Select(cfg.Input.Provider, field.Capabilities{}, cfg.Input, cv.Width(), cv.Height())
	if err != nil {
		log.Fatal(err)
	}
	in := field.NewInput(field.New(), provider)

	screen := softcanvas.Wrap(cv)
	buffer := softcanvas.NewSoftware(cfg.Render.BufferSize, cfg.Render.BufferSize)
	engine, err := kaleido.NewEngine(cfg, buffer, screen, in.Field)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d beads, %d slices, seed %d", cfg.BeadCount, cfg.Render.Slices, engine.Seed())

	wnd.MouseMove = func(x, y int) {
		in.Dispatch(field.PointerEvent(float64(x), float64(y)))
	}
	wnd.SizeChange = func(w, h int) {
		in.Resize(w, h)
	}

	if err := engine.Start(cfg.BeadCount, windowLoop{wnd: wnd, screen: screen}); err != nil {
		log.Fatal(err)
	}
}
