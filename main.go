package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/kaleidoscope/internal/config"
	"github.com/iburimskiy/kaleidoscope/internal/field"
	"github.com/iburimskiy/kaleidoscope/internal/game"
	"github.com/iburimskiy/kaleidoscope/internal/tiltserver"
)

func main() {
	log.SetPrefix("kaleido: ")

	cfg := config.Default()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	caps := field.Capabilities{Orientation: cfg.Input.TiltAddr != "", Audio: true}
	provider, err := field.Select(cfg.Input.Provider, caps, cfg.Input, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		log.Fatal(err)
	}
	in := field.NewInput(field.New(), provider)

	g, err := game.New(cfg, in)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Input.TiltAddr != "" {
		srv := tiltserver.New(in)
		g.TiltClients = srv.Clients
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Input.TiltAddr); err != nil {
				log.Printf("tilt server: %v", err)
			}
		}()
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
