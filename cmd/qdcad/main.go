//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"qdcad/internal/app"
	"qdcad/internal/config"
	"qdcad/internal/editor"
	"qdcad/internal/watch"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $QDCAD_CONFIG)")
	flags := config.Default()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	if err := config.LoadEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Resolve(*configPath, config.Changed(flag.CommandLine))
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	session := editor.New(cfg.NewDocument(), editor.Options{
		CellSize:         cfg.CellSize,
		Layers:           cfg.Layers,
		AutosaveInterval: cfg.AutosaveInterval,
		Logger:           logger,
	})
	if path := flag.Arg(0); path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := session.SaveAs(path); err != nil {
				log.Fatal(err)
			}
		} else if err := session.Load(path); err != nil {
			log.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan string, 1)
	if cfg.Watch && session.Path() != "" {
		w, err := watch.New(session.Path(), cfg.Debounce, func(p string) {
			select {
			case changes <- p:
			default:
			}
		}, logger)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("watcher stopped", "err", err)
			}
		}()
	}

	game := app.New(session, app.Options{
		PanelWidth: cfg.PanelWidth,
		Changes:    changes,
		Logger:     logger,
	})

	title := "untitled"
	if session.Path() != "" {
		title = filepath.Base(session.Path())
	}
	ebiten.SetWindowTitle("qdcad - " + title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
