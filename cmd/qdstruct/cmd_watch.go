package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qdcad/internal/qdstruct"
	"qdcad/internal/watch"
)

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Decode a document every time it changes on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(args[0], c.cfg.Debounce, c.report, c.log)
			if err != nil {
				return err
			}
			c.report(w.Path())
			c.log.Info("watching", "path", w.Path(), "debounce", c.cfg.Debounce)

			err = w.Run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

// report logs a summary of the document at path. It runs on the watcher
// goroutine.
func (c *cli) report(path string) {
	g, err := qdstruct.LoadFile(path)
	if err != nil {
		c.log.Warn("decode failed", "path", path, "err", err)
		return
	}
	c.log.Info("document decoded",
		"path", path,
		"cells", g.Len(),
		"electrodes", len(g.ElectrodesByID()),
		"layers", len(g.Layers()),
		"inputs", len(g.Inputs),
	)
}
