package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"qdcad/internal/config"
	"qdcad/internal/core"
	"qdcad/internal/qdstruct"
)

// cli carries the state shared by every subcommand once the persistent
// flags have been resolved.
type cli struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default(), log: slog.Default()}
	root := &cobra.Command{
		Use:   "qdstruct",
		Short: "Inspect, format and generate qdStruct layout files",
		Long: `qdstruct works on the layout files written by the qdcad editor.
Files are read with the same decoder the editor uses, so a file that
passes "qdstruct check" opens in the editor.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file (default $QDCAD_CONFIG)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.fmtCmd(),
		c.infoCmd(),
		c.checkCmd(),
		c.newCmd(),
		c.genCmd(),
		c.watchCmd(),
	)
	return root
}

// configFlags lists the subcommand flags that also set a config value.
var configFlags = map[string]bool{"arch": true}

// setup resolves the configuration and installs the logger. The persistent
// flags and those in configFlags override the file and environment; other
// subcommand flags, such as gen --layers, are local to their command.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	persistent := cmd.Root().PersistentFlags()
	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if persistent.Lookup(f.Name) != nil || configFlags[f.Name] {
			changed[f.Name] = f.Value.String()
		}
	})
	cfg, err := config.Resolve(c.configPath, changed)
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	c.log.Debug("configuration resolved", "config", c.configPath, "arch", cfg.Document.Architecture)
	return nil
}

// load decodes the named file, or standard input when name is "-".
func (c *cli) load(cmd *cobra.Command, name string) (*core.Grid, error) {
	if name == "-" {
		g, err := qdstruct.Read(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("load stdin: %w", err)
		}
		return g, nil
	}
	return qdstruct.LoadFile(name)
}

// save writes g to path unless a file is already there and force is unset.
func (c *cli) save(w io.Writer, path string, g *core.Grid, force bool) error {
	path = qdstruct.EnsureExt(path)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := qdstruct.SaveFile(path, g); err != nil {
		return err
	}
	c.log.Info("document written", "path", path, "cells", g.Len())
	_, err := fmt.Fprintln(w, path)
	return err
}
