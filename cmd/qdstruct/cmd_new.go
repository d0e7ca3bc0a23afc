package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qdcad/internal/core"
	"qdcad/internal/gen"
)

func (c *cli) newCmd() *cobra.Command {
	var (
		arch   string
		params map[string]string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Write an empty document with the configured defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := c.cfg.NewDocument()
			if cmd.Flags().Changed("arch") {
				if err := core.CheckField(arch); err != nil {
					return fmt.Errorf("--arch: %w", err)
				}
				g.Architecture = arch
			}
			for key, v := range params {
				p, ok := core.ParseSimParam(key)
				if !ok {
					return fmt.Errorf("unknown sim param %q", key)
				}
				if err := core.CheckField(v); err != nil {
					return fmt.Errorf("--param %s: %w", key, err)
				}
				g.Params.Set(p, v)
			}
			return c.save(cmd.OutOrStdout(), args[0], g, force)
		},
	}
	cmd.Flags().StringVar(&arch, "arch", "", "architecture name (default from config)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "sim param override as key=value, repeatable")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (c *cli) genCmd() *cobra.Command {
	var (
		seed  int64
		force bool
	)
	opts := gen.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Write a random document",
		Long: `gen writes a random layout. The same seed and options always
produce the same file, which makes it useful for fixtures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cells < 0 || opts.Inputs < 0 {
				return fmt.Errorf("--cells and --inputs must not be negative")
			}
			g := gen.Grid(seed, opts)
			c.log.Debug("document generated", "seed", seed, "cells", g.Len())
			return c.save(cmd.OutOrStdout(), args[0], g, force)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.Cells, "cells", opts.Cells, "number of cells to place")
	cmd.Flags().IntVar(&opts.Layers, "layers", opts.Layers, "number of layers to spread cells over")
	cmd.Flags().IntVar(&opts.Span, "span", opts.Span, "coordinates fall in [-span, span]")
	cmd.Flags().IntVar(&opts.Inputs, "inputs", opts.Inputs, "number of input lines")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
