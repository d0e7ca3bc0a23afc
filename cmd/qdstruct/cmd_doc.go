package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"qdcad/internal/core"
	"qdcad/internal/qdstruct"
)

func (c *cli) fmtCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a document in canonical form",
		Long: `fmt decodes a document and encodes it again: comments and blank
lines are dropped, electrodes are listed first in id order and
surrounding whitespace is trimmed. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if write && name == "-" {
				return errors.New("cannot use --write with standard input")
			}
			g, err := c.load(cmd, name)
			if err != nil {
				return err
			}
			if !write {
				return qdstruct.Write(cmd.OutOrStdout(), g)
			}
			if err := qdstruct.SaveFile(name, g); err != nil {
				return err
			}
			c.log.Info("document formatted", "path", name, "cells", g.Len())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarise the cells, layers and electrodes of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), args[0], g)
		},
	}
}

func writeInfo(w io.Writer, name string, g *core.Grid) error {
	counts := make(map[core.Kind]int, len(core.Kinds))
	for _, cell := range g.Cells() {
		counts[cell.Kind()]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file:\t%s\n", name)
	fmt.Fprintf(tw, "architecture:\t%s\n", g.Architecture)
	fmt.Fprintf(tw, "cells:\t%d\n", g.Len())
	for _, k := range core.Kinds {
		fmt.Fprintf(tw, "  %s:\t%d\n", k, counts[k])
	}

	layers := make([]string, 0)
	for _, z := range g.Layers() {
		layers = append(layers, fmt.Sprintf("%d (%d)", z, len(g.Layer(z))))
	}
	fmt.Fprintf(tw, "layers:\t%s\n", orNone(strings.Join(layers, ", ")))

	if box, ok := g.BoundingBox(); ok {
		fmt.Fprintf(tw, "bounds:\t(%d, %d) to (%d, %d), %dx%d\n",
			box.MinX, box.MinY, box.MaxX, box.MaxY, box.Width(), box.Height())
	} else {
		fmt.Fprintf(tw, "bounds:\tnone\n")
	}

	electrodes := g.ElectrodesByID()
	fmt.Fprintf(tw, "electrodes:\t%d\n", len(electrodes))
	for _, e := range electrodes {
		id, _ := e.ElectrodeID()
		fmt.Fprintf(tw, "  #%d:\t%s %s %s\n", id, e.Key(), e.Clock(), e.Value())
	}

	for _, p := range core.SimParamOrder {
		fmt.Fprintf(tw, "%s:\t%s\n", strings.ToLower(p.Label()), orNone(g.Params.Get(p)))
	}
	fmt.Fprintf(tw, "inputs:\t%d\n", len(g.Inputs))
	return tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type checkResult struct {
	index      int
	path       string
	cells      int
	electrodes int
	err        error
}

func (c *cli) checkCmd() *cobra.Command {
	workers := runtime.NumCPU()
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Decode documents and report the first error in each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := checkFiles(args, workers)
			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				if res.err != nil {
					failed++
					c.log.Debug("check failed", "path", res.path, "err", res.err)
					fmt.Fprintf(out, "%s: %s\n", res.path, describe(res.err))
					continue
				}
				fmt.Fprintf(out, "%s: ok (%d cells, %d electrodes)\n", res.path, res.cells, res.electrodes)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", workers, "number of files decoded in parallel")
	return cmd
}

// checkFiles decodes paths on a pool of workers and returns the results in
// argument order.
func checkFiles(paths []string, workers int) []checkResult {
	workers = min(max(workers, 1), len(paths))
	jobs := make(chan int)
	results := make(chan checkResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res := checkResult{index: idx, path: paths[idx]}
				g, err := qdstruct.LoadFile(paths[idx])
				if err != nil {
					res.err = err
				} else {
					res.cells = g.Len()
					res.electrodes = len(g.ElectrodesByID())
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for idx := range paths {
			jobs <- idx
		}
		close(jobs)
	}()

	all := make([]checkResult, len(paths))
	for res := range results {
		all[res.index] = res
	}
	return all
}

// describe renders decode failures by step and line; other errors are
// returned as they are.
func describe(err error) string {
	var de *qdstruct.DecodeError
	if !errors.As(err, &de) {
		return err.Error()
	}
	if de.Line > 0 {
		return fmt.Sprintf("%s step, line %d: %v", de.Step, de.Line, de.Err)
	}
	return fmt.Sprintf("%s step: %v", de.Step, de.Err)
}
