package qdstruct

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"qdcad/internal/core"
)

// Validate reports document fields that Decode would not read back: empty
// or multi-line values, surrounding whitespace and leading '%'.
func Validate(g *core.Grid) error {
	var errs []error
	if err := core.CheckField(g.Architecture); err != nil {
		errs = append(errs, fmt.Errorf("architecture: %w", err))
	}
	for _, p := range core.SimParamOrder {
		if err := core.CheckField(g.Params.Get(p)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Key(), err))
		}
	}
	for i, in := range g.Inputs {
		if err := core.CheckField(in); err != nil {
			errs = append(errs, fmt.Errorf("input %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// Write encodes g in qdStruct form: cell count, architecture, electrodes by
// id, remaining cells, the five simulator parameters and the input block.
// Documents that fail Validate are refused before anything is written.
func Write(w io.Writer, g *core.Grid) error {
	if err := Validate(g); err != nil {
		return err
	}
	return write(w, g)
}

func write(w io.Writer, g *core.Grid) error {
	bw := bufio.NewWriter(w)
	line := func(s string) {
		bw.WriteString(s)
		bw.WriteByte('\n')
	}

	line(strconv.Itoa(g.Len()))
	line(g.Architecture)
	for _, c := range g.ElectrodesByID() {
		line(c.Line())
	}
	for _, c := range g.Others() {
		line(c.Line())
	}
	for _, p := range core.SimParamOrder {
		line(g.Params.Get(p))
	}
	if len(g.Inputs) == 0 {
		line("0")
	} else {
		line(strconv.Itoa(len(g.Inputs)))
		for _, in := range g.Inputs {
			line(in)
		}
	}
	return bw.Flush()
}

// Encode returns the qdStruct text for g without validating it.
func Encode(g *core.Grid) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = write(&buf, g)
	return buf.Bytes()
}
