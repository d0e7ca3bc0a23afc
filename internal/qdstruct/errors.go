package qdstruct

import (
	"errors"
	"fmt"

	"qdcad/internal/core"
)

var (
	// ErrMalformedCellLine is returned when a cell line cannot be parsed.
	ErrMalformedCellLine = core.ErrMalformedCellLine
	// ErrMalformedCount is returned when a count line is not a non-negative
	// integer.
	ErrMalformedCount = errors.New("malformed count")
	// ErrTruncatedInput is returned when the file ends before a step has all
	// the lines it needs.
	ErrTruncatedInput = errors.New("truncated input")
)

// Step names a stage of the decoder.
type Step string

const (
	StepCount        Step = "count"
	StepArchitecture Step = "architecture"
	StepCells        Step = "cells"
	StepSimParams    Step = "sim_params"
	StepInputCount   Step = "input_count"
	StepInputs       Step = "inputs"
)

// DecodeError reports where decoding stopped. Line is the 1-based position
// in the content-line queue (comments and blank lines are not counted); it
// is zero when the input ran out.
type DecodeError struct {
	Step Step
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("qdstruct: %s (line %d): %v", e.Step, e.Line, e.Err)
	}
	return fmt.Sprintf("qdstruct: %s: %v", e.Step, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
