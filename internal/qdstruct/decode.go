package qdstruct

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"qdcad/internal/core"
)

// lineQueue holds the content lines of a document, consumed front to back.
// Lines are stored trimmed; blank lines and '%' comments never enter it.
type lineQueue struct {
	lines []string
	pos   int
}

func newLineQueue(data []byte) *lineQueue {
	q := &lineQueue{}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		q.lines = append(q.lines, line)
	}
	return q
}

// pop returns the next line and its 1-based queue position. want is how many
// lines the current step still needs, for the error message.
func (q *lineQueue) pop(step Step, want int) (string, int, error) {
	if q.pos >= len(q.lines) {
		return "", 0, &DecodeError{Step: step, Err: fmt.Errorf("%w: need %d more line(s)", ErrTruncatedInput, want)}
	}
	line := q.lines[q.pos]
	q.pos++
	return line, q.pos, nil
}

func (q *lineQueue) remaining() int { return len(q.lines) - q.pos }

func (q *lineQueue) popCount(step Step) (int, error) {
	line, n, err := q.pop(step, 1)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(line)
	if err != nil || v < 0 {
		return 0, &DecodeError{Step: step, Line: n, Err: fmt.Errorf("%w: %q", ErrMalformedCount, line)}
	}
	return v, nil
}

// decoder walks the qdStruct steps in order, building a fresh Grid.
type decoder struct {
	q     *lineQueue
	grid  *core.Grid
	cells int
}

type stateFn func(*decoder) (stateFn, error)

// Decode parses a qdStruct document into a new Grid. The Grid is only
// returned when every step succeeds; electrode ids are assigned in file
// order starting at zero.
func Decode(data []byte) (*core.Grid, error) {
	d := &decoder{q: newLineQueue(data), grid: core.NewGrid()}
	var err error
	for state := stateFn(decodeCount); state != nil; {
		if state, err = state(d); err != nil {
			return nil, err
		}
	}
	return d.grid, nil
}

// Read decodes a qdStruct document from r.
func Read(r io.Reader) (*core.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("qdstruct: read: %w", err)
	}
	return Decode(data)
}

func decodeCount(d *decoder) (stateFn, error) {
	n, err := d.q.popCount(StepCount)
	if err != nil {
		return nil, err
	}
	d.cells = n
	return decodeArchitecture, nil
}

func decodeArchitecture(d *decoder) (stateFn, error) {
	line, _, err := d.q.pop(StepArchitecture, 1)
	if err != nil {
		return nil, err
	}
	d.grid.Architecture = line
	return decodeCells, nil
}

func decodeCells(d *decoder) (stateFn, error) {
	f := d.grid.Factory()
	for i := 0; i < d.cells; i++ {
		line, pos, err := d.q.pop(StepCells, d.cells-i)
		if err != nil {
			return nil, err
		}
		c, err := f.ParseLine(line)
		if err != nil {
			if !strings.HasPrefix(line, "T") {
				// The cell block ended before the declared count was reached.
				err = fmt.Errorf("%w: cell block ended after %d of %d cells: %w", ErrTruncatedInput, i, d.cells, err)
			}
			return nil, &DecodeError{Step: StepCells, Line: pos, Err: err}
		}
		if err := d.grid.Put(c); err != nil {
			return nil, &DecodeError{Step: StepCells, Line: pos, Err: err}
		}
	}
	return decodeSimParams, nil
}

func decodeSimParams(d *decoder) (stateFn, error) {
	for i, p := range core.SimParamOrder {
		line, _, err := d.q.pop(StepSimParams, len(core.SimParamOrder)-i)
		if err != nil {
			return nil, err
		}
		d.grid.Params.Set(p, line)
	}
	return decodeInputs, nil
}

func decodeInputs(d *decoder) (stateFn, error) {
	m, err := d.q.popCount(StepInputCount)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, min(m, d.q.remaining()))
	for i := 0; i < m; i++ {
		line, _, err := d.q.pop(StepInputs, m-i)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, line)
	}
	d.grid.Inputs = inputs
	// Anything left in the queue is ignored.
	return nil, nil
}
