// Package gen builds random qdStruct documents for tests and fixtures.
package gen

import (
	"fmt"
	"strconv"
	"strings"

	"qdcad/internal/core"
)

// Options controls the shape of a generated layout.
type Options struct {
	Cells  int
	Layers int
	// Span bounds coordinates to [-Span, Span] on both axes.
	Span   int
	Inputs int
}

// DefaultOptions returns a small three-layer layout.
func DefaultOptions() Options {
	return Options{Cells: 32, Layers: 3, Span: 8, Inputs: 2}
}

// Grid returns a random document built from seed. Cells that land on an
// occupied position replace the earlier one, so the result may hold fewer
// than opts.Cells cells when the span is small.
func Grid(seed int64, opts Options) *core.Grid {
	if opts.Layers <= 0 {
		opts.Layers = 1
	}
	if opts.Span < 0 {
		opts.Span = 0
	}
	rng := NewRNG(seed)
	g := core.NewGrid()
	g.Architecture = fmt.Sprintf("QCA%d", rng.Between(1, 4))
	for i := 0; i < opts.Cells; i++ {
		g.Place(
			rng.Between(-opts.Span, opts.Span),
			rng.Between(-opts.Span, opts.Span),
			rng.IntN(opts.Layers),
			Pick(rng, core.Kinds),
			Pick(rng, core.Clocks),
			Pick(rng, core.Values),
		)
	}
	g.Params.Set(core.ParamCycles, strconv.Itoa(rng.Between(1, 8)))
	g.Params.Set(core.ParamEvals, strconv.Itoa(rng.Between(1, 100)))
	g.Params.Set(core.ParamEps, strconv.FormatFloat(rng.Source().Float64()/100, 'g', 4, 64))
	g.Params.Set(core.ParamMaxSteps, strconv.Itoa(rng.Between(100, 10000)))
	g.Params.Set(core.ParamInfluenceRadius, strconv.Itoa(rng.Between(1, 5)))

	for i := 0; i < opts.Inputs; i++ {
		bits := make([]string, 4)
		for j := range bits {
			bits[j] = strconv.Itoa(rng.IntN(2))
		}
		g.Inputs = append(g.Inputs, strings.Join(bits, " "))
	}
	return g
}
