package core

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultArchitecture is the architecture given to new documents.
const DefaultArchitecture = "QCA1"

// ErrInvalidField is returned for a document field that would not survive a
// save and load.
var ErrInvalidField = errors.New("core: invalid document field")

// SimParam names one of the simulator parameters stored in a document.
type SimParam uint8

const (
	ParamCycles SimParam = iota
	ParamEvals
	ParamEps
	ParamMaxSteps
	ParamInfluenceRadius

	numSimParams
)

// SimParamOrder is the order in which parameters appear in a qdStruct file.
var SimParamOrder = [numSimParams]SimParam{
	ParamCycles,
	ParamEvals,
	ParamEps,
	ParamMaxSteps,
	ParamInfluenceRadius,
}

// Key returns the identifier used in configuration files and flags.
func (p SimParam) Key() string {
	switch p {
	case ParamCycles:
		return "cycles"
	case ParamEvals:
		return "evals"
	case ParamEps:
		return "eps"
	case ParamMaxSteps:
		return "max_steps"
	case ParamInfluenceRadius:
		return "influence_radius"
	}
	panic(fmt.Sprintf("core: invalid sim param %d", uint8(p)))
}

// Label returns a human readable name for panels and reports.
func (p SimParam) Label() string {
	switch p {
	case ParamCycles:
		return "Cycles"
	case ParamEvals:
		return "Evaluations"
	case ParamEps:
		return "Epsilon"
	case ParamMaxSteps:
		return "Max steps"
	case ParamInfluenceRadius:
		return "Influence radius"
	}
	panic(fmt.Sprintf("core: invalid sim param %d", uint8(p)))
}

func (p SimParam) String() string { return p.Key() }

// SimParams holds the simulator parameters as opaque text. They are never
// interpreted, only carried through save and load.
type SimParams [numSimParams]string

// Get returns the text stored for p.
func (s *SimParams) Get(p SimParam) string { return s[p] }

// Set stores v for p.
func (s *SimParams) Set(p SimParam, v string) { s[p] = v }

// FromMap fills parameters from a key/value map using SimParam.Key names.
// Unknown keys are ignored.
func (s *SimParams) FromMap(m map[string]string) {
	for _, p := range SimParamOrder {
		if v, ok := m[p.Key()]; ok {
			s[p] = v
		}
	}
}

// Map returns the parameters keyed by SimParam.Key.
func (s SimParams) Map() map[string]string {
	out := make(map[string]string, len(SimParamOrder))
	for _, p := range SimParamOrder {
		out[p.Key()] = s[p]
	}
	return out
}

// ParseSimParam returns the parameter whose Key is key.
func ParseSimParam(key string) (SimParam, bool) {
	for _, p := range SimParamOrder {
		if p.Key() == key {
			return p, true
		}
	}
	return 0, false
}

// DefaultSimParams returns the parameters given to new documents.
func DefaultSimParams() SimParams {
	var s SimParams
	s.Set(ParamCycles, "1")
	s.Set(ParamEvals, "1")
	s.Set(ParamEps, "0.001")
	s.Set(ParamMaxSteps, "1000")
	s.Set(ParamInfluenceRadius, "1")
	return s
}

// NewDocument returns an empty grid with the default architecture and
// simulator parameters.
func NewDocument() *Grid {
	g := NewGrid()
	g.Architecture = DefaultArchitecture
	g.Params = DefaultSimParams()
	return g
}

// CheckField reports whether s can be stored as one line of a qdStruct file.
// Readers trim lines and skip blank ones and those starting with '%', so
// such values are refused.
func CheckField(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty", ErrInvalidField)
	case strings.ContainsAny(s, "\r\n"):
		return fmt.Errorf("%w: %q spans lines", ErrInvalidField, s)
	case strings.TrimSpace(s) != s:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidField, s)
	case strings.HasPrefix(s, "%"):
		return fmt.Errorf("%w: %q reads as a comment", ErrInvalidField, s)
	}
	return nil
}
