package qdstruct

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qdcad/internal/core"
)

const singleElectrode = "1\nQCA1\nT E 0 0 0 S A\n0\n0\n0\n0\n0\n0\n"

func sampleGrid() *core.Grid {
	g := core.NewGrid()
	g.Architecture = "QCA1"
	for _, p := range core.SimParamOrder {
		g.Params.Set(p, "0")
	}
	return g
}

func TestEncodeSingleElectrode(t *testing.T) {
	g := sampleGrid()
	g.Place(0, 0, 0, core.KindElectrode, core.ClockSwitch, core.ValueA)

	assert.Equal(t, singleElectrode, string(Encode(g)))
}

func TestDecodeSingleElectrode(t *testing.T) {
	g, err := Decode([]byte(singleElectrode))
	require.NoError(t, err)

	require.Equal(t, 1, g.Len())
	c, ok := g.Get(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, core.KindElectrode, c.Kind())
	assert.Equal(t, core.ClockSwitch, c.Clock())
	assert.Equal(t, core.ValueA, c.Value())
	id, ok := c.ElectrodeID()
	require.True(t, ok)
	assert.Equal(t, 0, id)

	assert.Equal(t, "QCA1", g.Architecture)
	for _, p := range core.SimParamOrder {
		assert.Equal(t, "0", g.Params.Get(p), p.Key())
	}
	assert.Empty(t, g.Inputs)
}

func TestEncodeOrdersElectrodesFirst(t *testing.T) {
	g := sampleGrid()
	g.Place(9, 9, 0, core.KindInternal, core.ClockSwitch, core.ValueNone)
	g.Place(2, 0, 0, core.KindElectrode, core.ClockHold, core.ValueB)
	g.Place(1, 0, 1, core.KindOutput, core.ClockRelax, core.ValueNone)
	g.Place(1, 0, 0, core.KindElectrode, core.ClockSwitch, core.ValueA)

	lines := strings.Split(string(Encode(g)), "\n")
	assert.Equal(t, []string{
		"4",
		"QCA1",
		"T E 2 0 0 H B",
		"T E 1 0 0 S A",
		"T I 9 9 0 S N",
		"T O 1 0 1 L N",
	}, lines[:6])
}

func TestEncodeInputs(t *testing.T) {
	g := sampleGrid()
	g.Inputs = []string{"A 0 1", "B 1 0"}
	text := string(Encode(g))
	assert.True(t, strings.HasSuffix(text, "0\n2\nA 0 1\nB 1 0\n"), text)

	g.Inputs = nil
	text = string(Encode(g))
	assert.True(t, strings.HasSuffix(text, "0\n0\n0\n0\n0\n0\n"), text)
	assert.Equal(t, 8, strings.Count(text, "\n"))
}

func TestRoundTripPreservesElectrodeOrder(t *testing.T) {
	g := sampleGrid()
	g.Place(4, 0, 0, core.KindElectrode, core.ClockSwitch, core.ValueA)
	g.Place(0, 1, 0, core.KindInternal, core.ClockSwitch, core.ValueNone)
	g.Place(-2, 3, 1, core.KindElectrode, core.ClockHold, core.ValueB)
	g.Place(7, 7, 2, core.KindElectrode, core.ClockRelax, core.ValueC)

	decoded, err := Decode(Encode(g))
	require.NoError(t, err)

	want := g.ElectrodesByID()
	got := decoded.ElectrodesByID()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key(), got[i].Key())
		id, _ := got[i].ElectrodeID()
		assert.Equal(t, i, id)
	}
}

func TestRoundTripIsByteStable(t *testing.T) {
	g := sampleGrid()
	g.Architecture = "bistable 3x3"
	g.Params.Set(core.ParamEps, "1e-3")
	g.Params.Set(core.ParamInfluenceRadius, "2.5 nm")
	g.Inputs = []string{"A B", "0 1", "1 0"}
	g.Place(0, 0, 0, core.KindDriver, core.ClockUndefined, core.ValueD)
	g.Place(3, 1, 0, core.KindElectrode, core.ClockRelease, core.ValueNone)
	g.Place(-1, -1, 1, core.KindOutput, core.ClockHold, core.ValueNone)
	g.Place(2, 2, 2, core.KindInternal, core.ClockSwitch, core.ValueA)

	first := Encode(g)
	decoded, err := Decode(first)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(Encode(decoded)))
	assert.Equal(t, g.Params, decoded.Params)
	assert.Equal(t, g.Inputs, decoded.Inputs)
}

func TestDecodeSkipsCommentsAndBlankLines(t *testing.T) {
	plain := "2\nQCA1\nT E 1 0 0 S A\nT I 0 0 0 H N\n4\n5\n0.01\n100\n3\n1\nA\n"
	noisy := "% header comment\n\n2\n   \nQCA1\n  % indented comment\nT E 1 0 0 S A\n\n" +
		"T I 0 0 0 H N\n%\n4\n5\n\t\n0.01\n100\n3\n% inputs follow\n1\n\nA\n\n% trailer\n"

	want, err := Decode([]byte(plain))
	require.NoError(t, err)
	got, err := Decode([]byte(noisy))
	require.NoError(t, err)

	assert.Equal(t, string(Encode(want)), string(Encode(got)))
	assert.Equal(t, want.Cells(), got.Cells())
}

func TestDecodeTrimsLinesAndIgnoresTrailer(t *testing.T) {
	text := "  1 \r\n QCA1\r\n T E 0 0 0 S A\r\n0\n0\n0\n0\n0\n0\nleftover\nmore leftover\n"
	g, err := Decode([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, "QCA1", g.Architecture)
	assert.Equal(t, 1, g.Len())
	assert.Empty(t, g.Inputs)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
		step Step
	}{
		{"empty", "", ErrTruncatedInput, StepCount},
		{"only comments", "% nothing\n\n", ErrTruncatedInput, StepCount},
		{"negative count", "-1\nQCA1\n", ErrMalformedCount, StepCount},
		{"word count", "one\nQCA1\n", ErrMalformedCount, StepCount},
		{"missing architecture", "0\n", ErrTruncatedInput, StepArchitecture},
		{"count exceeds cells", "3\nQCA1\nT E 0 0 0 S A\nT I 1 0 0 S N\n", ErrTruncatedInput, StepCells},
		{"count runs into params", "2\nQCA1\nT E 0 0 0 S A\n0\n0\n0\n0\n0\n0\n", ErrTruncatedInput, StepCells},
		{"bad cell", "1\nQCA1\nT E 0 0 S A\n0\n0\n0\n0\n0\n0\n", ErrMalformedCellLine, StepCells},
		{"missing params", "0\nQCA1\n1\n2\n3\n", ErrTruncatedInput, StepSimParams},
		{"missing input count", "0\nQCA1\n1\n2\n3\n4\n5\n", ErrTruncatedInput, StepInputCount},
		{"bad input count", "0\nQCA1\n1\n2\n3\n4\n5\nmany\n", ErrMalformedCount, StepInputCount},
		{"missing inputs", "0\nQCA1\n1\n2\n3\n4\n5\n3\nA\n", ErrTruncatedInput, StepInputs},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Decode([]byte(tc.text))
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.step, de.Step)
		})
	}
}

func TestDecodeErrorReportsQueueLine(t *testing.T) {
	text := "% comment\n2\n\nQCA1\nT E 0 0 0 S A\nT Q 1 0 0 S N\n"
	_, err := Decode([]byte(text))
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 4, de.Line)
	assert.Contains(t, err.Error(), "cells (line 4)")
}

func TestCountMismatchLeavesPriorGridUntouched(t *testing.T) {
	prior := sampleGrid()
	prior.Place(1, 1, 0, core.KindElectrode, core.ClockSwitch, core.ValueA)
	before := string(Encode(prior))

	doc := prior
	next, err := Decode([]byte("5\nQCA1\nT E 0 0 0 S A\n0\n0\n0\n0\n0\n0\n"))
	require.ErrorIs(t, err, ErrTruncatedInput)
	if err == nil {
		doc = next
	}
	assert.Same(t, prior, doc)
	assert.Equal(t, before, string(Encode(doc)))
}

func TestReadAndFiles(t *testing.T) {
	g, err := Read(strings.NewReader(singleElectrode))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	dir := t.TempDir()
	path := filepath.Join(dir, EnsureExt("layout"))
	assert.Equal(t, filepath.Join(dir, "layout.qdStruct"), path)
	assert.Equal(t, path, EnsureExt(path))

	require.NoError(t, SaveFile(path, g))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, singleElectrode, string(data))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g.Cells()[0].Key(), loaded.Cells()[0].Key())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be renamed away")

	_, err = LoadFile(filepath.Join(dir, "missing.qdStruct"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRefusesFieldsDecodeWouldDrop(t *testing.T) {
	cases := map[string]func(g *core.Grid){
		"empty architecture":   func(g *core.Grid) { g.Architecture = "" },
		"comment architecture": func(g *core.Grid) { g.Architecture = "% QCA1" },
		"empty param":          func(g *core.Grid) { g.Params.Set(core.ParamEps, "") },
		"padded param":         func(g *core.Grid) { g.Params.Set(core.ParamEps, " 0.1") },
		"blank input":          func(g *core.Grid) { g.Inputs = []string{"A", "", "B"} },
		"multi-line input":     func(g *core.Grid) { g.Inputs = []string{"A\nB"} },
	}
	dir := t.TempDir()
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			g := sampleGrid()
			g.Place(0, 0, 0, core.KindElectrode, core.ClockSwitch, core.ValueA)
			edit(g)

			require.ErrorIs(t, Validate(g), core.ErrInvalidField)
			var buf strings.Builder
			require.ErrorIs(t, Write(&buf, g), core.ErrInvalidField)
			assert.Empty(t, buf.String())

			path := filepath.Join(dir, "refused.qdStruct")
			require.ErrorIs(t, SaveFile(path, g), core.ErrInvalidField)
			_, err := os.Stat(path)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}

	g, err := Decode([]byte("0\nQCA1\n1\n2\n3\n4\n5\n2\nA 0\nB 1\n"))
	require.NoError(t, err)
	assert.NoError(t, Validate(g), "decoded documents always validate")
}
