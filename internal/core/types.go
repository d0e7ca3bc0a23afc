package core

import "fmt"

// Kind classifies a cell within a QCA layout.
type Kind uint8

const (
	// KindInternal is an ordinary cell inside the circuit.
	KindInternal Kind = iota
	// KindDriver is a cell held at a fixed polarisation.
	KindDriver
	// KindElectrode is an addressable driving electrode. Electrode cells carry
	// a sequential id.
	KindElectrode
	// KindOutput marks a cell read back by the simulator.
	KindOutput
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{KindInternal, KindDriver, KindElectrode, KindOutput}

// Code returns the single-character qdStruct code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindInternal:
		return "I"
	case KindDriver:
		return "D"
	case KindElectrode:
		return "E"
	case KindOutput:
		return "O"
	}
	panic(fmt.Sprintf("core: invalid kind %d", uint8(k)))
}

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindDriver:
		return "driver"
	case KindElectrode:
		return "electrode"
	case KindOutput:
		return "output"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a qdStruct code back to a Kind.
func ParseKind(code string) (Kind, bool) {
	switch code {
	case "I":
		return KindInternal, true
	case "D":
		return KindDriver, true
	case "E":
		return KindElectrode, true
	case "O":
		return KindOutput, true
	}
	return 0, false
}

// Clock is the clock phase a cell is attached to.
type Clock uint8

const (
	ClockUndefined Clock = iota
	ClockSwitch
	ClockHold
	ClockRelease
	ClockRelax
)

// Clocks lists every Clock in declaration order.
var Clocks = []Clock{ClockUndefined, ClockSwitch, ClockHold, ClockRelease, ClockRelax}

// Code returns the single-character qdStruct code for the clock phase.
func (c Clock) Code() string {
	switch c {
	case ClockUndefined:
		return "U"
	case ClockSwitch:
		return "S"
	case ClockHold:
		return "H"
	case ClockRelease:
		return "R"
	case ClockRelax:
		return "L"
	}
	panic(fmt.Sprintf("core: invalid clock %d", uint8(c)))
}

func (c Clock) String() string {
	switch c {
	case ClockUndefined:
		return "undefined"
	case ClockSwitch:
		return "switch"
	case ClockHold:
		return "hold"
	case ClockRelease:
		return "release"
	case ClockRelax:
		return "relax"
	}
	return fmt.Sprintf("Clock(%d)", uint8(c))
}

// ParseClock maps a qdStruct code back to a Clock.
func ParseClock(code string) (Clock, bool) {
	switch code {
	case "U":
		return ClockUndefined, true
	case "S":
		return ClockSwitch, true
	case "H":
		return ClockHold, true
	case "R":
		return ClockRelease, true
	case "L":
		return ClockRelax, true
	}
	return 0, false
}

// Value is the logical value assigned to a cell. ValueNone means unassigned.
type Value uint8

const (
	ValueNone Value = iota
	ValueA
	ValueB
	ValueC
	ValueD
)

// Values lists every Value in declaration order.
var Values = []Value{ValueNone, ValueA, ValueB, ValueC, ValueD}

// Code returns the single-character qdStruct code for the value.
func (v Value) Code() string {
	switch v {
	case ValueNone:
		return "N"
	case ValueA:
		return "A"
	case ValueB:
		return "B"
	case ValueC:
		return "C"
	case ValueD:
		return "D"
	}
	panic(fmt.Sprintf("core: invalid value %d", uint8(v)))
}

func (v Value) String() string {
	switch v {
	case ValueNone:
		return "none"
	case ValueA:
		return "a"
	case ValueB:
		return "b"
	case ValueC:
		return "c"
	case ValueD:
		return "d"
	}
	return fmt.Sprintf("Value(%d)", uint8(v))
}

// ParseValue maps a qdStruct code back to a Value.
func ParseValue(code string) (Value, bool) {
	switch code {
	case "N":
		return ValueNone, true
	case "A":
		return ValueA, true
	case "B":
		return ValueB, true
	case "C":
		return ValueC, true
	case "D":
		return ValueD, true
	}
	return 0, false
}

// Key addresses a grid position.
type Key struct {
	X, Y, Z int
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k.X, k.Y, k.Z)
}
