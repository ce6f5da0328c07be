package schematic

import (
	"fmt"
	"strings"
)

// EntityKind is the closed set of node kinds the translator knows how to
// handle. Kind strings are parsed once, at creation time, so an
// unsupported kind can never reach translation.
type EntityKind int

const (
	Input EntityKind = iota
	Output
	Junction
	TJunction
)

func (k EntityKind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Junction:
		return "node"
	case TJunction:
		return "t-junction"
	default:
		return "unknown"
	}
}

// IsPort reports whether the kind is a chip boundary port.
func (k EntityKind) IsPort() bool {
	return k == Input || k == Output
}

// ChannelKind is the closed set of channel cross sections. "rectangle" is
// accepted on input and canonicalized to the single supported kind.
type ChannelKind int

const (
	Rectangular ChannelKind = iota
)

func (k ChannelKind) String() string {
	return "channel"
}

// Phase tags a channel's role at a T-junction. Channels not incident to a
// T-junction carry PhaseNone.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseContinuous
	PhaseDispersed
	PhaseOutput
)

func (p Phase) String() string {
	switch p {
	case PhaseContinuous:
		return "continuous"
	case PhaseDispersed:
		return "dispersed"
	case PhaseOutput:
		return "output"
	default:
		return "none"
	}
}

func parsePortKind(s string) (EntityKind, error) {
	switch strings.ToLower(s) {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	default:
		return 0, fmt.Errorf("%w: port kind %q (want input or output)", ErrUnsupportedKind, s)
	}
}

func parseNodeKind(s string) (EntityKind, error) {
	switch strings.ToLower(s) {
	case "", "node":
		return Junction, nil
	case "t-junction", "tjunction":
		return TJunction, nil
	default:
		return 0, fmt.Errorf("%w: node kind %q (want node or t-junction)", ErrUnsupportedKind, s)
	}
}

func parseChannelKind(s string) (ChannelKind, error) {
	switch strings.ToLower(s) {
	case "", "rectangle", "channel":
		return Rectangular, nil
	default:
		return 0, fmt.Errorf("%w: channel kind %q (want rectangle)", ErrUnsupportedKind, s)
	}
}

func parsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return PhaseNone, nil
	case "continuous":
		return PhaseContinuous, nil
	case "dispersed":
		return PhaseDispersed, nil
	case "output":
		return PhaseOutput, nil
	default:
		return 0, fmt.Errorf("%w: channel phase %q (want continuous, dispersed, output or none)", ErrUnsupportedKind, s)
	}
}
