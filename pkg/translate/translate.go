// Package translate walks a schematic graph and emits the symbolic
// constraint formula encoding its physics: Hagen-Poiseuille channel
// resistance, flow and pressure conservation at junctions, T-junction
// droplet break-off, user-supplied bounds, and chip boundary containment.
//
// Translation starts at the input ports and recurses outward along the
// reachable subgraph, so conservation constraints are emitted transitively.
// Chip boundary constraints are emitted afterwards for every entity,
// reachable or not. Every call builds a fresh formula; translating the
// same unmodified schematic twice yields identical output.
package translate

import (
	"errors"
	"fmt"

	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/smt"
)

var (
	// ErrMissingInput indicates a schematic with no input port.
	ErrMissingInput = errors.New("translate: schematic has no input port")

	// ErrUnreachableOutput indicates an input port from which no output
	// port can be reached.
	ErrUnreachableOutput = errors.New("translate: input port reaches no output")

	// ErrTJunctionShape indicates a T-junction without exactly one
	// continuous inlet, one dispersed inlet and one output outlet.
	ErrTJunctionShape = errors.New("translate: t-junction requires one continuous inlet, one dispersed inlet and one output outlet")
)

type translator struct {
	s *schematic.Schematic
	f *smt.Formula

	doneNodes    map[string]bool
	doneChannels map[schematic.ChannelRef]bool
}

// Schematic translates the whole graph into one ordered constraint
// formula, or fails with ErrMissingInput, ErrUnreachableOutput or
// ErrTJunctionShape.
func Schematic(s *schematic.Schematic) (*smt.Formula, error) {
	t := &translator{
		s:            s,
		f:            smt.NewFormula(),
		doneNodes:    make(map[string]bool),
		doneChannels: make(map[schematic.ChannelRef]bool),
	}

	hasInput := false
	for _, n := range s.Nodes() {
		if n.Kind != schematic.Input {
			continue
		}
		hasInput = true
		if !reachesOutput(s, n.Name) {
			return nil, fmt.Errorf("%w: %s", ErrUnreachableOutput, n.Name)
		}
		if err := t.node(n.Name); err != nil {
			return nil, err
		}
	}
	if !hasInput {
		return nil, ErrMissingInput
	}

	// Boundary containment applies to every entity, including ones not
	// reachable from any input.
	for _, n := range s.Nodes() {
		t.chip(n)
	}
	return t.f, nil
}

// reachesOutput runs a read-only breadth-first walk along channel
// direction looking for an output port.
func reachesOutput(s *schematic.Schematic, from string) bool {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		n, ok := s.Node(name)
		if !ok {
			continue
		}
		if n.Kind == schematic.Output {
			return true
		}
		for _, ch := range s.Outgoing(name) {
			if !seen[ch.To] {
				seen[ch.To] = true
				queue = append(queue, ch.To)
			}
		}
	}
	return false
}

// node dispatches on the entity kind and recurses along outgoing
// channels. The kind set is closed; the default arm is unreachable for
// any schematic the creation API accepted.
func (t *translator) node(name string) error {
	if t.doneNodes[name] {
		return nil
	}
	t.doneNodes[name] = true

	n, ok := t.s.Node(name)
	if !ok {
		return fmt.Errorf("translate: node %q not in schematic", name)
	}

	switch n.Kind {
	case schematic.Input:
		t.inputPort(n)
	case schematic.Output:
		t.outputPort(n)
	case schematic.Junction:
		t.junction(n)
	case schematic.TJunction:
		if err := t.tJunction(n); err != nil {
			return err
		}
	default:
		return fmt.Errorf("translate: node %q has unknown kind %v", name, n.Kind)
	}

	for _, ch := range t.s.Outgoing(name) {
		t.channel(ch)
		if err := t.node(ch.To); err != nil {
			return err
		}
	}
	return nil
}

// sumFlows builds the flow-rate sum over a channel set, or the zero
// literal for an empty set.
func sumFlows(chs []*schematic.Channel) smt.Expr {
	if len(chs) == 0 {
		return smt.Lit(0)
	}
	terms := make([]smt.Expr, len(chs))
	for i, ch := range chs {
		terms[i] = smt.Var(ch.FlowRate)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return smt.Add(terms...)
}
