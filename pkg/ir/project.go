package ir

import (
	"fmt"
	"strconv"

	"github.com/manifold-lang/gomanifold/pkg/logging"
	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/smt"
	"github.com/manifold-lang/gomanifold/pkg/solver"
)

// DefaultName is the document name when the caller does not set one.
const DefaultName = "Json Data"

// Projector maps a solved model back onto the schematic that owns the
// variables and serializes the result as a Document. Projection walks
// the graph and looks intervals up through each variable's structured
// key; it never parses rendered variable names.
type Projector struct {
	// Name becomes the document name; empty means DefaultName.
	Name string

	// Log receives warnings about unbounded solved intervals.
	Log logging.Logger
}

// Project builds the IR document for a schematic and its solved model.
// Entity ids are generated sequentially in insertion order: pT0, pT1, ...
// for nodes, ch0, ch1, ... for connections.
func (p *Projector) Project(s *schematic.Schematic, m *solver.Model) (*Document, error) {
	if m == nil {
		return nil, fmt.Errorf("ir: nil model")
	}
	log := p.Log
	if log == nil {
		log = logging.Nop{}
	}
	log = log.With(logging.Component("ir"))

	name := p.Name
	if name == "" {
		name = DefaultName
	}
	doc := NewDocument(name)

	for i, n := range s.Nodes() {
		id := "pT" + strconv.Itoa(i)
		attrs := p.nodeAttributes(n, m, log)
		doc.Nodes[id] = NodeRecord{
			Type:       n.Kind.String(),
			PortAttrs:  n.Name,
			Attributes: attrs,
		}
		st := SignalType{SignalType: n.Kind.String(), Attributes: attrs}
		if n.IsPort() {
			doc.PortTypes[id] = st
		} else {
			doc.NodeTypes[id] = st
		}
	}

	for i, ch := range s.Channels() {
		id := "ch" + strconv.Itoa(i)
		doc.Connections[id] = Connection{
			From:       ch.From,
			To:         ch.To,
			Attributes: p.channelAttributes(ch, m, log),
		}
	}
	return doc, nil
}

func (p *Projector) nodeAttributes(n *schematic.Node, m *solver.Model, log logging.Logger) Attributes {
	attrs := Attributes{
		"kind": Static(n.Kind.String()),
	}

	solvedAttr(attrs, m, log, schematic.AttrPressure, n.Pressure)
	solvedAttr(attrs, m, log, schematic.AttrFlowRate, n.FlowRate)
	solvedAttr(attrs, m, log, schematic.AttrViscosity, n.Visc)
	solvedAttr(attrs, m, log, schematic.AttrDensity, n.Density)
	solvedAttr(attrs, m, log, schematic.AttrX, n.X)
	solvedAttr(attrs, m, log, schematic.AttrY, n.Y)

	staticBound(attrs, "min_pressure", n.MinPressure)
	staticBound(attrs, "min_flow_rate", n.MinFlowRate)
	staticBound(attrs, "min_x", n.PinX)
	staticBound(attrs, "min_y", n.PinY)

	if n.IsPort() {
		attrs["fluid"] = Static(n.Fluid)
		attrs["min_viscosity"] = Static(n.Props.Viscosity)
		attrs["min_density"] = Static(n.Props.Density)
		attrs["min_resistivity"] = Static(n.Props.Resistivity)
		if len(n.Props.AnalyteDiffusivities) > 0 {
			attrs["analyte_diffusivities"] = Static(n.Props.AnalyteDiffusivities)
		}
		if len(n.Props.AnalyteInitialConcentrations) > 0 {
			attrs["analyte_initial_concentrations"] = Static(n.Props.AnalyteInitialConcentrations)
		}
		if len(n.Props.AnalyteRadii) > 0 {
			attrs["analyte_radii"] = Static(n.Props.AnalyteRadii)
		}
		if len(n.Props.AnalyteCharges) > 0 {
			attrs["analyte_charges"] = Static(n.Props.AnalyteCharges)
		}
		staticBound(attrs, "voltage", n.Voltage)
		staticBound(attrs, "current", n.Current)
	} else {
		attrs["c"] = Static(n.C)
		attrs["p"] = Static(n.P)
		attrs["qf"] = Static(n.Qf)
	}
	return attrs
}

func (p *Projector) channelAttributes(ch *schematic.Channel, m *solver.Model, log logging.Logger) Attributes {
	attrs := Attributes{
		"kind":              Static(ch.Kind.String()),
		"phase":             Static(ch.Phase.String()),
		"min_sampling_rate": Static(ch.SamplingRate),
	}

	solvedAttr(attrs, m, log, schematic.AttrLength, ch.Length)
	solvedAttr(attrs, m, log, schematic.AttrWidth, ch.Width)
	solvedAttr(attrs, m, log, schematic.AttrHeight, ch.Height)
	solvedAttr(attrs, m, log, schematic.AttrResolution, ch.Resolution)
	solvedAttr(attrs, m, log, schematic.AttrFlowRate, ch.FlowRate)
	solvedAttr(attrs, m, log, schematic.AttrDropletVolume, ch.DropletVolume)
	solvedAttr(attrs, m, log, schematic.AttrViscosity, ch.Visc)
	solvedAttr(attrs, m, log, schematic.AttrResistance, ch.Resistance)
	solvedAttr(attrs, m, log, schematic.AttrXDetector, ch.XDetector)

	staticBound(attrs, "min_length", ch.MinLength)
	staticBound(attrs, "min_width", ch.MinWidth)
	staticBound(attrs, "min_height", ch.MinHeight)
	staticBound(attrs, "min_resolution", ch.MinResolution)
	return attrs
}

// solvedAttr copies one solved interval into the bag. Variables absent
// from the model (e.g. attributes of entities outside the reachable
// subgraph) are simply omitted. Intervals touching the solver's
// representable infinity are kept but flagged, matching the original
// tool's warning on unbounded ranges.
func solvedAttr(attrs Attributes, m *solver.Model, log logging.Logger, name string, v smt.Variable) {
	iv, ok := m.Lookup(v)
	if !ok {
		return
	}
	if iv.Unbounded() {
		log.Warn("solved range includes infinity, needs an explicit bound",
			logging.String("variable", v.Name()))
	}
	attrs[name] = Solved(iv)
}

func staticBound(attrs Attributes, name string, v *float64) {
	if v != nil {
		attrs[name] = Static(*v)
	}
}
