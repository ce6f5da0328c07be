// Package schematic models a microfluidic circuit as a directed graph of
// named entities (boundary ports, internal junctions) connected by
// channels. Every physical attribute of an entity owns one symbolic
// variable; the translate package turns the finished graph into a
// constraint formula and the solver resolves each variable to an
// interval. The graph is exclusively owned by its caller and is not safe
// for concurrent mutation.
package schematic

import (
	"github.com/manifold-lang/gomanifold/pkg/fluids"
	"github.com/manifold-lang/gomanifold/pkg/smt"
	"github.com/manifold-lang/gomanifold/pkg/validation"
)

// Attribute names used in the <entity>_<attribute> variable protocol and
// in the exported IR.
const (
	AttrPressure      = "pressure"
	AttrFlowRate      = "flow_rate"
	AttrViscosity     = "viscosity"
	AttrDensity       = "density"
	AttrX             = "x"
	AttrY             = "y"
	AttrLength        = "length"
	AttrWidth         = "width"
	AttrHeight        = "height"
	AttrResolution    = "resolution"
	AttrDropletVolume = "droplet_volume"
	AttrResistance    = "resistance"
	AttrXDetector     = "x_detector"
)

// Default droplet break-off coefficients for T-junctions.
const (
	DefaultC  = 0.4
	DefaultP  = 0.5
	DefaultQf = 0.9
)

// DefaultSamplingRate is the detector sampling rate (Hz) assumed when a
// channel spec does not supply one.
const DefaultSamplingRate = 1.0

// Bounds is the chip bounding box in meters.
type Bounds struct {
	XMin, YMin, XMax, YMax float64
}

// Node is a named entity: a boundary port or an internal junction. Ports
// and junctions share the physical attribute set; ports additionally
// carry user bounds and fluid-derived baselines, junctions carry the
// T-junction coefficients.
type Node struct {
	Name string
	Kind EntityKind

	Pressure smt.Variable
	FlowRate smt.Variable
	Visc     smt.Variable
	Density  smt.Variable
	X        smt.Variable
	Y        smt.Variable

	// User-supplied lower bounds (ports) and pinned positions. nil means
	// unconstrained.
	MinPressure *float64
	MinFlowRate *float64
	PinX        *float64
	PinY        *float64

	// Fluid-derived baselines, copied from the fluid library at creation
	// time. Only meaningful for ports.
	Fluid string
	Props fluids.Properties

	// Electrode attributes for electrical ports; static, not solved.
	Voltage *float64
	Current *float64

	// Droplet break-off coefficients; meaningful for T-junctions.
	C, P, Qf float64
}

// IsPort reports whether the node is a chip boundary port.
func (n *Node) IsPort() bool {
	return n.Kind.IsPort()
}

// ChannelRef is the ordered endpoint pair keying a channel.
type ChannelRef struct {
	From, To string
}

// Channel is a directed edge carrying fluid between two entities.
type Channel struct {
	From, To string
	Kind     ChannelKind

	Length        smt.Variable
	Width         smt.Variable
	Height        smt.Variable
	Resolution    smt.Variable
	FlowRate      smt.Variable
	DropletVolume smt.Variable
	Visc          smt.Variable
	Resistance    smt.Variable
	XDetector     smt.Variable

	MinLength     *float64
	MinWidth      *float64
	MinHeight     *float64
	MinResolution *float64

	Phase        Phase
	SamplingRate float64
}

// Ref returns the ordered endpoint pair.
func (c *Channel) Ref() ChannelRef {
	return ChannelRef{From: c.From, To: c.To}
}

// Schematic owns all entities and channels of one circuit plus the chip
// bounding box. Nodes and channels keep insertion order so translation
// and export are deterministic.
type Schematic struct {
	bounds Bounds
	lib    *fluids.Library

	nodes     map[string]*Node
	nodeOrder []string

	channels     map[ChannelRef]*Channel
	channelOrder []ChannelRef
}

// Option configures a Schematic.
type Option func(*Schematic)

// WithFluids replaces the built-in fluid library.
func WithFluids(lib *fluids.Library) Option {
	return func(s *Schematic) { s.lib = lib }
}

// New creates an empty schematic for a chip with the given bounding box.
func New(bounds Bounds, opts ...Option) (*Schematic, error) {
	if bounds.XMax <= bounds.XMin || bounds.YMax <= bounds.YMin {
		return nil, ErrBadBounds
	}
	s := &Schematic{
		bounds:   bounds,
		lib:      fluids.Default(),
		nodes:    make(map[string]*Node),
		channels: make(map[ChannelRef]*Channel),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddPort creates a boundary port. Fluid properties are resolved at
// creation time; an unknown fluid fails the whole operation.
func (s *Schematic) AddPort(spec PortSpec) error {
	const op = "AddPort"
	if err := validation.Struct(spec); err != nil {
		return opErr(op, "port", spec.Name, err)
	}
	kind, err := parsePortKind(spec.Kind)
	if err != nil {
		return opErr(op, "port", spec.Name, err)
	}
	if _, exists := s.nodes[spec.Name]; exists {
		return opErr(op, "port", spec.Name, ErrDuplicateName)
	}
	fluid := spec.Fluid
	if fluid == "" {
		fluid = fluids.DefaultFluid
	}
	props, err := s.lib.Lookup(fluid)
	if err != nil {
		return opErr(op, "port", spec.Name, err)
	}
	s.insertNode(&Node{
		Name:        spec.Name,
		Kind:        kind,
		Pressure:    smt.NodeVar(spec.Name, AttrPressure),
		FlowRate:    smt.NodeVar(spec.Name, AttrFlowRate),
		Visc:        smt.NodeVar(spec.Name, AttrViscosity),
		Density:     smt.NodeVar(spec.Name, AttrDensity),
		X:           smt.NodeVar(spec.Name, AttrX),
		Y:           smt.NodeVar(spec.Name, AttrY),
		MinPressure: spec.MinPressure,
		MinFlowRate: spec.MinFlowRate,
		PinX:        spec.X,
		PinY:        spec.Y,
		Fluid:       fluid,
		Props:       props,
		Voltage:     spec.Voltage,
		Current:     spec.Current,
	})
	return nil
}

// AddNode creates an internal junction. Nodes take no external input, so
// their physical quantities stay free; only the position may be pinned.
func (s *Schematic) AddNode(spec NodeSpec) error {
	const op = "AddNode"
	if err := validation.Struct(spec); err != nil {
		return opErr(op, "node", spec.Name, err)
	}
	kind, err := parseNodeKind(spec.Kind)
	if err != nil {
		return opErr(op, "node", spec.Name, err)
	}
	if _, exists := s.nodes[spec.Name]; exists {
		return opErr(op, "node", spec.Name, ErrDuplicateName)
	}
	s.insertNode(&Node{
		Name:     spec.Name,
		Kind:     kind,
		Pressure: smt.NodeVar(spec.Name, AttrPressure),
		FlowRate: smt.NodeVar(spec.Name, AttrFlowRate),
		Visc:     smt.NodeVar(spec.Name, AttrViscosity),
		Density:  smt.NodeVar(spec.Name, AttrDensity),
		X:        smt.NodeVar(spec.Name, AttrX),
		Y:        smt.NodeVar(spec.Name, AttrY),
		PinX:     spec.X,
		PinY:     spec.Y,
		C:        orDefault(spec.C, DefaultC),
		P:        orDefault(spec.P, DefaultP),
		Qf:       orDefault(spec.Qf, DefaultQf),
	})
	return nil
}

// AddChannel creates a directed channel between two existing entities.
// At most one channel may exist per ordered endpoint pair.
func (s *Schematic) AddChannel(spec ChannelSpec) error {
	const op = "AddChannel"
	name := spec.From + "->" + spec.To
	if err := validation.Struct(spec); err != nil {
		return opErr(op, "channel", name, err)
	}
	kind, err := parseChannelKind(spec.Kind)
	if err != nil {
		return opErr(op, "channel", name, err)
	}
	phase, err := parsePhase(spec.Phase)
	if err != nil {
		return opErr(op, "channel", name, err)
	}
	if _, ok := s.nodes[spec.From]; !ok {
		return opErr(op, "channel", name, ErrUnknownNode)
	}
	if _, ok := s.nodes[spec.To]; !ok {
		return opErr(op, "channel", name, ErrUnknownNode)
	}
	ref := ChannelRef{From: spec.From, To: spec.To}
	if _, exists := s.channels[ref]; exists {
		return opErr(op, "channel", name, ErrDuplicateChannel)
	}
	ch := &Channel{
		From:          spec.From,
		To:            spec.To,
		Kind:          kind,
		Length:        smt.ChannelVar(spec.From, spec.To, AttrLength),
		Width:         smt.ChannelVar(spec.From, spec.To, AttrWidth),
		Height:        smt.ChannelVar(spec.From, spec.To, AttrHeight),
		Resolution:    smt.ChannelVar(spec.From, spec.To, AttrResolution),
		FlowRate:      smt.ChannelVar(spec.From, spec.To, AttrFlowRate),
		DropletVolume: smt.ChannelVar(spec.From, spec.To, AttrDropletVolume),
		Visc:          smt.ChannelVar(spec.From, spec.To, AttrViscosity),
		Resistance:    smt.ChannelVar(spec.From, spec.To, AttrResistance),
		XDetector:     smt.ChannelVar(spec.From, spec.To, AttrXDetector),
		MinLength:     spec.MinLength,
		MinWidth:      spec.MinWidth,
		MinHeight:     spec.MinHeight,
		MinResolution: spec.MinResolution,
		Phase:         phase,
		SamplingRate:  orDefault(spec.MinSamplingRate, DefaultSamplingRate),
	}
	s.channels[ref] = ch
	s.channelOrder = append(s.channelOrder, ref)
	return nil
}

func (s *Schematic) insertNode(n *Node) {
	s.nodes[n.Name] = n
	s.nodeOrder = append(s.nodeOrder, n.Name)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Bounds returns the chip bounding box.
func (s *Schematic) Bounds() Bounds {
	return s.bounds
}

// Node returns the named entity.
func (s *Schematic) Node(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Nodes returns all entities in insertion order.
func (s *Schematic) Nodes() []*Node {
	out := make([]*Node, len(s.nodeOrder))
	for i, name := range s.nodeOrder {
		out[i] = s.nodes[name]
	}
	return out
}

// Channel returns the channel for an ordered endpoint pair.
func (s *Schematic) Channel(from, to string) (*Channel, bool) {
	ch, ok := s.channels[ChannelRef{From: from, To: to}]
	return ch, ok
}

// Channels returns all channels in insertion order.
func (s *Schematic) Channels() []*Channel {
	out := make([]*Channel, len(s.channelOrder))
	for i, ref := range s.channelOrder {
		out[i] = s.channels[ref]
	}
	return out
}

// Outgoing returns the channels leaving a node, in insertion order.
func (s *Schematic) Outgoing(name string) []*Channel {
	var out []*Channel
	for _, ref := range s.channelOrder {
		if ref.From == name {
			out = append(out, s.channels[ref])
		}
	}
	return out
}

// Incoming returns the channels arriving at a node, in insertion order.
func (s *Schematic) Incoming(name string) []*Channel {
	var out []*Channel
	for _, ref := range s.channelOrder {
		if ref.To == name {
			out = append(out, s.channels[ref])
		}
	}
	return out
}

// NumNodes returns the entity count.
func (s *Schematic) NumNodes() int {
	return len(s.nodes)
}

// NumChannels returns the channel count.
func (s *Schematic) NumChannels() int {
	return len(s.channels)
}
