package translate

import (
	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/smt"
)

// wideChannelFactor is the shape correction of the rectangular-duct
// Hagen-Poiseuille approximation R = 12*mu*L / (w*h^3*(1 - 0.63*h/w)),
// valid for h <= w (enforced per channel).
const wideChannelFactor = 0.63

// inputPort pins fluid properties to the resolved baselines, applies
// user-supplied lower bounds, and opens flow conservation toward the
// outgoing channels.
func (t *translator) inputPort(n *schematic.Node) {
	t.portBounds(n)
	t.f.Assert(
		smt.Eq(smt.Var(n.Visc), smt.Lit(n.Props.Viscosity)),
		smt.Eq(smt.Var(n.Density), smt.Lit(n.Props.Density)),
	)
	// Everything the port injects leaves through its channels.
	t.f.Assert(smt.Eq(smt.Var(n.FlowRate), sumFlows(t.s.Outgoing(n.Name))))
}

// outputPort mirrors the input bound handling and closes the network:
// total flow arriving equals the port flow rate.
func (t *translator) outputPort(n *schematic.Node) {
	t.portBounds(n)
	t.f.Assert(
		smt.Ge(smt.Var(n.Visc), smt.Lit(0)),
		smt.Ge(smt.Var(n.Density), smt.Lit(0)),
	)
	incoming := t.s.Incoming(n.Name)
	t.f.Assert(smt.Eq(sumFlows(incoming), smt.Var(n.FlowRate)))
	// The arriving mixture sets the port's fluid state.
	for _, ch := range incoming {
		t.f.Assert(smt.Eq(smt.Var(n.Visc), smt.Var(ch.Visc)))
	}
}

// portBounds emits the user-supplied pressure and flow-rate lower bounds,
// or bare physical domain constraints when a bound was omitted.
func (t *translator) portBounds(n *schematic.Node) {
	if n.MinPressure != nil {
		t.f.Assert(smt.Ge(smt.Var(n.Pressure), smt.Lit(*n.MinPressure)))
	} else {
		t.f.Assert(smt.Ge(smt.Var(n.Pressure), smt.Lit(0)))
	}
	if n.MinFlowRate != nil {
		t.f.Assert(smt.Ge(smt.Var(n.FlowRate), smt.Lit(*n.MinFlowRate)))
	} else {
		t.f.Assert(smt.Ge(smt.Var(n.FlowRate), smt.Lit(0)))
	}
}

// junction emits flow conservation at an internal node: inflow equals
// outflow, and the node's own flow rate is defined as the through-flow.
func (t *translator) junction(n *schematic.Node) {
	t.junctionDomain(n)
	inflow := sumFlows(t.s.Incoming(n.Name))
	outflow := sumFlows(t.s.Outgoing(n.Name))
	t.f.Assert(
		smt.Eq(inflow, outflow),
		smt.Eq(smt.Var(n.FlowRate), inflow),
	)
}

func (t *translator) junctionDomain(n *schematic.Node) {
	t.f.Assert(
		smt.Ge(smt.Var(n.Pressure), smt.Lit(0)),
		smt.Gt(smt.Var(n.Visc), smt.Lit(0)),
		smt.Ge(smt.Var(n.Density), smt.Lit(0)),
	)
}

// tJunction emits conservation plus the squeezing-regime droplet
// break-off relations. The junction must have exactly one continuous
// inlet, one dispersed inlet and one output outlet.
func (t *translator) tJunction(n *schematic.Node) error {
	t.junctionDomain(n)

	var cont, disp, out *schematic.Channel
	incoming := t.s.Incoming(n.Name)
	outgoing := t.s.Outgoing(n.Name)
	for _, ch := range incoming {
		switch ch.Phase {
		case schematic.PhaseContinuous:
			cont = ch
		case schematic.PhaseDispersed:
			disp = ch
		}
	}
	for _, ch := range outgoing {
		if ch.Phase == schematic.PhaseOutput {
			out = ch
		}
	}
	if cont == nil || disp == nil || out == nil || len(incoming) != 2 || len(outgoing) != 1 {
		return ErrTJunctionShape
	}

	qc := smt.Var(cont.FlowRate)
	qd := smt.Var(disp.FlowRate)
	qOut := smt.Var(out.FlowRate)
	vd := smt.Var(out.DropletVolume)

	t.f.Assert(
		// Both phases leave through the output channel.
		smt.Eq(smt.Add(qc, qd), qOut),
		smt.Eq(smt.Var(n.FlowRate), qOut),
		// Planar chip: one etch depth across the junction.
		smt.Eq(smt.Var(disp.Height), smt.Var(cont.Height)),
		smt.Eq(smt.Var(out.Height), smt.Var(cont.Height)),
	)

	// Squeezing-regime droplet volume, Vd = h*wc^2*(C + P*Qd/Qc),
	// multiplied through by Qc to stay polynomial.
	hwc2 := smt.Mul(smt.Var(cont.Height), smt.Pow(smt.Var(cont.Width), 2))
	t.f.Assert(smt.Eq(
		smt.Mul(vd, qc),
		smt.Mul(hwc2, smt.Add(smt.Mul(smt.Lit(n.C), qc), smt.Mul(smt.Lit(n.P), qd))),
	))

	t.f.Assert(
		// Break-off only happens while the dispersed phase stays below
		// the Qf fraction of the continuous flow.
		smt.Le(qd, smt.Mul(smt.Lit(n.Qf), qc)),
		// Generation frequency f = Qd/Vd must respect the detector's
		// Nyquist limit: 2*f <= sampling rate.
		smt.Le(smt.Mul(smt.Lit(2), qd), smt.Mul(vd, smt.Lit(out.SamplingRate))),
		// The droplet plug must fit inside the output channel.
		smt.Le(vd, smt.Mul(smt.Var(out.Width), smt.Var(out.Height), smt.Var(out.Length))),
	)
	return nil
}

// channel emits the rectangular-duct physics for one directed channel:
// geometry domain and bounds, viscosity continuity with the upstream
// node, the Hagen-Poiseuille resistance relation, the pressure drop
// across the endpoints, positional length consistency, and detector
// placement.
func (t *translator) channel(ch *schematic.Channel) {
	ref := ch.Ref()
	if t.doneChannels[ref] {
		return
	}
	t.doneChannels[ref] = true

	length := smt.Var(ch.Length)
	width := smt.Var(ch.Width)
	height := smt.Var(ch.Height)
	q := smt.Var(ch.FlowRate)
	r := smt.Var(ch.Resistance)
	mu := smt.Var(ch.Visc)

	t.f.Assert(
		smt.Gt(length, smt.Lit(0)),
		smt.Gt(width, smt.Lit(0)),
		smt.Gt(height, smt.Lit(0)),
		smt.Ge(smt.Var(ch.Resolution), smt.Lit(0)),
		smt.Ge(q, smt.Lit(0)),
		smt.Gt(r, smt.Lit(0)),
		smt.Gt(mu, smt.Lit(0)),
		smt.Ge(smt.Var(ch.DropletVolume), smt.Lit(0)),
		// The resistance approximation needs a wide, shallow section.
		smt.Le(height, width),
	)

	mins := []struct {
		attr smt.Expr
		min  *float64
	}{
		{length, ch.MinLength},
		{width, ch.MinWidth},
		{height, ch.MinHeight},
		{smt.Var(ch.Resolution), ch.MinResolution},
	}
	for _, m := range mins {
		if m.min != nil {
			t.f.Assert(smt.Ge(m.attr, smt.Lit(*m.min)))
		}
	}

	from, _ := t.s.Node(ch.From)
	to, _ := t.s.Node(ch.To)

	// The channel carries whatever enters it.
	t.f.Assert(smt.Eq(mu, smt.Var(from.Visc)))

	// R*w*h^3*(1 - 0.63*h/w) = 12*mu*L, the wide-rectangular-duct
	// Hagen-Poiseuille relation with the division multiplied out.
	t.f.Assert(smt.Eq(
		smt.Mul(r, width, smt.Pow(height, 3),
			smt.Sub(smt.Lit(1), smt.Mul(smt.Lit(wideChannelFactor), smt.Div(height, width)))),
		smt.Mul(smt.Lit(12), mu, length),
	))

	// Electrical analogy: the pressure drop across the endpoints is Q*R.
	t.f.Assert(smt.Eq(
		smt.Sub(smt.Var(from.Pressure), smt.Var(to.Pressure)),
		smt.Mul(q, r),
	))

	// The channel may meander, but it can never be shorter than the
	// straight-line distance between its endpoints.
	dx := smt.Sub(smt.Var(from.X), smt.Var(to.X))
	dy := smt.Sub(smt.Var(from.Y), smt.Var(to.Y))
	t.f.Assert(smt.Ge(smt.Pow(length, 2), smt.Add(smt.Pow(dx, 2), smt.Pow(dy, 2))))

	// Detector position sits somewhere along the channel.
	t.f.Assert(
		smt.Ge(smt.Var(ch.XDetector), smt.Lit(0)),
		smt.Le(smt.Var(ch.XDetector), length),
	)
}

// chip confines an entity to the chip bounding box and pins positions the
// user fixed explicitly. Runs for every node, reachable or not.
func (t *translator) chip(n *schematic.Node) {
	b := t.s.Bounds()
	t.f.Assert(
		smt.Ge(smt.Var(n.X), smt.Lit(b.XMin)),
		smt.Le(smt.Var(n.X), smt.Lit(b.XMax)),
		smt.Ge(smt.Var(n.Y), smt.Lit(b.YMin)),
		smt.Le(smt.Var(n.Y), smt.Lit(b.YMax)),
	)
	if n.PinX != nil {
		t.f.Assert(smt.Eq(smt.Var(n.X), smt.Lit(*n.PinX)))
	}
	if n.PinY != nil {
		t.f.Assert(smt.Eq(smt.Var(n.Y), smt.Lit(*n.PinY)))
	}
}
