package schematic

// Creation requests. Optional bounds are *float64: nil means "not
// provided, leave the quantity free", and a genuine zero bound stays a
// zero bound. Float is the convenience constructor for literals.

// Float returns a pointer to v for use in spec bound fields.
func Float(v float64) *float64 {
	return &v
}

// PortSpec describes a boundary port. Kind must be "input" or "output".
// Voltage and Current are only meaningful for electrode-carrying ports
// and are stored as static attributes, not solved quantities.
type PortSpec struct {
	Name  string `validate:"required,entityname"`
	Kind  string `validate:"required"`
	Fluid string

	MinPressure *float64 `validate:"omitempty,gte=0"`
	MinFlowRate *float64 `validate:"omitempty,gte=0"`
	X           *float64 `validate:"omitempty,gte=0"`
	Y           *float64 `validate:"omitempty,gte=0"`

	Voltage *float64
	Current *float64 `validate:"omitempty,gte=0"`
}

// FiniteFields exposes optional numeric parameters for the NaN/Inf check.
func (s PortSpec) FiniteFields() map[string]*float64 {
	return map[string]*float64{
		"MinPressure": s.MinPressure,
		"MinFlowRate": s.MinFlowRate,
		"X":           s.X,
		"Y":           s.Y,
		"Voltage":     s.Voltage,
		"Current":     s.Current,
	}
}

// NodeSpec describes an internal junction. Kind defaults to "node"; the
// other supported kind is "t-junction". C, P and Qf are the dimensionless
// droplet break-off coefficients and default to 0.4, 0.5 and 0.9.
type NodeSpec struct {
	Name string `validate:"required,entityname"`
	Kind string

	X *float64 `validate:"omitempty,gte=0"`
	Y *float64 `validate:"omitempty,gte=0"`

	C  *float64 `validate:"omitempty,gt=0"`
	P  *float64 `validate:"omitempty,gt=0"`
	Qf *float64 `validate:"omitempty,gt=0"`
}

// FiniteFields exposes optional numeric parameters for the NaN/Inf check.
func (s NodeSpec) FiniteFields() map[string]*float64 {
	return map[string]*float64{
		"X": s.X, "Y": s.Y, "C": s.C, "P": s.P, "Qf": s.Qf,
	}
}

// ChannelSpec describes a directed channel between two existing entities.
// Kind defaults to "rectangle". Phase is only meaningful when the channel
// is incident to a T-junction.
type ChannelSpec struct {
	From string `validate:"required,entityname"`
	To   string `validate:"required,entityname"`
	Kind string

	MinLength     *float64 `validate:"omitempty,gte=0"`
	MinWidth      *float64 `validate:"omitempty,gte=0"`
	MinHeight     *float64 `validate:"omitempty,gte=0"`
	MinResolution *float64 `validate:"omitempty,gte=0"`

	Phase           string
	MinSamplingRate *float64 `validate:"omitempty,gt=0"`
}

// FiniteFields exposes optional numeric parameters for the NaN/Inf check.
func (s ChannelSpec) FiniteFields() map[string]*float64 {
	return map[string]*float64{
		"MinLength":       s.MinLength,
		"MinWidth":        s.MinWidth,
		"MinHeight":       s.MinHeight,
		"MinResolution":   s.MinResolution,
		"MinSamplingRate": s.MinSamplingRate,
	}
}
