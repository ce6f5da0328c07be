// Package ir builds the solver-independent Manifold intermediate
// representation of a solved circuit: nodes, connections, and their
// static or solved attributes, keyed by generated sequential ids.
package ir

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/manifold-lang/gomanifold/pkg/solver"
)

// Value is one attribute value: either a static literal carried over
// from the schematic, or a solved closed interval. Exactly one of the
// two is set.
type Value struct {
	static   any
	interval *solver.Interval
}

// Static wraps a literal attribute value.
func Static(v any) Value {
	return Value{static: v}
}

// Solved wraps a solved interval.
func Solved(iv solver.Interval) Value {
	return Value{interval: &iv}
}

// IsInterval reports whether the value is a solved interval.
func (v Value) IsInterval() bool {
	return v.interval != nil
}

// Interval returns the solved interval; only meaningful when IsInterval.
func (v Value) Interval() solver.Interval {
	if v.interval == nil {
		return solver.Interval{}
	}
	return *v.interval
}

// StaticValue returns the literal; only meaningful when !IsInterval.
func (v Value) StaticValue() any {
	return v.static
}

// MarshalJSON renders intervals as [lower, upper] pairs and statics
// verbatim.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.interval != nil {
		return json.Marshal([2]float64{v.interval.Lo, v.interval.Hi})
	}
	return json.Marshal(v.static)
}

// Attributes is the per-entity attribute bag.
type Attributes map[string]Value

// SignalType registers a port or node kind in the type sections.
type SignalType struct {
	SignalType string     `json:"signalType"`
	Attributes Attributes `json:"attributes"`
}

// NodeRecord is one entity entry. PortAttrs carries the original entity
// name from the schematic.
type NodeRecord struct {
	Type       string     `json:"type"`
	PortAttrs  string     `json:"portAttrs"`
	Attributes Attributes `json:"attributes"`
}

// Connection is one channel entry.
type Connection struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Attributes Attributes `json:"attributes"`
}

// Document is the Manifold IR. Empty sections serialize as {} rather
// than null, so every map is always allocated.
type Document struct {
	Name             string                `json:"name"`
	UserDefinedTypes map[string]any        `json:"userDefinedTypes"`
	PortTypes        map[string]SignalType `json:"portTypes"`
	NodeTypes        map[string]SignalType `json:"nodeTypes"`
	ConstraintTypes  map[string]any        `json:"constraintTypes"`
	Nodes            map[string]NodeRecord `json:"nodes"`
	Connections      map[string]Connection `json:"connections"`
	Constraints      map[string]any        `json:"constraints"`
}

// NewDocument returns an empty IR document.
func NewDocument(name string) *Document {
	return &Document{
		Name:             name,
		UserDefinedTypes: make(map[string]any),
		PortTypes:        make(map[string]SignalType),
		NodeTypes:        make(map[string]SignalType),
		ConstraintTypes:  make(map[string]any),
		Nodes:            make(map[string]NodeRecord),
		Connections:      make(map[string]Connection),
		Constraints:      make(map[string]any),
	}
}

// Encode writes the document as compact JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("ir: encode: %w", err)
	}
	return nil
}
