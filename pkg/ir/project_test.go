package ir

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/manifold-lang/gomanifold/pkg/schematic"
	"github.com/manifold-lang/gomanifold/pkg/solver"
	"github.com/manifold-lang/gomanifold/pkg/translate"
)

// solvedCircuit builds the reference circuit and a synthetic model
// covering every variable the translation references.
func solvedCircuit(t *testing.T) (*schematic.Schematic, *solver.Model) {
	t.Helper()
	s, err := schematic.New(schematic.Bounds{XMax: 1, YMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddPort(schematic.PortSpec{
		Name: "P1", Kind: "input",
		MinPressure: schematic.Float(100),
		Voltage:     schematic.Float(-1.5),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(schematic.NodeSpec{Name: "J"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddPort(schematic.PortSpec{Name: "P2", Kind: "output"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddChannel(schematic.ChannelSpec{From: "P1", To: "J", MinLength: schematic.Float(0.01)}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddChannel(schematic.ChannelSpec{From: "J", To: "P2"}); err != nil {
		t.Fatal(err)
	}

	f, err := translate.Schematic(s)
	if err != nil {
		t.Fatal(err)
	}
	m := &solver.Model{Delta: 0.1, Intervals: make(map[string]solver.Interval)}
	for i, v := range f.Vars() {
		lo := float64(i)
		m.Intervals[v.Name()] = solver.Interval{Lo: lo, Hi: lo + 0.5}
	}
	return s, m
}

func TestProjectShape(t *testing.T) {
	s, m := solvedCircuit(t)
	doc, err := (&Projector{}).Project(s, m)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if doc.Name != DefaultName {
		t.Errorf("doc name = %q, want %q", doc.Name, DefaultName)
	}
	if len(doc.Nodes) != s.NumNodes() {
		t.Errorf("nodes = %d entries, want %d", len(doc.Nodes), s.NumNodes())
	}
	if len(doc.Connections) != s.NumChannels() {
		t.Errorf("connections = %d entries, want %d", len(doc.Connections), s.NumChannels())
	}

	// Sequential ids in insertion order.
	p1, ok := doc.Nodes["pT0"]
	if !ok || p1.PortAttrs != "P1" {
		t.Fatalf("pT0 = %+v, want P1", p1)
	}
	if doc.Nodes["pT1"].PortAttrs != "J" || doc.Nodes["pT2"].PortAttrs != "P2" {
		t.Error("node ids not in insertion order")
	}
	ch0, ok := doc.Connections["ch0"]
	if !ok || ch0.From != "P1" || ch0.To != "J" {
		t.Fatalf("ch0 = %+v, want P1->J", ch0)
	}

	// Ports go to portTypes, junctions to nodeTypes.
	if _, ok := doc.PortTypes["pT0"]; !ok {
		t.Error("input port missing from portTypes")
	}
	if _, ok := doc.NodeTypes["pT0"]; ok {
		t.Error("input port wrongly registered under nodeTypes")
	}
	if _, ok := doc.NodeTypes["pT1"]; !ok {
		t.Error("junction missing from nodeTypes")
	}
	if doc.PortTypes["pT0"].SignalType != "input" {
		t.Errorf("signalType = %q, want input", doc.PortTypes["pT0"].SignalType)
	}
}

func TestProjectAttributes(t *testing.T) {
	s, m := solvedCircuit(t)
	doc, err := (&Projector{}).Project(s, m)
	if err != nil {
		t.Fatal(err)
	}

	p1 := doc.Nodes["pT0"].Attributes

	// Statics preserved verbatim.
	if v := p1["min_pressure"]; v.IsInterval() || v.StaticValue() != 100.0 {
		t.Errorf("min_pressure = %+v, want static 100", v)
	}
	if v := p1["voltage"]; v.IsInterval() || v.StaticValue() != -1.5 {
		t.Errorf("voltage = %+v, want static -1.5", v)
	}
	if v := p1["fluid"]; v.StaticValue() != "default" {
		t.Errorf("fluid = %+v, want default", v)
	}
	// Unset bounds are omitted entirely, not emitted as falsy values.
	if _, ok := p1["min_flow_rate"]; ok {
		t.Error("unset min_flow_rate must be omitted")
	}

	// Solved attributes are intervals with lo <= hi.
	for _, attr := range []string{"pressure", "flow_rate", "viscosity", "density", "x", "y"} {
		v, ok := p1[attr]
		if !ok {
			t.Fatalf("solved attribute %s missing", attr)
		}
		if !v.IsInterval() {
			t.Fatalf("attribute %s is not an interval", attr)
		}
		iv := v.Interval()
		if iv.Lo > iv.Hi {
			t.Errorf("attribute %s interval inverted: [%v, %v]", attr, iv.Lo, iv.Hi)
		}
	}

	// Junction coefficients surface as statics.
	j := doc.Nodes["pT1"].Attributes
	if j["c"].StaticValue() != schematic.DefaultC {
		t.Errorf("junction c = %+v, want default", j["c"])
	}

	ch := doc.Connections["ch0"].Attributes
	if ch["min_length"].StaticValue() != 0.01 {
		t.Errorf("min_length = %+v, want 0.01", ch["min_length"])
	}
	if ch["kind"].StaticValue() != "channel" {
		t.Errorf("channel kind = %+v, want channel", ch["kind"])
	}
	for _, attr := range []string{"length", "width", "height", "flow_rate", "resistance"} {
		if v, ok := ch[attr]; !ok || !v.IsInterval() {
			t.Errorf("channel solved attribute %s missing or not an interval", attr)
		}
	}
}

func TestProjectNilModel(t *testing.T) {
	s, _ := solvedCircuit(t)
	if _, err := (&Projector{}).Project(s, nil); err == nil {
		t.Fatal("nil model must fail")
	}
}

func TestDocumentEncodeJSON(t *testing.T) {
	s, m := solvedCircuit(t)
	doc, err := (&Projector{Name: "demo"}).Project(s, m)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{
		"name", "userDefinedTypes", "portTypes", "nodeTypes",
		"constraintTypes", "nodes", "connections", "constraints",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("top-level key %q missing", key)
		}
	}
	// Empty sections serialize as {}, never null.
	if string(decoded["userDefinedTypes"]) != "{}" {
		t.Errorf("userDefinedTypes = %s, want {}", decoded["userDefinedTypes"])
	}

	// Solved attributes serialize as [lower, upper] pairs.
	var nodes map[string]struct {
		Attributes map[string]json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(decoded["nodes"], &nodes); err != nil {
		t.Fatal(err)
	}
	raw := nodes["pT0"].Attributes["pressure"]
	var pair [2]float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		t.Fatalf("pressure attribute %s is not a [lo, hi] pair: %v", raw, err)
	}
	if pair[0] > pair[1] {
		t.Errorf("pressure pair inverted: %v", pair)
	}
}

func TestProjectDeterministic(t *testing.T) {
	s, m := solvedCircuit(t)
	encode := func() string {
		doc, err := (&Projector{}).Project(s, m)
		if err != nil {
			t.Fatal(err)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if encode() != encode() {
		t.Error("projection of the same model is not deterministic")
	}
}
