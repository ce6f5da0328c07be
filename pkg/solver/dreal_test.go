package solver

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/manifold-lang/gomanifold/pkg/smt"
)

func TestParseDRealOutputSat(t *testing.T) {
	out := `delta-sat with delta = 0.001
P1_pressure : [ 100, 100.125 ]
P1_P2_flow_rate : [ 0, 0.5 ]
`
	m, err := ParseDRealOutput(out, 10)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.Delta != 0.001 {
		t.Errorf("delta = %v, want 0.001 (reported value wins)", m.Delta)
	}
	iv, ok := m.Intervals["P1_pressure"]
	if !ok {
		t.Fatal("P1_pressure missing from model")
	}
	if iv.Lo != 100 || iv.Hi != 100.125 {
		t.Errorf("P1_pressure = [%v, %v], want [100, 100.125]", iv.Lo, iv.Hi)
	}
	if len(m.Intervals) != 2 {
		t.Errorf("model has %d intervals, want 2", len(m.Intervals))
	}
}

func TestParseDRealOutputUnsat(t *testing.T) {
	_, err := ParseDRealOutput("unsat\n", 10)
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("unsat parse error = %v, want ErrUnsatisfiable", err)
	}
}

func TestParseDRealOutputPointValue(t *testing.T) {
	out := "delta-sat with delta = 0.1\nx_y_width : [ 0.0001 ]\n"
	m, err := ParseDRealOutput(out, 10)
	if err != nil {
		t.Fatal(err)
	}
	iv := m.Intervals["x_y_width"]
	if iv.Lo != iv.Hi || iv.Lo != 0.0001 {
		t.Errorf("point interval = [%v, %v], want [0.0001, 0.0001]", iv.Lo, iv.Hi)
	}
}

func TestParseDRealOutputInfinities(t *testing.T) {
	out := "delta-sat with delta = 0.1\nP_pressure : [ 0, inf ]\nP_x : [ ENTIRE ]\n"
	m, err := ParseDRealOutput(out, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Intervals["P_pressure"].Unbounded() {
		t.Error("interval containing inf must report Unbounded")
	}
	entire := m.Intervals["P_x"]
	if !entire.Unbounded() || entire.Lo != -math.MaxFloat64 {
		t.Errorf("ENTIRE interval = %+v", entire)
	}
}

func TestParseDRealOutputGarbage(t *testing.T) {
	if _, err := ParseDRealOutput("segmentation fault\n", 10); err == nil {
		t.Fatal("garbage output must not parse as a model")
	}
	if _, err := ParseDRealOutput("", 10); err == nil {
		t.Fatal("empty output must not parse as a model")
	}
}

func TestIntervalUnbounded(t *testing.T) {
	bounded := Interval{Lo: 0, Hi: 100}
	if bounded.Unbounded() {
		t.Error("finite interval reported unbounded")
	}
	if !(Interval{Lo: 0, Hi: math.MaxFloat64}).Unbounded() {
		t.Error("MaxFloat64 sentinel not detected")
	}
	if !(Interval{Lo: math.Inf(-1), Hi: 0}).Unbounded() {
		t.Error("-inf not detected")
	}
}

// TestDRealEndToEnd exercises the real binary when it is installed.
func TestDRealEndToEnd(t *testing.T) {
	d := &DReal{}
	if !d.Available() {
		t.Skip("dreal binary not on PATH")
	}

	x := smt.NodeVar("x", "pressure")
	f := smt.NewFormula()
	f.Assert(
		smt.Ge(smt.Var(x), smt.Lit(100)),
		smt.Le(smt.Var(x), smt.Lit(200)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := d.Solve(ctx, f, 0.1)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	iv, ok := m.Lookup(x)
	if !ok {
		t.Fatal("x_pressure missing from model")
	}
	if iv.Lo > iv.Hi {
		t.Errorf("inverted interval [%v, %v]", iv.Lo, iv.Hi)
	}
	if iv.Hi < 100-0.1 || iv.Lo > 200+0.1 {
		t.Errorf("interval [%v, %v] outside [100, 200]", iv.Lo, iv.Hi)
	}

	// Contradictory bounds must come back unsat.
	g := smt.NewFormula()
	g.Assert(
		smt.Ge(smt.Var(x), smt.Lit(200)),
		smt.Le(smt.Var(x), smt.Lit(100)),
	)
	if _, err := d.Solve(ctx, g, 0.1); !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("contradiction solve error = %v, want ErrUnsatisfiable", err)
	}
}
