package solver

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/manifold-lang/gomanifold/pkg/smt"
)

// DefaultBinary is the dReal executable looked up on PATH when no
// explicit path is configured.
const DefaultBinary = "dreal"

// DReal invokes the dReal delta-complete decision procedure as an
// external process. Each Solve writes the formula to a fresh SMT-LIB2
// temp file, runs the binary once and parses its model output.
type DReal struct {
	// Path is the dReal binary; empty means DefaultBinary on PATH.
	Path string

	// Dump, when set, receives the fully assembled SMT-LIB2 script
	// before each call. Diagnostic only; does not alter behavior.
	Dump io.Writer

	// KeepFiles leaves the generated .smt2 files behind for inspection.
	KeepFiles bool
}

// Available reports whether the configured dReal binary can be found.
func (d *DReal) Available() bool {
	_, err := exec.LookPath(d.binary())
	return err == nil
}

func (d *DReal) binary() string {
	if d.Path != "" {
		return d.Path
	}
	return DefaultBinary
}

// Solve runs dReal on the formula with the given precision.
func (d *DReal) Solve(ctx context.Context, f *smt.Formula, precision float64) (*Model, error) {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	script := f.SMTLib()
	if d.Dump != nil {
		fmt.Fprintln(d.Dump, script)
	}

	path := filepath.Join(os.TempDir(), "manifold-"+uuid.NewString()+".smt2")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		return nil, fmt.Errorf("solver: write formula: %w", err)
	}
	if !d.KeepFiles {
		defer os.Remove(path)
	}

	cmd := exec.CommandContext(ctx, d.binary(),
		"--model",
		"--precision", strconv.FormatFloat(precision, 'f', -1, 64),
		path,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("solver: dreal: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return ParseDRealOutput(string(out), precision)
}

// ParseDRealOutput turns dReal's stdout into a Model or the
// unsatisfiable outcome. Expected shapes:
//
//	unsat
//
//	delta-sat with delta = 0.001
//	P1_pressure : [ 100, 100.125 ]
func ParseDRealOutput(out string, precision float64) (*Model, error) {
	model := &Model{Delta: precision, Intervals: make(map[string]Interval)}
	sat := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "unsat" || strings.HasPrefix(line, "unsat"):
			return nil, ErrUnsatisfiable
		case strings.HasPrefix(line, "delta-sat") || line == "sat":
			sat = true
			if idx := strings.LastIndexByte(line, '='); idx >= 0 {
				if delta, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64); err == nil {
					model.Delta = delta
				}
			}
		case strings.Contains(line, " : "):
			name, iv, err := parseIntervalLine(line)
			if err != nil {
				return nil, err
			}
			model.Intervals[name] = iv
		}
	}
	if !sat {
		return nil, fmt.Errorf("solver: unrecognized dreal output: %q", strings.TrimSpace(out))
	}
	return model, nil
}

func parseIntervalLine(line string) (string, Interval, error) {
	parts := strings.SplitN(line, " : ", 2)
	name := strings.TrimSpace(parts[0])
	rng := strings.TrimSpace(parts[1])
	rng = strings.TrimPrefix(rng, "[")
	rng = strings.TrimSuffix(rng, "]")
	if strings.EqualFold(strings.TrimSpace(rng), "ENTIRE") {
		return name, Interval{Lo: -math.MaxFloat64, Hi: math.MaxFloat64}, nil
	}
	bounds := strings.Split(rng, ",")
	vals := make([]float64, 0, 2)
	for _, b := range bounds {
		v, err := parseBound(strings.TrimSpace(b))
		if err != nil {
			return "", Interval{}, fmt.Errorf("solver: bad interval line %q: %w", line, err)
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		return name, Interval{Lo: vals[0], Hi: vals[0]}, nil
	case 2:
		return name, Interval{Lo: vals[0], Hi: vals[1]}, nil
	default:
		return "", Interval{}, fmt.Errorf("solver: bad interval line %q", line)
	}
}

func parseBound(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "inf", "+inf":
		return math.MaxFloat64, nil
	case "-inf":
		return -math.MaxFloat64, nil
	}
	return strconv.ParseFloat(s, 64)
}
