package validation

import (
	"errors"
	"math"
	"testing"
)

type boundedSpec struct {
	Name string   `validate:"required,entityname"`
	Min  *float64 `validate:"omitempty,gte=0"`
}

func (s boundedSpec) FiniteFields() map[string]*float64 {
	return map[string]*float64{"Min": s.Min}
}

func f(v float64) *float64 { return &v }

func TestStructAcceptsValidSpec(t *testing.T) {
	if err := Struct(boundedSpec{Name: "P1", Min: f(0.5)}); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}

func TestStructAcceptsGenuineZeroBound(t *testing.T) {
	// A supplied zero is a real bound, not "absent".
	if err := Struct(boundedSpec{Name: "P1", Min: f(0)}); err != nil {
		t.Fatalf("zero bound rejected: %v", err)
	}
}

func TestStructAcceptsAbsentBound(t *testing.T) {
	if err := Struct(boundedSpec{Name: "P1"}); err != nil {
		t.Fatalf("absent bound rejected: %v", err)
	}
}

func TestStructRejectsNegativeBound(t *testing.T) {
	err := Struct(boundedSpec{Name: "P1", Min: f(-1)})
	if !errors.Is(err, ErrParameterRange) {
		t.Fatalf("negative bound error = %v, want ErrParameterRange", err)
	}
}

func TestStructRejectsNaNAsTypeError(t *testing.T) {
	err := Struct(boundedSpec{Name: "P1", Min: f(math.NaN())})
	if !errors.Is(err, ErrParameterType) {
		t.Fatalf("NaN bound error = %v, want ErrParameterType", err)
	}
}

func TestStructRejectsInfinity(t *testing.T) {
	err := Struct(boundedSpec{Name: "P1", Min: f(math.Inf(1))})
	if !errors.Is(err, ErrParameterType) {
		t.Fatalf("Inf bound error = %v, want ErrParameterType", err)
	}
}

func TestStructRejectsMissingName(t *testing.T) {
	err := Struct(boundedSpec{})
	if !errors.Is(err, ErrParameterType) {
		t.Fatalf("missing name error = %v, want ErrParameterType", err)
	}
}

func TestNamePattern(t *testing.T) {
	valid := []string{"P1", "in", "t-junc-3", "Node42"}
	for _, name := range valid {
		if !ValidName(name) {
			t.Errorf("ValidName(%q) = false, want true", name)
		}
	}

	// Underscore is the variable-name separator and must never appear
	// inside an entity name; names also cannot be empty or start with a
	// digit or punctuation.
	invalid := []string{"", "P_1", "_x", "1st", "-dash", "a b", "p.q"}
	for _, name := range invalid {
		if ValidName(name) {
			t.Errorf("ValidName(%q) = true, want false", name)
		}
	}
}

func TestStructRejectsBadEntityName(t *testing.T) {
	err := Struct(boundedSpec{Name: "P_1"})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("underscore name error = %v, want ErrInvalidName", err)
	}
}
