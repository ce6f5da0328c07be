package smt

import (
	"strings"
)

// Formula is an ordered conjunction of predicates. Order does not affect
// satisfiability, only the determinism of the serialized solver input.
type Formula struct {
	preds []Pred
}

// NewFormula returns an empty formula.
func NewFormula() *Formula {
	return &Formula{preds: make([]Pred, 0, 64)}
}

// Assert appends predicates to the conjunction.
func (f *Formula) Assert(preds ...Pred) {
	f.preds = append(f.preds, preds...)
}

// Len returns the number of asserted predicates.
func (f *Formula) Len() int {
	return len(f.preds)
}

// Preds returns the asserted predicates in assertion order.
func (f *Formula) Preds() []Pred {
	return f.preds
}

// Vars returns every variable referenced by the formula, in first-use order.
func (f *Formula) Vars() []Variable {
	seen := make(map[string]bool)
	order := make([]Variable, 0, 32)
	for _, p := range f.preds {
		p.vars(seen, &order)
	}
	return order
}

// SMTLib serializes the formula as a complete SMT-LIB2 script for a
// QF_NRA solver: declarations in first-use order, one assert per
// predicate, then check-sat.
func (f *Formula) SMTLib() string {
	var sb strings.Builder
	sb.WriteString("(set-logic QF_NRA)\n")
	for _, v := range f.Vars() {
		sb.WriteString("(declare-fun ")
		sb.WriteString(v.Name())
		sb.WriteString(" () Real)\n")
	}
	for _, p := range f.preds {
		sb.WriteString("(assert ")
		sb.WriteString(p.String())
		sb.WriteString(")\n")
	}
	sb.WriteString("(check-sat)\n(exit)\n")
	return sb.String()
}

// String renders the conjunction on one line, mirroring what the solver
// receives. Used by the diagnostic dump path.
func (f *Formula) String() string {
	parts := make([]string, len(f.preds))
	for i, p := range f.preds {
		parts[i] = p.String()
	}
	return "(and " + strings.Join(parts, " ") + ")"
}
