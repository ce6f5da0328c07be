// Package smt provides the symbolic expression layer between the circuit
// model and the external nonlinear real-arithmetic decision procedure.
// Expressions form a small s-expression AST that serializes to SMT-LIB2
// (QF_NRA) for dReal-compatible solvers.
package smt

import (
	"strconv"
	"strings"
)

// Expr is a real-valued symbolic term.
type Expr interface {
	emit(sb *strings.Builder)
	vars(seen map[string]bool, order *[]Variable)
}

// Pred is a boolean constraint over real terms. A Formula is an ordered
// conjunction of Preds.
type Pred struct {
	op   string
	args []Expr
}

type lit float64

type varTerm struct {
	v Variable
}

type nary struct {
	op   string
	args []Expr
}

// Lit wraps a numeric literal.
func Lit(v float64) Expr { return lit(v) }

// Var wraps a Variable as a term.
func Var(v Variable) Expr { return varTerm{v: v} }

// Add returns the sum of its arguments.
func Add(args ...Expr) Expr { return nary{op: "+", args: args} }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return nary{op: "-", args: []Expr{a, b}} }

// Mul returns the product of its arguments.
func Mul(args ...Expr) Expr { return nary{op: "*", args: args} }

// Div returns a / b. The caller is responsible for constraining b away
// from zero.
func Div(a, b Expr) Expr { return nary{op: "/", args: []Expr{a, b}} }

// Neg returns -a.
func Neg(a Expr) Expr { return nary{op: "-", args: []Expr{a}} }

// Pow returns a raised to the integer power n, n >= 1, by repeated
// multiplication. dReal supports ^ but expanded products keep the
// emitted formula within plain QF_NRA.
func Pow(a Expr, n int) Expr {
	if n <= 1 {
		return a
	}
	args := make([]Expr, n)
	for i := range args {
		args[i] = a
	}
	return nary{op: "*", args: args}
}

// Eq asserts a = b.
func Eq(a, b Expr) Pred { return Pred{op: "=", args: []Expr{a, b}} }

// Le asserts a <= b.
func Le(a, b Expr) Pred { return Pred{op: "<=", args: []Expr{a, b}} }

// Ge asserts a >= b.
func Ge(a, b Expr) Pred { return Pred{op: ">=", args: []Expr{a, b}} }

// Lt asserts a < b.
func Lt(a, b Expr) Pred { return Pred{op: "<", args: []Expr{a, b}} }

// Gt asserts a > b.
func Gt(a, b Expr) Pred { return Pred{op: ">", args: []Expr{a, b}} }

func (l lit) emit(sb *strings.Builder) {
	f := float64(l)
	if f < 0 {
		sb.WriteString("(- ")
		sb.WriteString(formatLit(-f))
		sb.WriteByte(')')
		return
	}
	sb.WriteString(formatLit(f))
}

func (l lit) vars(map[string]bool, *[]Variable) {}

// formatLit renders a non-negative literal as an SMT-LIB decimal.
// Exponent notation is not part of the SMT-LIB grammar, so the value is
// always expanded, and integral values get a trailing ".0" to force the
// Real sort.
func formatLit(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func (t varTerm) emit(sb *strings.Builder) {
	sb.WriteString(t.v.Name())
}

func (t varTerm) vars(seen map[string]bool, order *[]Variable) {
	name := t.v.Name()
	if seen[name] {
		return
	}
	seen[name] = true
	*order = append(*order, t.v)
}

func (n nary) emit(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(n.op)
	for _, a := range n.args {
		sb.WriteByte(' ')
		a.emit(sb)
	}
	sb.WriteByte(')')
}

func (n nary) vars(seen map[string]bool, order *[]Variable) {
	for _, a := range n.args {
		a.vars(seen, order)
	}
}

// String renders the predicate as a single s-expression.
func (p Pred) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(p.op)
	for _, a := range p.args {
		sb.WriteByte(' ')
		a.emit(&sb)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (p Pred) vars(seen map[string]bool, order *[]Variable) {
	for _, a := range p.args {
		a.vars(seen, order)
	}
}
