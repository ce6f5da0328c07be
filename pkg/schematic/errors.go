package schematic

import (
	"errors"
	"fmt"
)

// Sentinel errors for schematic mutation operations. Every failure leaves
// the graph exactly as it was.
var (
	ErrDuplicateName    = errors.New("schematic: entity name already in use")
	ErrDuplicateChannel = errors.New("schematic: channel already exists for ordered pair")
	ErrUnsupportedKind  = errors.New("schematic: unsupported kind")
	ErrUnknownNode      = errors.New("schematic: unknown endpoint node")
	ErrBadBounds        = errors.New("schematic: degenerate chip bounds")
)

// OpError wraps a mutation failure with the operation and entity it hit.
type OpError struct {
	Op     string // operation that failed, e.g. "AddPort"
	Entity string // entity class, e.g. "port", "channel"
	Name   string // entity name or "<from>-><to>" for channels
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Name, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op, entity, name string, err error) error {
	return &OpError{Op: op, Entity: entity, Name: name, Err: err}
}
