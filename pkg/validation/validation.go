// Package validation checks user-supplied circuit parameters before any
// entity is created. Specs are plain structs with validate tags; values
// rejected here never reach the schematic, so creation operations stay
// all-or-nothing.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrParameterType indicates a value of the wrong primitive shape,
	// e.g. a NaN or infinity supplied where a finite number is required,
	// or a missing required string.
	ErrParameterType = errors.New("validation: invalid parameter type")

	// ErrParameterRange indicates a number violating its declared sign
	// constraint, e.g. a negative minimum channel length.
	ErrParameterRange = errors.New("validation: parameter out of range")

	// ErrInvalidName indicates an entity name that would break the
	// <entity>_<attribute> variable naming protocol. Names must start
	// with a letter and may contain only letters, digits and hyphens;
	// the underscore is reserved as the protocol separator.
	ErrInvalidName = errors.New("validation: invalid entity name")
)

// namePattern deliberately excludes '_': solved variable names embed the
// entity name, and the solver model is keyed by those rendered names.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must(v.RegisterValidation("entityname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates a spec struct against its tags and maps failures onto
// the package sentinels.
func Struct(spec any) error {
	if err := checkFinite(spec); err != nil {
		return err
	}
	err := validate.Struct(spec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrParameterType, err)
	}
	// Report the first violation; creation is all-or-nothing anyway.
	fe := verrs[0]
	switch fe.Tag() {
	case "entityname":
		return fmt.Errorf("%w: field %s value %q", ErrInvalidName, fe.Field(), fe.Value())
	case "gte", "gt", "lte", "lt", "min", "max":
		return fmt.Errorf("%w: field %s value %v must satisfy %s=%s",
			ErrParameterRange, fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%w: field %s failed %s", ErrParameterType, fe.Field(), fe.Tag())
	}
}

// checkFinite rejects NaN and infinities in optional numeric parameters.
// The tag-based gte checks would classify NaN as a range violation, but a
// NaN is not a number at all and is reported as a type error.
func checkFinite(spec any) error {
	for field, v := range finiteFields(spec) {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return fmt.Errorf("%w: field %s must be a finite number", ErrParameterType, field)
		}
	}
	return nil
}

// FiniteChecker lets a spec expose its optional numeric fields for the
// NaN/Inf pre-check without reflection.
type FiniteChecker interface {
	FiniteFields() map[string]*float64
}

func finiteFields(spec any) map[string]*float64 {
	if fc, ok := spec.(FiniteChecker); ok {
		return fc.FiniteFields()
	}
	return nil
}

// ValidName reports whether a bare string is usable as an entity name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
