package args

import (
	"errors"
	"fmt"
)

// ErrValidation matches every error returned by Schema.Resolve.
var ErrValidation = errors.New("invalid connection argument")

// Kind classifies a validation failure.
type Kind int

const (
	MissingRequired Kind = iota + 1
	UnknownOption
	DuplicateOption
	TooManyPositional
	InvalidChoice
	MissingDependency
	MutuallyExclusive
	InvalidType
	InvalidValue
)

var kindNames = map[Kind]string{
	MissingRequired:   "missing required argument",
	UnknownOption:     "unknown argument",
	DuplicateOption:   "duplicate argument",
	TooManyPositional: "too many positional arguments",
	InvalidChoice:     "invalid choice",
	MissingDependency: "missing dependency",
	MutuallyExclusive: "mutually exclusive",
	InvalidType:       "invalid type",
	InvalidValue:      "invalid value",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ValidationError reports why an argument set could not be resolved.
type ValidationError struct {
	Kind   Kind
	Option string
	// Other is the second option of a dependency or exclusion pair.
	Other string
	Err   error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingRequired:
		return fmt.Sprintf("%s: argument %q must be set", e.Kind, e.Option)
	case UnknownOption:
		return fmt.Sprintf("%s: %q is not a recognized argument", e.Kind, e.Option)
	case DuplicateOption:
		return fmt.Sprintf("%s: %q given both positionally and by name", e.Kind, e.Option)
	case MissingDependency:
		return fmt.Sprintf("%s: argument %q requires %q to be set", e.Kind, e.Option, e.Other)
	case MutuallyExclusive:
		return fmt.Sprintf("%s: arguments %q and %q cannot be used together", e.Kind, e.Option, e.Other)
	}
	if e.Option == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: argument %q: %v", e.Kind, e.Option, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a validation error for a value rejected outside the resolver,
// e.g. while configuring the environment from resolved arguments.
func Invalid(option string, err error) error {
	return &ValidationError{Kind: InvalidValue, Option: option, Err: err}
}
