package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchemaInference = errors.New("schema inference failed")
	ErrNameGeneration  = errors.New("name generation failed")
	ErrInvariant       = errors.New("invariant violation")
)

// SchemaInferenceError reports a column holding more than one non-empty kind.
type SchemaInferenceError struct {
	Sheet  string
	Column string
	Kinds  []Kind
}

func (e *SchemaInferenceError) Error() string {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = k.String()
	}
	return fmt.Sprintf("sheet %q: column %q has cells of more than one type (%s)",
		e.Sheet, e.Column, strings.Join(kinds, ", "))
}

func (e *SchemaInferenceError) Is(target error) bool { return target == ErrSchemaInference }

// NameGenerationError reports names that could not be made unique.
type NameGenerationError struct {
	Names []string
}

func (e *NameGenerationError) Error() string {
	return fmt.Sprintf("cannot generate unique database names for %q", e.Names)
}

func (e *NameGenerationError) Is(target error) bool { return target == ErrNameGeneration }

// InvariantViolation reports an internal consistency failure. It means the
// importer has a bug, not that the input is bad.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }

func invariantf(format string, args ...any) error {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}
