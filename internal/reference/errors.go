package reference

import (
	"errors"
	"fmt"
)

// ErrMalformedInput indicates a dataset that cannot enter the pipeline.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError describes a structural problem with an input dataset,
// such as a missing required column or a column with no values at all.
type MalformedInputError struct {
	Column string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed input: column %q %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

// Is makes errors.Is(err, ErrMalformedInput) match.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// IsMalformedInput returns true if the error indicates malformed input.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// Validate checks that a loaded record set can be analyzed: it must be
// non-empty and neither the titles nor the reference lists may be entirely
// empty. Individual blank cells are allowed.
func Validate(records []Record) error {
	if len(records) == 0 {
		return &MalformedInputError{Reason: "dataset has no records"}
	}

	withTitle, withRefs := 0, 0
	for _, r := range records {
		if r.Title != "" {
			withTitle++
		}
		if r.HasReferences() {
			withRefs++
		}
	}
	if withTitle == 0 {
		return &MalformedInputError{Column: "Title", Reason: "is entirely empty"}
	}
	if withRefs == 0 {
		return &MalformedInputError{Column: "References", Reason: "is entirely empty"}
	}
	return nil
}
