package cooccur

import (
	"fmt"

	"github.com/matsen/citenet/internal/reference"
)

// Mode selects what a pair counts.
type Mode string

const (
	// ModeCoCitation pairs references cited together by one record.
	ModeCoCitation Mode = "cocitation"
	// ModeCoupling pairs records that share references.
	ModeCoupling Mode = "coupling"
)

// Modes lists the valid modes.
var Modes = []Mode{ModeCoCitation, ModeCoupling}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %v", s, Modes)
}

// Count runs the counter for the mode.
func (m Mode) Count(records []reference.Record) Counts {
	if m == ModeCoupling {
		return Coupling(records)
	}
	return CoCitation(records)
}
