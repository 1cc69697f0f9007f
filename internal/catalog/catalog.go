package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrOutOfRange is returned when a position does not address a record in the
// current list.
var ErrOutOfRange = errors.New("position out of range")

func outOfRange(position, length int) error {
	return fmt.Errorf("%w: position %d, catalog has %d records", ErrOutOfRange, position, length)
}

// fold maps s to its case-folded form. A Caser keeps state, so a new one is
// built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func equalFold(a, b string) bool {
	return fold(a) == fold(b)
}

func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}
