package domain

import (
	"fmt"
	"regexp"
)

const maxJobIDLen = 64

var jobIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateJobID accepts an empty id (callers default it) or a single path
// segment of letters, digits, underscores and dashes.
func ValidateJobID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) > maxJobIDLen || !jobIDRe.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidJobID, id)
	}
	return nil
}
