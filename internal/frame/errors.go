package frame

import (
	"errors"
	"fmt"
	"strings"
)

// missingColumnsError names every required column absent from a table.
type missingColumnsError struct{ cols []string }

func (e missingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.cols, ", "))
}

// IsMissingColumns reports whether err is a projection onto absent columns.
func IsMissingColumns(err error) bool {
	var e missingColumnsError
	return errors.As(err, &e)
}

// MissingColumns returns the absent column names carried by err, if any.
func MissingColumns(err error) []string {
	var e missingColumnsError
	if errors.As(err, &e) {
		return append([]string(nil), e.cols...)
	}
	return nil
}

// malformedError signals unparseable tabular input: bad CSV structure or a
// cell that is not a number where one is required.
type malformedError struct{ msg string }

func (e malformedError) Error() string { return e.msg }

func malformed(format string, a ...any) error {
	return malformedError{msg: fmt.Sprintf(format, a...)}
}

// IsMalformed reports whether err describes invalid tabular input.
func IsMalformed(err error) bool {
	var e malformedError
	return errors.As(err, &e)
}
