// Package sizeunit parses and formats database size literals.
//
// A size literal is an integer magnitude followed by a binary unit suffix
// (MB, GB or TB), e.g. "200MB" or "2TB". All downstream planning arithmetic
// works in whole megabytes, so Parse normalizes every literal to megabytes
// using binary multiples (1GB = 1024MB, 1TB = 1024GB).
package sizeunit

import (
	"fmt"
	"regexp"
	"strconv"
)

// Megabytes per unit suffix.
const (
	MB int64 = 1
	GB int64 = 1024 * MB
	TB int64 = 1024 * GB
)

// sizeLiteral matches "<digits><unit>". Units are case-sensitive on purpose:
// the accepted grammar is exactly what the provisioning configuration uses,
// and there is no silent coercion of near-misses like "200mb" or "10.5GB".
var sizeLiteral = regexp.MustCompile(`^([0-9]+)(MB|GB|TB)$`)

// ParseError reports a size literal that does not match the
// <digits><unit> grammar or uses an unsupported unit.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid size literal %q: expected <digits> followed by MB, GB or TB", e.Input)
}

// IsParseError returns true if err is a size literal parse error.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// Parse converts a size literal into whole megabytes.
func Parse(s string) (int64, error) {
	m := sizeLiteral.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Input: s}
	}

	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Magnitude overflows int64. Same taxonomy as a grammar miss.
		return 0, &ParseError{Input: s}
	}

	switch m[2] {
	case "MB":
		return value * MB, nil
	case "GB":
		return value * GB, nil
	default:
		return value * TB, nil
	}
}

// Format renders a megabyte count as a size literal such that
// Parse(Format(n)) == n for any non-negative n.
func Format(mb int64) string {
	return fmt.Sprintf("%dMB", mb)
}

// FormatHuman renders a megabyte count using the largest unit that divides
// it evenly. Used for log and CLI output only; Format is the round-trip form.
func FormatHuman(mb int64) string {
	switch {
	case mb >= TB && mb%TB == 0:
		return fmt.Sprintf("%dTB", mb/TB)
	case mb >= GB && mb%GB == 0:
		return fmt.Sprintf("%dGB", mb/GB)
	default:
		return fmt.Sprintf("%dMB", mb)
	}
}
