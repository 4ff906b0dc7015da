package model

import "strings"

// NoMistake is the sentinel diagnostic for a row that tripped no rule.
const NoMistake = "[]"

// diagnostic messages are joined with this separator when serialized.
const messageSeparator = " ; "

// Diagnostic is the ordered list of triggered-rule messages for one
// (row, target) pair.
type Diagnostic []string

// String serializes the diagnostic: NoMistake when empty, otherwise the
// messages joined in evaluation order.
func (d Diagnostic) String() string {
	if len(d) == 0 {
		return NoMistake
	}
	return strings.Join(d, messageSeparator)
}

// Triggered reports whether a serialized diagnostic denotes at least one
// triggered rule.
func Triggered(s string) bool {
	return s != NoMistake
}
