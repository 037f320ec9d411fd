// Package display renders command results for people and for machines.
//
// Every result has two renderings: a styled one for terminals (pterm tables,
// lipgloss status lines, glamour markdown) and a plain one used when output
// is piped or NO_COLOR is set. FormatJSON bypasses both and emits the result
// value as indented JSON.
package display
