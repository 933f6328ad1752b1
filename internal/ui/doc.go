// Package ui provides semantic text formatting for CLI output.
//
// Formatters degrade gracefully when color is unavailable: instead of raw
// text, they substitute plain-text decoration (backticks for commands,
// quotes for highlighted values) so output stays readable in logs and
// when piped.
package ui
