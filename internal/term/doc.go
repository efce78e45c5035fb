// Package term answers terminal capability questions for CLI output.
package term
