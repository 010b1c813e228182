// Package example holds annotated functions with their checked in generated files.
//
// Regenerate with:
//
//	go generate -tags indirect ./example
package example
