package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// ParseError reports configuration text the HCL parser or decoder rejected.
// It carries the full diagnostic set so the CLI can print every problem in
// one pass instead of stopping at the first.
type ParseError struct {
	Path  string
	Diags hcl.Diagnostics
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Diags.Error())
}

// Unwrap exposes the underlying diagnostics.
func (e *ParseError) Unwrap() error { return e.Diags }

// MissingError reports a required key the configuration never set.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config: required key %q is not set", e.Key)
}

// ValueError reports a key whose value parsed fine but lies outside the
// accepted domain.
type ValueError struct {
	Key    string
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Key, e.Value, e.Reason)
}
