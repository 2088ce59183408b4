// Copyright 2025, Framewell, Inc.

package author

import (
	"fmt"
)

var _ error = RequiredValueError{}

// RequiredValueError is returned when a required attribute has no value at
// render time. Validation of required values is deferred to Render so that
// a graph can be built incrementally across many calls before it is complete.
type RequiredValueError struct {
	Attr string
}

func (e RequiredValueError) Error() string {
	return fmt.Sprintf("a value is required for %s", e.Attr)
}

// --------------------------------------------------------------------------

var _ error = TypeValidationError{}

// TypeValidationError is returned when a value does not satisfy an
// attribute's type predicate. It is returned at the point of the offending
// set call, never deferred.
type TypeValidationError struct {
	Attr  string
	Value interface{}
}

func (e TypeValidationError) Error() string {
	return fmt.Sprintf("%v is not a valid value for %s", e.Value, e.Attr)
}

// --------------------------------------------------------------------------

var _ error = ParentExistsError{}

// ParentExistsError is returned when attaching a node that already has a
// parent and cannot be instanced (Iterate and Instance nodes).
type ParentExistsError struct {
	Node   string
	Parent string
}

func (e ParentExistsError) Error() string {
	return fmt.Sprintf("%s is already a child of %s", e.Node, e.Parent)
}

// --------------------------------------------------------------------------

var _ error = AttributeAccessError{}

// AttributeAccessError is returned by the by-name attribute accessors when
// the named attribute is not declared on the node kind. This catches
// spelling mistakes in data-driven job definitions; code that uses the
// typed fields gets the same check at compile time.
type AttributeAccessError struct {
	Attr string
	Kind string
}

func (e AttributeAccessError) Error() string {
	return fmt.Sprintf("%s is not a valid attribute of a %s", e.Attr, e.Kind)
}

// --------------------------------------------------------------------------

var _ error = SpoolError{}

// SpoolError wraps any failure surfaced by the engine transport during job
// submission: connection failure, engine-side rejection, timeout. Graph
// validation errors are never wrapped in a SpoolError, so callers can
// distinguish "my graph was invalid" from "the engine could not be reached".
type SpoolError struct {
	Err error
}

func (e SpoolError) Error() string {
	return fmt.Sprintf("spool error: %s", e.Err)
}

func (e SpoolError) Unwrap() error {
	return e.Err
}
