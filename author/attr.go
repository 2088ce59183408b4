// Copyright 2025, Framewell, Inc.

// Package author builds render-farm jobs as typed dependency graphs and
// serializes them into the engine's job script format. Jobs are built with
// the Job, Task, Command, Instance, and Iterate types, rendered with
// Render(), and submitted with Spool().
package author

import (
	"fmt"
	"strings"
	"time"
)

const spacesPerIndent = 2

// renderContext tracks the nesting depth of one Render call. Every
// top-level Render gets a fresh context, so concurrent renders of
// independent graphs never share indent state.
type renderContext struct {
	depth int
}

func (c *renderContext) indent() string {
	return strings.Repeat(" ", c.depth*spacesPerIndent)
}

// Str2Argv tokenizes a command line into an argv list.
func Str2Argv(s string) []string {
	return strings.Fields(s)
}

// Valid values for Command.When, governing when the engine runs a
// postscript command. An unset When is a distinct wire encoding from an
// explicit WhenAlways, and both are preserved as-is.
const (
	WhenDone   = "done"
	WhenError  = "error"
	WhenAlways = "always"
)

// Attr is one named, typed field of a job element. Concrete attribute types
// validate values when set and know how to render themselves; rendering a
// required attribute with no value returns RequiredValueError.
type Attr interface {
	// Name returns the attribute's key in the wire format.
	Name() string

	// HasValue returns whether a value is present. List attributes have
	// a value only when non-empty.
	HasValue() bool

	// setAny sets the attribute from an untyped value, used by the
	// by-name accessors and the YAML loader.
	setAny(v interface{}) error

	// render returns the wire form of the attribute, or "" if unset and
	// not required.
	render(ctx *renderContext) (string, error)
}

// attrCore holds the properties common to all attribute types.
type attrCore struct {
	key      string
	required bool
	noKey    bool // suppress the "-key" prefix in the wire form
}

func (a attrCore) Name() string {
	return a.key
}

// wireKey returns " -key", or "" when the key is suppressed.
func (a attrCore) wireKey() string {
	if a.noKey {
		return ""
	}
	return " -" + a.key
}

func (a attrCore) requireCheck(has bool) error {
	if a.required && !has {
		return RequiredValueError{Attr: a.key}
	}
	return nil
}

// --------------------------------------------------------------------------

// ConstAttr is a fixed literal, used for the statement keyword of each
// element kind (Job, Task, RemoteCmd, ...). It renders bare, with no key.
type ConstAttr struct {
	attrCore
	v string
}

func (a *ConstAttr) HasValue() bool {
	return a.v != ""
}

func (a *ConstAttr) setAny(v interface{}) error {
	return TypeValidationError{Attr: a.key, Value: v}
}

func (a *ConstAttr) render(*renderContext) (string, error) {
	return a.v, nil
}

// --------------------------------------------------------------------------

// StrAttr is a string value. It renders as ` -key {value}`.
type StrAttr struct {
	attrCore
	v   string
	set bool
}

func (a *StrAttr) Set(v string) {
	a.v = v
	a.set = true
}

func (a *StrAttr) Value() string {
	return a.v
}

func (a *StrAttr) HasValue() bool {
	return a.set
}

func (a *StrAttr) setAny(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return TypeValidationError{Attr: a.key, Value: v}
	}
	a.Set(s)
	return nil
}

func (a *StrAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.set); err != nil {
		return "", err
	}
	if !a.set {
		return "", nil
	}
	return fmt.Sprintf("%s {%s}", a.wireKey(), a.v), nil
}

// --------------------------------------------------------------------------

// WhenAttr is a string restricted to done, error, or always. Used only for
// postscript commands.
type WhenAttr struct {
	StrAttr
}

// Set validates v against the when enum before storing it.
func (a *WhenAttr) Set(v string) error {
	switch v {
	case WhenDone, WhenError, WhenAlways:
		a.StrAttr.Set(v)
		return nil
	}
	return TypeValidationError{Attr: a.key, Value: v}
}

func (a *WhenAttr) setAny(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return a.Set(s)
}

// --------------------------------------------------------------------------

// IntAttr is an integer value. It renders as ` -key N`, unbraced.
type IntAttr struct {
	attrCore
	v   int
	set bool
}

func (a *IntAttr) Set(v int) {
	a.v = v
	a.set = true
}

func (a *IntAttr) Value() int {
	return a.v
}

func (a *IntAttr) HasValue() bool {
	return a.set
}

func (a *IntAttr) setAny(v interface{}) error {
	switch n := v.(type) {
	case int:
		a.Set(n)
	case int64:
		a.Set(int(n))
	default:
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return nil
}

func (a *IntAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.set); err != nil {
		return "", err
	}
	if !a.set {
		return "", nil
	}
	return fmt.Sprintf("%s %d", a.wireKey(), a.v), nil
}

// --------------------------------------------------------------------------

// FloatAttr is a float value rendered with a fixed decimal precision,
// e.g. priority 10 at precision 1 renders ` -priority {10.0}`.
type FloatAttr struct {
	attrCore
	precision int
	v         float64
	set       bool
}

func (a *FloatAttr) Set(v float64) {
	a.v = v
	a.set = true
}

func (a *FloatAttr) Value() float64 {
	return a.v
}

func (a *FloatAttr) HasValue() bool {
	return a.set
}

func (a *FloatAttr) setAny(v interface{}) error {
	switch n := v.(type) {
	case float64:
		a.Set(n)
	case int:
		a.Set(float64(n))
	case int64:
		a.Set(float64(n))
	default:
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return nil
}

func (a *FloatAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.set); err != nil {
		return "", err
	}
	if !a.set {
		return "", nil
	}
	return fmt.Sprintf("%s {%.*f}", a.wireKey(), a.precision, a.v), nil
}

// --------------------------------------------------------------------------

// DateAttr is a timestamp rendered as ` -key {MM DD HH:MM}`.
type DateAttr struct {
	attrCore
	v   time.Time
	set bool
}

// dateWireLayout is the engine's timestamp form: month day hour:minute.
const dateWireLayout = "01 02 15:04"

func (a *DateAttr) Set(v time.Time) {
	a.v = v
	a.set = true
}

func (a *DateAttr) Value() time.Time {
	return a.v
}

func (a *DateAttr) HasValue() bool {
	return a.set
}

func (a *DateAttr) setAny(v interface{}) error {
	switch t := v.(type) {
	case time.Time:
		a.Set(t)
		return nil
	case string:
		// YAML job definitions write timestamps as strings.
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				a.Set(parsed)
				return nil
			}
		}
	}
	return TypeValidationError{Attr: a.key, Value: v}
}

func (a *DateAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.set); err != nil {
		return "", err
	}
	if !a.set {
		return "", nil
	}
	return fmt.Sprintf("%s {%s}", a.wireKey(), a.v.Format(dateWireLayout)), nil
}

// --------------------------------------------------------------------------

// BoolAttr is a boolean value rendered as ` -key 0` or ` -key 1`.
type BoolAttr struct {
	attrCore
	v   bool
	set bool
}

func (a *BoolAttr) Set(v bool) {
	a.v = v
	a.set = true
}

func (a *BoolAttr) Value() bool {
	return a.v
}

func (a *BoolAttr) HasValue() bool {
	return a.set
}

func (a *BoolAttr) setAny(v interface{}) error {
	switch b := v.(type) {
	case bool:
		a.Set(b)
	case int:
		if b != 0 && b != 1 {
			return TypeValidationError{Attr: a.key, Value: v}
		}
		a.Set(b == 1)
	default:
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return nil
}

func (a *BoolAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.set); err != nil {
		return "", err
	}
	if !a.set {
		return "", nil
	}
	n := 0
	if a.v {
		n = 1
	}
	return fmt.Sprintf("%s %d", a.wireKey(), n), nil
}

// --------------------------------------------------------------------------

// StrListAttr is a list of strings. Each item is brace-quoted with embedded
// backslashes doubled: ` -key {{item1} {item2}}`.
type StrListAttr struct {
	attrCore
	v []string
}

func (a *StrListAttr) Set(v []string) {
	a.v = append([]string(nil), v...)
}

func (a *StrListAttr) Value() []string {
	return a.v
}

func (a *StrListAttr) HasValue() bool {
	return len(a.v) > 0
}

func (a *StrListAttr) setAny(v interface{}) error {
	switch list := v.(type) {
	case []string:
		a.Set(list)
	case []interface{}:
		items := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return TypeValidationError{Attr: a.key, Value: v}
			}
			items[i] = s
		}
		a.v = items
	default:
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return nil
}

func (a *StrListAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.HasValue()); err != nil {
		return "", err
	}
	if !a.HasValue() {
		return "", nil
	}
	args := make([]string, len(a.v))
	for i, item := range a.v {
		args[i] = "{" + strings.Replace(item, `\`, `\\`, -1) + "}"
	}
	return fmt.Sprintf("%s {%s}", a.wireKey(), strings.Join(args, " ")), nil
}

// --------------------------------------------------------------------------

// IntListAttr is a list of integers, space-joined: ` -key {1 3 5}`.
type IntListAttr struct {
	attrCore
	v []int
}

func (a *IntListAttr) Set(v []int) {
	a.v = append([]int(nil), v...)
}

func (a *IntListAttr) Value() []int {
	return a.v
}

func (a *IntListAttr) HasValue() bool {
	return len(a.v) > 0
}

func (a *IntListAttr) setAny(v interface{}) error {
	switch list := v.(type) {
	case []int:
		a.Set(list)
	case []interface{}:
		items := make([]int, len(list))
		for i, item := range list {
			n, ok := item.(int)
			if !ok {
				return TypeValidationError{Attr: a.key, Value: v}
			}
			items[i] = n
		}
		a.v = items
	default:
		return TypeValidationError{Attr: a.key, Value: v}
	}
	return nil
}

func (a *IntListAttr) render(*renderContext) (string, error) {
	if err := a.requireCheck(a.HasValue()); err != nil {
		return "", err
	}
	if !a.HasValue() {
		return "", nil
	}
	args := make([]string, len(a.v))
	for i, n := range a.v {
		args[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s {%s}", a.wireKey(), strings.Join(args, " ")), nil
}

// --------------------------------------------------------------------------

// ArgvAttr is a command argument vector. Set takes a pre-split list;
// SetLine tokenizes a raw command line. The two entry points replace a
// single string-or-list input so callers state which form they have.
type ArgvAttr struct {
	StrListAttr
}

// SetLine tokenizes line on whitespace and stores the result.
func (a *ArgvAttr) SetLine(line string) {
	a.v = Str2Argv(line)
}

func (a *ArgvAttr) setAny(v interface{}) error {
	if line, ok := v.(string); ok {
		a.SetLine(line)
		return nil
	}
	return a.StrListAttr.setAny(v)
}

// --------------------------------------------------------------------------

// GroupAttr is an ordered sequence of child elements (e.g. -subtasks,
// -cmds, -init), rendered as a nested, indented block. Order is strict
// insertion order; nothing is reordered or deduplicated.
type GroupAttr struct {
	attrCore
	elems []Element
}

func (a *GroupAttr) add(e Element) {
	a.elems = append(a.elems, e)
}

// Elements returns the group's members in insertion order.
func (a *GroupAttr) Elements() []Element {
	return a.elems
}

// Len returns the number of members in the group.
func (a *GroupAttr) Len() int {
	return len(a.elems)
}

func (a *GroupAttr) HasValue() bool {
	return len(a.elems) > 0
}

func (a *GroupAttr) setAny(v interface{}) error {
	return TypeValidationError{Attr: a.key, Value: v}
}

func (a *GroupAttr) render(ctx *renderContext) (string, error) {
	if err := a.requireCheck(a.HasValue()); err != nil {
		return "", err
	}
	if !a.HasValue() {
		return "", nil
	}
	ctx.depth++
	lines := make([]string, len(a.elems))
	for i, e := range a.elems {
		s, err := e.render(ctx)
		if err != nil {
			ctx.depth--
			return "", err
		}
		lines[i] = ctx.indent() + s
	}
	ctx.depth--
	return fmt.Sprintf(" -%s {\n%s\n%s}", a.key, strings.Join(lines, "\n"), ctx.indent()), nil
}
