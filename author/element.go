// Copyright 2025, Framewell, Inc.

package author

import (
	"strings"
)

// Element is any component of a job graph that can be rendered into the job
// script format: the node kinds (Job, Task, Command, Instance, Iterate) and
// the leaf elements (Assign, DirMap).
type Element interface {
	// Render serializes the element and everything below it. Each call
	// uses a fresh render context, so output is idempotent and safe to
	// produce from multiple goroutines for independent graphs.
	Render() (string, error)

	render(ctx *renderContext) (string, error)
}

// Child is an element that can be attached to a subtask-bearing parent:
// Task, Instance, and Iterate. A Child has at most one parent, set exactly
// once by whichever attach operation first claims it.
type Child interface {
	Element

	// Parent returns the owning element, or nil if unattached.
	Parent() Element

	setParent(p Element)
	label() string
}

// AttachResult reports which of the two attach outcomes occurred.
type AttachResult int

const (
	// Attached means the node itself was added as a child.
	Attached AttachResult = iota

	// Instanced means the node already had a parent, so an Instance
	// referring to it was added instead. The node keeps its original
	// parent.
	Instanced
)

// element is the common base of every node kind. It records the parent for
// instancing and error detection, and keeps the declared attributes in
// order: declaration order fixes the canonical field order in the wire
// format.
type element struct {
	kind   string
	attrs  []Attr
	byName map[string]Attr
	parent Element
}

func (e *element) init(kind string, attrs []Attr) {
	e.kind = kind
	e.attrs = attrs
	e.byName = make(map[string]Attr, len(attrs))
	for _, a := range attrs {
		if _, isConst := a.(*ConstAttr); isConst {
			continue
		}
		e.byName[a.Name()] = a
	}
}

// alias registers an alternate name for a declared attribute.
func (e *element) alias(name string, a Attr) {
	e.byName[name] = a
}

// Parent returns the element's owner, or nil if it has none.
func (e *element) Parent() Element {
	return e.parent
}

func (e *element) setParent(p Element) {
	e.parent = p
}

// SetField sets a declared attribute by its wire name. Code should prefer
// the typed attribute fields; SetField exists for data-driven construction
// (job definition files) and returns AttributeAccessError for names not
// declared on the node kind.
func (e *element) SetField(name string, value interface{}) error {
	a, ok := e.byName[name]
	if !ok {
		return AttributeAccessError{Attr: name, Kind: e.kind}
	}
	return a.setAny(value)
}

// Field returns the declared attribute with the given wire name.
func (e *element) Field(name string) (Attr, error) {
	a, ok := e.byName[name]
	if !ok {
		return nil, AttributeAccessError{Attr: name, Kind: e.kind}
	}
	return a, nil
}

// Render serializes the element with a fresh indentation context.
func (e *element) Render() (string, error) {
	return e.render(&renderContext{})
}

func (e *element) render(ctx *renderContext) (string, error) {
	var b strings.Builder
	for _, a := range e.attrs {
		s, err := a.render(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// attachChild adds child to the parent's group, promoting an
// already-parented Task to an Instance. Iterate and Instance nodes cannot
// be attached twice.
func attachChild(parent Element, group *GroupAttr, child Child) (AttachResult, error) {
	if task, ok := child.(*Task); ok && task.Parent() != nil {
		inst := NewInstance(task.Title.Value())
		inst.setParent(parent)
		group.add(inst)
		return Instanced, nil
	}
	if child.Parent() != nil {
		return 0, ParentExistsError{Node: child.label(), Parent: labelOf(child.Parent())}
	}
	group.add(child)
	child.setParent(parent)
	return Attached, nil
}

func labelOf(e Element) string {
	if l, ok := e.(interface{ label() string }); ok {
		return l.label()
	}
	return "element"
}

// --------------------------------------------------------------------------

// Assign defines a variable in the global context of a job, e.g.
// `Assign mypath {/some/path}`. Assigns live in the job's init group.
type Assign struct {
	Varname string
	Value   string
}

func NewAssign(varname, value string) *Assign {
	return &Assign{Varname: varname, Value: value}
}

func (a *Assign) Render() (string, error) {
	return a.render(&renderContext{})
}

func (a *Assign) render(*renderContext) (string, error) {
	return "Assign " + a.Varname + " {" + a.Value + "}", nil
}

// --------------------------------------------------------------------------

// DirMap maps a path between two operating system zones, e.g.
// `{{X:/} {//fileserver/projects} UNC}`.
type DirMap struct {
	Src  string
	Dst  string
	Zone string
}

func NewDirMap(src, dst, zone string) *DirMap {
	return &DirMap{Src: src, Dst: dst, Zone: zone}
}

func (d *DirMap) Render() (string, error) {
	return d.render(&renderContext{})
}

func (d *DirMap) render(*renderContext) (string, error) {
	return "{{" + d.Src + "} {" + d.Dst + "} " + d.Zone + "}", nil
}
