// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

// MaxCallExpressionDepth bounds the traversal depth when collecting calls,
// protecting against pathologically nested expressions.
const MaxCallExpressionDepth = 50

// Call is a transient view over one parsed call expression. It records the
// callee shape (either obj.method with a bare-identifier receiver, or a bare
// function name) and the call's source position. Calls are owned by the
// analysis pass that extracted them and are never shared across scopes.
type Call struct {
	// Object is the receiver identifier for calls of the form obj.method(...).
	// Empty for bare calls and for receivers that are not bare identifiers
	// (chained attributes, subscripts, call results).
	Object string

	// Method is the attribute name for calls of the form obj.method(...).
	Method string

	// Name is the function identifier for bare calls of the form fn(...).
	Name string

	// Line is the 1-based source line of the call's opening token.
	Line int

	// Col is the 0-based source column of the call's opening token.
	Col int
}

// Callee renders the call target as "obj.method", or "<unknown>" when the
// callee shape cannot be rendered that way.
func (c Call) Callee() string {
	if c.Object != "" && c.Method != "" {
		return c.Object + "." + c.Method
	}
	return "<unknown>"
}

// Category is a semantic class of method calls: a set of receiver names and
// a set of method names. Categories are fixed at construction and never
// mutated during a run.
type Category struct {
	Objects map[string]bool
	Methods map[string]bool
}

// NewCategory builds a Category from object and method name lists.
func NewCategory(objects, methods []string) Category {
	cat := Category{
		Objects: make(map[string]bool, len(objects)),
		Methods: make(map[string]bool, len(methods)),
	}
	for _, o := range objects {
		cat.Objects[o] = true
	}
	for _, m := range methods {
		cat.Methods[m] = true
	}
	return cat
}

// Matches reports whether the call has the shape obj.method(...) with the
// receiver in cat.Objects and the method in cat.Methods. Bare calls,
// subscript calls, and chained attribute receivers never match. Matching is
// intentionally shallow and syntactic: no type resolution, no alias
// tracking.
func (c Call) Matches(cat Category) bool {
	if c.Object == "" || c.Method == "" {
		return false
	}
	return cat.Objects[c.Object] && cat.Methods[c.Method]
}

// IsBareCall reports whether the call is a bare function call fn(...) with
// fn in the given name set.
func (c Call) IsBareCall(names map[string]bool) bool {
	return c.Name != "" && names[c.Name]
}

// CallsBefore reports whether some call in the list matches cat and occurs
// on a line strictly before targetLine.
//
// Description:
//
//	This is one of the two ordering primitives every rule composes. Calls
//	with no recorded position (Line <= 0) are treated as occurring after
//	everything, so they never count as "before" — the safer default when
//	position metadata is missing is to assume no guard is present.
func CallsBefore(calls []Call, targetLine int, cat Category) bool {
	for _, call := range calls {
		if call.Line <= 0 || call.Line >= targetLine {
			continue
		}
		if call.Matches(cat) {
			return true
		}
	}
	return false
}

// CallsExist reports whether some call in the list matches cat, regardless
// of position.
func CallsExist(calls []Call, cat Category) bool {
	for _, call := range calls {
		if call.Matches(cat) {
			return true
		}
	}
	return false
}

// BareCallsExist reports whether some bare function call in the list has a
// name in the given set.
func BareCallsExist(calls []Call, names map[string]bool) bool {
	for _, call := range calls {
		if call.IsBareCall(names) {
			return true
		}
	}
	return false
}
