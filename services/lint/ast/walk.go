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

import (
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
)

// NodeText returns the source text covered by a node.
func NodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

// walkPreOrder visits every node beneath root (root included) in document
// order, using an explicit stack with children pushed in reverse so the
// visit order matches the order of each node's opening token in the source.
func walkPreOrder(root *sitter.Node, visit func(node *sitter.Node, depth int) bool) {
	type stackEntry struct {
		node  *sitter.Node
		depth int
	}

	stack := make([]stackEntry, 0, 64)
	stack = append(stack, stackEntry{node: root, depth: 0})

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := entry.node
		if node == nil {
			continue
		}
		if entry.depth > MaxCallExpressionDepth {
			slog.Debug("max traversal depth reached", slog.Int("depth", entry.depth))
			continue
		}

		if !visit(node, entry.depth) {
			continue
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			child := node.Child(i)
			if child != nil {
				stack = append(stack, stackEntry{node: child, depth: entry.depth + 1})
			}
		}
	}
}

// CollectCalls returns every call expression beneath root in document order.
//
// Description:
//
//	Nested calls (a call appearing as an argument of another call) are all
//	included independently; there is no de-duplication. The walk is
//	unconditionally recursive, so calls inside nested function definitions
//	are attributed to the enclosing scope's call list as well — rule
//	scoping is applied by choosing which subtree root to pass in.
//
// Inputs:
//   - root: Subtree root to walk. May be any node, typically a
//     function_definition.
//   - content: Source bytes the tree was built from.
//
// Outputs:
//   - []Call: Extracted calls in the order each call's opening token
//     appears in the source. Empty slice when root is nil or no calls
//     exist.
func CollectCalls(root *sitter.Node, content []byte) []Call {
	calls := make([]Call, 0, 16)
	walkPreOrder(root, func(node *sitter.Node, _ int) bool {
		if node.Type() == "call" {
			calls = append(calls, newCall(node, content))
		}
		return true
	})
	return calls
}

// newCall builds a Call view from a tree-sitter "call" node.
//
// The function child of a call node can be:
//   - identifier: bare call fn(args)
//   - attribute: method call obj.method(args)
//   - anything else (subscript, nested call, lambda): shape not rendered
func newCall(node *sitter.Node, content []byte) Call {
	call := Call{
		Line: int(node.StartPoint().Row) + 1,
		Col:  int(node.StartPoint().Column),
	}

	funcNode := node.ChildByFieldName("function")
	if funcNode == nil && node.ChildCount() > 0 {
		funcNode = node.Child(0)
	}
	if funcNode == nil {
		return call
	}

	switch funcNode.Type() {
	case "identifier":
		call.Name = NodeText(funcNode, content)
	case "attribute":
		objectNode := funcNode.ChildByFieldName("object")
		attrNode := funcNode.ChildByFieldName("attribute")
		// Only a bare-identifier receiver gives the call a matchable
		// obj.method shape; chained attributes and call results do not.
		if objectNode != nil && objectNode.Type() == "identifier" && attrNode != nil {
			call.Object = NodeText(objectNode, content)
			call.Method = NodeText(attrNode, content)
		}
	}
	return call
}

// FunctionScopes returns every function-like scope node beneath root in
// document order. Both ordinary and async defs are function_definition
// nodes in the tree-sitter Python grammar; nested defs are returned as
// scopes of their own in addition to being walked by their enclosing
// scope's call extraction.
func FunctionScopes(root *sitter.Node) []*sitter.Node {
	scopes := make([]*sitter.Node, 0, 8)
	walkPreOrder(root, func(node *sitter.Node, _ int) bool {
		if node.Type() == "function_definition" {
			scopes = append(scopes, node)
		}
		return true
	})
	return scopes
}

// ComparisonPair is one adjacent (left, op, right) triple from a comparison
// expression. Chained comparisons like a < b < c are decomposed into
// consecutive pairs sharing an operand: (a < b) and (b < c).
type ComparisonPair struct {
	Left  *sitter.Node
	Op    string
	Right *sitter.Node
}

// ComparisonPairs returns the decomposed operand pairs of every comparison
// expression beneath root, in document order.
//
// Description:
//
//	In the tree-sitter Python grammar a chained comparison is a single
//	comparison_operator node whose named children are the operands and
//	whose anonymous children are the operator tokens. Multi-token
//	operators ("not in", "is not") are joined with a space.
func ComparisonPairs(root *sitter.Node) []ComparisonPair {
	pairs := make([]ComparisonPair, 0, 4)
	walkPreOrder(root, func(node *sitter.Node, _ int) bool {
		if node.Type() != "comparison_operator" {
			return true
		}

		var left *sitter.Node
		var op string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			if !child.IsNamed() {
				if op == "" {
					op = child.Type()
				} else {
					op += " " + child.Type()
				}
				continue
			}
			if left == nil {
				left = child
				continue
			}
			pairs = append(pairs, ComparisonPair{Left: left, Op: op, Right: child})
			left = child // slide the window for chained comparisons
			op = ""
		}
		return true
	})
	return pairs
}
