// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast provides the tree-sitter Python frontend for the governance
// linter: parsing source files into syntax trees, extracting call sites in
// document order, matching calls against semantic categories, and answering
// ordering queries within a function scope.
package ast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Sentinel errors returned by Parser.Parse.
var (
	// ErrFileTooLarge indicates the source exceeds the parser's size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrInvalidContent indicates the source is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

const (
	// DefaultMaxFileSize is the largest source file the parser accepts (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold above which a large-file warning is logged.
	WarnFileSize = 1 * 1024 * 1024
)

// ParserOption configures a Parser instance.
type ParserOption func(*Parser)

// WithMaxFileSize sets the maximum file size the parser will accept.
//
// Example:
//
//	parser := NewParser(WithMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithMaxFileSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// Parser parses Python source code into syntax trees for rule evaluation.
//
// Description:
//
//	Parser uses tree-sitter to parse Python source files. Each Parse call
//	creates its own tree-sitter parser instance internally, so a single
//	Parser may be shared across goroutines.
//
// Thread Safety:
//
//	Parser instances are safe for concurrent use.
type Parser struct {
	maxFileSize int64
}

// NewParser creates a new Parser with the given options.
//
// Outputs:
//   - *Parser: Configured parser instance, never nil.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SyntaxError describes the first syntax failure in a parsed file.
type SyntaxError struct {
	// Msg is a short description of the failure, e.g. "invalid syntax".
	Msg string
	// Line is the 1-based line of the first error node.
	Line int
	// Col is the 0-based column of the first error node.
	Col int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (line %d)", e.Msg, e.Line)
}

// SourceFile is one parsed Python file: its path, raw content, and syntax
// tree. Callers must Close the file to release the tree-sitter tree.
type SourceFile struct {
	// Path is the file path as given to Parse (for violation reporting).
	Path string
	// Content is the raw source bytes the tree was built from.
	Content []byte

	tree *sitter.Tree
}

// Root returns the root node of the syntax tree.
func (f *SourceFile) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Close releases the underlying tree-sitter tree. The SourceFile must not
// be used after Close.
func (f *SourceFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// SyntaxError returns a description of the first syntax error in the file,
// or nil when the file parsed cleanly.
//
// Description:
//
//	Tree-sitter is error-tolerant, so Parse succeeds even for invalid
//	source. Rules must not run against a broken tree; the orchestrator
//	calls SyntaxError first and short-circuits to a parse-error violation
//	when it is non-nil. The position reported is the first ERROR or
//	missing node in document order.
func (f *SourceFile) SyntaxError() *SyntaxError {
	root := f.Root()
	if root == nil {
		return &SyntaxError{Msg: "no parse tree", Line: 0, Col: 0}
	}
	if !root.HasError() {
		return nil
	}

	errNode := firstErrorNode(root)
	if errNode == nil {
		// HasError with no locatable ERROR node: report the root position.
		return &SyntaxError{Msg: "invalid syntax", Line: 1, Col: 0}
	}
	return &SyntaxError{
		Msg:  "invalid syntax",
		Line: int(errNode.StartPoint().Row) + 1,
		Col:  int(errNode.StartPoint().Column),
	}
}

// firstErrorNode finds the first ERROR or missing node in document order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if node.Type() == "ERROR" || node.IsMissing() {
			return node
		}
		if !node.HasError() {
			// Error is not beneath this subtree; skip it entirely.
			continue
		}
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(i))
		}
	}
	return nil
}

// Parse parses Python source into a SourceFile.
//
// Description:
//
//	Validates size and encoding, then builds a tree-sitter syntax tree.
//	The parse is error-tolerant: syntactically invalid source still yields
//	a SourceFile whose SyntaxError method reports the failure. A non-nil
//	error is returned only for terminal conditions that prevent building
//	any tree at all.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//   - content: Raw Python source bytes. Must be valid UTF-8.
//   - filePath: Path used in violations and logs.
//
// Outputs:
//   - *SourceFile: The parsed file. Callers must Close it.
//   - error: ErrFileTooLarge, ErrInvalidContent, a context error, or a
//     wrapped tree-sitter failure.
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*SourceFile, error) {
	ctx, span := startParseSpan(ctx, filePath, len(content))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// New tree-sitter parser per call for thread safety.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	return &SourceFile{
		Path:    filePath,
		Content: content,
		tree:    tree,
	}, nil
}
