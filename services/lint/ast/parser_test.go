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
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestParser_Parse_EmptyFile(t *testing.T) {
	parser := NewParser()
	file, err := parser.Parse(context.Background(), []byte(""), "empty.py")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	if file.Path != "empty.py" {
		t.Errorf("expected path 'empty.py', got %q", file.Path)
	}

	if se := file.SyntaxError(); se != nil {
		t.Errorf("expected no syntax error for empty file, got %v", se)
	}
}

func TestParser_Parse_ValidSource(t *testing.T) {
	source := `def handler(request):
    engine.check(action)
    tool.run("deploy")
`
	parser := NewParser()
	file, err := parser.Parse(context.Background(), []byte(source), "test.py")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	if se := file.SyntaxError(); se != nil {
		t.Fatalf("expected no syntax error, got %v", se)
	}

	if file.Root() == nil {
		t.Fatal("expected non-nil root node")
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	source := `def broken(:
    pass
`
	parser := NewParser()
	file, err := parser.Parse(context.Background(), []byte(source), "broken.py")

	if err != nil {
		t.Fatalf("parse should tolerate invalid syntax, got error: %v", err)
	}
	defer file.Close()

	se := file.SyntaxError()
	if se == nil {
		t.Fatal("expected a syntax error for invalid source")
	}

	if se.Msg != "invalid syntax" {
		t.Errorf("expected message 'invalid syntax', got %q", se.Msg)
	}

	if se.Line < 1 {
		t.Errorf("expected 1-based error line, got %d", se.Line)
	}

	if !strings.Contains(se.Error(), "invalid syntax") {
		t.Errorf("expected Error() to mention invalid syntax, got %q", se.Error())
	}
}

func TestParser_Parse_SyntaxErrorLine(t *testing.T) {
	// The first three lines are fine; the error starts on line 4.
	source := `import os

def good():
    pass

def bad(:
    pass
`
	parser := NewParser()
	file, err := parser.Parse(context.Background(), []byte(source), "bad.py")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	se := file.SyntaxError()
	if se == nil {
		t.Fatal("expected a syntax error")
	}

	if se.Line < 4 {
		t.Errorf("expected error at or after line 4, got line %d", se.Line)
	}
}

func TestParser_Parse_FileTooLarge(t *testing.T) {
	parser := NewParser(WithMaxFileSize(16))
	_, err := parser.Parse(context.Background(), []byte("x = 1  # longer than sixteen bytes\n"), "big.py")

	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestParser_Parse_InvalidUTF8(t *testing.T) {
	parser := NewParser()
	_, err := parser.Parse(context.Background(), []byte{0xff, 0xfe, 0xfd}, "binary.py")

	if !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
}

func TestParser_Parse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser := NewParser()
	_, err := parser.Parse(ctx, []byte("x = 1\n"), "test.py")

	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParser_Parse_Concurrent(t *testing.T) {
	source := `def worker():
    tool.run("task")
`
	parser := NewParser()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			file, err := parser.Parse(context.Background(), []byte(source), "concurrent.py")
			if err != nil {
				t.Errorf("concurrent parse failed: %v", err)
				return
			}
			defer file.Close()
			if file.SyntaxError() != nil {
				t.Error("unexpected syntax error in concurrent parse")
			}
		}()
	}
	wg.Wait()
}
