package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zephyrtronium/ratexpr"
)

func TestStream(t *testing.T) {
	logger = zap.NewNop()
	var out bytes.Buffer
	p := newPrinter(&out, false)
	in := strings.NewReader("1+2\n\n  1/3\n1/0\n(1\nabc\n2*\n3\n")

	n, err := stream(in, p, nil, false)
	if err != nil {
		t.Fatalf("stream returned error: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 expressions, got %d", n)
	}
	want := []string{
		"Result: 3",
		"Result: 0 (1 / 3)",
		"Error: 2: division by zero in /",
		"Error: 1: open parenthesis ( with no close parenthesis",
		"Error: no expression in input ending at column 4",
		"Result: 6",
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), out.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestStreamLexErrorResumes(t *testing.T) {
	logger = zap.NewNop()
	var out bytes.Buffer
	p := newPrinter(&out, false)
	// The bad literal must not swallow the next line.
	in := strings.NewReader("1.2.3 + 4\n5-6\n")

	n, err := stream(in, p, nil, false)
	if err != nil {
		t.Fatalf("stream returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 expressions, got %d", n)
	}
	s := out.String()
	if !strings.Contains(s, "invalid number token at column 1: 1.2.3") {
		t.Errorf("expected lex error, got:\n%s", s)
	}
	if !strings.HasSuffix(s, "Result: -1\n") {
		t.Errorf("expected second expression to evaluate, got:\n%s", s)
	}
}

func TestStreamPrompt(t *testing.T) {
	logger = zap.NewNop()
	var out bytes.Buffer
	p := newPrinter(&out, false)

	if _, err := stream(strings.NewReader("7\n"), p, nil, true); err != nil {
		t.Fatalf("stream returned error: %v", err)
	}
	if got, want := out.String(), ">> Result: 7\n>> \n"; got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestStreamLimits(t *testing.T) {
	logger = zap.NewNop()
	var out bytes.Buffer
	p := newPrinter(&out, false)
	opts := []ratexpr.ParseOption{ratexpr.MaxTokens(2)}

	if _, err := stream(strings.NewReader("1+2\n3\n"), p, opts, false); err != nil {
		t.Fatalf("stream returned error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "exceeds maximum tokens of 2") {
		t.Errorf("expected limit error, got:\n%s", s)
	}
	if !strings.HasSuffix(s, "Result: 3\n") {
		t.Errorf("expected stream to resume, got:\n%s", s)
	}
}

func TestReportEchoPostfix(t *testing.T) {
	echo, postfix, digits = true, true, 3
	t.Cleanup(func() { echo, postfix, digits = false, false, -1 })
	var out bytes.Buffer
	p := newPrinter(&out, false)

	tr, err := ratexpr.ParseString("-(1 - 3) / 3")
	if !p.report(tr, err) {
		t.Fatalf("report failed:\n%s", out.String())
	}
	want := "Tree: ([-([1] - [3])] / [3])\n" +
		"Postfix: 1 3 - u 3 /\n" +
		"Result: 0 (2 / 3) ~ 0.667\n"
	if got := out.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestRootArgs(t *testing.T) {
	for _, k := range []string{"RATEXPR_MAX_DEPTH", "RATEXPR_MAX_TOKENS", "RATEXPR_ADDR", "RATEXPR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Cleanup(func() { digits = -1 })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--decimal", "2", "1/4", "2*(3+4)", "1/(2-2)"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	want := "Result: 0 (1 / 4) ~ 0.25\n" +
		"Result: 14\n" +
		"Error: 2: division by zero in /\n"
	if got := out.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestRootInFile(t *testing.T) {
	for _, k := range []string{"RATEXPR_MAX_DEPTH", "RATEXPR_MAX_TOKENS", "RATEXPR_ADDR", "RATEXPR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "exprs.txt")
	if err := os.WriteFile(path, []byte("0.5 + 0.25\n10 / 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { inName = "" })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--in", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	want := "Result: 0 (3 / 4)\nResult: 2 (1 / 2)\n"
	if got := out.String(); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
