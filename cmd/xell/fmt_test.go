package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const unformattedSource = "fn main():  \n\tgive 1\t \n\n\n;"

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil {
		t.Fatalf("expected path required error")
	}
	if !strings.Contains(err.Error(), "path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFmtCommandCheckDetectsUnformattedFiles(t *testing.T) {
	path := writeSourceFile(t, unformattedSource)
	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected formatting check failure")
	}
	if !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestFmtCommandWriteFormatsFileInPlace(t *testing.T) {
	path := writeSourceFile(t, unformattedSource)
	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	updated, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted file: %v", err)
	}
	if got := string(updated); got != "fn main():\n  give 1\n\n;\n" {
		t.Fatalf("unexpected formatted output: %q", got)
	}
}

func TestFmtCommandPrintsFormattedOutput(t *testing.T) {
	path := writeSourceFile(t, "x = 1\r\ny = 2   \r\n")
	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt command failed: %v", err)
	}
	if out != "x = 1\ny = 2\n" {
		t.Fatalf("unexpected stdout output: %q", out)
	}
}

func TestFmtCommandFormatsDirectories(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.xel")
	second := filepath.Join(root, "nested", "b.xel")
	ignored := filepath.Join(root, "notes.txt")
	if err := os.MkdirAll(filepath.Dir(second), 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}
	files := map[string]string{
		first:   "fn run():  \n  give 1  \n;",
		second:  "fn run():  \n\tgive 2\t\n;",
		ignored: "left   \n",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if err := fmtCommand([]string{"-w", root}); err != nil {
		t.Fatalf("fmt directory failed: %v", err)
	}
	if err := fmtCommand([]string{"-check", root}); err != nil {
		t.Fatalf("expected no formatting diffs after write, got %v", err)
	}
	untouched, err := os.ReadFile(ignored)
	if err != nil {
		t.Fatalf("read ignored file: %v", err)
	}
	if string(untouched) != "left   \n" {
		t.Fatalf("non-source file was rewritten: %q", untouched)
	}
}

func TestFmtCommandRejectsUnparseableSource(t *testing.T) {
	path := writeSourceFile(t, "fn broken(:\n  give 1\n")
	err := fmtCommand([]string{"-w", path})
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	if !strings.Contains(err.Error(), "xell fmt:") || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("unexpected error: %v", err)
	}

	original, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read source: %v", readErr)
	}
	if string(original) != "fn broken(:\n  give 1\n" {
		t.Fatalf("unparseable file was modified: %q", original)
	}
}

func TestFormatSourceIsIdempotent(t *testing.T) {
	once, err := formatSource(unformattedSource, "main.xel")
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	twice, err := formatSource(once, "main.xel")
	if err != nil {
		t.Fatalf("second format failed: %v", err)
	}
	if once != twice {
		t.Fatalf("formatting is not stable: %q vs %q", once, twice)
	}
}

func writeSourceFile(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.xel")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}
