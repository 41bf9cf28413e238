package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"xell", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"xell", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommandStartsLineREPL(t *testing.T) {
	withStdin(t, "x = 20\nx + 1\n:quit\n")
	out, err := captureStdout(t, func() error {
		return runCLI([]string{"xell"})
	})
	if err != nil {
		t.Fatalf("runCLI repl failed: %v", err)
	}
	if !strings.Contains(out, "21\n") {
		t.Fatalf("expected evaluated result in %q", out)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	scriptPath := writeScript(t, `fn main(): give "ok" ;`)

	if err := runCommand([]string{"-check", scriptPath}); err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
}

func TestCheckCommandReportsParseErrors(t *testing.T) {
	scriptPath := writeScript(t, "fn broken(:\n  give 1\n;")

	err := runCLI([]string{"xell", "check", scriptPath})
	if err == nil {
		t.Fatalf("expected parse failure")
	}
	if !strings.Contains(err.Error(), "parse failed") || !strings.Contains(err.Error(), "parse error at 1:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandPrintsOutputAndArgv(t *testing.T) {
	scriptPath := writeScript(t, `print "hi", argv[0], len(argv)`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath, "hello", "there"})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hi hello 2" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandReadsStdin(t *testing.T) {
	withStdin(t, "print 6 * 7\n")
	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-"})
	})
	if err != nil {
		t.Fatalf("runCommand stdin failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "42" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandModulePathFlag(t *testing.T) {
	libDir := writeHelperModule(t)
	scriptPath := writeScript(t, "bring twice from \"helper\"\nprint twice(21)")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-module-path", libDir, scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "42" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandConfigFile(t *testing.T) {
	libDir := writeHelperModule(t)
	configPath := filepath.Join(filepath.Dir(libDir), "xell.yaml")
	config := "module_paths:\n  - " + filepath.Base(libDir) + "\nlog_level: error\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	scriptPath := writeScript(t, "bring twice from \"helper\"\nprint twice(5)")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", configPath, scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "10" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandReportsRuntimeErrors(t *testing.T) {
	scriptPath := writeScript(t, "x = 1\ny = x / 0")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected runtime failure")
	}
	msg := err.Error()
	if !strings.Contains(msg, "execution failed") || !strings.Contains(msg, "Line 2 - DivisionByZeroError") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandRejectsBadLogLevel(t *testing.T) {
	scriptPath := writeScript(t, `print 1`)
	err := runCommand([]string{"-log-level", "loud", scriptPath})
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, `fn main():
  value = 1
  give value
;`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsUnreachableStatements(t *testing.T) {
	scriptPath := writeScript(t, `fn main():
  give 1
  print 2
;`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, ":3:3: unreachable statement (main)") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func TestComputeModulePathsIncludesScriptDirAndDedupesExtras(t *testing.T) {
	scriptDir := t.TempDir()
	scriptPath := filepath.Join(scriptDir, "main.xel")
	extraDir := t.TempDir()

	dirs, err := computeModulePaths(scriptPath, []string{scriptDir, extraDir, extraDir})
	if err != nil {
		t.Fatalf("computeModulePaths failed: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 dirs, got %d (%v)", len(dirs), dirs)
	}

	wantScript, _ := filepath.Abs(scriptDir)
	wantExtra, _ := filepath.Abs(extraDir)
	if dirs[0] != wantScript {
		t.Fatalf("expected first dir %q, got %q", wantScript, dirs[0])
	}
	if dirs[1] != wantExtra {
		t.Fatalf("expected second dir %q, got %q", wantExtra, dirs[1])
	}
}

func TestComputeModulePathsWithoutScript(t *testing.T) {
	extraDir := t.TempDir()
	dirs, err := computeModulePaths("", []string{extraDir})
	if err != nil {
		t.Fatalf("computeModulePaths failed: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected only the extra dir, got %v", dirs)
	}
}

func TestComputeModulePathsRejectsNonDirectoryExtra(t *testing.T) {
	scriptDir := t.TempDir()
	scriptPath := filepath.Join(scriptDir, "main.xel")
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := computeModulePaths(scriptPath, []string{file})
	if err == nil {
		t.Fatalf("expected non-directory module path error")
	}
	if !strings.Contains(err.Error(), "is not a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.xel")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// writeHelperModule creates <tmp>/lib/helper.xel and returns the lib dir.
func writeHelperModule(t *testing.T) string {
	t.Helper()
	libDir := filepath.Join(t.TempDir(), "lib")
	if err := os.Mkdir(libDir, 0o755); err != nil {
		t.Fatalf("mkdir lib: %v", err)
	}
	helper := filepath.Join(libDir, "helper.xel")
	if err := os.WriteFile(helper, []byte("fn twice(x): give x * 2 ;\n"), 0o644); err != nil {
		t.Fatalf("write helper: %v", err)
	}
	return libDir
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	orig := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if _, err := io.WriteString(w, input); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	_ = w.Close()
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		_ = r.Close()
	})
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
