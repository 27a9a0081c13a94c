package trawl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestPrintHandler(t *testing.T) {
	var out bytes.Buffer
	handler := PrintHandler(&out)

	if err := handler(context.Background(), Match{Path: "/tmp/example.txt", Name: "example.txt"}); err != nil {
		t.Fatalf("PrintHandler failed: %v", err)
	}
	if got := out.String(); got != "/tmp/example.txt\n" {
		t.Errorf("Printed %q, want %q", got, "/tmp/example.txt\n")
	}
}

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("Failed to create script: %v", err)
	}
	return path
}

func TestExecHandlerRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not runnable on Windows")
	}

	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "seen.log")
	script := writeScript(t, tmpDir, `echo "$1" >> `+logFile)

	handler := ExecHandler(script, io.Discard, io.Discard)
	target := filepath.Join(tmpDir, "target.txt")
	if err := handler(context.Background(), Match{Path: target, Name: "target.txt"}); err != nil {
		t.Fatalf("ExecHandler failed: %v", err)
	}

	// The handler blocks on the child, so the log must be complete here.
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read script output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != target {
		t.Errorf("Script received %q, want %q", got, target)
	}
}

func TestExecHandlerForwardsChildOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not runnable on Windows")
	}

	tmpDir := t.TempDir()
	script := writeScript(t, tmpDir, `echo "found $1"`)

	var out bytes.Buffer
	handler := ExecHandler(script, &out, io.Discard)
	if err := handler(context.Background(), Match{Path: "/tmp/a.txt"}); err != nil {
		t.Fatalf("ExecHandler failed: %v", err)
	}
	if got := out.String(); got != "found /tmp/a.txt\n" {
		t.Errorf("Child stdout = %q, want %q", got, "found /tmp/a.txt\n")
	}
}

func TestExecHandlerIgnoresExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not runnable on Windows")
	}

	tmpDir := t.TempDir()
	script := writeScript(t, tmpDir, "exit 3")

	handler := ExecHandler(script, io.Discard, io.Discard)
	if err := handler(context.Background(), Match{Path: "/tmp/a.txt"}); err != nil {
		t.Errorf("A non-zero child exit should not surface as an error, got %v", err)
	}
}

func TestExecHandlerMissingExecutable(t *testing.T) {
	tmpDir := t.TempDir()

	handler := ExecHandler(filepath.Join(tmpDir, "no-such-binary"), io.Discard, io.Discard)
	if err := handler(context.Background(), Match{Path: "/tmp/a.txt"}); err == nil {
		t.Error("Expected an error for an executable that cannot be started")
	}
}

func TestFindExecReceivesEachMatchOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not runnable on Windows")
	}

	tmpDir := buildTree(t)
	logFile := filepath.Join(t.TempDir(), "seen.log")
	script := writeScript(t, t.TempDir(), `echo "$1" >> `+logFile)

	var out bytes.Buffer
	opts := Options{
		Criteria: Criteria{Name: strPtr("alpha.txt")},
		Stdout:   &out,
		LogLevel: LogLevelError,
	}
	if err := FindExec(context.Background(), tmpDir, opts, script); err != nil {
		t.Fatalf("FindExec failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read script output: %v", err)
	}
	seen := map[string]int{}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		seen[line]++
	}
	for _, want := range []string{
		filepath.Join(tmpDir, "alpha.txt"),
		filepath.Join(tmpDir, "sub", "alpha.txt"),
	} {
		if seen[want] != 1 {
			t.Errorf("Script saw %s %d times, want once", want, seen[want])
		}
	}
	if len(seen) != 2 {
		t.Errorf("Script saw %d distinct paths, want 2: %v", len(seen), seen)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no printed paths when an executable is configured, got %q", out.String())
	}
}

func TestFindExecFailureDoesNotAbort(t *testing.T) {
	tmpDir := buildTree(t)

	stats := &Stats{}
	opts := Options{
		Criteria: Criteria{Name: strPtr("alpha.txt")},
		Stats:    stats,
		LogLevel: LogLevelError,
	}
	err := FindExec(context.Background(), tmpDir, opts, filepath.Join(tmpDir, "no-such-binary"))
	if err != nil {
		t.Fatalf("A failing executable should not abort the search, got %v", err)
	}
	if stats.ExecErrors != 2 {
		t.Errorf("ExecErrors = %d, want 2", stats.ExecErrors)
	}
	if stats.Matches != 2 {
		t.Errorf("Matches = %d, want 2", stats.Matches)
	}
}
