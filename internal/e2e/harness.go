// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It runs the real command tree against the process stdin and stdout inside
// an isolated working directory.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/klauern/syncinclude/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands inside a temporary working directory.
type Harness struct {
	t       *testing.T
	workDir string
}

// NewHarness creates a harness whose working directory and HOME are fresh
// temporary directories. Environment overrides of the configuration are
// cleared for the duration of the test.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{t: t, workDir: t.TempDir()}
	t.Chdir(h.workDir)
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"SYNC_INCLUDE_MODULE_START", "SYNC_INCLUDE_MODULE_END", "SYNC_INCLUDE_MODULE_FILE"} {
		t.Setenv(key, "")
	}
	return h
}

// SetEnv sets an environment variable for commands run through this harness.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// WorkDir returns the working directory commands run in.
func (h *Harness) WorkDir() string {
	return h.workDir
}

// Run executes a CLI command with no input on stdin.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.RunWithStdin("", args...)
}

// RunWithStdin executes a CLI command feeding stdin to it and captures its
// standard output. Colors are always disabled.
func (h *Harness) RunWithStdin(stdin string, args ...string) *Result {
	h.t.Helper()

	args = append([]string{"syncinclude", "--no-color"}, args...)

	oldStdin := os.Stdin
	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdin pipe: %v", err)
	}
	go func() {
		defer func() {
			_ = stdinW.Close()
		}()
		_, _ = stdinW.WriteString(stdin)
	}()
	os.Stdin = stdinR

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Drain stdout while the command runs so a large diff cannot fill the
	// pipe buffer and block.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdin = oldStdin
	os.Stdout = oldStdout
	_ = stdinR.Close()

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
