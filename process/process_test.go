package process_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/epsilon-records/audiokit/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	out := strings.TrimSpace(string(result.Stdout))
	if out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(result.Stdout)
	if out != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", out)
	}
}

func TestRunExitCode(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}
}

func TestRunErrorCarriesStderr(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo 'loading model' >&2; echo 'CUDA out of memory' >&2; exit 1"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("error should carry stderr tail, got %q", err.Error())
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	if err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestStderrTail(t *testing.T) {
	r := &process.Result{Stderr: []byte("one\ntwo\n\nthree\nfour\n")}
	got := process.StderrTail(r, 3)
	if got != "two; three; four" {
		t.Fatalf("StderrTail = %q", got)
	}
	if process.StderrTail(nil, 3) != "" {
		t.Fatal("nil result should yield empty tail")
	}
}

func TestToolRun(t *testing.T) {
	tool := &process.Tool{
		Name:     "echo",
		Binary:   "echo",
		BaseArgs: []string{"base"},
	}
	result, err := tool.Run(context.Background(), []string{"extra"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "base extra" {
		t.Fatalf("expected 'base extra', got %q", out)
	}
}

func TestToolTimeout(t *testing.T) {
	tool := &process.Tool{
		Name:        "sleep",
		Binary:      "sleep",
		Timeout:     100 * time.Millisecond,
		GracePeriod: 500 * time.Millisecond,
	}
	if _, err := tool.Run(context.Background(), []string{"10"}, nil); err == nil {
		t.Fatal("expected timeout error")
	}
}
