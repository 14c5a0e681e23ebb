package process

import (
	"context"
	"io"
	"time"
)

// Tool is a configured model binary: the resolved executable plus the
// defaults every invocation shares.
type Tool struct {
	// Name is the logical tool name (e.g. "demucs", "whisper").
	Name string
	// Binary is the executable path or name.
	Binary string
	// BaseArgs are prepended to every invocation.
	BaseArgs []string
	// Dir is the working directory for invocations.
	Dir string
	// Env is additional environment (key=value) for invocations.
	Env []string
	// Timeout bounds each invocation. Zero means the caller's context rules.
	Timeout time.Duration
	// GracePeriod is the SIGTERM-to-SIGKILL window.
	GracePeriod time.Duration
}

// Run invokes the tool with the given arguments appended to BaseArgs.
func (t *Tool) Run(ctx context.Context, args []string, stdin io.Reader) (*Result, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	return Run(ctx, Command{
		Binary:      t.Binary,
		Args:        append(append([]string{}, t.BaseArgs...), args...),
		Dir:         t.Dir,
		Env:         t.Env,
		Stdin:       stdin,
		GracePeriod: t.GracePeriod,
	})
}
