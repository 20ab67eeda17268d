// Package testutil provides the shared harness for end-to-end tests: it
// materializes a project document in a temp directory and runs the full
// application over it.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/benchplan/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an end-to-end run.
type HarnessResult struct {
	Output string
	Err    error
}

// RunPlanTest writes the project document to a temp directory and runs the
// application over it. The filename's extension selects the loader, exactly
// as it does for a real invocation.
func RunPlanTest(t *testing.T, filename, content string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := app.NewConfig(app.Config{
		ProjectPath: path,
		LogFormat:   "text",
		LogLevel:    "error",
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	var out SafeBuffer
	a := app.NewApp(&out, cfg)
	runErr := a.Run(context.Background())
	return &HarnessResult{Output: out.String(), Err: runErr}
}
