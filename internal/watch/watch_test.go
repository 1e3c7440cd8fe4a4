package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("entries: []\n"), 0o644))

	var fired atomic.Int32
	w, err := NewPlanWatcher(planPath, func() { fired.Add(1) })
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(planPath, []byte("entries:\n  - name: a\n    kind: org\n"), 0o644))

	assert.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond, "watcher should fire after a write")
}

func TestPlanWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte("entries: []\n"), 0o644))

	var fired atomic.Int32
	w, err := NewPlanWatcher(planPath, func() { fired.Add(1) })
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x\n"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "unrelated files must not trigger")
}
