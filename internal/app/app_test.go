package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/api/apitest"
	"github.com/dori/weektodo/internal/config"
	"github.com/dori/weektodo/internal/model"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		Retry:   config.RetryConfig{Attempts: 1, BaseDelay: time.Millisecond},
		DataDir: dir,
		Log:     config.LogConfig{Level: "debug", File: filepath.Join(dir, "weektodo.log")},
		UI:      config.UIConfig{Theme: "nord", StartView: "week"},
	}
}

func TestSingleInstanceLock(t *testing.T) {
	cfg := testConfig(t, "http://localhost:5000")

	first, err := New(cfg, Options{Interactive: true})
	require.NoError(t, err)
	defer first.Close()

	_, err = New(cfg, Options{Interactive: true})
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	cli, err := New(cfg, Options{})
	require.NoError(t, err, "commands do not take the lock")
	assert.Nil(t, cli.DB)
	require.NoError(t, cli.Close())
}

func TestInteractiveAppCachesSnapshots(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SeedTask(model.Task{Title: "remote", Date: "2024-01-05", Color: model.ColorBlue})

	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	a, err := New(cfg, Options{Interactive: true})
	require.NoError(t, err)
	require.NoError(t, a.Store.Load(ctx))
	require.NoError(t, a.Close())

	// A second run renders from the cache before the remote answers.
	b, err := New(cfg, Options{Interactive: true})
	require.NoError(t, err)
	defer b.Close()
	b.Warm(ctx)
	snap := b.Store.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "remote", snap.Tasks[0].Title)
}
