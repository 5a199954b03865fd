package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/config"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreDSN = ":memory:"
	c.ServerBaseURL = "http://127.0.0.1:1"
	c.RefreshInterval = 0
	c.LogLevel = "error"
	return c
}

func TestApp_RunUntilExit(t *testing.T) {
	var out, logs bytes.Buffer
	a, err := NewApp(context.Background(), testConfig(), strings.NewReader("exit\n"), &out, &logs)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after exit")
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	var out, logs bytes.Buffer
	// no input at all: the shell sees EOF and returns, or the cancel wins
	a, err := NewApp(context.Background(), testConfig(), strings.NewReader(""), &out, &logs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewApp_StoreDirCannotBeCreated(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	c := testConfig()
	c.StoreDSN = filepath.Join(blocker, "s.db")
	_, err := NewApp(context.Background(), c, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewApp_MetricsRegistryCarriesRuntimeCollectors(t *testing.T) {
	c := testConfig()
	c.MetricsAddr = "127.0.0.1:0"
	a, err := NewApp(context.Background(), c, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.db.Close() })

	families, err := a.metrics.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["go_goroutines"], "go collector missing")
}

func TestNewApp_MetricsDisabledHasNoRegistry(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.db.Close() })

	require.Nil(t, a.metrics.Registry())
}
