package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/models"
	"github.com/miguelherrera-611/vetclinic/internal/client/services"
	"github.com/stretchr/testify/assert"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func TestIsLoggedIn(t *testing.T) {
	f := &fakeAuth{state: services.State{Status: services.StatusUnauthenticated}}
	a, _ := newTestApp(f)
	assert.False(t, a.isLoggedIn())

	f.state = services.State{Status: services.StatusAuthenticated, Profile: &models.UserProfile{Username: "ana"}}
	assert.True(t, a.isLoggedIn())
}

func TestBeforeCommand_SignedOutStillAsksForRefresh(t *testing.T) {
	f := &fakeAuth{state: services.State{Status: services.StatusUnauthenticated}}
	a, _ := newTestApp(f)

	a.beforeCommand(context.Background())

	assert.Equal(t, 0, f.clearCalls)
	assert.Equal(t, 1, f.refreshCalls)
}

func TestStartRefreshWatcher_ZeroIntervalReturns(t *testing.T) {
	a, _ := newTestApp(&fakeAuth{})
	done := make(chan struct{})
	go func() {
		a.StartRefreshWatcher(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher with zero interval should return immediately")
	}
}

// countingAuth counts refreshes without racing the watcher goroutine.
type countingAuth struct {
	fakeAuth
	ticks chan struct{}
}

func (c *countingAuth) RefreshIfExpiring(context.Context) error {
	select {
	case c.ticks <- struct{}{}:
	default:
	}
	return nil
}

func TestStartRefreshWatcher_TicksUntilCancelled(t *testing.T) {
	ca := &countingAuth{ticks: make(chan struct{}, 1)}
	a := NewApp(ca, strings.NewReader(""), io.Discard, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartRefreshWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-ca.ticks:
	case <-time.After(time.Second):
		t.Fatal("watcher never refreshed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
