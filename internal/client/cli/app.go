package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/services"
)

const refreshTimeout = 15 * time.Second

type App struct {
	authService     services.AuthService
	reader          *bufio.Reader
	out             io.Writer
	refreshInterval time.Duration
}

// NewApp builds the CLI over an AuthService, reading commands from in and
// writing command output to out.
func NewApp(as services.AuthService, in io.Reader, out io.Writer, refreshInterval time.Duration) *App {
	return &App{
		authService:     as,
		reader:          bufio.NewReader(in),
		out:             out,
		refreshInterval: refreshInterval,
	}
}

// Run restores the persisted session and then blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	a.authService.Restore(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().IsAuthenticated()
}

// beforeCommand dismisses a stale error and renews an expiring credential.
func (a *App) beforeCommand(ctx context.Context) {
	if a.authService.State().Status == services.StatusError {
		a.authService.ClearError()
	}
	_ = a.authService.RefreshIfExpiring(ctx)
}

// StartRefreshWatcher periodically renews an expiring credential until ctx
// is done.
func (a *App) StartRefreshWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			_ = a.authService.RefreshIfExpiring(rctx)
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
