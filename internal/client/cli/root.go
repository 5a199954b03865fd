package cli

import (
	"context"
	"fmt"

	"github.com/miguelherrera-611/vetclinic/internal/client/authz"
	"github.com/miguelherrera-611/vetclinic/internal/client/services"
)

func (a *App) getStatus() string {
	st := a.authService.State()
	switch st.Status {
	case services.StatusAuthenticated:
		if st.Profile == nil {
			return "(signed in)"
		}
		return fmt.Sprintf("(%s %s)", st.Profile.Username, authz.PrimaryRole(st.Profile))
	case services.StatusError:
		return "(error)"
	case services.StatusAuthenticating:
		return "(...)"
	default:
		return ""
	}
}

// Root greets the user, starts the refresh watcher and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to VetClinic CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartRefreshWatcher(ctx, a.refreshInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
