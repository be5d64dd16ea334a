package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.authService.State().User; u != nil {
		s = u.Email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root probes connectivity, reconciles the cached session and runs the REPL
// until the user exits. The connectivity watcher runs alongside it.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to FishLog CLI (type 'help' for commands)")

	online := a.monitor.ProbeNow(ctx)
	a.authService.SetOnline(online)
	a.setMode(ctx, modeFor(online))

	if err := a.authService.CheckAuth(ctx); err != nil {
		a.logger.Warn(ctx, "initial session check failed", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
