package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/client/client"
	"github.com/krsnavtr-code/Pass-Manager/internal/client/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/client/session"
)

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer

	mu          sync.Mutex
	userName    string
	watcher     *session.Watcher
	stopWatcher context.CancelFunc
}

func NewApp(c *config.Config) *App {
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return newApp(c, api, bufio.NewReader(os.Stdin), os.Stdout)
}

func newApp(c *config.Config, api client.Client, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, api: api, reader: r, out: w}
}

func (a *App) Run(ctx context.Context) {
	defer a.stopSessionWatcher()
	a.Root(ctx)
}

func (a *App) Root(ctx context.Context) {
	a.println("Welcome to Pass-Manager CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.api.Ping(pingCtx); err != nil {
		a.println("Warning: server is not reachable:", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) getStatus() string {
	a.mu.Lock()
	name, w := a.userName, a.watcher
	a.mu.Unlock()

	if name == "" || !a.isLoggedIn() {
		return ""
	}
	if w == nil {
		return fmt.Sprintf("(%s)", name)
	}
	return fmt.Sprintf("(%s %s left)", name, formatRemaining(w.Remaining()))
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// startSessionWatcher replaces any running watcher with a new one bound to
// the current login.
func (a *App) startSessionWatcher(ctx context.Context, userName string) {
	a.stopSessionWatcher()

	wctx, cancel := context.WithCancel(ctx)
	w := session.NewWatcher(a.api, a.config.SessionPollInterval).
		OnWarning(func(remaining time.Duration) {
			a.printf("\nYour session expires in %s. Log in again to extend it.\n", formatRemaining(remaining))
		}).
		OnExpired(func(reason error) {
			a.println("\nSession expired, please log in again.")
			a.forceLogout()
		}).
		OnError(func(err error) {
			a.println("\nCould not check session:", err)
		})

	a.mu.Lock()
	a.userName = userName
	a.watcher = w
	a.stopWatcher = cancel
	a.mu.Unlock()

	go w.Run(wctx)
}

func (a *App) stopSessionWatcher() {
	a.mu.Lock()
	cancel := a.stopWatcher
	a.stopWatcher, a.watcher = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// forceLogout drops the token and the user name. It is safe to call from
// the watcher goroutine.
func (a *App) forceLogout() {
	a.api.Logout()
	a.mu.Lock()
	a.userName = ""
	a.mu.Unlock()
}

// report prints err. A 401 while logged in means the token or session is
// gone, so the user is logged out; every other error leaves the login alone.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		a.stopSessionWatcher()
		a.forceLogout()
		a.println("Error:", err, "- you have been logged out.")
		return err
	}
	a.println("Error:", err)
	return err
}
