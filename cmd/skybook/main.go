package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"skybook/internal/session"
	"skybook/pkg/client"
	"skybook/pkg/logger"

	"github.com/joho/godotenv"
)

const usage = `usage: skybook <command> [flags]

commands:
  register   create an account
  login      sign in
  logout     sign out
  whoami     show the signed-in user
  nav        show the header menu for the current session
  flights    list all flights
  search     search flights (-origin, -destination, -date YYYY-MM-DD)
  quote      price a fare (-flight, -passengers, -class)
  book       book a seat (-flight id or number, -name, -seat)
  bookings   list your bookings
  cancel     cancel a booking (-id)
  profile    show or update your profile (-first, -last)
  admin      admin dashboard: list, stats, server-stats, create, edit, delete
`

// app wires the client, the session provider and the output writer
type app struct {
	api      *client.Client
	sessions *session.Provider
	out      io.Writer
}

func main() {
	_ = godotenv.Load()
	logger.SetDefault(logger.NewWithWriter(os.Stderr, envOr("LOG_LEVEL", "warn")))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	storePath := os.Getenv("SKYBOOK_SESSION_FILE")
	if storePath == "" {
		path, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		storePath = path
	}

	api, err := client.New(envOr("SKYBOOK_API_URL", "http://localhost:8080/api"),
		client.WithTokenStore(client.NewFileTokenStore(storePath)),
	)
	if err != nil {
		return err
	}

	a := &app{api: api, sessions: session.NewProvider(api), out: out}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.sessions.Run(runCtx)

	if err := a.waitForSession(runCtx, 5*time.Second); err != nil {
		return err
	}

	handler, ok := commands[command]
	if !ok {
		return usageError(fmt.Sprintf("unknown command %q", command))
	}
	return handler(runCtx, a, args)
}

// waitForSession blocks until the initial session is applied and, for a
// signed-in user, the profile has loaded or the timeout passes
func (a *app) waitForSession(ctx context.Context, timeout time.Duration) error {
	settled := func(s session.State) bool {
		return s.Ready && (!s.IsAuthenticated() || s.Profile != nil)
	}

	watchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	updates := a.sessions.Watch(watchCtx)

	if settled(a.sessions.Snapshot()) {
		return nil
	}
	for {
		select {
		case state, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// profile did not arrive in time; carry on without it
				return nil
			}
			if settled(state) {
				return nil
			}
		case <-watchCtx.Done():
			return nil
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
