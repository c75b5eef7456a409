package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/five82/perch/internal/app"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "perch: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "perch",
		Usage: "A terminal client for a self-hosted feed reader",
		Description: `perch polls a feed reader server for subscriptions and entries,
caches them locally so it can start offline, and shows them in a
terminal UI with a menu for subscribing, managing feeds and asking
the server to update.

Flags can be set via environment variables, e.g.:

--config => PERCH_CONFIG=~/.config/perch/config.toml
--debug  => PERCH_DEBUG=true`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "override config path (optional)",
				EnvVars: []string{"PERCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "prefs",
				Usage:   "override preferences path (optional)",
				EnvVars: []string{"PERCH_PREFS"},
			},
			&cli.IntFlag{
				Name:  "poll",
				Usage: "poll interval in seconds (optional, defaults to the config value)",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to this file instead of the configured one",
				EnvVars: []string{"PERCH_LOG_FILE"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				EnvVars: []string{"PERCH_DEBUG"},
			},
		},
		Action: func(c *cli.Context) error {
			opts := app.Options{
				ConfigPath: c.String("config"),
				PrefsPath:  c.String("prefs"),
				LogFile:    c.String("log-file"),
				Debug:      c.Bool("debug"),
			}
			if poll := c.Int("poll"); poll > 0 {
				opts.PollEvery = poll
			}
			return app.Run(c.Context, opts)
		},
	}
}
