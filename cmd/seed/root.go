package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/okian/extrack/internal/seed"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultUsers     = 10
	defaultExercises = 20
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultDays      = 30
	defaultTimeout   = 10 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

type rootOptions struct {
	baseURL   string
	users     int
	exercises int
	workers   int
	start     string
	days      int
	timeout   time.Duration
	runLimit  time.Duration
	output    string
	logFile   string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed and verify a running exercise tracker",
		Long: `Seed creates users against a running exercise tracker, logs exercises
for them over a pool of concurrent workers, then verifies every user's log:
the full count, a from/to date window and the limit parameter.

EXAMPLES:

  $ seed --users 50 --exercises 100 --workers 16
  $ seed --url http://localhost:8080 --start 2024-03-01 --days 14`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "url", "http://localhost:3000", "base URL of the service")
	f.IntVar(&opts.users, "users", defaultUsers, "number of users to create")
	f.IntVar(&opts.exercises, "exercises", defaultExercises, "exercises logged per user")
	f.IntVar(&opts.workers, "workers", runtime.NumCPU()*defaultWorkers, "number of concurrent workers")
	f.StringVar(&opts.start, "start", "2024-01-01", "first date of the exercise window (YYYY-MM-DD)")
	f.IntVar(&opts.days, "days", defaultDays, "length of the exercise window in days")
	f.DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.DurationVar(&opts.runLimit, "run-limit", defaultRunLimit, "upper bound for the whole run")
	f.StringVar(&opts.output, "output", "", "write the seeded plan to this JSON file")
	f.StringVar(&opts.logFile, "log", "", "also write log output to this file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

func runSeed(ctx context.Context, out io.Writer, opts *rootOptions) error {
	startDate, err := time.Parse(time.DateOnly, opts.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}

	closer, err := seed.SetupLogging(opts.logFile, opts.verbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.runLimit)
	defer cancel()

	stats, err := seed.Run(ctx, &seed.Config{
		BaseURL:          opts.baseURL,
		Users:            opts.users,
		ExercisesPerUser: opts.exercises,
		Workers:          opts.workers,
		Timeout:          opts.timeout,
		Start:            startDate,
		Days:             opts.days,
		OutputFile:       opts.output,
		Verbose:          opts.verbose,
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "✗ Seed run failed\n")
		return err
	}

	color.New(color.FgGreen).Fprintf(out, "✓ Seeded %d users with %d exercises, %d verified\n",
		stats.UsersCreated, stats.ExercisesSubmitted, stats.UsersVerified)
	fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(stats.Duration.Round(time.Millisecond)))
	return nil
}
