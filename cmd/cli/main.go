package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nomis52/signupboard/board"
	"github.com/nomis52/signupboard/buildinfo"
	"github.com/nomis52/signupboard/clients/activityclient"
	"github.com/nomis52/signupboard/config"
	"github.com/nomis52/signupboard/logging"
	"github.com/nomis52/signupboard/metrics"
)

const (
	commandList   = "list"
	commandSignup = "signup"
)

type Args struct {
	ConfigPath  string
	ShowVersion bool
	Validate    bool
	Command     string
	Activity    string
	Email       string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	if args.ShowVersion {
		showVersion(os.Stdout)
		return nil
	}

	if args.ConfigPath == "" {
		return fmt.Errorf("config flag (-c or --config) is required")
	}

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if args.Validate {
		fmt.Printf("Configuration validation successful: %s\n", args.ConfigPath)
		return nil
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = execute(ctx, cfg, args, registry, logger.Logger, os.Stdout)

	if run, ok := registry.(*metrics.RunRegistry); ok {
		// Push even when interrupted; the run's metrics are already final.
		if perr := run.Push(context.WithoutCancel(ctx)); perr != nil {
			logger.Warn("failed to push metrics", "url", cfg.Monitoring.VictoriaMetricsURL, "error", perr)
		}
	}
	return err
}

// newRegistry collects metrics for a push at the end of the run when a
// remote write URL is configured, and drops them otherwise.
func newRegistry(cfg *config.Config) (metrics.Registry, error) {
	if cfg.Monitoring.VictoriaMetricsURL == "" {
		return metrics.DiscardRegistry{}, nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}
	return metrics.NewRunRegistry(metrics.RunConfig{
		URL:      cfg.Monitoring.VictoriaMetricsURL,
		Prefix:   cfg.Monitoring.MetricsPrefix,
		Job:      cfg.Monitoring.JobName,
		Instance: hostname,
	}), nil
}

// execute runs one command against an in-memory board and prints the
// result to out.
func execute(ctx context.Context, cfg *config.Config, args Args, registry metrics.Registry, logger *slog.Logger, out io.Writer) error {
	client, err := activityclient.New(cfg.Backend.BaseURL,
		activityclient.WithTimeout(cfg.Backend.Timeout),
		activityclient.WithUserAgent(cfg.Backend.UserAgent),
		activityclient.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	m, err := board.NewMetrics(registry)
	if err != nil {
		return err
	}

	page := board.NewPage(logger)
	loader := board.NewLoader(client, page, page,
		board.WithLoaderLogger(logger),
		board.WithLoaderMetrics(m),
	)

	switch args.Command {
	case commandList:
		err := loader.Load(ctx)
		printBoard(out, page.Snapshot())
		return err

	case commandSignup:
		signup := board.NewSignupHandler(client, page, page, loader,
			// The process exits long before a message would be hidden.
			board.WithAfterFunc(func(time.Duration, func()) {}),
			board.WithSignupLogger(logger),
			board.WithSignupMetrics(m),
		)
		page.SetValues(args.Email, args.Activity)
		outcome := signup.Submit(ctx)

		snap := page.Snapshot()
		printMessage(out, snap.Message)
		if outcome != board.OutcomeSuccess {
			return errors.New("signup did not succeed")
		}
		printBoard(out, snap)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args.Command)
	}
}

func showVersion(w io.Writer) {
	props := buildinfo.Get()
	fmt.Fprintf(w, "signupboard-cli %s\n", props.Version)
	fmt.Fprintf(w, "Built: %s\n", props.BuildTime)
	fmt.Fprintf(w, "Commit: %s\n", props.GitCommit)
}

func parseArgs(argv []string) (Args, error) {
	fs := flag.NewFlagSet("signupboard-cli", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	configPathShort := fs.String("c", "", "Path to config file (shorthand)")
	showVersion := fs.Bool("version", false, "Show version information")
	versionShort := fs.Bool("v", false, "Show version information (shorthand)")
	validate := fs.Bool("validate", false, "Validate configuration and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: signupboard-cli [options] list\n")
		fmt.Fprintf(out, "       signupboard-cli [options] signup -activity NAME -email EMAIL\n")
		fmt.Fprintf(out, "\nActivity signup board client\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  signupboard-cli -c config.yaml list\n")
		fmt.Fprintf(out, "  signupboard-cli -c config.yaml signup -activity \"Chess Club\" -email jane@mergington.edu\n")
		fmt.Fprintf(out, "  signupboard-cli --config config.yaml --validate\n")
	}

	if err := fs.Parse(argv); err != nil {
		return Args{}, err
	}

	args := Args{
		ConfigPath:  *configPath,
		ShowVersion: *showVersion || *versionShort,
		Validate:    *validate,
		Command:     commandList,
	}
	if args.ConfigPath == "" {
		args.ConfigPath = *configPathShort
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return args, nil
	}
	args.Command = rest[0]

	switch args.Command {
	case commandList:
		if len(rest) > 1 {
			return Args{}, fmt.Errorf("list takes no arguments")
		}
	case commandSignup:
		sub := flag.NewFlagSet(commandSignup, flag.ContinueOnError)
		sub.StringVar(&args.Activity, "activity", "", "Activity to sign up for")
		sub.StringVar(&args.Email, "email", "", "Student email")
		if err := sub.Parse(rest[1:]); err != nil {
			return Args{}, err
		}
	default:
		return Args{}, fmt.Errorf("unknown command %q", args.Command)
	}
	return args, nil
}
