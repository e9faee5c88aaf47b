// Package cli implements the netmanager command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/netmanager/client"
	"github.com/adamwoolhether/netmanager/internal/config"
)

var version = "0.1.0"

// Execute runs the root command against the process's arguments and
// returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}

// NewRootCmd assembles the command tree. Normal output goes to out;
// logs and errors go to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:     "netmanager",
		Short:   "Issue JSON requests and downloads against a base URL",
		Version: version,
		Long: `netmanager sends GET, POST, PUT and DELETE requests relative to a
configured base URL, decodes JSON responses, and downloads files with
chunked progress reporting.

Settings come from flags, NETMANAGER_* environment variables, a .env
file and an optional netmanager.yaml, in that order of precedence.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String(config.KeyBaseURL, "", "Base URL every path is resolved against")
	pf.Duration(config.KeyTimeout, 10*time.Second, "Per-request timeout, 0 disables it")
	pf.String(config.KeyLogLevel, "info", "Log level: debug, info, warn or error")
	pf.String(config.KeyUserAgent, "netmanager/"+version, "User-Agent header sent with every request")
	pf.String(config.KeyRequestID, "X-Request-Id", "Header stamped with a generated request id")
	pf.Int(config.KeyMaxInFlight, 0, "Maximum concurrent requests, 0 for unlimited")
	pf.Bool(config.KeyNoColor, false, "Disable colored output")
	pf.String(config.KeyConfigFile, "", "Config file, defaults to ./netmanager.yaml when present")
	pf.String(config.KeyEnvFile, ".env", "Env file loaded before reading the environment")

	root.AddCommand(
		newGetCmd(),
		newWriteCmd("post", "Send a POST request with a JSON body", client.PostAsync[jsonBody]),
		newWriteCmd("put", "Send a PUT request with a JSON body", client.PutAsync[jsonBody]),
		newWriteCmd("delete", "Send a DELETE request", client.DeleteAsync[jsonBody]),
		newDownloadCmd(),
	)

	return root
}

// env is what every subcommand needs at run time.
type env struct {
	client  *client.Client
	printer *printer
	logger  *slog.Logger
}

// setup resolves configuration for cmd and builds the client through a
// Shared slot, the same way a long-running consumer would.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithMaxInFlight(cfg.MaxInFlight),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.RequestIDHeader != "" {
		opts = append(opts, client.WithRequestID(cfg.RequestIDHeader))
	}

	c, err := client.NewShared(opts...).Client(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	return &env{
		client:  c,
		printer: newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NoColor),
		logger:  logger,
	}, nil
}
