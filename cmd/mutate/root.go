package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/mutations/internal/adapters/clients/notifier"
	"github.com/jsamuelsen11/mutations/internal/app"
	"github.com/jsamuelsen11/mutations/internal/catalog"
	"github.com/jsamuelsen11/mutations/internal/platform/config"
	"github.com/jsamuelsen11/mutations/internal/platform/httpclient"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

const notifierPeer = "notifier"

// cli holds the state shared by every subcommand.
type cli struct {
	out    io.Writer
	errOut io.Writer

	profile   string
	configDir string
	logLevel  string

	// newService builds the service after flags are parsed.
	newService func(ctx context.Context, c *cli) (ports.MutationService, error)
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{out: out, errOut: errOut, newService: configuredService}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "mutate",
		Short:         "Run declared mutations from the command line",
		Long:          `mutate validates arguments against a mutation's declared fields and runs it, printing the result as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = "local"
	}
	root.PersistentFlags().StringVar(&c.profile, "profile", profile, "configuration profile (env APP_PROFILE)")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "configs", "directory holding base.yaml and the profile files")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level from the configuration")

	root.AddCommand(
		newListCmd(c),
		newDescribeCmd(c),
		newRunCmd(c),
		newValidateCmd(c),
	)

	return root
}

// execute runs the root command and reports a failure on errOut.
func execute(ctx context.Context, c *cli, args []string) error {
	root := newRootCmd(c)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(c.errOut, "error: %v\n", err)
		return err
	}
	return nil
}

// configuredService wires the catalog the way the server does, from the
// selected profile.
func configuredService(_ context.Context, c *cli) (ports.MutationService, error) {
	cfg, err := config.Load(c.profile, config.WithConfigDir(c.configDir))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	logger := logging.New(level, cfg.Log.Format, c.errOut)
	slog.SetDefault(logger)

	client := httpclient.New(&cfg.Notifier, notifierPeer, httpclient.WithLogger(logger))
	registry, err := catalog.New(notifier.New(client, logger))
	if err != nil {
		return nil, fmt.Errorf("declaring catalog: %w", err)
	}

	return app.NewMutationService(registry, cfg.Mutations, nil, logger), nil
}
