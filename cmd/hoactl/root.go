package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jo-hoe/hoasite/internal/core"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath  string
	environment string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "hoactl",
		Short:        "Operate the HOA website: residents, finance imports and deployment",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: CONFIG_PATH, config/<env>.yaml or config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.environment, "env", "e", "", "environment, dev or prod (default: HOA_ENV or dev)")

	cmd.AddCommand(
		newUserCommand(opts),
		newFinanceCommand(opts),
		newManifestsCommand(opts),
		newConfigCommand(opts),
	)
	return cmd
}

// loadConfig reads the env files and the config file the same way the server
// does.
func (o *rootOptions) loadConfig() (*core.ServiceConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	environment := o.environment
	if environment == "" {
		environment = core.Environment()
	}
	if err := core.LoadEnvFiles(cwd, environment); err != nil {
		return nil, err
	}
	if o.environment != "" {
		if err := os.Setenv(core.EnvPrefix+"ENV", o.environment); err != nil {
			return nil, err
		}
	}
	path := o.configPath
	if path == "" {
		path = core.ConfigPath(cwd, environment)
	}
	config, err := core.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// openCore opens the store without the finance import the server runs at
// start, and with an in-process session store.
func (o *rootOptions) openCore(ctx context.Context) (*core.CoreService, error) {
	config, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	config.Finance = core.Finance{}
	config.Admin = core.Admin{}
	config.Session.Store = "memory"
	svc, err := core.NewCoreService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open site data: %w", err)
	}
	return svc, nil
}
