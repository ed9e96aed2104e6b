package main

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/logging"
)

type serveOptions struct {
	EnvFiles []string
	File     string
	Port     string
}

func newServeCommand() *cobra.Command {
	cmdOpts := &serveOptions{}

	cmd := &cobra.Command{
		Use:               "serve",
		Short:             "Serve the read-only container inspector",
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdOpts.run(cmd.Context())
		},
	}
	cmd.Flags().StringSliceVar(&cmdOpts.EnvFiles, "env-file", nil, "Env files to load (default .env)")
	cmd.Flags().StringVarP(&cmdOpts.File, "file", "f", "", "Container file; overrides CONTAINER_FILE")
	cmd.Flags().StringVar(&cmdOpts.Port, "port", "", "Port to listen on; overrides APP_PORT")

	return cmd
}

func (o *serveOptions) run(ctx context.Context) error {
	cfg, err := config.Load(o.EnvFiles...)
	if err != nil {
		return err
	}
	if o.File != "" {
		cfg.Container.File = o.File
	}
	if o.Port != "" {
		cfg.App.Port = o.Port
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger.Info(
		"Starting container inspector",
		"version", app.Version,
		"GOMAXPROCS", runtime.GOMAXPROCS(0),
		"GOMEMLIMIT", config.Get("GOMEMLIMIT", ""),
	)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	return application.Run(logging.ContextWithLogger(ctx, logger))
}
