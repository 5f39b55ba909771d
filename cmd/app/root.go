package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"OptEdge/internal/di"
	"OptEdge/pkg/config"
)

func Execute(ctx context.Context) error {
	var configPath string
	root := &cobra.Command{
		Use:           "optedge",
		Short:         "Option-contract signal and confidence engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")

	load := func() (*di.Runtime, func(), error) {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("config load failed: %w", err)
		}
		rt, cleanup, err := di.InitializeRuntime(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("app initialization failed: %w", err)
		}
		return rt, cleanup, nil
	}

	root.AddCommand(scanCmd(load), regimeCmd(load), serveCmd(load), backfillCmd(load))
	return root.ExecuteContext(ctx)
}

// runtimeLoader builds the dependency graph once the --config flag is parsed.
type runtimeLoader func() (*di.Runtime, func(), error)
