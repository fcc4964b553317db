package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/config"
	"github.com/BuzzLyutic/serverless-todo/internal/function"
	"github.com/BuzzLyutic/serverless-todo/internal/repo"
	"github.com/BuzzLyutic/serverless-todo/internal/service"
)

// app is what every command runs against once the root has resolved the
// configuration.
type app struct {
	configPath string
	overrides  config.Config

	cfg     config.Config
	logger  *zap.Logger
	service *service.TaskService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "A minimal to-do list backed by a local file or a serverless function",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a TOML config file (default "+config.DefaultFile+")")
	flags.StringVar(&a.overrides.Backend, "backend", "", "Store backend: local or remote")
	flags.StringVar(&a.overrides.DataFile, "data-file", "", "Local store file")
	flags.StringVar(&a.overrides.FunctionURL, "function-url", "", "Base URL of the function server")
	flags.StringVar(&a.overrides.TableName, "table", "", "Remote table name")
	flags.StringVar(&a.overrides.FunctionName, "function", "", "Remote function name")
	flags.StringVar(&a.overrides.Invoker, "invoker", "", "Remote invoker: http or lambda")
	flags.StringVar(&a.overrides.Region, "region", "", "AWS region for the lambda invoker")

	root.AddCommand(
		newTUICmd(a),
		newAddCmd(a),
		newListCmd(a),
		newCompleteCmd(a),
		newDeleteCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg = a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	// Without a log file the terminal belongs to the command output.
	if cfg.LogFile == "" {
		a.logger = zap.NewNop()
	} else if a.logger, err = cfg.Logger(); err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, a.logger)
	if err != nil {
		return err
	}
	a.service = service.NewTaskService(store, a.logger)
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("backend", &cfg.Backend, a.overrides.Backend)
	set("data-file", &cfg.DataFile, a.overrides.DataFile)
	set("function-url", &cfg.FunctionURL, a.overrides.FunctionURL)
	set("table", &cfg.TableName, a.overrides.TableName)
	set("function", &cfg.FunctionName, a.overrides.FunctionName)
	set("invoker", &cfg.Invoker, a.overrides.Invoker)
	set("region", &cfg.Region, a.overrides.Region)
	return cfg
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.TaskStore, error) {
	if cfg.Backend == config.BackendLocal {
		return repo.NewLocalStore(cfg.DataFile, logger), nil
	}

	var invoker repo.Invoker
	switch cfg.Invoker {
	case config.InvokerLambda:
		li, err := repo.OpenLambdaInvoker(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		invoker = li
	default:
		invoker = repo.NewHTTPInvoker(cfg.FunctionURL, cfg.RequestTimeout.Duration)
	}

	table := cfg.TableName
	if table == "" {
		table = function.DefaultTableName
	}
	return repo.NewRemoteStore(repo.RemoteConfig{
		TableName:    table,
		FunctionName: cfg.FunctionName,
	}, invoker, logger), nil
}

func (a *app) describe() string {
	if a.cfg.Backend == config.BackendLocal {
		return fmt.Sprintf("local file %s", a.cfg.DataFile)
	}
	return fmt.Sprintf("function %s (table %s)", a.cfg.FunctionName, a.cfg.TableName)
}
