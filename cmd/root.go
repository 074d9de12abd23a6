package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	projectapp "ddd-skeleton/application/project"
	"ddd-skeleton/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Execute runs the skeleton command line
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "skeleton",
		Short:        "Project ledger built on a layered domain skeleton",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")

	cmd.AddCommand(serveCmd(&configPath))
	cmd.AddCommand(projectCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, cancel := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := NewBuilder(cfg).Build(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides server.port")
	return cmd
}

func projectCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run project intents against the configured store",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")

	cmd.AddCommand(projectShowCmd(configPath, &output))
	cmd.AddCommand(projectCreateCmd(configPath, &output))
	return cmd
}

func projectShowCmd(configPath, output *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("project id must be an integer: %w", err)
			}

			return withIntents(c.Context(), *configPath, func(intents *Intents) error {
				resp, err := intents.GetProject.Execute(c.Context(), id)
				if err != nil {
					return err
				}
				return render(c.OutOrStdout(), *output, resp)
			})
		},
	}
}

func projectCreateCmd(configPath, output *string) *cobra.Command {
	var req projectapp.CreateProjectRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project and notify its owners",
		RunE: func(c *cobra.Command, _ []string) error {
			return withIntents(c.Context(), *configPath, func(intents *Intents) error {
				resp, err := intents.CreateProject.Execute(c.Context(), req)
				if resp == nil {
					return err
				}
				if renderErr := render(c.OutOrStdout(), *output, resp); renderErr != nil {
					return renderErr
				}
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&req.ID, "id", 0, "project id")
	cmd.Flags().StringVar(&req.Name, "name", "", "project name")
	cmd.Flags().Int64Var(&req.Budget, "budget", 0, "initial budget in minor units")
	cmd.Flags().StringSliceVar(&req.Owners, "owner", nil, "owner e-mail, repeatable")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// withIntents 命令行不初始化全局日志，标准输出只留给结果
func withIntents(ctx context.Context, configPath string, fn func(*Intents) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := NewBuilder(cfg).WithoutLoggerInit().Build(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app.Intents())
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
