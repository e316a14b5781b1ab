package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	blog "github.com/goliatone/go-blog"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/server"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "blog",
		Short:         "Static blog build and serve toolchain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file (defaults to ./blog.yaml)")

	root.AddCommand(
		newBuildCommand(&configPath),
		newCleanCommand(&configPath),
		newServeCommand(&configPath),
	)
	return root
}

func buildModule(configPath string) (*blog.Module, blog.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}
	module, err := blog.New(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return module, cfg, nil
}

func newBuildCommand(configPath *string) *cobra.Command {
	var (
		slugs  []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the static site into the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := buildModule(*configPath)
			if err != nil {
				return err
			}

			logger := logging.GeneratorLogger(module.Container().LoggerProvider())
			handler := sitecmd.NewBuildSiteHandler(module.Generator(), logger, sitecmd.FeatureGates{
				GeneratorEnabled: func() bool { return cfg.Features.Generator },
			})

			if err := handler.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
				Slugs:  slugs,
				DryRun: dryRun,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "site written to %s\n", cfg.Generator.OutputDir)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&slugs, "slug", nil, "restrict the build to the named posts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing artifacts")
	return cmd
}

func newCleanCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := buildModule(*configPath)
			if err != nil {
				return err
			}

			logger := logging.GeneratorLogger(module.Container().LoggerProvider())
			handler := sitecmd.NewCleanSiteHandler(module.Generator(), logger, sitecmd.FeatureGates{
				GeneratorEnabled: func() bool { return cfg.Features.Generator },
			})

			if err := handler.Execute(cmd.Context(), sitecmd.CleanSiteCommand{}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cfg.Generator.OutputDir)
			return nil
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site and the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := buildModule(*configPath)
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}

			container := module.Container()
			srv, err := server.New(server.Config{
				Addr:            cfg.Server.Addr,
				StaticDir:       cfg.Generator.OutputDir,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				Logger:          logging.ServerLogger(container.LoggerProvider()),
			}, server.Dependencies{
				Posts:       container.PostsService(),
				Search:      container.SearchIndex(),
				Metrics:     container.MetricsService(),
				Books:       container.BooksService(),
				Restaurants: container.RestaurantsService(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address override")
	return cmd
}
