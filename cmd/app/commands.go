package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/remediation/cmd/app/commands"
	"github.com/allisson/remediation/internal/app"
	"github.com/allisson/remediation/internal/config"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server, the metrics server and the remediation worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply alert store migrations, or roll some back with --down",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "dir",
					Value: "migrations",
					Usage: "Directory holding the postgresql and mysql migration sets",
				},
				&cli.IntFlag{
					Name:  "down",
					Usage: "Number of migrations to roll back",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), commands.MigrateOptions{
					Driver:           cfg.DBDriver,
					ConnectionString: cfg.DBConnectionString,
					Dir:              cmd.String("dir"),
					Down:             int(cmd.Int("down")),
				})
			},
		},
		{
			Name:  "remediate",
			Usage: "Enqueue one payload and process it synchronously",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "payload",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Path to a JSON payload file, or '-' to read from stdin",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.RemediationUseCase()
				if err != nil {
					return err
				}

				return commands.RunRemediate(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("payload"),
					cmd.String("format"),
				)
			},
		},
	}
}
