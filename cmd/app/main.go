package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/cuppa/internal"
	pkgconfig "github.com/starford/cuppa/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func main() {
	cmd := &cli.Command{
		Name:   "cuppa",
		Usage:  "Count the cups of coffee you drink each day",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and event stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:   "add",
				Usage:  "Record a cup for today",
				Flags:  []cli.Flag{halfFlag()},
				Action: withEnv(addCup),
			},
			{
				Name:   "pop",
				Usage:  "Remove today's last cup",
				Action: withEnv(popCup),
			},
			{
				Name:   "change",
				Usage:  "Replace today's last cup",
				Flags:  []cli.Flag{halfFlag()},
				Action: withEnv(changeCup),
			},
			{
				Name:   "dec",
				Usage:  "Take one cup off today",
				Action: withEnv(decCup),
			},
			{
				Name:   "reset",
				Usage:  "Reset today's tally",
				Action: withEnv(resetToday),
			},
			{
				Name:   "today",
				Usage:  "Show today's tally",
				Action: withEnv(showToday),
			},
			{
				Name:  "week",
				Usage: "Show cups per day for a week",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "Any day of the week, YYYY-MM-DD (default today)",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Weeks to move from --date; negative goes back",
					},
				},
				Action: withEnv(showWeek),
			},
			{
				Name:   "dates",
				Usage:  "List every day with activity",
				Action: withEnv(listDates),
			},
			{
				Name:   "dump",
				Usage:  "Print every stored key with its raw value",
				Action: withEnv(dump),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
