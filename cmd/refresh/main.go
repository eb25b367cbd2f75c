// Command refresh runs update jobs by hand.
//
// Usage:
//
//	refresh all
//	refresh team eclot
//	refresh team eclot --save
//	refresh player https://lolpros.gg/player/goksi --alt GoksiSmurf#eune
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lolstats/ingestion/internal/config"
	"lolstats/ingestion/internal/pipeline"
	"lolstats/ingestion/internal/repository"
	"lolstats/ingestion/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "refresh",
		Short:        "Refresh team and player statistics by hand",
		SilenceUsage: true,
	}

	root.AddCommand(allCmd())
	root.AddCommand(teamCmd())
	root.AddCommand(playerCmd())
	return root
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run one full update of every team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
				p, err := pipeline.New(ctx, cfg, nil)
				if err != nil {
					return err
				}

				result, err := p.Updater(scheduler.NewDBStore(db)).RunOnce(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "teams updated: %d, failed: %d, players updated: %d, skipped: %d\n",
					result.Teams, result.FailedTeams, result.Players, result.SkippedPlayers)
				if result.FailedTeams > 0 {
					return fmt.Errorf("%d teams failed", result.FailedTeams)
				}
				return nil
			})
		},
	}
}

func teamCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "team <query>",
		Short: "Print a team's aggregated picks and bans",
		Long:  "Aggregates the match history for the given team name fragment. With --save the team row whose queryname matches is updated, players included.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			if save {
				return withDatabase(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
					p, err := pipeline.New(ctx, cfg, nil)
					if err != nil {
						return err
					}
					stats, err := p.Updater(scheduler.NewDBStore(db)).RefreshTeam(ctx, query)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), stats)
				})
			}

			return withConfig(withoutPlayerStats, func(ctx context.Context, cfg *config.Config) error {
				p, err := pipeline.New(ctx, cfg, nil)
				if err != nil {
					return err
				}
				stats, err := p.Teams.TeamData(ctx, query)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the result to the database")
	return cmd
}

func playerCmd() *cobra.Command {
	var alts []string
	cmd := &cobra.Command{
		Use:   "player <lolpros-url>",
		Short: "Print a player's accounts and recent champion history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(withPlayerStats, func(ctx context.Context, cfg *config.Config) error {
				p, err := pipeline.New(ctx, cfg, nil)
				if err != nil {
					return err
				}
				data, err := p.Players.PlayerData(ctx, args[0], alts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), data)
			})
		},
	}
	cmd.Flags().StringSliceVar(&alts, "alt", nil, "Extra account as name#server (repeatable)")
	return cmd
}

func withoutPlayerStats(cfg *config.Config) { cfg.EnablePlayerStats = false }

func withPlayerStats(cfg *config.Config) { cfg.EnablePlayerStats = true }

// withConfig loads configuration, applies prepare, validates the upstream
// source settings and runs fn with a context cancelled on SIGINT/SIGTERM.
// Database settings are only checked by withDatabase.
func withConfig(prepare func(cfg *config.Config), fn func(ctx context.Context, cfg *config.Config) error) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if prepare != nil {
		prepare(cfg)
	}
	if err := cfg.ValidateSources(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, cfg)
}

// withDatabase is withConfig plus a database connection
func withDatabase(fn func(ctx context.Context, cfg *config.Config, db *repository.Database) error) error {
	return withConfig(nil, func(ctx context.Context, cfg *config.Config) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		db, err := repository.NewDatabase(ctx, repository.Config{
			DSN:      cfg.DatabaseDSN(),
			Host:     cfg.DatabaseHost,
			Database: cfg.DatabaseName,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Health(ctx); err != nil {
			return err
		}
		return fn(ctx, cfg, db)
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
