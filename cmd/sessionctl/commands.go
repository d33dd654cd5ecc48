package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopify-embedded-app/internal/config"
	"shopify-embedded-app/internal/domain"
	"shopify-embedded-app/internal/infrastructure/repository"
	"shopify-embedded-app/internal/ports"

	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	driver     string
	dsn        string
	timeout    time.Duration
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "sessionctl",
		Short:        "Inspect and manage stored shop sessions",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (defaults to $CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "session store override: sqlite, postgres or mongo")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "database URL override for sqlite/postgres")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "operation timeout")
	cmd.AddCommand(newMigrateCommand(opts), newGetCommand(opts), newDeleteCommand(opts))
	return cmd
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the sessions table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storage()
			if err != nil {
				return err
			}
			if cfg.Driver == config.StoreMongo {
				fmt.Fprintln(cmd.OutOrStdout(), "mongo needs no migration")
				return nil
			}
			db, err := repository.OpenGorm(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sessions table is up to date")
			return nil
		},
	}
}

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <shop>",
		Short: "Print the stored session for a shop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSessions(func(ctx context.Context, sessions ports.SessionRepository) error {
				shop := args[0]
				if err := domain.ValidateShop(shop); err != nil {
					return err
				}
				session, err := sessions.Get(ctx, domain.GetSessionID(shop))
				if err != nil {
					return err
				}
				if session == nil {
					return fmt.Errorf("no session for %s", shop)
				}
				out := struct {
					*domain.Session
					HasToken bool `json:"has_token"`
				}{session, session.Token != nil}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

func newDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <shop>",
		Short: "Delete the stored session for a shop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSessions(func(ctx context.Context, sessions ports.SessionRepository) error {
				shop := args[0]
				if err := domain.ValidateShop(shop); err != nil {
					return err
				}
				deleted, err := sessions.Delete(ctx, domain.GetSessionID(shop))
				if err != nil {
					return err
				}
				if !deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "no session for %s\n", shop)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted session for %s\n", shop)
				return nil
			})
		},
	}
}

func (o *options) storage() (config.StorageConfig, error) {
	path := o.configFile
	if path == "" {
		path = config.FileFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.StorageConfig{}, err
	}
	storage := cfg.Storage
	if o.driver != "" {
		storage.Driver = o.driver
	}
	if o.dsn != "" {
		storage.DatabaseURL = o.dsn
	}
	return storage, nil
}

func (o *options) withSessions(fn func(ctx context.Context, sessions ports.SessionRepository) error) error {
	storage, err := o.storage()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	sessions, closeFn, err := repository.OpenSessionRepository(ctx, storage)
	if err != nil {
		return err
	}
	defer closeFn(context.Background())
	return fn(ctx, sessions)
}
