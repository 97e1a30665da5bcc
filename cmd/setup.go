package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the config file from the template when it is missing and initializes the database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file exists", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
		r.writePlain("Config file written to %s\n", configPath)
	}

	if !r.config.Database.Enabled {
		r.logger.Info("run history disabled, skipping database setup")
		return nil
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("reset-history") {
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		n, err := shared.ResetMigrations(db)
		if err != nil {
			return fmt.Errorf("failed to reset run history: %w", err)
		}
		r.logger.Info("run history cleared", "rolled_back", n)
		r.writePlain("Run history cleared\n")
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("Database ready at %s\n", r.config.Database.Path)
	return nil
}
