// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/content-planner/internal/render"
	"github.com/pdiddy/content-planner/internal/secrets"
	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/internal/store/postgres"
	"github.com/pdiddy/content-planner/internal/store/sqlite"
	"github.com/pdiddy/content-planner/pkg/types"
)

// loadConfig resolves flags, environment, config file and secrets into a Config.
func loadConfig(v *viper.Viper, creds map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = types.DriverSQLite
	}
	cfg.Store.DSN = secrets.Lookup(creds, secrets.PostgresDSN, cfg.Store.DSN)

	format, err := render.ParseFormat(string(cfg.Generation.Format))
	if err != nil {
		return cfg, fmt.Errorf("generation.format: %w", err)
	}
	cfg.Generation.Format = format
	if cfg.Generation.RecencyWeeks < 0 {
		cfg.Generation.RecencyWeeks = 0
	}
	return cfg, nil
}

// openStore opens the backend named by cfg.Driver.
func openStore(ctx context.Context, cfg types.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case types.DriverSQLite, "":
		return sqlite.Open(ctx, cfg)
	case types.DriverPostgres:
		return postgres.Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q: use sqlite or postgres", cfg.Driver)
	}
}
