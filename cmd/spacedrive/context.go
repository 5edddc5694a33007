package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the library store for one command invocation.
func (c *commandContext) withStore(fn func(*config.Config, *library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	store, err := library.Open(cfg)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// stdoutLogger builds a console logger for commands that run work inline.
func (c *commandContext) stdoutLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

// resolveLocation accepts a location id, name, or root path.
func resolveLocation(ctx context.Context, store *library.Store, ref string) (*library.Location, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("location reference is required")
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if loc, err := store.LocationByID(ctx, id); err == nil {
			return loc, nil
		}
	}
	if loc, err := store.LocationByPath(ctx, ref); err == nil {
		return loc, nil
	}

	locations, err := store.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	for i := range locations {
		if locations[i].Name == ref {
			return &locations[i], nil
		}
	}
	return nil, fmt.Errorf("no location matches %q (try `spacedrive location list`)", ref)
}
