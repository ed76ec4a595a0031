/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/rediskv"
	"github.com/suparena/rediskv/config"
	"github.com/suparena/rediskv/datastore/redis"
	"github.com/suparena/rediskv/logging"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	configFile string
	envFile    string
	addr       string
	output     string

	cfg       *config.Config
	log       zerolog.Logger
	client    *redis.Client
	templates *rediskv.Templates
}

func (a *app) load(cmd *cobra.Command) error {
	var opts []config.Option
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if a.addr != "" {
		cfg.Redis.URL = ""
		cfg.Redis.Addr = a.addr
	}
	switch a.output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Log).With().Str("command", cmd.CommandPath()).Logger()
	return nil
}

// redisClient returns the client, connecting on first use.
func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	client, err := redis.New(a.cfg.Redis, a.log)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	a.client = client
	return client, nil
}

func (a *app) close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close redis client")
		}
		a.client = nil
	}
}

// print writes v in the selected output format. text prints scalars and
// slices one value per line and falls back to yaml for anything else.
func (a *app) print(w io.Writer, v any) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(w, v)
	}

	switch tv := v.(type) {
	case []string:
		for _, s := range tv {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	case string, int64, bool:
		_, err := fmt.Fprintln(w, tv)
		return err
	default:
		return writeYAML(w, v)
	}
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
