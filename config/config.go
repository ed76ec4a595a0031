/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads rediskv configuration from a YAML file, a .env file
// and REDISKV_ environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/suparena/rediskv/datastore/ddb"
	"github.com/suparena/rediskv/datastore/redis"
	"github.com/suparena/rediskv/logging"
)

// EnvPrefix prefixes every environment override, e.g. REDISKV_REDIS_ADDR.
const EnvPrefix = "REDISKV"

// Config is the root configuration.
type Config struct {
	Redis    redis.Config   `mapstructure:"redis"`
	DynamoDB ddb.Config     `mapstructure:"dynamodb"`
	Log      logging.Config `mapstructure:"log"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.Redis.ApplyDefaults()
	c.Log.ApplyDefaults()
	if c.DynamoDB.Table != "" {
		c.DynamoDB.ApplyDefaults()
	}
}

// Validate validates every configured section. DynamoDB is optional.
func (c *Config) Validate() error {
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.DynamoDB.Table != "" {
		if err := c.DynamoDB.Validate(); err != nil {
			return fmt.Errorf("dynamodb: %w", err)
		}
	}
	return nil
}

type loaderOptions struct {
	configFile string
	envFile    string
}

// Option configures Load.
type Option func(*loaderOptions)

// WithConfigFile reads path. The file must exist.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile loads path into the environment. The file must exist.
// Without it, ./.env is loaded when present.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load builds a validated Config.
func Load(opts ...Option) (*Config, error) {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindEnvs(v, "", reflect.TypeOf(Config{})); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnvs binds every leaf mapstructure key of t so that environment
// variables are seen by Unmarshal even when the file does not set the key.
func bindEnvs(v *viper.Viper, prefix string, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			if err := bindEnvs(v, key, f.Type); err != nil {
				return err
			}
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}
