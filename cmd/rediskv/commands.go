/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/suparena/rediskv"
	"github.com/suparena/rediskv/collections"
	"github.com/suparena/rediskv/datastore/redis"
)

func newRootCmd() *cobra.Command {
	a := &app{templates: rediskv.NewTemplates()}

	rootCmd := &cobra.Command{
		Use:           "rediskv",
		Short:         "Inspect Redis hashes and entity keyspaces",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Env file loaded before REDISKV_ variables are read")
	rootCmd.PersistentFlags().StringVarP(&a.addr, "addr", "a", "", "Redis address, overrides the configuration")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newHashCmd(a))
	rootCmd.AddCommand(newIDsCmd(a))
	rootCmd.AddCommand(newEntityCmd(a))
	return rootCmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := rediskv.GetVersionInfo()
			if a.output != "text" {
				return a.print(cmd.OutOrStdout(), info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rediskv version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			return nil
		},
	}
}

// hashRunner runs one map operation against the hash named by args[0].
type hashRunner func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error)

func newHashCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Read and write a Redis hash as a map",
	}

	sub := func(use, short string, args cobra.PositionalArgs, run hashRunner) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				client, err := a.redisClient(ctx)
				if err != nil {
					return err
				}
				hashes := redis.NewHashOperations[string, string](client, redis.StringSerializer{}, redis.StringSerializer{})
				result, err := run(ctx, collections.NewRedisMap(args[0], hashes), args[1:])
				if err != nil {
					return err
				}
				if result == nil {
					return nil
				}
				return a.print(cmd.OutOrStdout(), result)
			},
		}
	}

	cmd.AddCommand(
		sub("get <key> <field>", "Print the value of a field", cobra.ExactArgs(2),
			func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error) {
				v, ok, err := m.Get(ctx, args[0])
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf("field %q not found in %s", args[0], m.Key())
				}
				return v, nil
			}),
		sub("put <key> <field> <value>", "Set a field and print the previous value", cobra.ExactArgs(3),
			func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error) {
				prev, existed, err := m.Put(ctx, args[0], args[1])
				if err != nil || !existed {
					return nil, err
				}
				return prev, nil
			}),
		sub("putnx <key> <field> <value>", "Set a field only if it does not exist", cobra.ExactArgs(3),
			func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error) {
				return m.PutIfAbsentAtomic(ctx, args[0], args[1])
			}),
		sub("del <key> <field>", "Remove a field and print its value", cobra.ExactArgs(2),
			func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error) {
				prev, existed, err := m.Remove(ctx, args[0])
				if err != nil || !existed {
					return nil, err
				}
				return prev, nil
			}),
		sub("incr <key> <field> [delta]", "Increment an integer field", cobra.RangeArgs(2, 3),
			func(ctx context.Context, m collections.RedisMap[string, string], args []string) (any, error) {
				delta := int64(1)
				if len(args) == 2 {
					n, err := strconv.ParseInt(args[1], 10, 64)
					if err != nil {
						return nil, fmt.Errorf("invalid delta %q: %w", args[1], err)
					}
					delta = n
				}
				return m.Increment(ctx, args[0], delta)
			}),
		sub("keys <key>", "List the fields", cobra.ExactArgs(1),
			func(ctx context.Context, m collections.RedisMap[string, string], _ []string) (any, error) {
				return m.Keys(ctx)
			}),
		sub("values <key>", "List the values", cobra.ExactArgs(1),
			func(ctx context.Context, m collections.RedisMap[string, string], _ []string) (any, error) {
				return m.Values(ctx)
			}),
		sub("size <key>", "Print the number of fields", cobra.ExactArgs(1),
			func(ctx context.Context, m collections.RedisMap[string, string], _ []string) (any, error) {
				return m.Size(ctx)
			}),
		sub("clear <key>", "Delete the hash", cobra.ExactArgs(1),
			func(ctx context.Context, m collections.RedisMap[string, string], _ []string) (any, error) {
				return nil, m.Clear(ctx)
			}),
	)
	return cmd
}

func newIDsCmd(a *app) *cobra.Command {
	var keyspace string

	cmd := &cobra.Command{
		Use:   "ids <key>",
		Short: "Load the entities whose ids are stored at key",
		Long: "Reads ids from a set, a list or a string key and prints the entities of\n" +
			"the keyspace they resolve to. Ids without an entity are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.redisClient(ctx)
			if err != nil {
				return err
			}

			mc, err := documentMapping(keyspace)
			if err != nil {
				return err
			}
			adapter, err := redis.NewKeyValueAdapter[document](client, redis.WithMappingContext(mc))
			if err != nil {
				return err
			}
			tmpl, err := rediskv.NewRedisKeyValueTemplate[document](adapter,
				rediskv.WithMappingContext(mc),
				rediskv.WithLogger(a.log),
			)
			if err != nil {
				return err
			}

			docs, err := tmpl.Find(ctx, idsAt(args[0]))
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), docs)
		},
	}

	cmd.Flags().StringVarP(&keyspace, "keyspace", "k", "", "Keyspace the ids belong to")
	_ = cmd.MarkFlagRequired("keyspace")
	return cmd
}

// idsAt reads the ids stored at key according to its type.
func idsAt(key string) func(ctx context.Context, cmd goredis.Cmdable) (any, error) {
	return func(ctx context.Context, cmd goredis.Cmdable) (any, error) {
		typ, err := cmd.Type(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		switch typ {
		case "none":
			return nil, nil
		case "set":
			return cmd.SMembers(ctx, key).Result()
		case "list":
			return cmd.LRange(ctx, key, 0, -1).Result()
		case "zset":
			return cmd.ZRange(ctx, key, 0, -1).Result()
		case "string":
			return cmd.Get(ctx, key).Result()
		default:
			return nil, fmt.Errorf("%s is a %s, expected a set, list, sorted set or string", key, typ)
		}
	}
}
