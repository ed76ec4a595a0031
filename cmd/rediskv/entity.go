/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/rediskv"
	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/datastore/ddb"
	"github.com/suparena/rediskv/datastore/redis"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/registry"
)

const (
	backendRedis    = "redis"
	backendDynamoDB = "dynamodb"
)

// document is an entity of unknown shape. Its id is the "id" property.
type document map[string]any

func documentMapping(keyspace string) (*registry.MappingContext, error) {
	mc := registry.NewMappingContext()
	err := registry.Register(mc, registry.EntitySettings[document]{
		Keyspace: keyspace,
		IDOf: func(d document) string {
			if id, ok := d["id"]; ok && id != nil {
				return fmt.Sprint(id)
			}
			return ""
		},
		SetID: func(d *document, id string) {
			if *d == nil {
				*d = document{}
			}
			(*d)["id"] = id
		},
	})
	return mc, err
}

// template returns the document template for keyspace on backend. Templates
// are built once per invocation and kept in a.templates.
func (a *app) template(ctx context.Context, backend, keyspace string) (*rediskv.KeyValueTemplate[document], error) {
	name := backend + "/" + keyspace
	if t, err := rediskv.GetTemplate[document](a.templates, name); err == nil {
		return t, nil
	}

	mc, err := documentMapping(keyspace)
	if err != nil {
		return nil, err
	}

	var store datastore.DataStore[document]
	switch backend {
	case backendRedis:
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		adapter, err := redis.NewKeyValueAdapter[document](client, redis.WithMappingContext(mc))
		if err != nil {
			return nil, err
		}
		store = adapter
	case backendDynamoDB:
		api, err := ddb.NewClient(ctx, a.cfg.DynamoDB)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: %w", err)
		}
		table, err := ddb.NewDynamodbDataStore[document](api, a.cfg.DynamoDB.Table,
			ddb.WithMappingContext(mc),
			ddb.WithLogger(a.log),
		)
		if err != nil {
			return nil, err
		}
		store = table
	default:
		return nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", backend))
	}

	t, err := rediskv.NewKeyValueTemplate[document](store,
		rediskv.WithMappingContext(mc),
		rediskv.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	if err := rediskv.RegisterTemplate(a.templates, name, t); err != nil {
		return nil, err
	}
	return t, nil
}

func parseDocument(raw string) (document, error) {
	var d document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, errors.NewValidationError("document", err.Error())
	}
	if d == nil {
		return nil, errors.NewValidationError("document", "must be a JSON object")
	}
	return d, nil
}

// entityRunner runs one template operation.
type entityRunner func(ctx context.Context, t *rediskv.KeyValueTemplate[document], args []string) (any, error)

func newEntityCmd(a *app) *cobra.Command {
	var backend, keyspace string

	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Read and write JSON documents of a keyspace",
		Long: "Stores documents through the key-value template on Redis or DynamoDB.\n" +
			"A document's id is its \"id\" property.",
	}
	cmd.PersistentFlags().StringVarP(&keyspace, "keyspace", "k", "", "Keyspace of the documents")
	cmd.PersistentFlags().StringVarP(&backend, "backend", "b", backendRedis, "Backend: redis or dynamodb")
	_ = cmd.MarkPersistentFlagRequired("keyspace")

	sub := func(use, short string, args cobra.PositionalArgs, run entityRunner) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				t, err := a.template(ctx, backend, keyspace)
				if err != nil {
					return err
				}
				result, err := run(ctx, t, args)
				if err != nil || result == nil {
					return err
				}
				return a.print(cmd.OutOrStdout(), result)
			},
		}
	}

	cmd.AddCommand(
		sub("get <id>", "Print a document", cobra.ExactArgs(1),
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], args []string) (any, error) {
				return t.FindByID(ctx, args[0])
			}),
		sub("list", "Print every document", cobra.NoArgs,
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], _ []string) (any, error) {
				return t.FindAll(ctx)
			}),
		sub("count", "Print the number of documents", cobra.NoArgs,
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], _ []string) (any, error) {
				return t.Count(ctx)
			}),
		sub("put <id> <json>", "Store a document under id, replacing it", cobra.ExactArgs(2),
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], args []string) (any, error) {
				d, err := parseDocument(args[1])
				if err != nil {
					return nil, err
				}
				d["id"] = args[0]
				return nil, t.UpdateByID(ctx, args[0], d)
			}),
		sub("create <json>", "Insert a document and print its id", cobra.ExactArgs(1),
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], args []string) (any, error) {
				d, err := parseDocument(args[0])
				if err != nil {
					return nil, err
				}
				created, err := t.Create(ctx, d)
				if err != nil {
					return nil, err
				}
				return t.Settings().IDOf(created), nil
			}),
		sub("del <id>", "Delete a document", cobra.ExactArgs(1),
			func(ctx context.Context, t *rediskv.KeyValueTemplate[document], args []string) (any, error) {
				return nil, t.Delete(ctx, args[0])
			}),
	)
	return cmd
}
