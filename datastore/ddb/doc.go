/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

All keyspaces share one table:

	PK          SK     EntityType      ExpiresAt   ...entity attributes
	"persons"   "42"   "main.Person"   1767225600

so a KeyValueTemplate can run on DynamoDB exactly as on Redis, minus the
Redis specific partial updates and ad hoc commands. Enable DynamoDB TTL on
the ExpiresAt attribute to have expired items removed; until then they read
as missing.

	client, _ := ddb.NewClient(ctx, ddb.Config{Region: "eu-west-1", Table: "entities"})
	store, _ := ddb.NewDynamodbDataStore[Person](client, "entities")

Streaming:

	results := store.Stream(ctx,
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	    storagemodels.WithMatch("user-*"),
	)
*/
package ddb
