/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package redis implements the datastore contracts on Redis with go-redis.

# Hash Operations

BoundHashOps runs hash commands (HGET, HSET, HSETNX, HDEL, HEXISTS, HINCRBY,
HLEN, HKEYS, HVALS) against one key, converting fields and values with a
Serializer:

	client, _ := redis.New(redis.Config{Addr: "localhost:6379"}, log)
	ops := redis.ForHash[string, int64](client, "visits", redis.StringSerializer{}, redis.Int64Serializer{})
	n, err := ops.Increment(ctx, "home", 1)

# Entities

KeyValueAdapter stores entities of a registered type. An entity is a hash of
its flattened properties:

	persons:42  name          -> "Ada"
	            address.city  -> "London"
	            tags.[0]      -> "math"
	            _class        -> "main.Person"

and its id is a member of the set "persons". Writes run in MULTI/EXEC. The
keyspace TTL, if any, is applied with EXPIRE.

# Streaming

Stream walks the keyspace set with SSCAN, one page per call, and retries
transient page failures with exponential backoff:

	for r := range adapter.Stream(ctx, storagemodels.WithPageSize(500)) {
		if r.Error != nil {
			continue
		}
		process(r.Item)
	}

# Metrics

Setting Config.Metrics registers MetricsHook, which records command counts and
latency in the default prometheus registry.
*/
package redis
