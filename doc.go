/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package rediskv maps Go entities onto Redis and exposes Redis hashes as maps.

The package is built from small pieces:
  - registry: entity settings (keyspace, TTL, id accessors) per Go type, and
    the conversion service turning ids into strings
  - datastore: the DataStore and RedisAdapter contracts, with Redis and
    DynamoDB implementations and an in-memory mock
  - collections: DefaultRedisMap, a map view of one Redis hash
  - rediskv: KeyValueTemplate and RedisKeyValueTemplate, the entry points for
    entity persistence

Basic Usage:

	registry.RegisterEntity(registry.EntitySettings[User]{
		Keyspace: "users",
		IDOf:     func(u User) string { return u.ID },
		SetID:    func(u *User, id string) { u.ID = id },
	})

	client, _ := redis.New(redis.Config{Addr: "localhost:6379"}, log)
	adapter, _ := redis.NewKeyValueAdapter[User](client)
	users, _ := rediskv.NewRedisKeyValueTemplate[User](adapter)

	err := users.Insert(ctx, "42", rediskv.Entity(User{ID: "42", Name: "Ada"}))

	// Only the listed properties are touched.
	err = users.Update(ctx, rediskv.Partial(
		storagemodels.NewPartialUpdate[User]("42").Set("address.city", "London"),
	))

	// Resolve ids produced by any Redis command.
	admins, err := users.Find(ctx, func(ctx context.Context, cmd goredis.Cmdable) (any, error) {
		return cmd.SMembers(ctx, "admins").Result()
	})

Insert and Update take a Write, which is either Entity(v) or Partial(update).
Find skips ids that do not resolve to an entity.
*/
package rediskv
