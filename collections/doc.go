/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package collections provides map views of Redis data structures.

DefaultRedisMap exposes one Redis hash through map operations:

	hashes := redis.NewHashOperations[string, int64](client, redis.StringSerializer{}, redis.Int64Serializer{})
	visits := collections.NewRedisMap("visits", hashes)

	prev, existed, err := visits.Put(ctx, "home", 10)
	n, err := visits.Increment(ctx, "home", 1)

Increment, PutAll and PutIfAbsentAtomic map to single Redis commands. Put,
PutIfAbsent and Remove read the current value first and are not atomic.
ContainsValue and Entries always fail with errors.ErrUnsupportedOperation.
*/
package collections
