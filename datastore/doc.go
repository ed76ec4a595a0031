/*
Package datastore defines the adapter contracts rediskv's templates are built on.

DataStore[T] provides generic key-value operations for any entity type T:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, id string) (*T, error)
	    Put(ctx context.Context, id string, entity T) error
	    Delete(ctx context.Context, id string) error
	    Contains(ctx context.Context, id string) (bool, error)
	    Count(ctx context.Context) (int64, error)
	    GetAll(ctx context.Context) ([]T, error)
	    DeleteAll(ctx context.Context) error
	    Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]
	}

RedisAdapter[T] extends it with ad hoc command execution, partial updates,
identifier conversion and connection scoping.

Implementations:
  - redis: Redis implementation storing entities as flattened hashes
  - ddb: DynamoDB implementation using a single-table layout
  - mock: In-memory mock implementation for testing
*/
package datastore
