/*
Package storagemodels defines the data structures shared by rediskv's stores.

Key Types:

PartialUpdate:
Carries only the changed properties of one entity plus its id:

	update := storagemodels.NewPartialUpdate[Person]("42").
	    Set("address.city", "Oakville").
	    Del("nickname").
	    RefreshTTL(true)

StreamResult:
Results from streaming operations with metadata:

	type StreamResult[T any] struct {
	    Item  T          // The typed entity
	    ID    string     // Identifier it was loaded from
	    Error error      // Item-specific error, if any
	    Meta  StreamMeta // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}

These types provide a consistent interface across the Redis and DynamoDB stores.
*/
package storagemodels
