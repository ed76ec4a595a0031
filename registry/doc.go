/*
Package registry holds the mapping context and the identifier conversion service.

Mapping Context:
Associates Go types with the keyspace they live in and how to read their id:

	registry.RegisterEntity(registry.EntitySettings[Person]{
	    Keyspace:   "persons",
	    TimeToLive: 30 * time.Minute,
	    IDOf:       func(p Person) string { return p.ID },
	    SetID:      func(p *Person, id string) { p.ID = id },
	})

A Person with ID "42" is stored in the hash "persons:42" and its id is tracked
in the set "persons".

Conversion Service:
Turns identifiers returned by ad hoc Redis commands into strings. The default
service understands string, []byte and integer ids; other types can be added:

	registry.RegisterConverter(cs, func(id uuid.UUID) (string, error) {
	    return id.String(), nil
	})

Both are thread-safe and should be populated during initialization.
*/
package registry
