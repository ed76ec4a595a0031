/*
Package errors provides semantic error types for rediskv.

The package defines the failure kinds callers need to tell apart. Each typed
error matches its sentinel through errors.Is, so wrapped store failures keep
their meaning:

	var (
	    ErrNotFound             = errors.New("entity not found")
	    ErrAlreadyExists        = errors.New("entity already exists")
	    ErrInvalidInput         = errors.New("invalid input")
	    ErrUnsupportedOperation = errors.New("unsupported operation")
	    ErrNoMapping            = errors.New("no mapping found for type")
	)

Usage:

	user, err := template.FindByID(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        return nil, fmt.Errorf("user %s does not exist", "123")
	    }
	    return nil, err
	}

	ok, err := hash.ContainsValue(ctx, "v")
	if errors.IsUnsupportedOperation(err) {
	    // hashes have no value lookup
	}

Errors coming from Redis itself (connectivity, WRONGTYPE and friends) are
passed through wrapped with %w and never translated.
*/
package errors
