package content

import "errors"

// ErrNotFound distinguishes "identifier does not resolve" from validation
// failures across every entity store.
var ErrNotFound = errors.New("document not found")
