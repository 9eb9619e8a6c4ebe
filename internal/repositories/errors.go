package repositories

import "errors"

// ErrNotFound reports that no record matched the query. Implementations wrap
// it so services can distinguish an absent record from a store failure with
// errors.Is.
var ErrNotFound = errors.New("record not found")
