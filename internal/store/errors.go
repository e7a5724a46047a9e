package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// limitArg turns a non-positive limit into NULL, which Postgres reads as
// LIMIT ALL.
func limitArg(limit int) any {
	if limit < 1 {
		return nil
	}
	return limit
}
