// Package sqlxrepos provides the postgres-backed repositories.
package sqlxrepos

import "strconv"

// itoa shortens positional-arg building in hand-written queries.
func itoa(n int) string { return strconv.Itoa(n) }
