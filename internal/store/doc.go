// Package store defines the persistence interfaces consumed by the
// application core, together with the sentinel errors implementations
// must return.
package store
