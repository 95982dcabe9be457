// Package health provides storage reachability checks.
package health

import "context"

// Repository reports whether the relational storage is reachable.
type Repository interface {
	CheckDB(ctx context.Context) bool
}

// Pinger reports whether an auxiliary store (the token store) is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
