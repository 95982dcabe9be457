package health

import (
	"context"
)

// Status reports reachability of the backing stores.
type Status struct {
	Database   bool `json:"database"`
	TokenStore bool `json:"tokenStore"`
}

// OK reports whether every backing store is reachable.
func (s Status) OK() bool {
	return s.Database && s.TokenStore
}

// Service performs readiness checks. The database check runs on a pooled
// connection: reachability needs no transaction scope.
type Service struct {
	db     Repository
	tokens Pinger
}

// NewService creates a health service.
func NewService(db Repository, tokens Pinger) *Service {
	return &Service{db: db, tokens: tokens}
}

// Check probes the database and the token store.
func (s *Service) Check(ctx context.Context) Status {
	return Status{
		Database:   s.db.CheckDB(ctx),
		TokenStore: s.tokens.Ping(ctx) == nil,
	}
}
