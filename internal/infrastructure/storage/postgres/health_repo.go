package postgres

import (
	"context"

	"lendhub/internal/domain/health"
)

// Compile-time check.
var _ health.Repository = (*HealthRepo)(nil)

// HealthRepo implements health.Repository over a Source.
type HealthRepo struct {
	src *Source
}

// NewHealthRepo creates a health repository.
func NewHealthRepo(src *Source) *HealthRepo {
	return &HealthRepo{src: src}
}

// CheckDB reports whether the storage answers a trivial query.
func (r *HealthRepo) CheckDB(ctx context.Context) bool {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return false
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "SELECT 1")
	return err == nil
}
