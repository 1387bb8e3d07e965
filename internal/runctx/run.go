// Package runctx carries the per-invocation run context: a run ID and the
// secret store the run is allowed to read from.
package runctx

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"persist-result/internal/secrets"
)

type Run struct {
	ID      string
	Secrets secrets.Provider
}

func New(p secrets.Provider) *Run {
	return &Run{
		ID:      uuid.New().String(),
		Secrets: p,
	}
}

func (r *Run) GetSecret(ctx context.Context, name string) (string, error) {
	if r.Secrets == nil {
		return "", fmt.Errorf("run %s has no secret store", r.ID)
	}
	return r.Secrets.GetSecret(ctx, name)
}
