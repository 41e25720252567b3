package kv

import (
	"context"
)

// Repository is a string-keyed byte store. Get returns (nil, nil) for an
// absent key and a non-nil empty slice for a key stored with no value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var _ Repository = (*SQLiteRepository)(nil)
