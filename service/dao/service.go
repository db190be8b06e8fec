package dao

import (
	"context"
)

// Service is a generic entity store keyed by K.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns entities matching all parameters, ordered by key.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
