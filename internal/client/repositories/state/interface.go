// Package state persists the client's warm-start cache: a small key-value
// table holding the serialized {session, profile} pair.
package state

import "context"

// Repository is a durable key-value store. Get returns (nil, nil) when the
// key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
