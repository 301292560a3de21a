package blobstore

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// TieredStore fronts a remote store with a local one. Reads are served from
// the local tier when possible and fill it on a miss; writes and deletes go to
// both tiers concurrently. The remote tier is authoritative for List.
type TieredStore struct {
	local  Store
	remote Store
}

// NewTieredStore creates a TieredStore.
func NewTieredStore(local, remote Store) *TieredStore {
	return &TieredStore{local: local, remote: remote}
}

// Get reads a blob, filling the local tier from the remote on a miss.
// A failure to fill the local tier is not reported.
func (s *TieredStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.local.Get(ctx, name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err = s.remote.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	_ = s.local.Put(ctx, name, data)
	return data, nil
}

// Put writes to both tiers.
func (s *TieredStore) Put(ctx context.Context, name string, data []byte) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.remote.Put(ctx, name, data) })
	g.Go(func() error { return s.local.Put(ctx, name, data) })
	return g.Wait()
}

// Delete removes the blob from both tiers.
func (s *TieredStore) Delete(ctx context.Context, name string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.remote.Delete(ctx, name) })
	g.Go(func() error { return s.local.Delete(ctx, name) })
	return g.Wait()
}

// List lists the remote tier.
func (s *TieredStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
