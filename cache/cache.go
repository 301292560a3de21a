package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/vqc/blobstore"
	"github.com/hupe1980/vqc/quantization"
)

// Cache loads and saves codebooks through a blob store.
// It is safe for concurrent use when the underlying store is.
type Cache struct {
	store       blobstore.Store
	compression Compression
	memory      *lru
}

type options struct {
	compression    Compression
	memoryCapacity int64
}

// Option configures a Cache.
type Option func(*options)

// WithCompression selects the payload compression for saved codebooks.
// Defaults to CompressionZSTD. Loading accepts every compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMemoryCapacity keeps up to capacity bytes of decoded codebooks in
// memory. Zero, the default, disables the in-memory tier.
func WithMemoryCapacity(capacity int64) Option {
	return func(o *options) {
		o.memoryCapacity = capacity
	}
}

// New creates a cache over store.
func New(store blobstore.Store, optFns ...Option) (*Cache, error) {
	if store == nil {
		return nil, errors.New("cache: nil store")
	}

	opts := options{compression: CompressionZSTD}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.compression > CompressionZSTD {
		return nil, fmt.Errorf("cache: unknown compression %s", opts.compression)
	}

	c := &Cache{store: store, compression: opts.compression}
	if opts.memoryCapacity > 0 {
		c.memory = newLRU(opts.memoryCapacity)
	}
	return c, nil
}

// Load returns the codebook stored under key.
func (c *Cache) Load(ctx context.Context, key Key) (*quantization.Codebook, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	if c.memory != nil {
		if cb, ok := c.memory.get(key); ok {
			return cb, nil
		}
	}

	blob, err := c.store.Get(ctx, key.BlobName())
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("cache: load %s: %w", key, err)
	}

	raw, _, err := decodeBlob(blob)
	if err != nil {
		return nil, fmt.Errorf("cache: load %s: %w", key, err)
	}

	cb := new(quantization.Codebook)
	if err := cb.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("cache: load %s: %w", key, err)
	}
	if err := checkShape(key, cb); err != nil {
		return nil, err
	}

	if c.memory != nil {
		c.memory.set(key, cb)
	}
	return cb, nil
}

// Save stores cb under key, replacing any previous codebook.
func (c *Cache) Save(ctx context.Context, key Key, cb *quantization.Codebook) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := checkShape(key, cb); err != nil {
		return err
	}

	raw, err := cb.MarshalBinary()
	if err != nil {
		return err
	}
	blob, err := encodeBlob(raw, c.compression)
	if err != nil {
		return fmt.Errorf("cache: save %s: %w", key, err)
	}
	if err := c.store.Put(ctx, key.BlobName(), blob); err != nil {
		return fmt.Errorf("cache: save %s: %w", key, err)
	}

	if c.memory != nil {
		c.memory.set(key, cb)
	}
	return nil
}

// Delete removes the codebook stored under key.
func (c *Cache) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if c.memory != nil {
		c.memory.remove(key)
	}
	return c.store.Delete(ctx, key.BlobName())
}

// List returns the keys of all cached codebooks whose name starts with
// namePrefix. Blobs that do not follow the naming scheme are skipped.
func (c *Cache) List(ctx context.Context, namePrefix string) ([]Key, error) {
	names, err := c.store.List(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseBlobName(name)
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Stats reports the in-memory tier.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	Bytes   int64
}

// Stats returns in-memory tier statistics; all zero when the tier is disabled.
func (c *Cache) Stats() Stats {
	if c.memory == nil {
		return Stats{}
	}
	return Stats{
		Hits:    c.memory.hits.Load(),
		Misses:  c.memory.misses.Load(),
		Entries: c.memory.len(),
		Bytes:   c.memory.bytes(),
	}
}

func checkShape(key Key, cb *quantization.Codebook) error {
	if cb.VectorDimensions() != key.VectorDims || cb.Size() != key.CodebookSize {
		return &ErrKeyMismatch{Key: key, VectorDims: cb.VectorDimensions(), CodebookSize: cb.Size()}
	}
	return nil
}
