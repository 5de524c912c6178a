package driver

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// Digest identifies a file outcome in the disk cache.
type Digest [32]byte

// hashKey is fixed so digests stay stable across runs.
var hashKey = []byte("daymacro-highwayhash-cache-key-1")

// cacheKey hashes content together with every outcome-relevant option.
func cacheKey(content []byte, opts Options) (Digest, error) {
	var out Digest
	h, err := highwayhash.New(hashKey)
	if err != nil {
		return out, fmt.Errorf("cache key: %w", err)
	}
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write([]byte(opts.fingerprint()))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	copy(out[:], h.Sum(nil))
	return out, nil
}
