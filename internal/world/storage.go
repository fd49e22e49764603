package world

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"worldstream/internal/config"
	"worldstream/internal/geom"
)

// Store keeps evicted chunks so a revisit restores them instead of
// generating new content.
type Store interface {
	Save(chunk *Chunk) error
	Load(key geom.ChunkKey) (*Chunk, bool, error)
	Delete(key geom.ChunkKey) error
	Reset() error
	Close() error
}

// OpenStore builds the spill store selected by cfg.
func OpenStore(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "leveldb":
		return OpenLevelDBStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func encodeChunk(chunk *Chunk) ([]byte, error) {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(chunk); err != nil {
		return nil, fmt.Errorf("encode chunk %s: %w", chunk.Key, err)
	}
	return payload.Bytes(), nil
}

func decodeChunk(data []byte) (*Chunk, error) {
	var chunk Chunk
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&chunk); err != nil {
		return nil, fmt.Errorf("decode chunk: %w", err)
	}
	return &chunk, nil
}
