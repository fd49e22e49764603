package world

import "worldstream/internal/geom"

type memoryStore struct {
	chunks map[geom.ChunkKey][]byte
}

// NewMemoryStore keeps encoded chunks in a map. Loads decode a fresh copy.
func NewMemoryStore() Store {
	return &memoryStore{chunks: make(map[geom.ChunkKey][]byte)}
}

func (s *memoryStore) Save(chunk *Chunk) error {
	data, err := encodeChunk(chunk)
	if err != nil {
		return err
	}
	s.chunks[chunk.Key] = data
	return nil
}

func (s *memoryStore) Load(key geom.ChunkKey) (*Chunk, bool, error) {
	data, ok := s.chunks[key]
	if !ok {
		return nil, false, nil
	}
	chunk, err := decodeChunk(data)
	if err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

func (s *memoryStore) Delete(key geom.ChunkKey) error {
	delete(s.chunks, key)
	return nil
}

func (s *memoryStore) Reset() error {
	s.chunks = make(map[geom.ChunkKey][]byte)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
