package world

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/storage"

	"worldstream/internal/geom"
)

const chunkKeyPrefix = 'c'

// LevelDBStore persists evicted chunks in a LevelDB database.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (or creates) a database at path. An empty path keeps
// the database in memory.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb store: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

func levelDBKey(key geom.ChunkKey) []byte {
	buf := make([]byte, 9)
	buf[0] = chunkKeyPrefix
	binary.BigEndian.PutUint32(buf[1:5], uint32(int32(key.I)))
	binary.BigEndian.PutUint32(buf[5:9], uint32(int32(key.J)))
	return buf
}

func (s *LevelDBStore) Save(chunk *Chunk) error {
	data, err := encodeChunk(chunk)
	if err != nil {
		return err
	}
	if err := s.db.Put(levelDBKey(chunk.Key), data, nil); err != nil {
		return fmt.Errorf("put chunk %s: %w", chunk.Key, err)
	}
	return nil
}

func (s *LevelDBStore) Load(key geom.ChunkKey) (*Chunk, bool, error) {
	data, err := s.db.Get(levelDBKey(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("get chunk %s: %w", key, err)
	}
	chunk, err := decodeChunk(data)
	if err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

func (s *LevelDBStore) Delete(key geom.ChunkKey) error {
	if err := s.db.Delete(levelDBKey(key), nil); err != nil {
		return fmt.Errorf("delete chunk %s: %w", key, err)
	}
	return nil
}

// Reset removes every stored chunk.
func (s *LevelDBStore) Reset() error {
	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("scan leveldb store: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("reset leveldb store: %w", err)
	}
	return nil
}

// Len counts stored chunks.
func (s *LevelDBStore) Len() (int, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
