// Package kvstore implements the synchronous key-value Persistence Adapter
// (spec §6.4a): JSON-encoded records behind a single
// github.com/syndtr/goleveldb handle, key-prefixed per collection the way
// the pack's haricheung-agentic-shell memory store multiplexes several
// logical collections (m|, x|, l|, r|) over one LevelDB handle. Here the
// prefix is simply "<collection>:" since there is no cross-collection
// secondary index to maintain.
package kvstore

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/dohr-michael/ozzie-core/internal/core"
)

// Store is the LevelDB-backed key-value persistence adapter. All methods
// are synchronous: a call returns once LevelDB has applied the write.
// Writes use default options, so they are not fsynced.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) a LevelDB database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open kvstore: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying LevelDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(collection, id string) []byte {
	return []byte(collection + ":" + id)
}

func (s *Store) put(collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s %s: %w", collection, id, err)
	}
	if err := s.db.Put(recordKey(collection, id), data, nil); err != nil {
		return core.New("kvstore.put", core.KindPersistence, err)
	}
	return nil
}

func (s *Store) get(collection, id string, out any) error {
	data, err := s.db.Get(recordKey(collection, id), nil)
	if err != nil {
		return core.New("kvstore.get", core.KindNotFound, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return core.New("kvstore.get", core.KindPersistence, err)
	}
	return nil
}

func (s *Store) delete(collection, id string) error {
	if err := s.db.Delete(recordKey(collection, id), nil); err != nil {
		return core.New("kvstore.delete", core.KindPersistence, err)
	}
	return nil
}

// listInto scans every record in collection, decoding each into a fresh
// value from newItem and appending it via accumulate.
func (s *Store) listInto(collection string, newItem func() any, accumulate func(any)) error {
	prefix := []byte(collection + ":")
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		item := newItem()
		if err := json.Unmarshal(iter.Value(), item); err != nil {
			continue
		}
		accumulate(item)
	}
	if err := iter.Error(); err != nil {
		return core.New("kvstore.list", core.KindPersistence, err)
	}
	return nil
}
