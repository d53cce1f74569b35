// Package store provides RelationStore implementations: an embedded badger
// store (the default) and a Postgres store for callers with a database.
package store

import (
	"context"
	"encoding/json"
	"log"

	"wrangle/domain/core"
	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/ports"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/ristretto"
)

// relationKeyPrefix namespaces relation entries inside the badger keyspace
const relationKeyPrefix = "relation/"

// TestBadgerDB returns an in-memory badger instance for tests
func TestBadgerDB() *badger.DB {
	option := badger.DefaultOptions("").WithInMemory(true)
	db, err := badger.Open(option)
	if err != nil {
		panic(err)
	}
	return db
}

// OpenBadger opens (or creates) the embedded database at dir
func OpenBadger(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open embedded store at %s", dir)
	}
	return db, nil
}

// BadgerStore persists relations as JSON values in an embedded badger
// database, fronted by a ristretto read cache. The cache holds the encoded
// bytes, not decoded tables, so every load returns its own instance.
type BadgerStore struct {
	db           *badger.DB
	cacheEnabled bool
	cache        *ristretto.Cache
}

// NewBadgerStore creates a relation store over an open badger database
func NewBadgerStore(db *badger.DB, cacheEnabled bool) *BadgerStore {
	cache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	return &BadgerStore{db: db, cacheEnabled: cacheEnabled, cache: cache}
}

// Close closes the underlying database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func relationKey(name core.RelationName) []byte {
	return []byte(relationKeyPrefix + name.String())
}

// Save writes the table under name, overwriting any existing relation
func (s *BadgerStore) Save(ctx context.Context, name core.RelationName, t *table.Table) error {
	buf, err := json.Marshal(t)
	if err != nil {
		return errors.Wrapf(err, "failed to encode relation %s", name)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(relationKey(name), buf)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write relation %s", name)
	}

	if s.cacheEnabled {
		// Invalidate so the next load reads the fresh copy.
		s.cache.Del(name.String())
	}

	log.Printf("[BadgerStore] Saved relation %s (%d rows x %d columns)", name, t.RowCount(), t.ColumnCount())
	return nil
}

// Load reads the named relation, failing with NOT_FOUND for unknown names
func (s *BadgerStore) Load(ctx context.Context, name core.RelationName) (*table.Table, error) {
	var buf []byte
	if s.cacheEnabled {
		if cached, found := s.cache.Get(name.String()); found {
			buf = cached.([]byte)
		}
	}

	if buf == nil {
		err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(relationKey(name))
			if err != nil {
				return err
			}
			buf, err = item.ValueCopy(nil)
			return err
		})
		if err == badger.ErrKeyNotFound {
			return nil, errors.NotFound("relation " + name.String())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read relation %s", name)
		}

		if s.cacheEnabled {
			s.cache.Set(name.String(), buf, int64(len(buf)))
		}
	}

	var t table.Table
	if err := json.Unmarshal(buf, &t); err != nil {
		return nil, errors.Wrapf(err, "failed to decode relation %s", name)
	}
	return &t, nil
}

// Delete removes the named relation; deleting an unknown name is a no-op
func (s *BadgerStore) Delete(ctx context.Context, name core.RelationName) error {
	if s.cacheEnabled {
		s.cache.Del(name.String())
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(relationKey(name))
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete relation %s", name)
	}
	return nil
}

// List returns the names of all stored relations
func (s *BadgerStore) List(ctx context.Context) ([]core.RelationName, error) {
	var names []core.RelationName
	prefix := []byte(relationKeyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer iter.Close()
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			names = append(names, core.RelationName(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list relations")
	}
	return names, nil
}

var _ ports.RelationStore = (*BadgerStore)(nil)
