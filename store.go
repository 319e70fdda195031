package docstore

import (
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const dataBucket = "data"

// Store is an open document store. Construct one at application startup
// and pass it to every consumer; there is no global instance.
type Store struct {
	stg     storage
	schema  *Schema
	logf    func(format string, args ...any)
	verbose bool

	actorMu sync.Mutex
	actor   string

	subsMu sync.Mutex
	subs   map[string][]*subscription

	clockMu sync.Mutex
	lastNow time.Time
}

type Options struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool

	// Actor names the acting user recorded in audit entries.
	// Session policy is the caller's business; this is just a label.
	Actor string
}

// Open opens (creating if needed) a Bolt-backed store at path and prepares
// a bucket pair for every collection in the schema.
func Open(path string, schema *Schema, opt Options) (*Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}

	s := newStore(newBoltStorage(bdb), schema, opt)
	if err := s.prepare(); err != nil {
		s.stg.Close()
		return nil, err
	}
	return s, nil
}

// OpenMem opens a transient in-memory store, intended for tests.
func OpenMem(schema *Schema, opt Options) *Store {
	s := newStore(newMemStorage(), schema, opt)
	if err := s.prepare(); err != nil {
		panic(err) // the mem backend cannot fail to create buckets
	}
	return s
}

func newStore(stg storage, schema *Schema, opt Options) *Store {
	logf := opt.Logf
	if logf == nil {
		logf = func(format string, args ...any) {}
	}
	actor := opt.Actor
	if actor == "" {
		actor = "system"
	}
	return &Store{
		stg:     stg,
		schema:  schema,
		logf:    logf,
		verbose: opt.Verbose,
		actor:   actor,
		subs:    make(map[string][]*subscription),
	}
}

func (s *Store) prepare() error {
	return s.writeTx("prepare", "", func(tx storageTx) error {
		for _, c := range s.schema.colls {
			if _, err := tx.CreateBucket(c.name, dataBucket); err != nil {
				return storageErrf("prepare", c.name, err)
			}
			for _, field := range c.indexes {
				if _, err := tx.CreateBucket(c.name, indexBucketName(field)); err != nil {
					return storageErrf("prepare", c.name, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.stg.Close()
}

func (s *Store) Schema() *Schema {
	return s.schema
}

// Collection resolves a collection by name against the fixed registry.
func (s *Store) Collection(name string) (*Collection, error) {
	return s.schema.CollectionNamed(name)
}

// Actor returns the current acting user label.
func (s *Store) Actor() string {
	s.actorMu.Lock()
	defer s.actorMu.Unlock()
	return s.actor
}

// SetActor changes the acting user recorded in subsequent audit entries.
func (s *Store) SetActor(actor string) {
	s.actorMu.Lock()
	defer s.actorMu.Unlock()
	s.actor = actor
}

// writeTx runs f inside a single writable storage transaction.
// Storage-level failures around the transaction are wrapped in
// StorageError; errors from f propagate as-is and roll everything back.
func (s *Store) writeTx(op, collection string, f func(tx storageTx) error) error {
	tx, err := s.stg.BeginTx(true)
	if err != nil {
		return storageErrf(op, collection, err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return storageErrf(op, collection, err)
	}
	return nil
}

func (s *Store) readTx(op, collection string, f func(tx storageTx) error) error {
	tx, err := s.stg.BeginTx(false)
	if err != nil {
		return storageErrf(op, collection, err)
	}
	defer tx.Rollback()
	return f(tx)
}

func (s *Store) dataBucketOf(tx storageTx, c *Collection) storageBucket {
	b := tx.Bucket(c.name, dataBucket)
	if b == nil {
		panic(fmt.Errorf("missing data bucket for collection %q", c.name))
	}
	return b
}
