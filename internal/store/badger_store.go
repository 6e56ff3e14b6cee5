package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"sealchat/internal/domain"
)

// BadgerStore is a string-keyed store backed by BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// BadgerConfig configures OpenBadgerStore.
type BadgerConfig struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	Logger   zerolog.Logger
}

// OpenBadgerStore opens (or creates) the database described by cfg.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = badgerLogger{log: cfg.Logger.With().Str("component", "badger").Logger()}
	opts.ValueLogFileSize = 1024 * 1024 * 16
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get returns the value stored under key.
func (s *BadgerStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *BadgerStore) Set(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error { return s.db.Close() }

// badgerLogger routes badger's printf-style logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(f), v...)
}

func (l badgerLogger) Warningf(f string, v ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(f), v...)
}

func (l badgerLogger) Infof(f string, v ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(f), v...)
}

func (l badgerLogger) Debugf(f string, v ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSpace(f), v...)
}

// Compile-time assertions.
var (
	_ domain.KeyValueStore = (*BadgerStore)(nil)
	_ badger.Logger        = badgerLogger{}
)
