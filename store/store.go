// Package store is the Segmented Log Store: a thin façade over an embedded
// transactional key-value substrate (go.etcd.io/bbolt) that durably catalogs
// fixed-capacity segments and exposes them as ordered maps from a 1-based
// integer key to an opaque byte payload.
//
// See SPEC_FULL.md §4 for how spec.md's abstract substrate contract (a named
// environment with transactions/mpool/lock/log subsystems, RECNO-style
// ordered maps with cursors) is mapped onto bbolt's single-file, nested-
// bucket model.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dreamsxin/binlog"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	bolt "go.etcd.io/bbolt"
)

// Record is the (li, cl, value) triple a Reader hands back from
// NextRecord. It is an alias for binlog.Record, the one definition of the
// shape shared across package boundaries.
type Record = binlog.Record

// segmentsBucketName names the parent bucket under which every segment's own
// nested bucket lives, keeping the catalog bucket free of segment data.
var (
	catalogBucketName     = []byte(binlog.CatalogName)
	segmentsBucketName    = []byte("segments")
	checkpointsBucketName = []byte(binlog.CheckpointsName)
)

// Store is the durable catalog of segments for one log directory.
type Store struct {
	dir string
	db  *bolt.DB

	logger  log.Logger
	reg     prometheus.Registerer
	metrics *storeMetrics
	timeout time.Duration
}

// Open acquires or creates the environment (a single bbolt file) and the
// segment catalog bucket rooted in dir. It fails with ErrBadArgument if dir
// exists and is not a directory, and with ErrMissing if createIfMissing is
// false and dir does not already contain a store.
func Open(dir string, createIfMissing bool, opts ...Option) (*Store, error) {
	info, statErr := os.Stat(dir)
	switch {
	case statErr == nil && !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", binlog.ErrBadArgument, dir)
	case statErr != nil && !os.IsNotExist(statErr):
		return nil, &binlog.SubstrateError{Op: "stat", Err: statErr}
	case statErr != nil:
		if !createIfMissing {
			return nil, fmt.Errorf("%w: %s does not exist", binlog.ErrMissing, dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &binlog.SubstrateError{Op: "mkdir", Err: err}
		}
	}

	dbPath := filepath.Join(dir, binlog.DBFileName)
	if _, err := os.Stat(dbPath); err != nil && os.IsNotExist(err) && !createIfMissing {
		return nil, fmt.Errorf("%w: %s does not exist", binlog.ErrMissing, dbPath)
	}

	s := &Store{dir: dir}
	s.applyDefaults(opts)

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: s.timeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, &binlog.TransientError{Op: "open", Err: err}
		}
		return nil, &binlog.SubstrateError{Op: "open", Err: err}
	}
	s.db = db

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(catalogBucketName); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(segmentsBucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(checkpointsBucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, &binlog.SubstrateError{Op: "init", Err: err}
	}

	level.Debug(s.logger).Log("msg", "store opened", "dir", dir)
	return s, nil
}

// Close releases the environment handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return &binlog.SubstrateError{Op: "close", Err: err}
	}
	return nil
}

// Dir returns the directory this store was opened against.
func (s *Store) Dir() string { return s.dir }

// Update runs fn inside a single read-write transaction. All multi-step
// mutations (segment roll + append, catalog-and-file delete) must happen
// inside one Update call so they commit or abort atomically.
func (s *Store) Update(fn func(*Tx) error) error {
	err := s.db.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{tx: btx, metrics: s.metrics})
	})
	return s.translateTxErr("update", err)
}

// View runs fn inside a single read-only transaction.
func (s *Store) View(fn func(*Tx) error) error {
	err := s.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{tx: btx, metrics: s.metrics})
	})
	return s.translateTxErr("view", err)
}

func (s *Store) translateTxErr(op string, err error) error {
	switch {
	case err == nil:
		s.metrics.txCommits.Inc()
		return nil
	case errors.Is(err, binlog.ErrBadArgument), errors.Is(err, binlog.ErrGone),
		errors.Is(err, binlog.ErrMissing), errors.Is(err, binlog.ErrUnsupported):
		s.metrics.txAborts.Inc()
		return err
	case errors.Is(err, bolt.ErrTimeout), errors.Is(err, bolt.ErrDatabaseNotOpen):
		s.metrics.txAborts.Inc()
		return &binlog.TransientError{Op: op, Err: err}
	default:
		s.metrics.txAborts.Inc()
		return &binlog.SubstrateError{Op: op, Err: err}
	}
}
