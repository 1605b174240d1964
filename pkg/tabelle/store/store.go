// Package store persists named grid snapshots in a bbolt database.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"go.etcd.io/bbolt"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/grid"
)

var snapshotsBucket = []byte("snapshots")

var (
	// ErrNotFound indicates a snapshot name with no stored snapshot.
	ErrNotFound = errors.New("snapshot not found")
	// ErrEmptyName indicates an empty snapshot name.
	ErrEmptyName = errors.New("snapshot name is empty")
)

// Store is a bbolt database of grid snapshots keyed by name.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the state of g under name, replacing any previous snapshot.
func (s *Store) Save(name string, g *grid.Grid) error {
	if name == "" {
		return ErrEmptyName
	}
	data, err := sonic.Marshal(g.Snapshot())
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.db.Batch(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put([]byte(name), data)
	})
}

// Load restores the grid stored under name.
func (s *Store) Load(name string) (*grid.Grid, error) {
	var snapshot grid.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return sonic.Unmarshal(data, &snapshot)
	})
	if err != nil {
		return nil, err
	}
	return grid.FromSnapshot(snapshot)
}

// List returns the stored snapshot names in byte order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(snapshotsBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	return names, err
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(snapshotsBucket)
		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return bucket.Delete([]byte(name))
	})
}
