package bindings

import (
	"context"
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bindingsBucket = []byte("bindings")

type boltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the embedded bindings database at path.
func OpenBolt(path string) (Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bindingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Get(_ context.Context, chatID int64) (string, error) {
	var out string
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bindingsBucket).Get(itob(chatID))
		if raw == nil {
			return ErrNotFound
		}
		out = string(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *boltStore) Put(_ context.Context, chatID int64, spreadsheetID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bindingsBucket).Put(itob(chatID), []byte(spreadsheetID))
	})
}

func (s *boltStore) Delete(_ context.Context, chatID int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bindingsBucket).Delete(itob(chatID))
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
