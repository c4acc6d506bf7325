package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"

	bolt "go.etcd.io/bbolt"
)

var pendingBucket = []byte("pending_transactions")

// PendingEntry is one queued transaction. Err is set when the stored bytes
// could not be decoded; Transaction is then empty.
type PendingEntry struct {
	Key         string
	Transaction entity.Transaction
	Err         error
}

// PendingStore is the durable local queue of transactions that failed to persist.
type PendingStore struct {
	db *bolt.DB
}

func OpenPendingStore(path string) (*PendingStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open pending store %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pendingBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pending bucket: %w", err)
	}
	return &PendingStore{db: db}, nil
}

func (s *PendingStore) Close() error { return s.db.Close() }

func (s *PendingStore) Put(key string, t entity.Transaction) error {
	body, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Put([]byte(key), body)
	})
}

// List returns every entry in key order, decoding what it can.
func (s *PendingStore) List() ([]PendingEntry, error) {
	var out []PendingEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).ForEach(func(k, v []byte) error {
			e := PendingEntry{Key: string(k)}
			if err := json.Unmarshal(v, &e.Transaction); err != nil {
				e.Transaction = entity.Transaction{}
				e.Err = fmt.Errorf("decode pending %s: %w", k, err)
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}

func (s *PendingStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Delete([]byte(key))
	})
}

func (s *PendingStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(pendingBucket).Stats().KeyN
		return nil
	})
	return n, err
}
