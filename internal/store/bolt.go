package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var deliveriesBucket = []byte("deliveries")

// DefaultMaxEntries is how many deliveries the journal keeps before pruning
// the oldest.
const DefaultMaxEntries = 10000

// Delivery statuses.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Delivery is one handled inbound message and the reply sent for it.
type Delivery struct {
	ID           string    `json:"id"`
	MessageID    string    `json:"message_id,omitempty"`
	From         string    `json:"from"`
	Intent       string    `json:"intent"`
	Code         int       `json:"code,omitempty"`
	ResponseKind string    `json:"response_kind"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	ReceivedAt   time.Time `json:"received_at"`
}

// Journal records deliveries for audit. Nothing on the message path reads it.
type Journal interface {
	Record(d Delivery) error
	Recent(limit int) ([]Delivery, error)
	Close() error
}

type BoltStore struct {
	db         *bolt.DB
	maxEntries uint64
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(deliveriesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating deliveries bucket: %w", err)
	}

	return &BoltStore{db: db, maxEntries: DefaultMaxEntries}, nil
}

// SetMaxEntries changes the retention cap. Values below 1 are ignored.
func (s *BoltStore) SetMaxEntries(n int) {
	if n > 0 {
		s.maxEntries = uint64(n)
	}
}

// Record appends d, filling in ID and ReceivedAt when unset, and prunes
// entries beyond the retention cap.
func (s *BoltStore) Record(d Delivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.ReceivedAt.IsZero() {
		d.ReceivedAt = time.Now().UTC()
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling delivery: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(deliveriesBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(seq), data); err != nil {
			return err
		}
		if seq <= s.maxEntries {
			return nil
		}
		return prune(b, seqKey(seq-s.maxEntries+1))
	})
}

// prune deletes every key lower than cutoff.
func prune(b *bolt.Bucket, cutoff []byte) error {
	var stale [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil && bytes.Compare(k, cutoff) < 0; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to limit deliveries, newest first.
func (s *BoltStore) Recent(limit int) ([]Delivery, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var out []Delivery
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(deliveriesBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var d Delivery
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("decoding delivery %x: %w", k, err)
			}
			out = append(out, d)
		}
		return nil
	})
	return out, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
