package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	bolt "go.etcd.io/bbolt"
)

var (
	seenBucket       = []byte("seen_items")
	errBucketMissing = errors.New("seen_items bucket missing")
)

// boltStore maps an item id (8-byte big endian, so keys sort by id) to the
// unix second at which the entry expires. Expired entries read as unseen and
// are removed by a sweep that runs at most once per cleanup interval.
type boltStore struct {
	db       *bolt.DB
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	sweepMu   sync.Mutex
	nextSweep atomic.Int64
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(seenBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", seenBucket, err)
	}

	b := &boltStore{db: db, ttl: opts.ItemTTL, interval: opts.CleanupInterval, now: time.Now}
	b.scheduleSweep(b.now())
	return b, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenItem reports whether id was marked and has not expired yet.
func (b *boltStore) SeenItem(id hn.ItemID) (bool, error) {
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return false, err
	}

	var live bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seenBucket)
		if bucket == nil {
			return errBucketMissing
		}
		live = alive(bucket.Get(idKey(id)), now)
		return nil
	})
	return live, err
}

// MarkItem records id as seen for the configured TTL, extending any earlier mark.
func (b *boltStore) MarkItem(id hn.ItemID) error {
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return err
	}

	expiry := make([]byte, 8)
	binary.BigEndian.PutUint64(expiry, uint64(now.Add(b.ttl).Unix()))
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seenBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put(idKey(id), expiry)
	})
}

func (b *boltStore) scheduleSweep(from time.Time) {
	b.nextSweep.Store(from.Add(b.interval).Unix())
}

func (b *boltStore) maybeSweep(now time.Time) error {
	if now.Unix() < b.nextSweep.Load() {
		return nil
	}

	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Unix() < b.nextSweep.Load() {
		return nil
	}

	if err := b.sweep(now); err != nil {
		return fmt.Errorf("sweep expired items: %w", err)
	}
	b.scheduleSweep(now)
	return nil
}

// sweep deletes every entry that is no longer alive at now.
func (b *boltStore) sweep(now time.Time) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(seenBucket)
		if bucket == nil {
			return errBucketMissing
		}

		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if !alive(v, now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func idKey(id hn.ItemID) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

// alive reports whether an encoded expiry lies after now. Missing or corrupt
// values count as expired.
func alive(value []byte, now time.Time) bool {
	if len(value) != 8 {
		return false
	}
	return int64(binary.BigEndian.Uint64(value)) > now.Unix()
}
