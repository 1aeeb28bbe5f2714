// Package storage remembers which items were already published so a story is
// delivered once per retention window.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
)

// Store records published item ids.
type Store interface {
	SeenItem(id hn.ItemID) (bool, error)
	MarkItem(id hn.ItemID) error
	Close() error
}

// Options sets how long marks live and how often expired ones are swept.
// Zero values fall back to three days and six hours.
type Options struct {
	ItemTTL         time.Duration
	CleanupInterval time.Duration
}

// Backend names accepted by NewStore.
const (
	TypeBBolt = "bbolt"
	TypeNone  = "none"
)

// NewStore opens the backend named by typ. "none" (or empty) disables
// deduplication; "bbolt" persists marks in a single file at path.
func NewStore(typ, path string, opts Options) (Store, error) {
	opts = normalizeOptions(opts)

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case TypeNone, "", "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("%s storage requires a path", TypeBBolt)
		}
		return openBolt(path, opts)
	}
	return nil, fmt.Errorf("unsupported storage type %q", typ)
}

func normalizeOptions(opts Options) Options {
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = 72 * time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 6 * time.Hour
	}
	return opts
}

type noopStore struct{}

func (noopStore) SeenItem(hn.ItemID) (bool, error) { return false, nil }
func (noopStore) MarkItem(hn.ItemID) error         { return nil }
func (noopStore) Close() error                     { return nil }
