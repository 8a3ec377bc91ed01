// Package checkpoint is the Checkpoint Store: a named, durable snapshot of
// one reader's Register image, so a reader resumes across restarts exactly
// where it left off. See spec.md §4.5.
package checkpoint

import (
	"github.com/dreamsxin/binlog/register"
	"github.com/dreamsxin/binlog/store"
)

// Store persists Register images to a log directory's substrate-backed
// "checkpoints" bucket.
type Store struct {
	s *store.Store
}

// Open wraps s's checkpoint bucket. s must already be open.
func Open(s *store.Store) *Store {
	return &Store{s: s}
}

// Load returns the named reader's persisted Register, or ok=false if no
// checkpoint has ever been saved under that name.
func (c *Store) Load(name string) (r *register.Register, ok bool, err error) {
	err = c.s.View(func(tx *store.Tx) error {
		image, present := tx.Checkpoints().Get(name)
		if !present {
			return nil
		}
		liidx, clidx, reg, derr := decode(image)
		if derr != nil {
			return derr
		}
		r = register.Restore(liidx, clidx, reg)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return r, ok, nil
}

// Save atomically writes r's current image under name. Two saves of
// equal logical state produce byte-identical payloads.
func (c *Store) Save(name string, r *register.Register) error {
	image := encode(r.LI(), r.CL(), r.Snapshot())
	return c.s.Update(func(tx *store.Tx) error {
		return tx.Checkpoints().Put(name, image)
	})
}
