package writer

import (
	"fmt"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/dreamsxin/binlog"
	"github.com/dreamsxin/binlog/store"
)

// segmentMeta is the lock-free-readable slice of catalog state CDSWriter
// caches: just enough to answer "what segments exist" without a substrate
// round-trip.
type segmentMeta struct {
	Name  string
	Count uint64
}

// CDSWriter is the concurrent-access flavor: it maintains a lock-free
// snapshot of the catalog (an immutable.SortedMap, rebuilt and atomically
// swapped after every append that changes it) so readers of that snapshot
// never block on the writer's mutex. This reuses dreamsxin-wal/wal.go's
// state/atomic.Value/mutateStateLocked idiom, retargeted at the segment
// catalog instead of a raft log's in-memory index. Delete is unsupported
// (spec.md §4.4).
type CDSWriter struct {
	*base
	snapshot atomic.Value // *immutable.SortedMap[uint64, segmentMeta]
}

// OpenCDS opens or creates the environment and catalog at path, with
// segments capped at maxLogEvents records. It does not create a segment:
// on a new environment the first Append creates li=1.
func OpenCDS(path string, maxLogEvents uint64, opts ...Option) (*CDSWriter, error) {
	b, err := openBase(path, maxLogEvents, opts)
	if err != nil {
		return nil, err
	}
	w := &CDSWriter{base: b}
	if err := w.refreshSnapshot(); err != nil {
		b.Close()
		return nil, err
	}
	return w, nil
}

// Append stores payload in the active segment, rolling to a new segment
// first if the active one is full, then refreshes the lock-free catalog
// snapshot.
func (w *CDSWriter) Append(payload []byte) (li, cl uint64, err error) {
	return w.append(payload, func(uint64) {
		// Best-effort: a failure here leaves the diagnostic snapshot
		// stale, it never affects durability of the append itself.
		_ = w.refreshSnapshot()
	})
}

// Delete always fails: the CDS flavor trades deletion for lock-free
// concurrent catalog reads.
func (w *CDSWriter) Delete(uint64) error {
	w.metrics.deleteRejections.WithLabelValues("unsupported_flavor").Inc()
	return fmt.Errorf("%w: CDSWriter does not support delete", binlog.ErrUnsupported)
}

// Segments returns the currently known catalog li values in ascending
// order, served entirely from the in-memory snapshot with no substrate
// access and no lock contention with an in-flight Append.
func (w *CDSWriter) Segments() []uint64 {
	m := w.loadSnapshot()
	if m == nil {
		return nil
	}
	out := make([]uint64, 0, m.Len())
	it := m.Iterator()
	for !it.Done() {
		li, _, _ := it.Next()
		out = append(out, li)
	}
	return out
}

func (w *CDSWriter) loadSnapshot() *immutable.SortedMap[uint64, segmentMeta] {
	m, _ := w.snapshot.Load().(*immutable.SortedMap[uint64, segmentMeta])
	return m
}

func (w *CDSWriter) refreshSnapshot() error {
	m := &immutable.SortedMap[uint64, segmentMeta]{}
	err := w.store.View(func(tx *store.Tx) error {
		cur := tx.Catalog().Cursor()
		for li, name, ok := cur.First(); ok; li, name, ok = cur.Next() {
			seg, serr := tx.OpenSegment(name, false)
			if serr != nil {
				return serr
			}
			m = m.Set(li, segmentMeta{Name: name, Count: seg.Count()})
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.snapshot.Store(m)
	return nil
}
