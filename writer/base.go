// Package writer implements the Writer: appends payloads, rolls segments
// when full, and — in the TDS flavor — reclaims segments all readers have
// finished. See spec.md §4.4.
package writer

import (
	"fmt"
	"sync"

	"github.com/dreamsxin/binlog"
	"github.com/dreamsxin/binlog/store"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Writer is the shared surface both flavors expose.
type Writer interface {
	// Append stores payload in the active segment, rolling to a new
	// segment first if the active one is full. It returns the assigned
	// (li, cl).
	Append(payload []byte) (li, cl uint64, err error)

	// Delete reclaims segment li. TDSWriter supports it per spec.md §4.4;
	// CDSWriter always returns ErrUnsupported.
	Delete(li uint64) error

	// CurrentLog returns the active segment's li without mutating
	// anything, or ok=false if nothing has ever been appended.
	CurrentLog() (li uint64, ok bool, err error)

	Close() error
}

// base holds everything shared between TDSWriter and CDSWriter: the
// substrate handle, segment-rolling policy, and logging/metrics. Appends
// are serialized by writeMu in addition to the substrate's own single-
// writer transaction semantics, matching the teacher's writeMu pattern
// (dreamsxin-wal/wal.go) so that the flavor-specific post-append hooks
// (CDSWriter's atomic catalog snapshot) observe a consistent view.
type base struct {
	store        *store.Store
	maxLogEvents uint64
	logger       log.Logger
	metrics      *writerMetrics

	writeMu sync.Mutex
}

func openBase(path string, maxLogEvents uint64, opts []Option) (*base, error) {
	if maxLogEvents < 1 {
		return nil, fmt.Errorf("%w: max_log_events must be >= 1", binlog.ErrBadArgument)
	}
	cfg := newConfig(opts)

	s, err := store.Open(path, true,
		store.WithLogger(cfg.logger),
		store.WithRegisterer(cfg.reg),
		store.WithTimeout(cfg.timeout))
	if err != nil {
		return nil, err
	}

	return &base{
		store:        s,
		maxLogEvents: maxLogEvents,
		logger:       cfg.logger,
		metrics:      newWriterMetrics(cfg.reg),
	}, nil
}

func (b *base) Close() error {
	return b.store.Close()
}

func (b *base) CurrentLog() (li uint64, ok bool, err error) {
	err = b.store.View(func(tx *store.Tx) error {
		li, _, ok = tx.Catalog().Cursor().Last()
		return nil
	})
	return li, ok, err
}

// setCurrentLog returns the active segment, creating one if the catalog is
// empty or the existing tail is full. spec.md §4.4.
func (b *base) setCurrentLog(tx *store.Tx) (*store.SegmentBucket, uint64, error) {
	cat := tx.Catalog()
	li, name, ok := cat.Cursor().Last()
	if !ok {
		return b.createSegment(tx, 1)
	}

	seg, err := tx.OpenSegment(name, false)
	if err != nil {
		return nil, 0, err
	}
	if seg.Count() >= b.maxLogEvents {
		return b.createSegment(tx, li+1)
	}
	return seg, li, nil
}

func (b *base) createSegment(tx *store.Tx, li uint64) (*store.SegmentBucket, uint64, error) {
	name := segmentName(li)
	seg, err := tx.OpenSegment(name, true)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Catalog().Put(li, name); err != nil {
		return nil, 0, err
	}
	b.metrics.segmentRotations.Inc()
	level.Debug(b.logger).Log("msg", "segment created", "li", li, "name", name)
	return seg, li, nil
}

func segmentName(li uint64) string {
	return fmt.Sprintf("%s.%d", binlog.LogPrefix, li)
}

// append performs the shared roll-then-write transaction. post, if
// non-nil, runs after a successful commit while writeMu is still held, so
// flavor-specific bookkeeping (CDSWriter's catalog snapshot) sees a
// consistent sequence of appends.
func (b *base) append(payload []byte, post func(li uint64)) (li, cl uint64, err error) {
	if len(payload) == 0 {
		return 0, 0, fmt.Errorf("%w: payload must be non-empty", binlog.ErrBadArgument)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	err = b.store.Update(func(tx *store.Tx) error {
		seg, segLI, serr := b.setCurrentLog(tx)
		if serr != nil {
			return serr
		}
		c, aerr := seg.Append(payload)
		if aerr != nil {
			return aerr
		}
		li, cl = segLI, c
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	b.metrics.appends.Inc()
	b.metrics.appendBytes.Add(float64(len(payload)))
	if post != nil {
		post(li)
	}
	return li, cl, nil
}

// deleteSegment implements spec.md §4.4's deletion protocol: the active
// segment is rejected unconditionally; otherwise the delete proceeds
// without consulting any reader (design note §9.3 — the caller is expected
// to have already verified via Reader.Status that the segment is fully
// consumed).
func (b *base) deleteSegment(li uint64) error {
	err := b.store.Update(func(tx *store.Tx) error {
		cat := tx.Catalog()
		activeLI, _, ok := cat.Cursor().Last()
		if ok && li == activeLI {
			b.metrics.deleteRejections.WithLabelValues("active_segment").Inc()
			return fmt.Errorf("%w: cannot delete the active segment (li=%d)", binlog.ErrBadArgument, li)
		}

		name, found := cat.Get(li)
		if !found {
			b.metrics.deleteRejections.WithLabelValues("not_found").Inc()
			return fmt.Errorf("%w: segment li=%d is not cataloged", binlog.ErrBadArgument, li)
		}

		if err := tx.DeleteSegment(name); err != nil {
			return err
		}
		return cat.Delete(li)
	})
	if err != nil {
		return err
	}

	b.metrics.deletes.Inc()
	level.Info(b.logger).Log("msg", "segment deleted", "li", li)
	return nil
}
