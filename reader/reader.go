// Package reader implements the Reader: iterates records via a Register,
// records acknowledgments, persists progress, and reports per-segment
// consumption status. See spec.md §4.3.
package reader

import (
	"fmt"
	"sync"

	"github.com/dreamsxin/binlog"
	"github.com/dreamsxin/binlog/checkpoint"
	"github.com/dreamsxin/binlog/register"
	"github.com/dreamsxin/binlog/store"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Reader presents records from a log directory and tracks one named
// consumer's progress through it.
type Reader struct {
	store          *store.Store
	checkpoints    *checkpoint.Store
	checkpointName string

	mu  sync.Mutex
	reg *register.Register

	logger  log.Logger
	metrics *readerMetrics
}

// Open opens the log store and the checkpoint store, loading the named
// checkpoint into a Register if one has been saved, or constructing an
// empty Register otherwise. The substrate file is opened read-write, since
// Save writes checkpoints into it, but a Reader never writes segments or the
// catalog. The log directory must already exist — a Reader never creates
// one.
func Open(path, checkpointName string, opts ...Option) (*Reader, error) {
	if checkpointName == "" {
		return nil, fmt.Errorf("%w: checkpoint name must be non-empty", binlog.ErrBadArgument)
	}
	cfg := newConfig(opts)

	s, err := store.Open(path, false,
		store.WithLogger(cfg.logger),
		store.WithRegisterer(cfg.reg),
		store.WithTimeout(cfg.timeout))
	if err != nil {
		return nil, err
	}

	cps := checkpoint.Open(s)
	reg, ok, err := cps.Load(checkpointName)
	if err != nil {
		s.Close()
		return nil, err
	}
	if !ok {
		reg = register.New()
	}

	return &Reader{
		store:          s,
		checkpoints:    cps,
		checkpointName: checkpointName,
		reg:            reg,
		logger:         cfg.logger,
		metrics:        newReaderMetrics(cfg.reg),
	}, nil
}

// Close releases the environment handle. It does not Save; callers must
// call Save explicitly if they want progress persisted.
func (r *Reader) Close() error {
	return r.store.Close()
}

// NextRecord returns the next record not yet acknowledged. It returns
// ErrExhausted — not a failure, an invitation to retry later — once the
// target position runs past the catalog's current maximum; such a call
// leaves the reader's position unchanged, so a later call re-examines the
// same positions. It returns ErrGone if the target segment is absent
// despite not being past the catalog's maximum, i.e. it was reclaimed by a
// writer's Delete before this reader consumed it.
//
// Per spec.md §4.3: register.Next(false) names a candidate (li, cl); if
// that segment has fewer than cl records, register.Next(true) rolls to the
// next li and the lookup repeats. The loop always terminates because each
// log=true step strictly increases li, and li is bounded by the catalog's
// maximum.
func (r *Reader) NextRecord() (store.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startLI, startCL := r.reg.LI(), r.reg.CL()
	useLog := false
	for {
		pos := r.reg.Next(useLog)

		var (
			segPresent bool
			valPresent bool
			value      []byte
			maxLI      uint64
			haveMax    bool
		)
		err := r.store.View(func(tx *store.Tx) error {
			cat := tx.Catalog()
			if last, _, ok := cat.Cursor().Last(); ok {
				maxLI, haveMax = last, true
			}
			name, present := cat.Get(pos.LI)
			if !present {
				return nil
			}
			segPresent = true

			seg, serr := tx.OpenSegment(name, false)
			if serr != nil {
				return serr
			}
			v, ok := seg.Get(pos.CL)
			if ok {
				valPresent = true
				value = append([]byte(nil), v...)
			}
			return nil
		})
		if err != nil {
			return store.Record{}, err
		}

		if valPresent {
			r.metrics.recordsRead.Inc()
			return store.Record{LI: pos.LI, CL: pos.CL, Value: value}, nil
		}

		if !segPresent {
			if !haveMax || pos.LI > maxLI {
				r.reg = register.Restore(startLI, startCL, r.reg.Snapshot())
				r.metrics.exhausted.Inc()
				return store.Record{}, binlog.ErrExhausted
			}
			r.metrics.gone.Inc()
			return store.Record{}, fmt.Errorf("%w: segment li=%d", binlog.ErrGone, pos.LI)
		}

		// Segment exists but pos.CL is past its count: roll to the next
		// li and retry.
		useLog = true
	}
}

// Ack records rec as consumed.
func (r *Reader) Ack(rec store.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.Add(register.Record{LI: rec.LI, CL: rec.CL})
	r.metrics.acks.Inc()
	return nil
}

// Save atomically persists the current Register image under this
// Reader's checkpoint name.
func (r *Reader) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkpoints.Save(r.checkpointName, r.reg); err != nil {
		return err
	}
	r.metrics.saves.Inc()
	level.Debug(r.logger).Log("msg", "checkpoint saved", "name", r.checkpointName)
	return nil
}

// Status reports, for every li currently in the catalog, whether this
// reader has fully consumed that segment: true iff reg[li] is the single
// range (1, n) where n is the segment's record count, and li is not the
// catalog's maximum — the active tail is never considered consumable
// (spec.md §4.3, resolved per §9's Open Question: "the last key's value is
// always false").
func (r *Reader) Status() (map[uint64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[uint64]bool)
	snapshot := r.reg.Snapshot()

	err := r.store.View(func(tx *store.Tx) error {
		cat := tx.Catalog()
		cur := cat.Cursor()

		type entry struct {
			li   uint64
			name string
		}
		var entries []entry
		var maxLI uint64
		for li, name, ok := cur.First(); ok; li, name, ok = cur.Next() {
			entries = append(entries, entry{li: li, name: name})
			if li > maxLI {
				maxLI = li
			}
		}

		for _, e := range entries {
			if e.li == maxLI {
				result[e.li] = false
				continue
			}
			seg, err := tx.OpenSegment(e.name, false)
			if err != nil {
				return err
			}
			n := seg.Count()
			ranges := snapshot[e.li]
			result[e.li] = len(ranges) == 1 && ranges[0].Lo == 1 && ranges[0].Hi == n
		}
		return nil
	})
	return result, err
}
