package store

import (
	"fmt"

	"github.com/dreamsxin/binlog"
	bolt "go.etcd.io/bbolt"
)

// SegmentBucket is a durable ordered map keyed by cl (1-based, contiguous)
// holding one segment's opaque payloads.
type SegmentBucket struct {
	name string
	b    *bolt.Bucket
}

// Name returns the segment's bucket name, e.g. "log.3".
func (sg *SegmentBucket) Name() string { return sg.name }

// Append assigns the next cl to value and stores it, returning the
// assigned cl.
func (sg *SegmentBucket) Append(value []byte) (uint64, error) {
	cl, err := sg.b.NextSequence()
	if err != nil {
		return 0, err
	}
	if err := sg.b.Put(itob(cl), value); err != nil {
		return 0, err
	}
	return cl, nil
}

// Get returns the payload stored at cl, if present.
func (sg *SegmentBucket) Get(cl uint64) ([]byte, bool) {
	v := sg.b.Get(itob(cl))
	if v == nil {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Count returns the number of records appended to this segment. Since cl is
// assigned from the bucket's own monotonic sequence starting at 1, the
// last-issued sequence number is the record count.
func (sg *SegmentBucket) Count() uint64 {
	return sg.b.Sequence()
}

// OpenSegment opens the named segment. If create is false and the segment
// does not exist, ErrMissing is returned. If name collides with a value
// (not a bucket) in the segments parent, ErrBadArgument is returned (the Go
// analogue of BDB's IsDirectory failure named in spec.md §4.1).
func (tx *Tx) OpenSegment(name string, create bool) (*SegmentBucket, error) {
	parent := tx.tx.Bucket(segmentsBucketName)
	b := parent.Bucket([]byte(name))
	if b == nil {
		if !create {
			return nil, fmt.Errorf("%w: segment %s does not exist", binlog.ErrMissing, name)
		}
		var err error
		b, err = parent.CreateBucket([]byte(name))
		if err != nil {
			if err == bolt.ErrIncompatibleValue {
				return nil, fmt.Errorf("%w: %s collides with an existing value", binlog.ErrBadArgument, name)
			}
			return nil, err
		}
		if tx.metrics != nil {
			tx.metrics.segmentsCreated.Inc()
		}
	}
	return &SegmentBucket{name: name, b: b}, nil
}

// DeleteSegment removes the named segment bucket. Callers must also remove
// its catalog entry in the same transaction to keep the two in lockstep
// (spec.md §4.4: "a segment is removed from the catalog and from the
// filesystem in the same transaction").
func (tx *Tx) DeleteSegment(name string) error {
	parent := tx.tx.Bucket(segmentsBucketName)
	if err := parent.DeleteBucket([]byte(name)); err != nil {
		if err == bolt.ErrBucketNotFound {
			return fmt.Errorf("%w: segment %s does not exist", binlog.ErrMissing, name)
		}
		return err
	}
	if tx.metrics != nil {
		tx.metrics.segmentsDeleted.Inc()
	}
	return nil
}
