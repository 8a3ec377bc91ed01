// Package binlog is an embedded, append-only binary log store with durable
// checkpointed readers.
//
// Producers append opaque byte records to a segmented log (package store).
// One or more named consumers advance independently through the log,
// acknowledging records out of order; their progress is compacted into a
// sparse run representation (package register) and persisted across
// restarts (package checkpoint). Package writer appends and reclaims
// segments; package reader iterates records and tracks acknowledgments.
package binlog

const (
	// LogPrefix names segment buckets: LogPrefix + "." + li, e.g. "log.1".
	LogPrefix = "log"

	// CatalogName is the top-level bucket holding the li -> segment name
	// ordered map.
	CatalogName = "logindex"

	// CheckpointsName is the top-level bucket holding named reader
	// checkpoints.
	CheckpointsName = "checkpoints"

	// DBFileName is the single bbolt file backing one log directory.
	DBFileName = "binlog.db"
)

// Record is the triple (li, cl, value) addressing and carrying one stored
// payload. li is the 1-based segment index, cl the 1-based record index
// within that segment.
type Record struct {
	LI    uint64
	CL    uint64
	Value []byte
}
