package binlog

import "errors"

// Error taxonomy, per spec §7. Callers should use errors.Is against these
// sentinels; SubstrateError and Transient wrap an underlying cause and are
// matched with errors.As.
var (
	// ErrBadArgument: caller supplied an invalid record, a deletion target
	// that is the active segment, or a path that is not a directory.
	ErrBadArgument = errors.New("binlog: bad argument")

	// ErrMissing: open was requested without creation and the target does
	// not exist.
	ErrMissing = errors.New("binlog: missing")

	// ErrGone: a referenced segment has been reclaimed.
	ErrGone = errors.New("binlog: segment gone")

	// ErrUnsupported: operation not available for this writer flavor.
	ErrUnsupported = errors.New("binlog: unsupported")

	// ErrExhausted: no more records are currently available. Not a failure
	// condition; callers should retry later.
	ErrExhausted = errors.New("binlog: exhausted")

	// ErrClosed: operation attempted on a closed Store/Writer/Reader.
	ErrClosed = errors.New("binlog: closed")
)

// SubstrateError wraps an unrecoverable low-level failure from the
// underlying key-value substrate, preserving its code via errors.Unwrap.
type SubstrateError struct {
	Op  string
	Err error
}

func (e *SubstrateError) Error() string {
	return "binlog: substrate error during " + e.Op + ": " + e.Err.Error()
}

func (e *SubstrateError) Unwrap() error { return e.Err }

// TransientError wraps a deadlock/timeout from the substrate. The caller
// should retry the transaction.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return "binlog: transient error during " + e.Op + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }
