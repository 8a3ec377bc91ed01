package writer

// TDSWriter is the transactional flavor: every append and delete commits
// inside a single substrate transaction, and Delete is supported (spec.md
// §4.4).
type TDSWriter struct {
	*base
}

// OpenTDS opens or creates the environment and catalog at path, with
// segments capped at maxLogEvents records. It does not create a segment:
// on a new environment the first Append creates li=1.
func OpenTDS(path string, maxLogEvents uint64, opts ...Option) (*TDSWriter, error) {
	b, err := openBase(path, maxLogEvents, opts)
	if err != nil {
		return nil, err
	}
	return &TDSWriter{base: b}, nil
}

// Append stores payload in the active segment, rolling to a new segment
// first if the active one is full.
func (w *TDSWriter) Append(payload []byte) (li, cl uint64, err error) {
	return w.append(payload, nil)
}

// Delete reclaims segment li. It fails with ErrBadArgument if li is the
// active segment or is not cataloged. It does not consult any reader —
// callers must have already confirmed consumption via Reader.Status.
func (w *TDSWriter) Delete(li uint64) error {
	return w.deleteSegment(li)
}
