package writer

import (
	"errors"
	"testing"

	"github.com/dreamsxin/binlog"
	"github.com/stretchr/testify/require"
)

func TestTDSAppendAssignsSequentialCL(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 10)
	require.NoError(t, err)
	defer w.Close()

	li1, cl1, err := w.Append([]byte("a"))
	require.NoError(t, err)
	li2, cl2, err := w.Append([]byte("b"))
	require.NoError(t, err)

	require.Equal(t, uint64(1), li1)
	require.Equal(t, uint64(1), li2)
	require.Equal(t, uint64(1), cl1)
	require.Equal(t, uint64(2), cl2)
}

func TestTDSAppendRollsSegmentOnceFull(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 2)
	require.NoError(t, err)
	defer w.Close()

	li1, cl1, err := w.Append([]byte("a"))
	require.NoError(t, err)
	li2, cl2, err := w.Append([]byte("b"))
	require.NoError(t, err)
	li3, cl3, err := w.Append([]byte("c"))
	require.NoError(t, err)

	require.Equal(t, uint64(1), li1)
	require.Equal(t, uint64(1), li2)
	require.Equal(t, uint64(2), li3)
	require.Equal(t, uint64(1), cl1)
	require.Equal(t, uint64(2), cl2)
	require.Equal(t, uint64(1), cl3)
}

func TestTDSAppendRejectsEmptyPayload(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 10)
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Append(nil)
	require.ErrorIs(t, err, binlog.ErrBadArgument)
}

func TestTDSDeleteRejectsActiveSegment(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 10)
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Append([]byte("a"))
	require.NoError(t, err)

	err = w.Delete(1)
	require.ErrorIs(t, err, binlog.ErrBadArgument)
}

func TestTDSDeleteRejectsUncatalogedSegment(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 10)
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Append([]byte("a"))
	require.NoError(t, err)

	err = w.Delete(99)
	require.ErrorIs(t, err, binlog.ErrBadArgument)
}

func TestTDSDeletePastSegmentSucceeds(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 1)
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Append([]byte("a")) // li=1
	require.NoError(t, err)
	_, _, err = w.Append([]byte("b")) // rolls to li=2
	require.NoError(t, err)

	require.NoError(t, w.Delete(1))

	// Deleting the same segment twice fails: it is no longer cataloged.
	err = w.Delete(1)
	require.ErrorIs(t, err, binlog.ErrBadArgument)
}

func TestTDSCurrentLogReflectsActiveSegment(t *testing.T) {
	w, err := OpenTDS(t.TempDir(), 1)
	require.NoError(t, err)
	defer w.Close()

	_, ok, err := w.CurrentLog()
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = w.Append([]byte("a"))
	require.NoError(t, err)
	li, ok, err := w.CurrentLog()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), li)

	_, _, err = w.Append([]byte("b")) // rolls
	require.NoError(t, err)
	li, ok, err = w.CurrentLog()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), li)
}

func TestCDSDeleteAlwaysUnsupported(t *testing.T) {
	w, err := OpenCDS(t.TempDir(), 10)
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Append([]byte("a"))
	require.NoError(t, err)

	err = w.Delete(1)
	require.True(t, errors.Is(err, binlog.ErrUnsupported))
}

func TestCDSAppendBehavesLikeTDS(t *testing.T) {
	w, err := OpenCDS(t.TempDir(), 2)
	require.NoError(t, err)
	defer w.Close()

	li1, cl1, err := w.Append([]byte("a"))
	require.NoError(t, err)
	li2, cl2, err := w.Append([]byte("b"))
	require.NoError(t, err)
	li3, cl3, err := w.Append([]byte("c"))
	require.NoError(t, err)

	require.Equal(t, uint64(1), li1)
	require.Equal(t, uint64(1), li2)
	require.Equal(t, uint64(2), li3)
	require.Equal(t, uint64(1), cl1)
	require.Equal(t, uint64(2), cl2)
	require.Equal(t, uint64(1), cl3)
}

func TestCDSSegmentsSnapshotReflectsCatalog(t *testing.T) {
	w, err := OpenCDS(t.TempDir(), 1)
	require.NoError(t, err)
	defer w.Close()

	require.Empty(t, w.Segments())

	_, _, err = w.Append([]byte("a")) // li=1
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, w.Segments())

	_, _, err = w.Append([]byte("b")) // rolls to li=2
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, w.Segments())
}

func TestCDSSnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	w, err := OpenCDS(dir, 1)
	require.NoError(t, err)
	_, _, err = w.Append([]byte("a"))
	require.NoError(t, err)
	_, _, err = w.Append([]byte("b"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w2, err := OpenCDS(dir, 1)
	require.NoError(t, err)
	defer w2.Close()

	require.Equal(t, []uint64{1, 2}, w2.Segments())

	// Reopening must continue after the existing tail rather than starting
	// a fresh li=1: li=2 is already full, so the append rolls to li=3.
	li, _, err := w2.Append([]byte("c"))
	require.NoError(t, err)
	require.Equal(t, uint64(3), li)
}

// TestOpenTDS_ReusesOrRollsTail covers the two branches of
// base.setCurrentLog (writer/base.go): reopening an environment whose tail
// segment still has free capacity resumes appending to that same segment,
// while reopening one whose tail is already full rolls to the next li.
// Ports original_source/tests/unit/test_writer.py's
// test_Writer_set_current_log_on_created_with_space and
// test_Writer_set_current_log_on_created_without_space.
func TestOpenTDS_ReusesOrRollsTail(t *testing.T) {
	t.Run("tail has free capacity", func(t *testing.T) {
		dir := t.TempDir()

		w, err := OpenTDS(dir, 10)
		require.NoError(t, err)
		_, _, err = w.Append([]byte("a")) // li=1, cl=1, 9 slots left
		require.NoError(t, err)
		require.NoError(t, w.Close())

		w2, err := OpenTDS(dir, 10)
		require.NoError(t, err)
		defer w2.Close()

		li, cl, err := w2.Append([]byte("b"))
		require.NoError(t, err)
		require.Equal(t, uint64(1), li)
		require.Equal(t, uint64(2), cl)
	})

	t.Run("tail is already full", func(t *testing.T) {
		dir := t.TempDir()

		w, err := OpenTDS(dir, 1)
		require.NoError(t, err)
		_, _, err = w.Append([]byte("a")) // li=1, cl=1, full
		require.NoError(t, err)
		require.NoError(t, w.Close())

		w2, err := OpenTDS(dir, 1)
		require.NoError(t, err)
		defer w2.Close()

		li, cl, err := w2.Append([]byte("b"))
		require.NoError(t, err)
		require.Equal(t, uint64(2), li)
		require.Equal(t, uint64(1), cl)
	})
}

func TestOpenRejectsZeroMaxLogEvents(t *testing.T) {
	_, err := OpenTDS(t.TempDir(), 0)
	require.ErrorIs(t, err, binlog.ErrBadArgument)

	_, err = OpenCDS(t.TempDir(), 0)
	require.ErrorIs(t, err, binlog.ErrBadArgument)
}
