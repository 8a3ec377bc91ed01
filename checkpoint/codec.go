package checkpoint

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dreamsxin/binlog"
	"github.com/dreamsxin/binlog/register"
)

// encode serializes (liidx, clidx, reg) into a deterministic byte layout so
// that two successive saves of equal logical state produce byte-identical
// payloads (spec.md §4.5). Layout, all fields big-endian uint64:
//
//	liidx clidx numLI [li numRanges [lo hi]...]...
//
// li keys are emitted in ascending order; Go's map iteration order is
// random, so the encoder sorts them first. The whole image is written into
// one buffer sized up front; the explicit big-endian field layout is
// adapted from the teacher's segment frame codec (see DESIGN.md).
func encode(liidx, clidx uint64, reg map[uint64][]register.Range) []byte {
	lis := make([]uint64, 0, len(reg))
	for li := range reg {
		lis = append(lis, li)
	}
	sort.Slice(lis, func(i, j int) bool { return lis[i] < lis[j] })

	size := 24
	for _, li := range lis {
		size += 16 + 16*len(reg[li])
	}

	buf := make([]byte, size)
	off := 0
	putU64 := func(v uint64) {
		binary.BigEndian.PutUint64(buf[off:], v)
		off += 8
	}

	putU64(liidx)
	putU64(clidx)
	putU64(uint64(len(lis)))
	for _, li := range lis {
		ranges := reg[li]
		putU64(li)
		putU64(uint64(len(ranges)))
		for _, rg := range ranges {
			putU64(rg.Lo)
			putU64(rg.Hi)
		}
	}
	return buf
}

// decode is the inverse of encode.
func decode(image []byte) (liidx, clidx uint64, reg map[uint64][]register.Range, err error) {
	if len(image) < 24 {
		return 0, 0, nil, fmt.Errorf("%w: checkpoint image too short (%d bytes)", binlog.ErrBadArgument, len(image))
	}

	off := 0
	getU64 := func() (uint64, error) {
		if off+8 > len(image) {
			return 0, fmt.Errorf("%w: checkpoint image truncated", binlog.ErrBadArgument)
		}
		v := binary.BigEndian.Uint64(image[off:])
		off += 8
		return v, nil
	}

	if liidx, err = getU64(); err != nil {
		return
	}
	if clidx, err = getU64(); err != nil {
		return
	}
	numLI, err := getU64()
	if err != nil {
		return
	}

	reg = make(map[uint64][]register.Range, numLI)
	for i := uint64(0); i < numLI; i++ {
		li, e := getU64()
		if e != nil {
			return 0, 0, nil, e
		}
		numRanges, e := getU64()
		if e != nil {
			return 0, 0, nil, e
		}
		ranges := make([]register.Range, numRanges)
		for j := uint64(0); j < numRanges; j++ {
			lo, e := getU64()
			if e != nil {
				return 0, 0, nil, e
			}
			hi, e := getU64()
			if e != nil {
				return 0, 0, nil, e
			}
			ranges[j] = register.Range{Lo: lo, Hi: hi}
		}
		reg[li] = ranges
	}
	return liidx, clidx, reg, nil
}
