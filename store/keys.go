package store

import "encoding/binary"

// itob encodes li as 8-byte big-endian so bbolt's byte-lexicographic
// cursor order matches numeric order, mirroring RECNO's 1-based integer
// keys.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
