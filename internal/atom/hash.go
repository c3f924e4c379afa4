package atom

import "hash/crc32"

// castagnoli is the CRC32C table. On amd64/arm64, Go's hash/crc32
// package recognizes the Castagnoli polynomial and dispatches to the
// hardware CRC32 instruction automatically (see crc32.haveSSE42
// and the arm64 equivalent); everywhere else it falls back to a
// software slicing-by-8 table walk. Either way the call below is the
// "CRC32C (hardware)" path from the spec.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// hashBytes is the table's primary hash function: hardware-accelerated
// CRC32C where available, keyed so that empty input still produces a
// nonzero hash (see normalizeHash).
func hashBytes(b []byte) uint32 {
	return normalizeHash(crc32.Checksum(b, castagnoli))
}

// murmur32 is a software fallback hash, used only by tests and callers
// that explicitly want a hash independent of the CRC32C table (e.g. to
// exercise collision handling without relying on hardware dispatch).
// It is the classic MurmurHash3 x86_32 finalizer-and-mix algorithm.
func murmur32(b []byte, seed uint32) uint32 {
	const (
		c1 = 0xcc9e2d51
		c2 = 0x1b873593
	)

	h := seed
	n := len(b)
	nblocks := n / 4

	for i := 0; i < nblocks; i++ {
		k := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	tail := b[nblocks*4:]
	var k uint32
	switch len(tail) {
	case 3:
		k ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k ^= uint32(tail[0])
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2
		h ^= k
	}

	h ^= uint32(n)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return normalizeHash(h)
}

// normalizeHash maps a zero hash to a nonzero constant so that a hash
// of zero can be reserved to mark empty slots in the table's index
// array.
func normalizeHash(h uint32) uint32 {
	if h == 0 {
		return 0x9e3779b9 // golden-ratio constant, arbitrary but fixed
	}
	return h
}

// reduce32 maps a 32-bit hash into [0, capacity) without a division,
// using Lemire's fast-range "multiply-high" trick. capacity must be a
// power of two for the probe sequence below to cover every slot, which
// Table guarantees.
func reduce32(hash uint32, capacity int) int {
	return int((uint64(hash) * uint64(capacity)) >> 32)
}
