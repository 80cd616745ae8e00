package sparsemap

import (
	"math"
	"math/bits"
)

// CapacityFunc maps a requested number of slots to the number to allocate.
// It must return at least `requested`, be deterministic and never decrease
// as `requested` grows.
type CapacityFunc func(requested int) int

// Returns the next power of 2 for the given value `v`.
func NextPowerOf2(v uint32) uint32 {
	return uint32(1) << min(bits.Len32(v-1), 31)
}

// PowerOf2Capacity rounds the request up to a power of 2.
func PowerOf2Capacity(requested int) int {
	if requested <= 1 {
		return 1
	}

	if requested > 1<<30 {
		return requested
	}

	return int(NextPowerOf2(uint32(requested)))
}

// IdealCapacity rounds the request so that a slice of int64 fills an
// allocation of 2^k bytes minus a 12 byte header. Requests too large to round
// are returned as is.
func IdealCapacity(requested int) int {
	if requested <= 0 {
		return 0
	}

	if requested > math.MaxInt/8 {
		return requested
	}

	need := int64(requested) * 8
	for k := 4; k < 63; k++ {
		if size := int64(1)<<k - 12; need <= size {
			return int(size / 8)
		}
	}

	return requested
}

// Estimates capacity (number of slots) from the given memory size in bytes.
// Every slot holds a key, a value and a tombstone bit.
func CapacityFromSize(size uintptr) int {
	const bitsPerSlot = 64 + 64 + 1

	return int(size / bitsPerSlot * 8)
}
