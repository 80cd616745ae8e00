package sparsemap

import (
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

const (
	// Capacity hint used by NewDefault.
	defaultCapacity = 10

	// NotFound is returned by GetOr callers that use the conventional default,
	// and it's written into released value slots by Clear.
	NotFound int64 = -1

	// Deleted is the value the sentinel encoding used to mark tombstones.
	// Tombstones are tracked in a separate bitset, so Deleted is an ordinary
	// storable value here.
	Deleted int64 = -2
)

// placement tells put how a missing key lands at its insertion point.
type placement uint8

const (
	shiftInsert placement = iota
	reuseInPlace
)

type table struct {
	// Keys and values are parallel, len(keys) == len(values) is the capacity.
	// Only [0, size) is meaningful.
	keys   []int64
	values []int64

	// One bit per slot, set when the slot is a tombstone.
	tombstones *bitset.BitSet

	// Number of slots in use, tombstones included.
	size int

	// Set on delete, cleared by compaction. It's a "maybe dirty" flag:
	// a resurrected tombstone leaves it set.
	dirty bool

	capacityFunc CapacityFunc
	logger       *slog.Logger
}

type Option func(t *table)

// Override the capacity rounding helper used on construction and growth.
func WithCapacityFunc(f CapacityFunc) Option {
	return func(t *table) {
		t.capacityFunc = f
	}
}

// Sets a logger for growth, compaction and integrity reports.
func WithLogger(logger *slog.Logger) Option {
	return func(t *table) {
		t.logger = logger
	}
}

func (t *table) init(capacity int, opts ...Option) {
	for _, opt := range opts {
		opt(t)
	}

	if t.capacityFunc == nil {
		t.capacityFunc = IdealCapacity
	}

	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}

	n := t.idealCapacity(max(capacity, 0))

	t.keys = make([]int64, n)
	t.values = make([]int64, n)
	t.tombstones = bitset.New(uint(n))
	t.size = 0
	t.dirty = false
}

// idealCapacity never returns less than requested, whatever the helper does.
func (t *table) idealCapacity(requested int) int {
	return max(t.capacityFunc(requested), requested)
}

func (t *table) capacity() int {
	return len(t.keys)
}

func (t *table) search(key int64) (int, bool) {
	return slices.BinarySearch(t.keys[:t.size], key)
}

func (t *table) isTombstone(i int) bool {
	return t.dirty && t.tombstones.Test(uint(i))
}

func (t *table) get(key int64) (int64, bool) {
	i, found := t.search(key)
	if !found || t.isTombstone(i) {
		return 0, false
	}

	return t.values[i], true
}

// placementAt decides whether a missing key can take over the tombstone
// sitting at its insertion point i.
func (t *table) placementAt(i int, key int64) placement {
	if i >= t.size || !t.isTombstone(i) {
		return shiftInsert
	}

	if i > 0 && t.keys[i-1] >= key {
		return shiftInsert
	}

	if i+1 < t.size && t.keys[i+1] <= key {
		return shiftInsert
	}

	return reuseInPlace
}

func (t *table) put(key, value int64) int {
	i, found := t.search(key)
	if found {
		// Replacing a tombstoned match resurrects it where it is.
		t.values[i] = value
		if t.dirty {
			t.tombstones.Clear(uint(i))
		}

		return i
	}

	if t.placementAt(i, key) == reuseInPlace {
		t.keys[i] = key
		t.values[i] = value
		t.tombstones.Clear(uint(i))

		return i
	}

	if t.dirty && t.size >= t.capacity() {
		t.compact()

		// Indices moved.
		i, _ = t.search(key)
	}

	if t.size >= t.capacity() {
		t.grow(t.size + 1)
	}

	if i < t.size {
		copy(t.keys[i+1:t.size+1], t.keys[i:t.size])
		copy(t.values[i+1:t.size+1], t.values[i:t.size])

		if t.dirty {
			t.tombstones.InsertAt(uint(i))
		}
	}

	t.keys[i] = key
	t.values[i] = value
	t.size++

	return i
}

func (t *table) append(key, value int64) int {
	if t.size != 0 && key <= t.keys[t.size-1] {
		return t.put(key, value)
	}

	if t.dirty && t.size >= t.capacity() {
		t.compact()
	}

	pos := t.size
	if pos >= t.capacity() {
		t.grow(pos + 1)
	}

	t.keys[pos] = key
	t.values[pos] = value
	t.size = pos + 1

	return pos
}

func (t *table) delete(key int64) bool {
	i, found := t.search(key)
	if !found || t.isTombstone(i) {
		return false
	}

	t.tombstones.Set(uint(i))
	t.dirty = true

	return true
}

// grow reallocates the backing slices to hold at least `need` slots.
// It's only reached with no tombstones pending: both callers compact a dirty
// full table first, so the tombstone bitset can be dropped.
func (t *table) grow(need int) {
	n := t.idealCapacity(need)

	keys := make([]int64, n)
	values := make([]int64, n)

	copy(keys, t.keys[:t.size])
	copy(values, t.values[:t.size])

	t.logger.Debug("sorted array map grown",
		"from", len(t.keys),
		"to", n,
		"size", t.size,
	)

	t.keys = keys
	t.values = values
	t.tombstones = bitset.New(uint(n))
}

// compact drops tombstoned slots with a single stable pass.
func (t *table) compact() {
	o := 0

	for i := 0; i < t.size; i++ {
		if t.tombstones.Test(uint(i)) {
			continue
		}

		if i != o {
			t.keys[o] = t.keys[i]
			t.values[o] = t.values[i]
		}

		o++
	}

	if o != t.size {
		t.logger.Debug("sorted array map compacted",
			"size", t.size,
			"removed", t.size-o,
		)
	}

	t.size = o
	t.dirty = false
	t.tombstones.ClearAll()
}

func (t *table) gcIfDirty() {
	if t.dirty {
		t.compact()
	}
}

func (t *table) Reset() {
	for i := range t.size {
		t.values[i] = NotFound
	}

	t.size = 0
	t.dirty = false
	t.tombstones.ClearAll()
}

// Compact physically removes tombstoned entries. It's O(size) and allocation
// free. Calling it on a clean map is a no-op.
func (t *table) Compact() {
	t.gcIfDirty()
}
