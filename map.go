package sparsemap

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// SortedArrayMap maps int64 keys to int64 values using two parallel sorted
// slices. It's meant for large sparse id spaces, where a builtin map costs too
// much per entry and a dense slice wastes memory on the gaps.
//
// Deletes are lazy: a deleted entry is only marked as a tombstone, and the
// slot is reclaimed by compaction. Compaction runs implicitly on the first
// size-reporting or index-addressing call after a delete (Size, KeyAt, ValueAt,
// SetKeyAt, SetValueAt, IndexOfKey, IndexOfValue), so those calls may take
// O(n). Call Compact explicitly for predictable latency.
//
// Indices returned by Put, Append or Search are only valid until the next
// mutating call.
//
// SortedArrayMap isn't safe for concurrent use.
type SortedArrayMap struct {
	table
}

// Returns a new map with room for at least `capacity` entries.
func New(capacity int, opts ...Option) *SortedArrayMap {
	var m SortedArrayMap
	m.init(capacity, opts...)

	return &m
}

// Returns a new map with a small default capacity.
func NewDefault(opts ...Option) *SortedArrayMap {
	return New(defaultCapacity, opts...)
}

// Returns the value stored for a key and whether it's present.
func (m *SortedArrayMap) Get(key int64) (int64, bool) {
	return m.get(key)
}

// Returns the value stored for a key, or fallback if it's absent.
func (m *SortedArrayMap) GetOr(key, fallback int64) int64 {
	if v, ok := m.get(key); ok {
		return v
	}

	return fallback
}

// Puts a key, replacing the previous value if there was one.
// Returns the index the entry ended up at.
func (m *SortedArrayMap) Put(key, value int64) int {
	return m.put(key, value)
}

// Puts a key, skipping the search when it's greater than every key in the
// map. Out of order keys fall back to Put.
func (m *SortedArrayMap) Append(key, value int64) int {
	return m.append(key, value)
}

// Puts every key with the same value.
func (m *SortedArrayMap) SetAll(keys []int64, value int64) {
	for _, k := range keys {
		m.put(k, value)
	}
}

// Deletes a key. Returns whether a live entry was removed.
func (m *SortedArrayMap) Delete(key int64) bool {
	return m.delete(key)
}

// Alias for Delete.
func (m *SortedArrayMap) Remove(key int64) bool {
	return m.delete(key)
}

// Removes every entry. Capacity is retained.
func (m *SortedArrayMap) Clear() {
	m.Reset()
}

// Returns the number of live entries. May compact.
func (m *SortedArrayMap) Size() int {
	m.gcIfDirty()

	return m.size
}

// Returns the number of allocated slots.
func (m *SortedArrayMap) Capacity() int {
	return m.capacity()
}

// Search looks a key up among the occupied slots, tombstones included.
// It returns the key's index and true on an exact match, or the index the key
// would be inserted at and false otherwise. It never compacts.
func (m *SortedArrayMap) Search(key int64) (int, bool) {
	return m.search(key)
}

// BinarySearch is Search with the result packed into one int: the index on a
// match, the bitwise complement of the insertion point otherwise.
func (m *SortedArrayMap) BinarySearch(key int64) int {
	i, found := m.search(key)
	if !found {
		return ^i
	}

	return i
}

// Returns the index KeyAt would report the key at. May compact.
func (m *SortedArrayMap) IndexOfKey(key int64) (int, bool) {
	m.gcIfDirty()

	return m.search(key)
}

// Returns the index of the first entry holding value, or -1.
// It's a linear scan. May compact.
func (m *SortedArrayMap) IndexOfValue(value int64) int {
	m.gcIfDirty()

	for i := range m.size {
		if m.values[i] == value {
			return i
		}
	}

	return -1
}

// Returns the key of the i-th entry. May compact.
func (m *SortedArrayMap) KeyAt(i int) (int64, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}

	return m.keys[i], nil
}

// Returns the value of the i-th entry. May compact.
func (m *SortedArrayMap) ValueAt(i int) (int64, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}

	return m.values[i], nil
}

// Replaces the value of the i-th entry. May compact.
func (m *SortedArrayMap) SetValueAt(i int, value int64) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}

	m.values[i] = value

	return nil
}

// Replaces the key of the i-th entry. The new key must still sort strictly
// between its neighbours, otherwise ErrKeyOrder is returned and nothing
// changes. May compact.
func (m *SortedArrayMap) SetKeyAt(i int, key int64) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}

	if i > 0 && m.keys[i-1] >= key {
		return fmt.Errorf("%w: key %d at index %d, previous key is %d", ErrKeyOrder, key, i, m.keys[i-1])
	}

	if i+1 < m.size && m.keys[i+1] <= key {
		return fmt.Errorf("%w: key %d at index %d, next key is %d", ErrKeyOrder, key, i, m.keys[i+1])
	}

	m.keys[i] = key

	return nil
}

func (m *SortedArrayMap) checkIndex(i int) error {
	m.gcIfDirty()

	if i < 0 || i >= m.size {
		return fmt.Errorf("%w: %d, size is %d", ErrIndexOutOfRange, i, m.size)
	}

	return nil
}

// Returns a copy of the live keys in ascending order.
func (m *SortedArrayMap) Keys() []int64 {
	keys := make([]int64, 0, m.size)
	for i := range m.size {
		if !m.isTombstone(i) {
			keys = append(keys, m.keys[i])
		}
	}

	return keys
}

// Returns the live keys as a roaring bitmap, reinterpreting each key as an
// uint64. Negative keys end up above math.MaxInt64.
func (m *SortedArrayMap) LiveKeys() *roaring64.Bitmap {
	bm := roaring64.New()
	for i := range m.size {
		if !m.isTombstone(i) {
			bm.Add(uint64(m.keys[i]))
		}
	}

	return bm
}

// Returns the map statistics. Never compacts.
func (m *SortedArrayMap) Stats() Stats {
	var tombstones int
	if m.dirty {
		tombstones = int(m.tombstones.Count())
	}

	stats := Stats{
		Size:       m.size - tombstones,
		Slots:      m.size,
		Tombstones: tombstones,
		Capacity:   m.capacity(),
	}

	if stats.Capacity > 0 {
		stats.TombstonesCapacityRatio = float32(tombstones) / float32(stats.Capacity)
	}

	if m.size > 0 {
		stats.TombstonesSizeRatio = float32(tombstones) / float32(m.size)
	}

	return stats
}
