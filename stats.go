package sparsemap

// Stats describes the map's storage. Size counts live entries, Slots counts
// occupied slots, tombstones included.
type Stats struct {
	Size                    int
	Slots                   int
	Tombstones              int
	Capacity                int
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}
