package sparsemap

import (
	"context"
	"fmt"
	"log/slog"
)

// CheckIntegrity verifies that the occupied slots hold strictly ascending keys.
// On a violation every slot is dumped to the logger at error level, and the
// returned error wraps ErrIntegrity. It's a debugging aid, the map itself
// never calls it.
func (m *SortedArrayMap) CheckIntegrity() error {
	for i := 1; i < m.size; i++ {
		if m.keys[i] > m.keys[i-1] {
			continue
		}

		m.dump(context.Background())

		return fmt.Errorf("%w: key %d at index %d follows key %d", ErrIntegrity, m.keys[i], i, m.keys[i-1])
	}

	return nil
}

func (m *SortedArrayMap) mustCheckIntegrity() {
	if err := m.CheckIntegrity(); err != nil {
		panic(err)
	}
}

func (m *SortedArrayMap) dump(ctx context.Context) {
	for i := range m.size {
		m.logger.LogAttrs(ctx, slog.LevelError, "sorted array map slot",
			slog.Int("index", i),
			slog.Int64("key", m.keys[i]),
			slog.Int64("value", m.values[i]),
			slog.Bool("tombstone", m.isTombstone(i)),
		)
	}
}
