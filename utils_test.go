package sparsemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		input uint32
		want  uint32
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{1000, 1024},
		{1 << 20, 1 << 20},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, NextPowerOf2(tt.input), "input %d", tt.input)
	}
}

func TestIdealCapacity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"one", 1, 2},
		{"two", 2, 2},
		{"three", 3, 6},
		{"default", defaultCapacity, 14},
		{"fifteen", 15, 30},
		{"1k", 1000, 1022},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IdealCapacity(tt.requested))
		})
	}
}

func TestCapacityFuncContract(t *testing.T) {
	funcs := map[string]CapacityFunc{
		"ideal":    IdealCapacity,
		"powerOf2": PowerOf2Capacity,
	}

	for name, f := range funcs {
		t.Run(name, func(t *testing.T) {
			prev := f(0)
			for n := 0; n < 1<<16; n++ {
				got := f(n)
				require.GreaterOrEqual(t, got, n)
				require.GreaterOrEqual(t, got, prev)
				require.Equal(t, got, f(n))

				prev = got
			}
		})
	}
}

func TestPowerOf2Capacity(t *testing.T) {
	require.Equal(t, 1, PowerOf2Capacity(0))
	require.Equal(t, 1, PowerOf2Capacity(1))
	require.Equal(t, 16, PowerOf2Capacity(9))
	require.Equal(t, 1<<30+1, PowerOf2Capacity(1<<30+1))
}

func TestCapacityFromSize(t *testing.T) {
	tests := []struct {
		name string
		size uintptr
		want int
	}{
		{"zero", 0, 0},
		{"less than one block", 128, 0},
		{"one block", 129, 8},
		{"ten blocks", 1290, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CapacityFromSize(tt.size))
		})
	}

	t.Run("usage with New", func(t *testing.T) {
		sm := New(CapacityFromSize(129 * 4))
		require.GreaterOrEqual(t, sm.Capacity(), 32)
	})
}
