package roaring

import (
	"math/rand/v2"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
)

func TestBasicOperations(t *testing.T) {
	rb := New()

	// Test empty bitmap
	assert.Equal(t, 0, rb.Count())
	assert.False(t, rb.Contains(42))

	// Test basic Set and Contains
	rb.Set(1)
	rb.Set(100)
	rb.Set(65536) // Different container

	assert.True(t, rb.Contains(1))
	assert.True(t, rb.Contains(100))
	assert.True(t, rb.Contains(65536))
	assert.False(t, rb.Contains(2))
	assert.Equal(t, 3, rb.Count())

	// Test Remove
	rb.Remove(100)
	assert.False(t, rb.Contains(100))
	assert.Equal(t, 2, rb.Count())

	// Test Clear
	rb.Clear()
	assert.Equal(t, 0, rb.Count())
	assert.False(t, rb.Contains(1))
}

func TestTransitions(t *testing.T) {
	const count = 60000

	t.Run("array -> bitmap -> array", func(t *testing.T) {
		rb := New()
		for i := 0; i < count; i++ {
			rb.Set(uint32(i))
			assert.True(t, rb.Contains(uint32(i)))
		}
		assert.Equal(t, count, rb.Count())
		for i := 0; i < count; i++ {
			rb.Remove(uint32(i))
			assert.False(t, rb.Contains(uint32(i)))
		}
		assert.Equal(t, 0, rb.Count())
	})

	t.Run("bitmap -> run -> bitmap", func(t *testing.T) {
		rb := New()
		for i := 0; i < count; i++ {
			rb.Set(uint32(i))
			assert.True(t, rb.Contains(uint32(i)))
		}

		rb.Optimize()
		assert.Equal(t, count, rb.Count())

		for i := 0; i < count; i++ {
			rb.Remove(uint32(i))
			assert.False(t, rb.Contains(uint32(i)))
		}
		assert.Equal(t, 0, rb.Count())
	})

	t.Run("array -> run", func(t *testing.T) {
		rb := New()
		for i := 0; i < 500; i++ {
			rb.Set(uint32(i))
			assert.True(t, rb.Contains(uint32(i)))
		}
		rb.Optimize()
		assert.Equal(t, 500, rb.Count())
	})

}

// TestMixedOperations covers various operation patterns in single test
func TestMixedOperations(t *testing.T) {
	testCases := [][]uint32{
		{1, 2, 3},                     // Simple case
		{0, 65535, 65536, 131071},     // Container boundaries
		{100, 101, 102, 103, 104},     // Consecutive (run-friendly)
		{1, 100, 1000, 10000, 100000}, // Sparse
	}

	for _, values := range testCases {
		rb := New()

		// Set all values
		for _, v := range values {
			rb.Set(v)
		}

		// Verify count and contains
		assert.Equal(t, len(values), rb.Count())
		for _, v := range values {
			assert.True(t, rb.Contains(v))
		}

		// Test removal pattern
		removed := 0
		for i, v := range values {
			if i%2 == 0 { // Remove every other value
				rb.Remove(v)
				removed++
				assert.False(t, rb.Contains(v))
			}
		}

		assert.Equal(t, len(values)-removed, rb.Count())
	}
}

func TestRandomOperations(t *testing.T) {
	rb := New()
	var ref bitmap.Bitmap

	for i := 0; i < 1e4; i++ {
		value := uint32(rand.IntN(10000))
		switch rand.IntN(4) {
		case 0:
			rb.Set(value)
			ref.Set(value)
		case 1:
			rb.Remove(value)
			ref.Remove(value)
		case 3:
			rb.Optimize()
		}
	}

	assertEqualBitmaps(t, rb, &ref)
}

// TestEdgeCases covers boundary conditions and special values
func TestEdgeCases(t *testing.T) {
	rb := New()

	// Test boundary values
	rb.Set(0)          // Minimum value
	rb.Set(65535)      // Container boundary
	rb.Set(65536)      // Next container
	rb.Set(4294967295) // Maximum uint32

	assert.True(t, rb.Contains(0))
	assert.True(t, rb.Contains(65535))
	assert.True(t, rb.Contains(65536))
	assert.True(t, rb.Contains(4294967295))
	assert.Equal(t, 4, rb.Count())

	// Test duplicate sets (should not increase count)
	rb.Set(0)
	assert.Equal(t, 4, rb.Count())

	// Test removing non-existent value
	rb.Remove(12345)
	assert.Equal(t, 4, rb.Count())
}

// TestRunOperations specifically tests run container behavior
func TestRunOperations(t *testing.T) {
	rb := New()

	// Create consecutive sequence (should form runs efficiently)
	for i := 1000; i <= 1010; i++ {
		rb.Set(uint32(i))
	}

	assert.Equal(t, 11, rb.Count())

	// Verify all values in run
	for i := 1000; i <= 1010; i++ {
		assert.True(t, rb.Contains(uint32(i)))
	}

	// Test run extension
	rb.Set(999)  // Extend backward
	rb.Set(1011) // Extend forward
	assert.Equal(t, 13, rb.Count())

	// Test run splitting by removing middle value
	rb.Remove(1005)
	assert.Equal(t, 12, rb.Count())
	assert.False(t, rb.Contains(1005))
	assert.True(t, rb.Contains(1004))
	assert.True(t, rb.Contains(1006))
}

func TestCheckedSetRemove(t *testing.T) {
	rb := New()
	assert.True(t, rb.IsEmpty())
	assert.True(t, rb.CheckedSet(10))
	assert.False(t, rb.CheckedSet(10))
	assert.False(t, rb.IsEmpty())

	assert.True(t, rb.CheckedRemove(10))
	assert.False(t, rb.CheckedRemove(10))
	assert.False(t, rb.CheckedRemove(1<<20))
	assert.True(t, rb.IsEmpty())
	assert.Empty(t, rb.index)
}

func TestZeroValue(t *testing.T) {
	var rb Bitmap
	assert.Equal(t, 0, rb.Count())
	assert.False(t, rb.Contains(1))

	rb.Set(1)
	rb.AddRange(100, 200)
	assert.Equal(t, 101, rb.Count())
	assert.NoError(t, rb.Check())
}

func TestAddRange(t *testing.T) {
	tests := []struct {
		name       string
		begin, end uint64
		count      int
		containers int
	}{
		{"empty", 10, 10, 0, 0},
		{"inverted", 20, 10, 0, 0},
		{"single", 10, 11, 1, 1},
		{"within", 100, 5000, 4900, 1},
		{"full container", 65536, 131072, 65536, 1},
		{"across", 65000, 140000, 75000, 3},
		{"top", 1<<32 - 10, 1 << 32, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := New()
			rb.AddRange(tt.begin, tt.end)
			assert.Equal(t, tt.count, rb.Count())
			assert.Equal(t, tt.containers, len(rb.containers))
			assert.NoError(t, rb.Check())

			if tt.count > 0 {
				first, _ := rb.Min()
				last, _ := rb.Max()
				assert.Equal(t, uint32(tt.begin), first)
				assert.Equal(t, uint32(tt.end-1), last)
				assert.False(t, rb.Contains(uint32(tt.begin-1)))
			}
		})
	}

	t.Run("over existing", func(t *testing.T) {
		for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
			rb, values := changeType(ctype)
			rb.AddRange(500, 1500)

			expect := BitmapOf(values...)
			expect.AddRange(500, 1500)
			assert.True(t, rb.Equals(expect), "%v", ctype)
			assert.NoError(t, rb.Check())
		}
	})

	t.Run("overflow", func(t *testing.T) {
		assert.Panics(t, func() {
			New().AddRange(0, 1<<32+1)
		})
	})
}

func TestRemoveRange(t *testing.T) {
	for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
		t.Run(ctype.String(), func(t *testing.T) {
			rb, values := changeType(ctype)
			rb.Set(70000)
			rb.Set(140000)
			rb.RemoveRange(500, 1500)
			rb.RemoveRange(65536, 131072)
			rb.RemoveRange(9, 9)

			expect := []uint32{}
			for _, v := range values {
				if v < 500 || v >= 1500 {
					expect = append(expect, v)
				}
			}
			assertValues(t, append(expect, 140000), rb)
		})
	}

	t.Run("everything", func(t *testing.T) {
		rb := mixedBitmap()
		rb.RemoveRange(0, 1<<32)
		assert.True(t, rb.IsEmpty())
		assert.NoError(t, rb.Check())
	})

	t.Run("overflow", func(t *testing.T) {
		assert.Panics(t, func() {
			New().RemoveRange(0, 1<<33)
		})
	})
}

func TestRankSelect(t *testing.T) {
	for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
		t.Run(ctype.String(), func(t *testing.T) {
			rb, values := changeType(ctype)
			rb.Set(1 << 20)
			values = append(values, 1<<20)

			for j, v := range values {
				assert.Equal(t, j+1, rb.Rank(v))

				x, ok := rb.Select(j)
				assert.True(t, ok)
				assert.Equal(t, v, x)
			}

			if values[0] > 0 {
				assert.Equal(t, 0, rb.Rank(values[0]-1))
			}
			assert.Equal(t, len(values), rb.Rank(1<<32-1))

			_, ok := rb.Select(len(values))
			assert.False(t, ok)
			_, ok = rb.Select(-1)
			assert.False(t, ok)
		})
	}
}

func TestMinMax(t *testing.T) {
	rb := New()
	_, ok := rb.Min()
	assert.False(t, ok)
	_, ok = rb.Max()
	assert.False(t, ok)

	for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
		rb, values := changeType(ctype)
		first, ok := rb.Min()
		assert.True(t, ok)
		assert.Equal(t, values[0], first)

		last, ok := rb.Max()
		assert.True(t, ok)
		assert.Equal(t, values[len(values)-1], last)
	}
}

func TestCloneEquals(t *testing.T) {
	rb := mixedBitmap()
	clone := rb.Clone(nil)
	assert.True(t, clone.Equals(rb))
	assert.NoError(t, clone.Check())

	// The clone owns its containers
	clone.Set(2)
	clone.Remove(65536)
	clone.Remove(131072)
	assert.False(t, clone.Equals(rb))
	assert.False(t, rb.Contains(2))
	assert.True(t, rb.Contains(65536))
	assert.True(t, rb.Contains(131072))

	// Memory of the destination is reused
	into := BitmapOf(1, 2, 3, 1<<30)
	out := rb.Clone(into)
	assert.Same(t, into, out)
	assert.True(t, out.Equals(rb))

	var none *Bitmap
	assert.True(t, none.Clone(nil).IsEmpty())
	assert.True(t, New().Equals(New()))
	assert.False(t, BitmapOf(1).Equals(BitmapOf(65537)))

	// A nil bitmap is empty
	assert.True(t, New().Equals(nil))
	assert.True(t, none.Equals(New()))
	assert.True(t, none.Equals(nil))
	assert.False(t, BitmapOf(1).Equals(nil))
	assert.False(t, none.Equals(BitmapOf(1)))
}

func TestStats(t *testing.T) {
	rb := mixedBitmap()
	stats := rb.Stats()
	assert.Equal(t, Stats{
		Cardinality: rb.Count(),
		Containers:  3,
		Arrays:      1,
		Bitmaps:     1,
		Runs:        1,
		Bytes:       rb.SerializedSize(),
	}, stats)
	assert.Equal(t, len(rb.ToBytes()), stats.Bytes)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, mixedBitmap().Check())

	corrupt := []struct {
		name string
		fn   func(rb *Bitmap)
	}{
		{"keys", func(rb *Bitmap) { rb.index[1] = rb.index[0] }},
		{"length", func(rb *Bitmap) { rb.index = rb.index[:2] }},
		{"array order", func(rb *Bitmap) { rb.containers[0].Data[0] = 9999 }},
		{"bitmap count", func(rb *Bitmap) { rb.containers[1].Size++ }},
		{"run count", func(rb *Bitmap) { rb.containers[2].Size-- }},
		{"empty", func(rb *Bitmap) { rb.containers[0] = newArray(0) }},
	}

	for _, tt := range corrupt {
		t.Run(tt.name, func(t *testing.T) {
			rb := mixedBitmap()
			tt.fn(rb)
			assert.Error(t, rb.Check())
		})
	}
}

func TestToArray(t *testing.T) {
	assert.Equal(t, []uint32{}, New().ToArray())
	assert.Equal(t, []uint32{1, 65536, 1 << 31}, BitmapOf(1<<31, 65536, 1).ToArray())
}

func TestOptimizeKeepsValues(t *testing.T) {
	for _, gen := range []dataGen{genSeq(100000, 0), genRand(10000, 1<<20), genDense(100000), genMixed()} {
		data, shape := gen()
		our, ref := testPairRandom(data)
		our.Optimize()
		t.Run(shape, func(t *testing.T) {
			assertEqualBitmaps(t, our, ref)
		})
	}
}
