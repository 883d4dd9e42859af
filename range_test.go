package roaring

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange(t *testing.T) {
	tests := []struct {
		name string
		gen  dataGen
	}{
		{"empty", func() ([]uint32, string) { return []uint32{}, "emp" }},
		{"single", func() ([]uint32, string) { return []uint32{42}, "sgl" }},
		{"sequential", genSeq(1000, 0)},
		{"random", genRand(1000, 100000)},
		{"sparse", genSparse(100)},
		{"dense", genDense(1000)},
		{"mixed", genMixed()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, _ := tt.gen()
			our, ref := testPair(data)

			// Test Range output matches reference
			var ourValues, refValues []uint32
			our.Range(func(x uint32) { ourValues = append(ourValues, x) })
			ref.Range(func(x uint32) { refValues = append(refValues, x) })

			assert.Equal(t, refValues, ourValues)
		})
	}
}

func TestContainerTypes(t *testing.T) {
	tests := []struct {
		name          string
		containerType ctype
	}{
		{"array", typeArray},
		{"bitmap", typeBitmap},
		{"run", typeRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			our, values := changeType(tt.containerType)

			// Verify container type
			c := our.get(0)
			assert.NotNil(t, c)
			assert.Equal(t, tt.containerType, c.Type)

			// Test all operations work correctly
			assert.Equal(t, len(values), our.Count())
			for _, v := range values {
				assert.True(t, our.Contains(v))
			}

			// Test Range
			var result []uint32
			our.Range(func(x uint32) { result = append(result, x) })
			assert.Equal(t, values, result)
		})
	}
}

func TestRangeEdgeCases(t *testing.T) {
	t.Run("empty_operations", func(t *testing.T) {
		rb := New()
		assert.Equal(t, 0, rb.Count())
		assert.False(t, rb.Contains(0))
		rb.Remove(123) // Should not panic
		assert.Equal(t, 0, rb.Count())

		var values []uint32
		rb.Range(func(x uint32) { values = append(values, x) })
		assert.Empty(t, values)
	})

	t.Run("boundary_values", func(t *testing.T) {
		data, _ := genBoundary()()
		rb := BitmapOf(data...)
		assert.Equal(t, len(data), rb.Count())

		// Test range maintains order
		var result []uint32
		rb.Range(func(x uint32) { result = append(result, x) })
		assert.Equal(t, data, result)
	})

	t.Run("container_boundaries", func(t *testing.T) {
		rb := New()
		testValues := []uint32{
			65535, 65536, 65537, // Container 0-1 boundary
			131071, 131072, 131073, // Container 1-2 boundary
			196607, 196608, 196609, // Container 2-3 boundary
		}

		for _, v := range testValues {
			rb.Set(v)
		}

		// Remove every other value
		for i, v := range testValues {
			if i%2 == 0 {
				rb.Remove(v)
			}
		}

		for i, v := range testValues {
			if i%2 == 0 {
				assert.False(t, rb.Contains(v), "Value %d should be removed", v)
			} else {
				assert.True(t, rb.Contains(v), "Value %d should still be present", v)
			}
		}
	})
}

func TestFilter(t *testing.T) {
	even := func(x uint32) bool { return x%2 == 0 }
	for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
		t.Run(ctype.String(), func(t *testing.T) {
			our, values := changeType(ctype)
			our.Set(70001)
			our.Filter(even)

			expect := []uint32{}
			for _, v := range values {
				if even(v) {
					expect = append(expect, v)
				}
			}
			assertValues(t, expect, our)
		})
	}

	t.Run("none", func(t *testing.T) {
		rb := mixedBitmap()
		rb.Filter(func(uint32) bool { return false })
		assert.True(t, rb.IsEmpty())
		assert.NoError(t, rb.Check())
	})

	t.Run("all", func(t *testing.T) {
		rb := mixedBitmap()
		rb.Filter(func(uint32) bool { return true })
		assert.True(t, rb.Equals(mixedBitmap()))
	})
}

func TestIterator(t *testing.T) {
	for _, ctype := range []ctype{typeArray, typeBitmap, typeRun} {
		t.Run(ctype.String(), func(t *testing.T) {
			rb, values := changeType(ctype)
			rb.Set(1 << 20)
			rb.Set(1<<32 - 1)
			values = append(values, 1<<20, 1<<32-1)

			var forward []uint32
			for it := rb.Iterator(); it.HasNext(); {
				forward = append(forward, it.Next())
			}
			assert.Equal(t, values, forward)

			var backward []uint32
			for it := rb.ReverseIterator(); it.HasNext(); {
				backward = append(backward, it.Next())
			}
			slices.Reverse(backward)
			assert.Equal(t, values, backward)
		})
	}

	t.Run("mixed", func(t *testing.T) {
		rb := mixedBitmap()
		assert.Equal(t, rb.ToArray(), slices.Collect(rb.All()))

		backward := slices.Collect(rb.Backward())
		slices.Reverse(backward)
		assert.Equal(t, rb.ToArray(), backward)
	})

	t.Run("empty", func(t *testing.T) {
		it := New().Iterator()
		assert.False(t, it.HasNext())
		assert.Panics(t, func() { it.Next() })
		assert.False(t, New().ReverseIterator().HasNext())
	})

	t.Run("break", func(t *testing.T) {
		var out []uint32
		for v := range mixedBitmap().All() {
			if out = append(out, v); len(out) == 3 {
				break
			}
		}
		assert.Equal(t, []uint32{1, 5, 10}, out)
	})
}
