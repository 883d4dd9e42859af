package roaring

import (
	"math/rand/v2"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
)

func newArr(data ...uint32) *container {
	return newContainer(typeArray, data...)
}

func newBmp(data ...uint32) *container {
	return newContainer(typeBitmap, data...)
}

func newRun(data ...uint32) *container {
	return newContainer(typeRun, data...)
}

// newContainer creates a container of the given type, regardless of the
// cardinality that would normally select the type.
func newContainer(typ ctype, data ...uint32) *container {
	c := &container{Type: typ}
	switch typ {
	case typeBitmap:
		c.Data = make([]uint16, bmpSize)
	default:
		c.Data = make([]uint16, 0, len(data))
	}

	for _, v := range data {
		switch c.Type {
		case typeArray:
			c.arrSet(uint16(v))
		case typeBitmap:
			c.bmpSet(uint16(v))
		case typeRun:
			c.runSet(uint16(v))
		}
	}
	return c
}

// valuesIn returns the values of a container, never nil
func valuesIn(c *container) []uint16 {
	out := []uint16{}
	c.iterate(func(v uint16) bool {
		out = append(out, v)
		return true
	})
	return out
}

// assertContainer checks the values of a container as well as its invariants
func assertContainer(t *testing.T, expect []uint16, c container) {
	t.Helper()
	assert.Equal(t, expect, valuesIn(&c))
	assert.Equal(t, len(expect), c.cardinality())
	if !c.isEmpty() {
		assert.NoError(t, c.check())
	}
}

// bitmapWith creates a bitmap holding a copy of the container under key 0
func bitmapWith(c *container) (*Bitmap, []uint16) {
	rb := New()
	if !c.isEmpty() {
		rb.append(0, c.clone())
	}
	return rb, valuesIn(c)
}

// valuesOf returns the low 16 bits of the values of a bitmap, never nil
func valuesOf(rb *Bitmap) []uint16 {
	out := []uint16{}
	rb.Range(func(x uint32) {
		out = append(out, uint16(x))
	})
	return out
}

// ---------------------------------------- Test Helpers ----------------------------------------

// testPair creates both our bitmap and reference bitmap with same data
func testPair(data []uint32) (*Bitmap, *bitmap.Bitmap) {
	our := New()
	var ref bitmap.Bitmap
	for _, v := range data {
		our.Set(v)
		ref.Set(v)
	}
	return our, &ref
}

// testPairRandom creates bitmaps with 50% of values set randomly
func testPairRandom(data []uint32) (*Bitmap, *bitmap.Bitmap) {
	our := New()
	var ref bitmap.Bitmap
	for _, v := range data {
		if rand.IntN(2) == 0 {
			our.Set(v)
			ref.Set(v)
		}
	}
	return our, &ref
}

// assertEqualBitmaps compares our bitmap with reference bitmap
func assertEqualBitmaps(t *testing.T, our *Bitmap, ref *bitmap.Bitmap) {
	t.Helper()
	assert.Equal(t, ref.Count(), our.Count(), "Count mismatch")
	assert.NoError(t, our.Check())

	// Compare all values
	var ourValues, refValues []uint32
	our.Range(func(x uint32) { ourValues = append(ourValues, x) })
	ref.Range(func(x uint32) { refValues = append(refValues, x) })
	assert.Equal(t, refValues, ourValues, "Range mismatch")

	// Check individual contains calls
	ref.Range(func(x uint32) {
		assert.True(t, our.Contains(x), "Contains mismatch for %d", x)
	})
}

// assertValues checks the exact values of a bitmap along with its invariants
func assertValues(t *testing.T, expect []uint32, rb *Bitmap) {
	t.Helper()
	if expect == nil {
		expect = []uint32{}
	}

	assert.Equal(t, expect, rb.ToArray())
	assert.Equal(t, len(expect), rb.Count())
	assert.NoError(t, rb.Check())
}

// changeType creates bitmap that forces specific container types
func changeType(ctype ctype) (*Bitmap, []uint32) {
	our := New()
	var values []uint32

	switch ctype {
	case typeArray:
		// Few sparse values to stay as array
		values = []uint32{1, 5, 10, 100, 500, 1000}
		for _, v := range values {
			our.Set(v)
		}
	case typeBitmap:
		// Many sparse values to become bitmap
		for i := 0; i < 5000; i++ {
			v := uint32(i * 3) // Sparse to prevent run optimization
			our.Set(v)
			values = append(values, v)
		}
	case typeRun:
		// Consecutive values + optimize to become run
		for i := 1000; i <= 2000; i++ {
			v := uint32(i)
			our.Set(v)
			values = append(values, v)
		}
		our.Optimize()
	}
	return our, values
}

// ---------------------------------------- Data Generators ----------------------------------------

type dataGen = func() ([]uint32, string)

// genSeq creates consecutive integers starting from offset
func genSeq(size int, offset uint32) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = offset + uint32(i)
		}
		return data, "seq"
	}
}

// genRand creates random integers within a range
func genRand(size int, maxVal uint32) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(rand.IntN(int(maxVal)))
		}
		return data, "rnd"
	}
}

// genSparse creates sparse integers (large gaps)
func genSparse(size int) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(i * 1000)
		}
		return data, "sps"
	}
}

// genDense creates dense integers in small range
func genDense(size int) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := 0; i < size; i++ {
			data[i] = uint32(rand.IntN(size / 10))
		}
		return data, "dns"
	}
}

// genBoundary creates boundary/edge case values
func genBoundary() dataGen {
	return func() ([]uint32, string) {
		data := []uint32{0, 65535, 65536, 131071, 131072, 4294967295}
		return data, "bnd"
	}
}

// genMixed creates values across multiple containers
func genMixed() dataGen {
	return func() ([]uint32, string) {
		var data []uint32
		// Container 0: array values
		data = append(data, 1, 5, 10, 100, 500, 1000)
		// Container 1: bitmap values
		for i := 0; i < 5000; i++ {
			data = append(data, uint32(65536+i*3))
		}
		// Container 2: run values
		for i := 131072; i <= 131172; i++ {
			data = append(data, uint32(i))
		}
		return data, "mix"
	}
}

// mixedBitmap creates a bitmap holding all three container types
func mixedBitmap() *Bitmap {
	data, _ := genMixed()()
	rb := BitmapOf(data...)
	rb.Optimize()
	return rb
}
