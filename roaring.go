package roaring

import "math/bits"

// maxRange is the exclusive upper bound of a range of 32-bit values
const maxRange = 1 << 32

// Bitmap represents a roaring bitmap for uint32 values. The high 16 bits of a
// value select a container through a sorted index of keys, while the low 16 bits
// are stored in the container itself. The zero value is an empty bitmap.
type Bitmap struct {
	index      []uint16    // Sorted keys of the containers
	containers []container // Containers, in the order of their keys
}

// New creates a new empty roaring bitmap
func New() *Bitmap {
	return &Bitmap{}
}

// BitmapOf creates a new roaring bitmap with the given values set
func BitmapOf(values ...uint32) *Bitmap {
	rb := New()
	for _, v := range values {
		rb.Set(v)
	}
	return rb
}

// Set sets the bit x in the bitmap and grows it if necessary.
func (rb *Bitmap) Set(x uint32) {
	rb.CheckedSet(x)
}

// CheckedSet sets the bit x and returns true if it was not set before
func (rb *Bitmap) CheckedSet(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	i, ok := rb.find(hi)
	if !ok {
		rb.insertAt(i, hi, newArray(4))
	}

	return rb.containers[i].set(lo)
}

// Remove removes the bit x from the bitmap, but does not shrink it.
func (rb *Bitmap) Remove(x uint32) {
	rb.CheckedRemove(x)
}

// CheckedRemove removes the bit x and returns true if it was set before
func (rb *Bitmap) CheckedRemove(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	i, ok := rb.find(hi)
	if !ok || !rb.containers[i].remove(lo) {
		return false
	}

	if rb.containers[i].isEmpty() {
		rb.removeAt(i)
	}
	return true
}

// Contains checks whether a value is contained in the bitmap or not.
func (rb *Bitmap) Contains(x uint32) bool {
	if c := rb.get(uint16(x >> 16)); c != nil {
		return c.contains(uint16(x & 0xFFFF))
	}
	return false
}

// AddRange sets every value in [begin, end). The end of the range can be at
// most 1<<32 and an empty range is a no-op.
func (rb *Bitmap) AddRange(begin, end uint64) {
	if begin >= end {
		return
	}
	if end > maxRange {
		panic("roaring: range exceeds the 32-bit domain")
	}

	rb.rewrite(begin, end, func(c *container, lo, hi int) (container, bool) {
		if c == nil {
			return newRunRange(lo, hi), true
		}

		c.addRange(lo, hi)
		return *c, true
	})
}

// RemoveRange clears every value in [begin, end). The end of the range can be
// at most 1<<32 and an empty range is a no-op.
func (rb *Bitmap) RemoveRange(begin, end uint64) {
	if begin >= end {
		return
	}
	if end > maxRange {
		panic("roaring: range exceeds the 32-bit domain")
	}

	// Only the existing containers of the window need to be visited
	bk, ek := int(begin>>16), int((end-1)>>16)
	lo := lowerBound(rb.index, bk)
	hi := lowerBound(rb.index, ek+1)
	n := lo
	for i := lo; i < hi; i++ {
		key := int(rb.index[i])
		first, last := windowOf(key, begin, end)

		c := &rb.containers[i]
		if c.removeRange(first, last); !c.isEmpty() {
			rb.index[n] = rb.index[i]
			rb.containers[n] = *c
			n++
		}
	}

	if n < hi {
		copy(rb.index[n:], rb.index[hi:])
		copy(rb.containers[n:], rb.containers[hi:])
		rb.truncate(len(rb.index) - (hi - n))
	}
}

// Count returns the total number of bits set to 1 in the bitmap
func (rb *Bitmap) Count() int {
	count := 0
	for i := range rb.containers {
		count += rb.containers[i].cardinality()
	}
	return count
}

// IsEmpty returns true if no bit is set in the bitmap
func (rb *Bitmap) IsEmpty() bool {
	return len(rb.containers) == 0
}

// Clear clears the bitmap and resizes it to zero.
func (rb *Bitmap) Clear() {
	rb.truncate(0)
}

// Optimize converts every container to the representation with the smallest
// serialized size, turning consecutive values into runs where it pays off.
func (rb *Bitmap) Optimize() {
	for i := range rb.containers {
		rb.containers[i].optimize()
	}
}

// Clone clones the bitmap. If a destination bitmap is provided, its memory is
// reused for the copy.
func (rb *Bitmap) Clone(into *Bitmap) *Bitmap {
	if into == nil {
		into = New()
	}

	if rb == nil {
		into.Clear()
		return into
	}

	into.Clear()
	into.index = append(into.index[:0], rb.index...)
	into.containers = grow(into.containers[:0], len(rb.containers), 0)
	for i := range rb.containers {
		into.containers[i] = rb.containers[i].clone()
	}
	return into
}

// Equals checks whether two bitmaps hold the same values, regardless of how
// their containers are represented. A nil bitmap is empty.
func (rb *Bitmap) Equals(other *Bitmap) bool {
	switch {
	case rb == nil || other == nil:
		return (rb == nil || rb.IsEmpty()) && (other == nil || other.IsEmpty())
	case len(rb.index) != len(other.index):
		return false
	}

	for i, key := range rb.index {
		if key != other.index[i] || !rb.containers[i].equals(&other.containers[i]) {
			return false
		}
	}
	return true
}

// Rank returns the number of values in the bitmap that are smaller or equal to x
func (rb *Bitmap) Rank(x uint32) int {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	rank := 0
	for i, key := range rb.index {
		switch {
		case key < hi:
			rank += rb.containers[i].cardinality()
		case key == hi:
			return rank + rb.containers[i].rank(lo)
		default:
			return rank
		}
	}
	return rank
}

// Select returns the j-th smallest value of the bitmap, j starting at zero. It
// returns false if the bitmap holds j values or less.
func (rb *Bitmap) Select(j int) (uint32, bool) {
	if j < 0 {
		return 0, false
	}

	for i := range rb.containers {
		c := &rb.containers[i]
		if j >= c.cardinality() {
			j -= c.cardinality()
			continue
		}

		v, ok := c.selectAt(j)
		return uint32(rb.index[i])<<16 | uint32(v), ok
	}
	return 0, false
}

// Min returns the smallest value of the bitmap, or false if it is empty
func (rb *Bitmap) Min() (uint32, bool) {
	if len(rb.containers) == 0 {
		return 0, false
	}

	return uint32(rb.index[0])<<16 | uint32(rb.containers[0].min()), true
}

// Max returns the largest value of the bitmap, or false if it is empty
func (rb *Bitmap) Max() (uint32, bool) {
	n := len(rb.containers)
	if n == 0 {
		return 0, false
	}

	return uint32(rb.index[n-1])<<16 | uint32(rb.containers[n-1].max()), true
}

// ToArray returns all of the values of the bitmap in ascending order
func (rb *Bitmap) ToArray() []uint32 {
	out := make([]uint32, 0, rb.Count())
	rb.Range(func(x uint32) {
		out = append(out, x)
	})
	return out
}

// AndCount returns the cardinality of the intersection of two bitmaps, without
// materializing it.
func (rb *Bitmap) AndCount(other *Bitmap) int {
	count := 0
	rb.matching(other, func(c1, c2 *container) bool {
		count += andCount(c1, c2)
		return true
	})
	return count
}

// Intersects returns true if the two bitmaps have at least one value in common
func (rb *Bitmap) Intersects(other *Bitmap) bool {
	found := false
	rb.matching(other, func(c1, c2 *container) bool {
		found = andCount(c1, c2) > 0
		return !found
	})
	return found
}

// matching calls fn for every pair of containers sharing the same key, until fn returns false
func (rb *Bitmap) matching(other *Bitmap, fn func(c1, c2 *container) bool) {
	if other == nil {
		return
	}

	i, j := 0, 0
	for i < len(rb.index) && j < len(other.index) {
		hi1, hi2 := rb.index[i], other.index[j]
		switch {
		case hi1 == hi2:
			if !fn(&rb.containers[i], &other.containers[j]) {
				return
			}
			i++
			j++
		case hi1 < hi2:
			i = rb.advance(hi2, i)
		default:
			j = other.advance(hi1, j)
		}
	}
}

// andCount returns the cardinality of the intersection of two containers
func andCount(c1, c2 *container) int {
	switch {
	case c1.Type == typeBitmap && c2.Type == typeBitmap:
		n := 0
		w1, w2 := c1.bmp(), c2.bmp()
		for i := range w1 {
			n += bits.OnesCount64(w1[i] & w2[i])
		}
		return n
	case c1.Type == typeArray && c2.Type != typeArray:
		return countIn(c1.Data, c2)
	case c2.Type == typeArray && c1.Type != typeArray:
		return countIn(c2.Data, c1)
	default:
		out := and(c1, c2)
		return out.cardinality()
	}
}

// countIn counts the array values contained in another container
func countIn(array []uint16, c *container) int {
	n := 0
	for _, v := range array {
		if c.contains(v) {
			n++
		}
	}
	return n
}

// Stats describes how the values of a bitmap are laid out in memory
type Stats struct {
	Cardinality int // Number of values
	Containers  int // Number of containers
	Arrays      int // Number of array containers
	Bitmaps     int // Number of bitmap containers
	Runs        int // Number of run containers
	Bytes       int // Serialized size of the bitmap, in bytes
}

// Stats returns statistics about the containers of the bitmap
func (rb *Bitmap) Stats() (out Stats) {
	out.Containers = len(rb.containers)
	out.Bytes = rb.SerializedSize()
	for i := range rb.containers {
		c := &rb.containers[i]
		out.Cardinality += c.cardinality()
		switch c.Type {
		case typeArray:
			out.Arrays++
		case typeBitmap:
			out.Bitmaps++
		case typeRun:
			out.Runs++
		}
	}
	return
}
