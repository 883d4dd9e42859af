package roaring

import (
	"math/bits"

	"github.com/kelindar/bitmap"
)

// bmp returns the 1024 words of a bitmap container
func (c *container) bmp() bitmap.Bitmap {
	return asBitmap(c.Data)
}

// bmpSet sets a value in a bitmap container
func (c *container) bmpSet(value uint16) bool {
	bm := c.bmp()
	if bm.Contains(uint32(value)) {
		return false
	}

	bm.Set(uint32(value))
	c.Size++
	return true
}

// bmpDel removes a value from a bitmap container
func (c *container) bmpDel(value uint16) bool {
	bm := c.bmp()
	if !bm.Contains(uint32(value)) {
		return false
	}

	bm.Remove(uint32(value))
	c.Size--
	return true
}

// bmpHas checks if a value exists in a bitmap container
func (c *container) bmpHas(value uint16) bool {
	return c.bmp().Contains(uint32(value))
}

// bmpCount recomputes the cardinality of the bitmap from its words
func (c *container) bmpCount() {
	c.Size = uint32(c.bmp().Count())
}

// bmpRank returns the number of values smaller or equal to x
func (c *container) bmpRank(x uint16) int {
	words := c.bmp()
	n, at := 0, int(x>>6)
	for _, w := range words[:at] {
		n += bits.OnesCount64(w)
	}

	// 2 << 63 wraps to zero, which makes the mask all ones
	return n + bits.OnesCount64(words[at]&((2<<(x&63))-1))
}

// bmpSelect returns the j-th smallest value of the bitmap
func (c *container) bmpSelect(j int) uint16 {
	for i, w := range c.bmp() {
		n := bits.OnesCount64(w)
		if j >= n {
			j -= n
			continue
		}

		// Drop the j lowest bits and take the next one
		for ; j > 0; j-- {
			w &= w - 1
		}
		return uint16(i<<6 + bits.TrailingZeros64(w))
	}

	panic("roaring: select out of bounds of the bitmap cardinality")
}

// bmpNext returns the smallest value >= i, or -1 if there is none
func (c *container) bmpNext(i int) int {
	if i >= maxCard {
		return -1
	}

	words := c.bmp()
	at := i >> 6
	if w := words[at] >> (uint(i) & 63); w != 0 {
		return i + bits.TrailingZeros64(w)
	}

	for at++; at < len(words); at++ {
		if words[at] != 0 {
			return at<<6 + bits.TrailingZeros64(words[at])
		}
	}
	return -1
}

// bmpPrev returns the largest value <= i, or -1 if there is none
func (c *container) bmpPrev(i int) int {
	if i < 0 {
		return -1
	}

	words := c.bmp()
	at := i >> 6
	if w := words[at] << (63 - uint(i)&63); w != 0 {
		return i - bits.LeadingZeros64(w)
	}

	for at--; at >= 0; at-- {
		if words[at] != 0 {
			return at<<6 + 63 - bits.LeadingZeros64(words[at])
		}
	}
	return -1
}

// bmpCountRuns counts the runs of consecutive ones in the bitmap
func (c *container) bmpCountRuns() int {
	runs, carry := 0, uint64(0)
	for _, w := range c.bmp() {
		runs += bits.OnesCount64(w &^ (w<<1 | carry))
		carry = w >> 63
	}
	return runs
}

// bmpAddRange sets every value in [lo, hi)
func (c *container) bmpAddRange(lo, hi int) {
	setRange(c.bmp(), lo, hi)
	c.bmpCount()
}

// bmpRemoveRange clears every value in [lo, hi)
func (c *container) bmpRemoveRange(lo, hi int) {
	clearRange(c.bmp(), lo, hi)
	c.bmpCount()
	if c.Size <= arrMaxSize {
		c.bmpToArr()
	}
}

// bmpNot flips every value in [lo, hi)
func (c *container) bmpNot(lo, hi int) {
	flipRange(c.bmp(), lo, hi)
	c.bmpCount()
	if c.Size <= arrMaxSize {
		c.bmpToArr()
	}
}

// bmpToArr converts this container from bitmap to array
func (c *container) bmpToArr() {
	words := c.bmp()
	out := make([]uint16, 0, c.Size)
	for i, w := range words {
		for w != 0 {
			out = append(out, uint16(i<<6+bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}

	c.Data = out
	c.Type = typeArray
	c.Borrowed = false
	c.Size = uint32(len(out))
}

// bmpToRun converts this container from bitmap to run
func (c *container) bmpToRun(runs int) {
	out := make([]uint16, 0, runs*2)
	for start := c.bmpNext(0); start >= 0; {
		last := c.bmpNextZero(start) - 1
		out = append(out, uint16(start), uint16(last))
		start = c.bmpNext(last + 1)
	}

	c.Data = out
	c.Type = typeRun
	c.Borrowed = false
}

// bmpNextZero returns the smallest absent value >= i, or 65536 if there is none
func (c *container) bmpNextZero(i int) int {
	if i >= maxCard {
		return maxCard
	}

	words := c.bmp()
	at := i >> 6
	if w := ^words[at] >> (uint(i) & 63); w != 0 {
		return i + bits.TrailingZeros64(w)
	}

	for at++; at < len(words); at++ {
		if words[at] != ^uint64(0) {
			return at<<6 + bits.TrailingZeros64(^words[at])
		}
	}
	return maxCard
}

// ---------------------------------------- Word Ranges ----------------------------------------

// rangeMasks returns the first and last word of [lo, hi) with their masks
func rangeMasks(lo, hi int) (first, last int, firstMask, lastMask uint64) {
	first, last = lo>>6, (hi-1)>>6
	firstMask = ^uint64(0) << (uint(lo) & 63)
	lastMask = ^uint64(0) >> (63 - uint(hi-1)&63)
	return
}

// setRange sets the bits in [lo, hi)
func setRange(words []uint64, lo, hi int) {
	if lo >= hi {
		return
	}

	first, last, fm, lm := rangeMasks(lo, hi)
	if first == last {
		words[first] |= fm & lm
		return
	}

	words[first] |= fm
	for i := first + 1; i < last; i++ {
		words[i] = ^uint64(0)
	}
	words[last] |= lm
}

// clearRange clears the bits in [lo, hi)
func clearRange(words []uint64, lo, hi int) {
	if lo >= hi {
		return
	}

	first, last, fm, lm := rangeMasks(lo, hi)
	if first == last {
		words[first] &^= fm & lm
		return
	}

	words[first] &^= fm
	for i := first + 1; i < last; i++ {
		words[i] = 0
	}
	words[last] &^= lm
}

// flipRange flips the bits in [lo, hi)
func flipRange(words []uint64, lo, hi int) {
	if lo >= hi {
		return
	}

	first, last, fm, lm := rangeMasks(lo, hi)
	if first == last {
		words[first] ^= fm & lm
		return
	}

	words[first] ^= fm
	for i := first + 1; i < last; i++ {
		words[i] = ^words[i]
	}
	words[last] ^= lm
}
