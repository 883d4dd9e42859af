package roaring

// Flip complements every value in [begin, end), in place. Values outside of
// the range are left untouched and an empty range is a no-op.
func (rb *Bitmap) Flip(begin, end uint64) {
	if begin >= end {
		return
	}
	if end > maxRange {
		panic("roaring: flip range exceeds the 32-bit domain")
	}

	rb.rewrite(begin, end, func(c *container, lo, hi int) (container, bool) {
		if c == nil {
			return newRunRange(lo, hi), true
		}

		c.not(lo, hi)
		return *c, !c.isEmpty()
	})
}

// Flip returns a copy of the bitmap with every value in [begin, end) complemented
func Flip(bm *Bitmap, begin, end uint64) *Bitmap {
	out := bm.Clone(nil)
	out.Flip(begin, end)
	return out
}
