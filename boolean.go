package roaring

// And performs bitwise AND operation with other bitmap(s). A nil other bitmap
// is empty, while nil extra bitmaps are ignored.
func (rb *Bitmap) And(other *Bitmap, extra ...*Bitmap) {
	rb.and(other)
	for _, bm := range extra {
		switch {
		case len(rb.containers) == 0:
			return
		case bm != nil:
			rb.and(bm)
		}
	}
}

// AndNot performs bitwise AND NOT operation with other bitmap(s)
func (rb *Bitmap) AndNot(other *Bitmap, extra ...*Bitmap) {
	rb.andNot(other)
	for _, bm := range extra {
		if len(rb.containers) == 0 {
			return
		}
		rb.andNot(bm)
	}
}

// Or performs bitwise OR operation with other bitmap(s). With more than one
// bitmap, the containers of every key are merged in a single pass.
func (rb *Bitmap) Or(other *Bitmap, extra ...*Bitmap) {
	if len(extra) == 0 {
		rb.or(other)
		return
	}

	bitmaps := make([]*Bitmap, 0, len(extra)+2)
	bitmaps = append(bitmaps, rb, other)
	*rb = *FastOr(append(bitmaps, extra...)...)
}

// Xor performs bitwise XOR operation with other bitmap(s)
func (rb *Bitmap) Xor(other *Bitmap, extra ...*Bitmap) {
	rb.xor(other)
	for _, bm := range extra {
		rb.xor(bm)
	}
}
