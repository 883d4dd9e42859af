package roaring

// Range calls the given function for each value in the bitmap, in ascending order
func (rb *Bitmap) Range(fn func(x uint32)) {
	for i := range rb.containers {
		c := &rb.containers[i]
		base := uint32(rb.index[i]) << 16
		switch c.Type {
		case typeArray:
			for _, v := range c.Data {
				fn(base | uint32(v))
			}
		case typeBitmap:
			c.bmp().Range(func(v uint32) {
				fn(base | v)
			})
		case typeRun:
			for _, r := range c.run() {
				for v := uint32(r[0]); v <= uint32(r[1]); v++ {
					fn(base | v)
				}
			}
		}
	}
}

// Filter iterates over the bitmap elements and calls a predicate provided for each
// containing element. If the predicate returns false, the bitmap at the element's
// position is set to zero.
func (rb *Bitmap) Filter(f func(x uint32) bool) {
	n := 0
	for i := range rb.containers {
		c := &rb.containers[i]
		base := uint32(rb.index[i]) << 16
		keep := func(v uint16) bool {
			return f(base | uint32(v))
		}

		switch c.Type {
		case typeArray:
			c.fork()
			c.Data = filterArr(c.Data, c.Data, keep)
			c.Size = uint32(len(c.Data))
		case typeBitmap:
			c.fork()
			words := c.bmp()
			words.Filter(func(v uint32) bool {
				return keep(uint16(v))
			})
			c.bmpCount()
			c.normalize()
		case typeRun:
			values := expand(c)
			*c = arrayOf(filterArr(values, values, keep))
		}

		if !c.isEmpty() {
			rb.index[n] = rb.index[i]
			rb.containers[n] = *c
			n++
		}
	}

	rb.truncate(n)
}
