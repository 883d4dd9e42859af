package roaring

// andNot removes the values of a single bitmap, in place
func (rb *Bitmap) andNot(other *Bitmap) {
	switch {
	case other == nil || len(other.containers) == 0 || len(rb.containers) == 0:
		return
	case other == rb:
		rb.Clear()
		return
	}

	// Compact the surviving containers towards the front of the index
	n, j := 0, 0
	for i := 0; i < len(rb.index); i++ {
		hi := rb.index[i]
		if j < len(other.index) && other.index[j] < hi {
			j = other.advance(hi, j)
		}

		c := &rb.containers[i]
		if j < len(other.index) && other.index[j] == hi {
			if c.iandNot(&other.containers[j]); c.isEmpty() {
				continue
			}
		}

		rb.index[n] = hi
		rb.containers[n] = *c
		n++
	}

	rb.truncate(n)
}

// AndNot returns the values of a that are not in b, without modifying them
func AndNot(a, b *Bitmap) *Bitmap {
	switch {
	case a == nil:
		return New()
	case b == nil:
		return a.Clone(nil)
	}

	out := &Bitmap{
		index:      make([]uint16, 0, len(a.index)),
		containers: make([]container, 0, len(a.index)),
	}

	j := 0
	for i, hi := range a.index {
		if j < len(b.index) && b.index[j] < hi {
			j = b.advance(hi, j)
		}

		if j < len(b.index) && b.index[j] == hi {
			if c := andNot(&a.containers[i], &b.containers[j]); !c.isEmpty() {
				out.append(hi, c)
			}
			continue
		}

		out.append(hi, a.containers[i].clone())
	}
	return out
}

// andNot returns the values of the first container absent from the second one
func andNot(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		out := make([]uint16, 0, len(c1.Data))
		switch c2.Type {
		case typeArray:
			out = difference16(c1.Data, c2.Data, out)
		case typeBitmap:
			out = filterArr(c1.Data, out, func(v uint16) bool { return !c2.bmpHas(v) })
		case typeRun:
			out = andNotArrRun(c1.Data, c2.run(), out)
		}
		return arrayOf(out)
	case typeBitmap:
		out := c1.clone()
		out.bmpAndNot(c2)
		return out
	case typeRun:
		switch c2.Type {
		case typeArray, typeBitmap:
			return runAndNot(c1, c2)
		case typeRun:
			return runOpRun(c1, c2, opAndNot)
		}
	}
	panic("roaring: invalid container type")
}

// iandNot removes the values of another container, in place
func (c *container) iandNot(other *container) {
	switch {
	case other.isEmpty() || c.isEmpty():
		return
	case c.Type == typeArray:
		c.fork()
		switch other.Type {
		case typeArray:
			c.Data = difference16(c.Data, other.Data, c.Data)
		case typeBitmap:
			c.Data = filterArr(c.Data, c.Data, func(v uint16) bool { return !other.bmpHas(v) })
		case typeRun:
			c.Data = andNotArrRun(c.Data, other.run(), c.Data)
		}
		c.Size = uint32(len(c.Data))
	case c.Type == typeBitmap:
		c.fork()
		c.bmpAndNot(other)
	default:
		*c = andNot(c, other)
	}
}

// bmpAndNot clears the values of any other container from a bitmap container, in place
func (c *container) bmpAndNot(other *container) {
	words := c.bmp()
	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			if words[v>>6]&(1<<(v&63)) != 0 {
				words[v>>6] &^= 1 << (v & 63)
				c.Size--
			}
		}
		c.normalize()
		return
	case typeBitmap:
		words.AndNot(other.bmp())
	case typeRun:
		for _, r := range other.run() {
			clearRange(words, int(r[0]), int(r[1])+1)
		}
	}

	c.bmpCount()
	c.normalize()
}

// runAndNot removes the values of an array or bitmap container from a run container
func runAndNot(c1, c2 *container) container {
	if c1.Size <= arrMaxSize {
		values := expand(c1)
		switch c2.Type {
		case typeArray:
			return arrayOf(difference16(values, c2.Data, values))
		default:
			return arrayOf(filterArr(values, values, func(v uint16) bool { return !c2.bmpHas(v) }))
		}
	}

	out := runWords(c1)
	out.Size = c1.Size
	out.bmpAndNot(c2)
	return out
}

// andNotArrRun writes the array values not covered by any of the runs into out,
// out may alias array.
func andNotArrRun(array []uint16, runs []run, out []uint16) []uint16 {
	out = out[:0]
	k := 0
	for _, v := range array {
		for k < len(runs) && runs[k][1] < v {
			k++
		}

		if k < len(runs) && runs[k][0] <= v {
			continue
		}
		out = append(out, v)
	}
	return out
}
