// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// and performs AND with a single bitmap, in place
func (rb *Bitmap) and(other *Bitmap) {
	switch {
	case other == nil || len(other.containers) == 0:
		rb.Clear()
		return
	case len(rb.containers) == 0 || other == rb:
		return
	}

	// Compact the matching containers towards the front of the index
	n, i, j := 0, 0, 0
	for i < len(rb.index) && j < len(other.index) {
		hi1, hi2 := rb.index[i], other.index[j]
		switch {
		case hi1 == hi2:
			c := &rb.containers[i]
			c.iand(&other.containers[j])
			if !c.isEmpty() {
				rb.index[n] = hi1
				rb.containers[n] = *c
				n++
			}
			i++
			j++
		case hi1 < hi2:
			i = rb.advance(hi2, i)
		default:
			j = other.advance(hi1, j)
		}
	}

	rb.truncate(n)
}

// And returns the intersection of two bitmaps, without modifying them
func And(a, b *Bitmap) *Bitmap {
	out := New()
	if a == nil || b == nil {
		return out
	}

	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		hi1, hi2 := a.index[i], b.index[j]
		switch {
		case hi1 == hi2:
			if c := and(&a.containers[i], &b.containers[j]); !c.isEmpty() {
				out.append(hi1, c)
			}
			i++
			j++
		case hi1 < hi2:
			i = a.advance(hi2, i)
		default:
			j = b.advance(hi1, j)
		}
	}
	return out
}

// and returns the intersection of two containers, without modifying them
func and(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrAndArr(c1, c2)
		case typeBitmap:
			return arrAndBmp(c1, c2)
		case typeRun:
			return arrAndRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return arrAndBmp(c2, c1)
		case typeBitmap:
			return bmpAndBmp(c1, c2)
		case typeRun:
			return runAndBmp(c2, c1)
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrAndRun(c2, c1)
		case typeBitmap:
			return runAndBmp(c1, c2)
		case typeRun:
			return runOpRun(c1, c2, opAnd)
		}
	}
	panic("roaring: invalid container type")
}

// iand intersects the container with another one, in place
func (c *container) iand(other *container) {
	switch c.Type {
	case typeArray:
		c.fork()
		switch other.Type {
		case typeArray:
			c.Data = intersect16(c.Data, other.Data, c.Data)
		case typeBitmap:
			c.Data = filterArr(c.Data, c.Data, other.bmpHas)
		case typeRun:
			c.Data = andArrRun(c.Data, other.run(), c.Data)
		}
		c.Size = uint32(len(c.Data))
	case typeBitmap:
		if other.Type == typeArray {
			*c = arrAndBmp(other, c)
			return
		}

		c.fork()
		c.bmpAnd(other)
	default:
		*c = and(c, other)
	}
}

// bmpAnd intersects a bitmap container with a bitmap or run container, in place
func (c *container) bmpAnd(other *container) {
	words := c.bmp()
	switch other.Type {
	case typeBitmap:
		words.And(other.bmp())
	case typeRun:
		prev := 0
		for _, r := range other.run() {
			clearRange(words, prev, int(r[0]))
			prev = int(r[1]) + 1
		}
		clearRange(words, prev, maxCard)
	}

	c.bmpCount()
	c.normalize()
}

// arrAndArr performs AND between two array containers
func arrAndArr(c1, c2 *container) container {
	out := make([]uint16, 0, min(len(c1.Data), len(c2.Data)))
	return arrayOf(intersect16(c1.Data, c2.Data, out))
}

// arrAndBmp performs AND between array and bitmap containers
func arrAndBmp(c1, c2 *container) container {
	out := make([]uint16, 0, len(c1.Data))
	return arrayOf(filterArr(c1.Data, out, c2.bmpHas))
}

// arrAndRun performs AND between array and run containers
func arrAndRun(c1, c2 *container) container {
	out := make([]uint16, 0, min(len(c1.Data), int(c2.Size)))
	return arrayOf(andArrRun(c1.Data, c2.run(), out))
}

// bmpAndBmp performs AND between two bitmap containers
func bmpAndBmp(c1, c2 *container) container {
	out := c1.clone()
	out.bmpAnd(c2)
	return out
}

// runAndBmp performs AND between run and bitmap containers
func runAndBmp(c1, c2 *container) container {
	if c1.Size > arrMaxSize {
		out := c2.clone()
		out.bmpAnd(c1)
		return out
	}

	out := make([]uint16, 0, c1.Size)
	for _, r := range c1.run() {
		for v := c2.bmpNext(int(r[0])); v >= 0 && v <= int(r[1]); v = c2.bmpNext(v + 1) {
			out = append(out, uint16(v))
		}
	}
	return arrayOf(out)
}

// andArrRun writes the array values covered by the runs into out, galloping
// over the array so runs that cover nothing are skipped. out may alias array.
func andArrRun(array []uint16, runs []run, out []uint16) []uint16 {
	out = out[:0]
	pos := -1
	for _, r := range runs {
		k := advanceUntil(array, pos, r[0])
		for ; k < len(array) && array[k] <= r[1]; k++ {
			out = append(out, array[k])
		}

		if k >= len(array) {
			break
		}
		pos = k - 1
	}
	return out
}

// filterArr writes the values for which fn returns true into out, out may alias array
func filterArr(array, out []uint16, fn func(uint16) bool) []uint16 {
	out = out[:0]
	for _, v := range array {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}
