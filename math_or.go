// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// or performs OR with a single bitmap, in place
func (rb *Bitmap) or(other *Bitmap) {
	switch {
	case other == nil || len(other.containers) == 0 || other == rb:
		return
	case len(rb.containers) == 0:
		other.Clone(rb)
		return
	}

	// Merge both indexes, containers only found on the right are copied
	index := make([]uint16, 0, len(rb.index)+len(other.index))
	containers := make([]container, 0, len(rb.index)+len(other.index))
	i, j := 0, 0
	for i < len(rb.index) && j < len(other.index) {
		hi1, hi2 := rb.index[i], other.index[j]
		switch {
		case hi1 < hi2:
			index = append(index, hi1)
			containers = append(containers, rb.containers[i])
			i++
		case hi1 > hi2:
			index = append(index, hi2)
			containers = append(containers, other.containers[j].clone())
			j++
		default:
			c := &rb.containers[i]
			c.ior(&other.containers[j])
			index = append(index, hi1)
			containers = append(containers, *c)
			i++
			j++
		}
	}

	for ; i < len(rb.index); i++ {
		index = append(index, rb.index[i])
		containers = append(containers, rb.containers[i])
	}

	for ; j < len(other.index); j++ {
		index = append(index, other.index[j])
		containers = append(containers, other.containers[j].clone())
	}

	rb.index = index
	rb.containers = containers
}

// Or returns the union of two bitmaps, without modifying them
func Or(a, b *Bitmap) *Bitmap {
	switch {
	case a == nil && b == nil:
		return New()
	case a == nil:
		return b.Clone(nil)
	case b == nil:
		return a.Clone(nil)
	}

	out := &Bitmap{
		index:      make([]uint16, 0, len(a.index)+len(b.index)),
		containers: make([]container, 0, len(a.index)+len(b.index)),
	}

	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		hi1, hi2 := a.index[i], b.index[j]
		switch {
		case hi1 < hi2:
			out.append(hi1, a.containers[i].clone())
			i++
		case hi1 > hi2:
			out.append(hi2, b.containers[j].clone())
			j++
		default:
			out.append(hi1, or(&a.containers[i], &b.containers[j]))
			i++
			j++
		}
	}

	out.appendCopyRange(a, i, len(a.index))
	out.appendCopyRange(b, j, len(b.index))
	return out
}

// or returns the union of two containers, without modifying them
func or(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrOrArr(c1, c2)
		case typeBitmap:
			return arrOrBmp(c1, c2)
		case typeRun:
			return arrOrRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return arrOrBmp(c2, c1)
		case typeBitmap, typeRun:
			out := c1.clone()
			out.bmpOr(c2)
			return out
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrOrRun(c2, c1)
		case typeBitmap:
			out := c2.clone()
			out.bmpOr(c1)
			return out
		case typeRun:
			return runOpRun(c1, c2, opOr)
		}
	}
	panic("roaring: invalid container type")
}

// ior unions the container with another one, in place
func (c *container) ior(other *container) {
	switch {
	case other.isEmpty() || c.isFull():
		return
	case c.Type == typeBitmap:
		c.fork()
		c.bmpOr(other)
	case c.Type == typeArray && other.Type == typeArray && len(c.Data)+len(other.Data) <= arrMaxSize:
		c.fork()
		c.arrOr(other.Data)
	default:
		*c = or(c, other)
	}
}

// arrOr merges another sorted array into the array container, in place. The
// merge runs backwards so that no scratch buffer is needed.
func (c *container) arrOr(other []uint16) {
	n, m := len(c.Data), len(other)
	c.Data = grow(c.Data, n+m, arrMaxSize)
	i, j, k := n-1, m-1, n+m-1
	for i >= 0 && j >= 0 {
		switch {
		case c.Data[i] > other[j]:
			c.Data[k] = c.Data[i]
			i--
		case c.Data[i] < other[j]:
			c.Data[k] = other[j]
			j--
		default:
			c.Data[k] = c.Data[i]
			i--
			j--
		}
		k--
	}

	for ; j >= 0; j, k = j-1, k-1 {
		c.Data[k] = other[j]
	}

	// Duplicates leave a gap at the front
	if shift := k - i; shift > 0 {
		copy(c.Data[i+1:], c.Data[k+1:])
		c.Data = c.Data[:n+m-shift]
	}
	c.Size = uint32(len(c.Data))
}

// bmpOr unions a bitmap container with any other container, in place
func (c *container) bmpOr(other *container) {
	words := c.bmp()
	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			if words[v>>6]&(1<<(v&63)) == 0 {
				words[v>>6] |= 1 << (v & 63)
				c.Size++
			}
		}
		return
	case typeBitmap:
		words.Or(other.bmp())
	case typeRun:
		for _, r := range other.run() {
			setRange(words, int(r[0]), int(r[1])+1)
		}
	}

	c.bmpCount()
}

// arrOrArr performs OR between two array containers
func arrOrArr(c1, c2 *container) container {
	if len(c1.Data)+len(c2.Data) <= arrMaxSize {
		out := make([]uint16, 0, len(c1.Data)+len(c2.Data))
		return arrayOf(union16(c1.Data, c2.Data, out))
	}

	out := arrWords(c1.Data)
	out.Size = uint32(len(c1.Data))
	out.bmpOr(c2)
	out.normalize()
	return out
}

// arrOrBmp performs OR between array and bitmap containers
func arrOrBmp(c1, c2 *container) container {
	out := c2.clone()
	out.bmpOr(c1)
	return out
}

// arrOrRun performs OR between array and run containers
func arrOrRun(c1, c2 *container) container {
	switch {
	case c2.isFull():
		return c2.clone()
	case len(c1.Data)+int(c2.Size) <= arrMaxSize:
		out := make([]uint16, 0, len(c1.Data)+int(c2.Size))
		return arrayOf(union16(c1.Data, expand(c2), out))
	}

	out := runWords(c2)
	out.Size = c2.Size
	out.bmpOr(c1)
	out.normalize()
	return out
}
