// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// xor performs XOR with a single bitmap, in place
func (rb *Bitmap) xor(other *Bitmap) {
	switch {
	case other == nil || len(other.containers) == 0:
		return
	case other == rb:
		rb.Clear()
		return
	case len(rb.containers) == 0:
		other.Clone(rb)
		return
	}

	// Merge both indexes, dropping the containers that cancel out
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
			if c.ixor(&other.containers[j]); !c.isEmpty() {
				index = append(index, hi1)
				containers = append(containers, *c)
			}
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

// Xor returns the symmetric difference of two bitmaps, without modifying them
func Xor(a, b *Bitmap) *Bitmap {
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
			if c := xor(&a.containers[i], &b.containers[j]); !c.isEmpty() {
				out.append(hi1, c)
			}
			i++
			j++
		}
	}

	out.appendCopyRange(a, i, len(a.index))
	out.appendCopyRange(b, j, len(b.index))
	return out
}

// xor returns the symmetric difference of two containers, without modifying them
func xor(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrXorArr(c1, c2)
		case typeBitmap:
			out := c2.clone()
			out.bmpXor(c1)
			return out
		case typeRun:
			return arrXorRun(c1, c2)
		}
	case typeBitmap:
		out := c1.clone()
		out.bmpXor(c2)
		return out
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrXorRun(c2, c1)
		case typeBitmap:
			out := c2.clone()
			out.bmpXor(c1)
			return out
		case typeRun:
			return runOpRun(c1, c2, opXor)
		}
	}
	panic("roaring: invalid container type")
}

// ixor computes the symmetric difference with another container, in place
func (c *container) ixor(other *container) {
	switch {
	case other.isEmpty():
		return
	case c.Type == typeBitmap:
		c.fork()
		c.bmpXor(other)
	default:
		*c = xor(c, other)
	}
}

// bmpXor flips the values of any other container in a bitmap container, in place
func (c *container) bmpXor(other *container) {
	words := c.bmp()
	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			words[v>>6] ^= 1 << (v & 63)
		}
	case typeBitmap:
		words.Xor(other.bmp())
	case typeRun:
		for _, r := range other.run() {
			flipRange(words, int(r[0]), int(r[1])+1)
		}
	}

	c.bmpCount()
	c.normalize()
}

// arrXorArr performs XOR between two array containers
func arrXorArr(c1, c2 *container) container {
	if len(c1.Data)+len(c2.Data) <= arrMaxSize {
		out := make([]uint16, 0, len(c1.Data)+len(c2.Data))
		return arrayOf(xor16(c1.Data, c2.Data, out))
	}

	out := arrWords(c1.Data)
	out.bmpXor(c2)
	return out
}

// arrXorRun performs XOR between array and run containers
func arrXorRun(c1, c2 *container) container {
	if len(c1.Data)+int(c2.Size) <= arrMaxSize {
		out := make([]uint16, 0, len(c1.Data)+int(c2.Size))
		return arrayOf(xor16(c1.Data, expand(c2), out))
	}

	out := runWords(c2)
	out.bmpXor(c1)
	return out
}
