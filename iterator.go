package roaring

import "iter"

// Iterator walks over the values of a bitmap, either in ascending or in
// descending order. The bitmap must not be modified while it is being iterated.
type Iterator struct {
	rb      *Bitmap
	reverse bool
	ok      bool // whether k holds the next value
	i       int  // position of the current container in the index
	j       int  // position in the array, or index of the run
	k       int  // current 16-bit value of the container
}

// Iterator returns an iterator over the values of the bitmap in ascending order
func (rb *Bitmap) Iterator() *Iterator {
	it := &Iterator{rb: rb}
	it.seek(0)
	return it
}

// ReverseIterator returns an iterator over the values of the bitmap in descending order
func (rb *Bitmap) ReverseIterator() *Iterator {
	it := &Iterator{rb: rb, reverse: true}
	it.seek(len(rb.containers) - 1)
	return it
}

// HasNext returns true if there are more values to iterate over
func (it *Iterator) HasNext() bool {
	return it.ok
}

// Next returns the next value and moves the iterator forward. It must only be
// called when HasNext returns true.
func (it *Iterator) Next() uint32 {
	if !it.ok {
		panic("roaring: iterator has no more values")
	}

	value := uint32(it.rb.index[it.i])<<16 | uint32(it.k)
	if !it.step() {
		if it.reverse {
			it.seek(it.i - 1)
		} else {
			it.seek(it.i + 1)
		}
	}
	return value
}

// seek positions the iterator on the first value (last when reversed) of the
// container at position i.
func (it *Iterator) seek(i int) {
	it.i, it.ok = i, i >= 0 && i < len(it.rb.containers)
	if !it.ok {
		return
	}

	c := &it.rb.containers[i]
	switch {
	case !it.reverse && c.Type == typeBitmap:
		it.k = c.bmpNext(0)
	case !it.reverse:
		it.j, it.k = 0, int(c.Data[0])
	case c.Type == typeArray:
		it.j = len(c.Data) - 1
		it.k = int(c.Data[it.j])
	case c.Type == typeBitmap:
		it.k = c.bmpPrev(maxCard - 1)
	case c.Type == typeRun:
		it.j = len(c.Data)/2 - 1
		it.k = int(c.Data[len(c.Data)-1])
	}
}

// step moves to the next value of the current container, returning false when
// the container is exhausted.
func (it *Iterator) step() bool {
	c := &it.rb.containers[it.i]
	switch c.Type {
	case typeArray:
		if it.reverse {
			it.j--
		} else {
			it.j++
		}
		if it.j < 0 || it.j >= len(c.Data) {
			return false
		}
		it.k = int(c.Data[it.j])
	case typeBitmap:
		if it.reverse {
			it.k = c.bmpPrev(it.k - 1)
		} else {
			it.k = c.bmpNext(it.k + 1)
		}
		return it.k >= 0
	case typeRun:
		runs := c.run()
		switch {
		case !it.reverse && it.k < int(runs[it.j][1]):
			it.k++
		case !it.reverse:
			if it.j++; it.j >= len(runs) {
				return false
			}
			it.k = int(runs[it.j][0])
		case it.k > int(runs[it.j][0]):
			it.k--
		default:
			if it.j--; it.j < 0 {
				return false
			}
			it.k = int(runs[it.j][1])
		}
	}
	return true
}

// All returns a sequence over the values of the bitmap in ascending order
func (rb *Bitmap) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for it := rb.Iterator(); it.HasNext(); {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Backward returns a sequence over the values of the bitmap in descending order
func (rb *Bitmap) Backward() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for it := rb.ReverseIterator(); it.HasNext(); {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
