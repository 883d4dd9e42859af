package roaring

// arrSet sets a value in an array container
func (c *container) arrSet(value uint16) bool {
	i, found := find16(c.Data, value)
	if found {
		return false
	}

	n := len(c.Data)
	c.Data = grow(c.Data, n+1, arrMaxSize)
	copy(c.Data[i+1:], c.Data[i:n])
	c.Data[i] = value
	c.Size++
	return true
}

// arrDel removes a value from an array container
func (c *container) arrDel(value uint16) bool {
	i, found := find16(c.Data, value)
	if !found {
		return false
	}

	copy(c.Data[i:], c.Data[i+1:])
	c.Data = c.Data[:len(c.Data)-1]
	c.Size--
	return true
}

// arrHas checks if a value exists in an array container
func (c *container) arrHas(value uint16) bool {
	_, found := find16(c.Data, value)
	return found
}

// arrRank returns the number of values smaller or equal to x
func (c *container) arrRank(x uint16) int {
	i, found := find16(c.Data, x)
	if found {
		return i + 1
	}
	return i
}

// arrCountRuns counts the runs of consecutive values in the array
func (c *container) arrCountRuns() int {
	if len(c.Data) == 0 {
		return 0
	}

	runs := 1
	for i := 1; i < len(c.Data); i++ {
		if c.Data[i] != c.Data[i-1]+1 {
			runs++
		}
	}
	return runs
}

// arrAddRange sets every value in [lo, hi)
func (c *container) arrAddRange(lo, hi int) {
	i, j := lowerBound(c.Data, lo), lowerBound(c.Data, hi)
	size := len(c.Data) - (j - i) + (hi - lo)
	if size > arrMaxSize {
		c.arrToBmp()
		c.bmpAddRange(lo, hi)
		return
	}

	out := make([]uint16, 0, size)
	out = append(out, c.Data[:i]...)
	for v := lo; v < hi; v++ {
		out = append(out, uint16(v))
	}
	out = append(out, c.Data[j:]...)
	c.Data = out
	c.Size = uint32(size)
}

// arrRemoveRange clears every value in [lo, hi)
func (c *container) arrRemoveRange(lo, hi int) {
	i, j := lowerBound(c.Data, lo), lowerBound(c.Data, hi)
	if i == j {
		return
	}

	c.Data = append(c.Data[:i], c.Data[j:]...)
	c.Size = uint32(len(c.Data))
}

// arrNot flips every value in [lo, hi)
func (c *container) arrNot(lo, hi int) {
	i, j := lowerBound(c.Data, lo), lowerBound(c.Data, hi)
	inside := j - i
	flipped := (hi - lo) - inside
	size := len(c.Data) - inside + flipped
	if size > arrMaxSize {
		c.arrToBmp()
		c.bmpNot(lo, hi)
		return
	}

	// Complement of the values inside the window
	negated := make([]uint16, 0, flipped)
	k := i
	for v := lo; v < hi; v++ {
		if k < j && int(c.Data[k]) == v {
			k++
			continue
		}
		negated = append(negated, uint16(v))
	}

	if len(negated) != flipped {
		panic("roaring: negated range does not match the expected length")
	}

	out := make([]uint16, 0, size)
	out = append(out, c.Data[:i]...)
	out = append(out, negated...)
	out = append(out, c.Data[j:]...)
	c.Data = out
	c.Size = uint32(size)
}

// arrToBmp converts this container from array to bitmap
func (c *container) arrToBmp() {
	src := c.Data
	c.Data = make([]uint16, bmpSize)
	c.Type = typeBitmap
	c.Borrowed = false

	dst := c.bmp()
	for _, v := range src {
		dst[v>>6] |= 1 << (v & 63)
	}
	c.Size = uint32(len(src))
}

// arrToRun converts this container from array to run
func (c *container) arrToRun(runs int) {
	src := c.Data
	out := make([]uint16, 0, runs*2)
	for i := 0; i < len(src); {
		start := i
		for i+1 < len(src) && src[i+1] == src[i]+1 {
			i++
		}
		out = append(out, src[start], src[i])
		i++
	}

	c.Data = out
	c.Type = typeRun
	c.Borrowed = false
}

// ---------------------------------------- Sorted Merges ----------------------------------------

// intersect16 writes the intersection of two sorted arrays into out. When one side
// is much smaller than the other, galloping is used to skip over the larger one.
// The out slice may alias either of the inputs.
func intersect16(a, b, out []uint16) []uint16 {
	switch {
	case len(a) == 0 || len(b) == 0:
		return out[:0]
	case len(a)*gallopRatio <= len(b):
		return intersectGallop(a, b, out)
	case len(b)*gallopRatio <= len(a):
		return intersectGallop(b, a, out)
	default:
		return intersectLinear(a, b, out)
	}
}

// intersectLinear intersects two sorted arrays with a two-pointer merge
func intersectLinear(a, b, out []uint16) []uint16 {
	out = out[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			out = append(out, av)
			i++
			j++
		case av < bv:
			i++
		default: // av > bv
			j++
		}
	}
	return out
}

// intersectGallop intersects a small sorted array with a large one by galloping
// through the large array for every value of the small one.
func intersectGallop(small, large, out []uint16) []uint16 {
	out = out[:0]
	pos := -1
	for _, v := range small {
		k := advanceUntil(large, pos, v)
		if k >= len(large) {
			break
		}

		if large[k] == v {
			out = append(out, v)
		}
		pos = k - 1
	}
	return out
}

// union16 appends the union of two sorted arrays to out
func union16(a, b, out []uint16) []uint16 {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			out = append(out, av)
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default: // av > bv
			out = append(out, bv)
			j++
		}
	}

	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// difference16 writes the values of a that are not in b into out, out may alias a
func difference16(a, b, out []uint16) []uint16 {
	out = out[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default: // av > bv
			j = advanceUntil(b, j, av)
		}
	}
	return append(out, a[i:]...)
}

// xor16 appends the symmetric difference of two sorted arrays to out
func xor16(a, b, out []uint16) []uint16 {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default: // av > bv
			out = append(out, bv)
			j++
		}
	}

	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
