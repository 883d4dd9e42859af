package roaring

// runFind locates the run containing the value. When not found, the index is the
// position at which a new run holding the value would be inserted.
func (c *container) runFind(value uint16) (idx int, ok bool) {
	n := len(c.Data) >> 1
	switch {
	case n == 0:
		return 0, false
	case value < c.Data[0]:
		return 0, false
	case value > c.Data[(n-1)*2+1]:
		return n, false
	}

	// binary phase: shrink window to ≤4 runs
	lo, hi := 0, n
	for hi-lo > 4 {
		mid := (lo + hi) >> 1
		start := c.Data[mid*2]
		if value < start {
			hi = mid
			continue
		}
		end := c.Data[mid*2+1]
		if value <= end { // hit
			return mid, true
		}
		lo = mid + 1
	}

	// linear phase inside one cache line
	for i := lo; i < hi; i++ {
		switch {
		case value < c.Data[i*2]:
			return i, false
		case value <= c.Data[i*2+1]:
			return i, true
		}
	}

	// value is greater than end of hi-1 but ≤ lastEnd (already checked)
	return hi, false
}

// runSet sets a value in a run container
func (c *container) runSet(value uint16) bool {
	idx, found := c.runFind(value)
	if found {
		return false
	}

	numRuns := len(c.Data) / 2
	canMergeLeft := idx > 0 && c.Data[(idx-1)*2+1]+1 == value
	canMergeRight := idx < numRuns && c.Data[idx*2]-1 == value

	switch {
	case canMergeLeft && canMergeRight:
		c.Data[(idx-1)*2+1] = c.Data[idx*2+1]
		c.runRemoveRunAt(idx)
	case canMergeLeft:
		c.Data[(idx-1)*2+1] = value
	case canMergeRight:
		c.Data[idx*2] = value
	default:
		c.runInsertRunAt(idx, value, value)
	}

	c.Size++
	return true
}

// runDel removes a value from a run container
func (c *container) runDel(value uint16) bool {
	idx, found := c.runFind(value)
	if !found {
		return false
	}

	start := c.Data[idx*2]
	end := c.Data[idx*2+1]

	switch {
	case start == end:
		c.runRemoveRunAt(idx)
	case value == start:
		c.Data[idx*2] = value + 1
	case value == end:
		c.Data[idx*2+1] = value - 1
	default:
		c.Data[idx*2+1] = value - 1
		c.runInsertRunAt(idx+1, value+1, end)
	}

	c.Size--
	return true
}

// runHas checks if a value exists in a run container
func (c *container) runHas(value uint16) bool {
	_, found := c.runFind(value)
	return found
}

// runInsertRunAt inserts a new run at the specified index
func (c *container) runInsertRunAt(index int, start, end uint16) {
	numRuns := len(c.Data) / 2
	c.Data = grow(c.Data, (numRuns+1)*2, 0)
	copy(c.Data[(index+1)*2:], c.Data[index*2:numRuns*2])
	c.Data[index*2] = start
	c.Data[index*2+1] = end
}

// runRemoveRunAt removes the run at the specified index
func (c *container) runRemoveRunAt(index int) {
	numRuns := len(c.Data) / 2
	if index < 0 || index >= numRuns {
		return
	}

	copy(c.Data[index*2:], c.Data[(index+1)*2:])
	c.Data = c.Data[:(numRuns-1)*2]
}

// runRank returns the number of values smaller or equal to x
func (c *container) runRank(x uint16) int {
	n := 0
	for _, r := range c.run() {
		switch {
		case x > r[1]:
			n += int(r[1]-r[0]) + 1
		case x >= r[0]:
			return n + int(x-r[0]) + 1
		default:
			return n
		}
	}
	return n
}

// runSelect returns the j-th smallest value of the run container
func (c *container) runSelect(j int) uint16 {
	for _, r := range c.run() {
		length := int(r[1]-r[0]) + 1
		if j < length {
			return r[0] + uint16(j)
		}
		j -= length
	}

	panic("roaring: select out of bounds of the run cardinality")
}

// runAddRange sets every value in [lo, hi), fusing every run it touches
func (c *container) runAddRange(lo, hi int) {
	runs := c.run()
	last := hi - 1

	// runs[i:j] overlap or are adjacent to [lo, last]
	i := 0
	for i < len(runs) && int(runs[i][1])+1 < lo {
		i++
	}
	j := i
	for j < len(runs) && int(runs[j][0]) <= last+1 {
		j++
	}

	start, end := lo, last
	if i < j {
		start = min(start, int(runs[i][0]))
		end = max(end, int(runs[j-1][1]))
	}

	out := make([]uint16, 0, (len(runs)-(j-i)+1)*2)
	out = append(out, c.Data[:i*2]...)
	out = append(out, uint16(start), uint16(end))
	out = append(out, c.Data[j*2:]...)
	c.Data = out
	c.Size = runCardinality(out)
}

// runRemoveRange clears every value in [lo, hi)
func (c *container) runRemoveRange(lo, hi int) {
	last := hi - 1
	out := make([]uint16, 0, len(c.Data)+2)
	for _, r := range c.run() {
		start, end := int(r[0]), int(r[1])
		switch {
		case end < lo || start > last:
			out = append(out, r[0], r[1])
		default:
			if start < lo {
				out = append(out, r[0], uint16(lo-1))
			}
			if end > last {
				out = append(out, uint16(last+1), r[1])
			}
		}
	}

	c.Data = out
	c.Size = runCardinality(out)
}

// runNot flips every value in [lo, hi). Runs before and after the window are
// copied unchanged, runs crossing its edges are cut and the gaps inside the
// window become the new runs.
func (c *container) runNot(lo, hi int) {
	runs := c.run()
	last := hi - 1
	out := make([]uint16, 0, len(c.Data)+4)

	// Runs entirely before the window
	i := 0
	for ; i < len(runs) && int(runs[i][1]) < lo; i++ {
		out = appendRun(out, int(runs[i][0]), int(runs[i][1]))
	}

	// Runs overlapping the window, keeping the parts sticking out on either side
	next, tail := lo, -1
	for ; i < len(runs) && int(runs[i][0]) <= last; i++ {
		start, end := int(runs[i][0]), int(runs[i][1])
		if start < lo {
			out = appendRun(out, start, lo-1)
		}
		if start > next {
			out = appendRun(out, next, start-1)
		}
		if end > last {
			tail = end
		}
		next = end + 1
	}

	// Gap between the last overlapping run and the end of the window
	if next <= last {
		out = appendRun(out, next, last)
	}
	if tail >= 0 {
		out = appendRun(out, last+1, tail)
	}

	// Runs entirely after the window
	for ; i < len(runs); i++ {
		out = appendRun(out, int(runs[i][0]), int(runs[i][1]))
	}

	c.Data = out
	c.Size = runCardinality(out)
	if len(out)/2 > runMaxRuns {
		c.runToEfficient()
	}
}

// runToArr converts this container from run to array
func (c *container) runToArr() {
	out := make([]uint16, 0, c.Size)
	for _, r := range c.run() {
		for v := int(r[0]); v <= int(r[1]); v++ {
			out = append(out, uint16(v))
		}
	}

	c.Data = out
	c.Type = typeArray
	c.Borrowed = false
}

// runToBmp converts this container from run to bitmap
func (c *container) runToBmp() {
	runs := c.run()
	c.Data = make([]uint16, bmpSize)
	c.Type = typeBitmap
	c.Borrowed = false

	words := c.bmp()
	for _, r := range runs {
		setRange(words, int(r[0]), int(r[1])+1)
	}
}

// appendRun appends the inclusive run [start, last] to a run list, fusing it with
// the previous run when they overlap or touch.
func appendRun(out []uint16, start, last int) []uint16 {
	if n := len(out); n > 0 && start <= int(out[n-1])+1 {
		if last > int(out[n-1]) {
			out[n-1] = uint16(last)
		}
		return out
	}

	return append(out, uint16(start), uint16(last))
}

// runCardinality sums up the lengths of the runs
func runCardinality(data []uint16) uint32 {
	size := uint32(0)
	for i := 0; i+1 < len(data); i += 2 {
		size += uint32(data[i+1]-data[i]) + 1
	}
	return size
}
