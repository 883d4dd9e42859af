package roaring

// gallopRatio is the size ratio above which intersections gallop through the larger side
const gallopRatio = 64

// find16 performs a binary search for the target in the array
// Returns (index, found) where index is the insertion point if not found
func find16(array []uint16, target uint16) (int, bool) {
	const blockSize = 32 // cache line size
	index, n := array, len(array)
	switch {
	case n == 0:
		return 0, false
	case target < index[0]:
		return 0, false
	case target > index[n-1]:
		return n, false
	case target == index[0]:
		return 0, true
	case target == index[n-1]:
		return n - 1, true
	case n <= 16:
		for i, key := range index {
			switch {
			case key == target:
				return i, true
			case key > target:
				return i, false
			}
		}
		return n, false
	default:
		// Binary search for the correct block
		numBlocks := (n + blockSize - 1) / blockSize
		left, right := 0, numBlocks-1
		for left <= right {
			mid := left + (right-left)>>1
			blockStart := mid * blockSize
			blockEnd := min(blockStart+blockSize, n)

			switch {
			case target < index[blockStart]:
				right = mid - 1
			case target > index[blockEnd-1]:
				left = mid + 1
			default:
				return searchBlock(index, blockStart, blockEnd, target)
			}
		}

		return left * blockSize, false
	}
}

// searchBlock performs an optimized linear search within a block
// Returns (index, found) for the key within the block range
func searchBlock(keys []uint16, start, end int, target uint16) (int, bool) {
	for i := start; i < end; {
		remaining := end - i
		switch {
		case remaining >= 4:
			if keys[i] >= target {
				return i, keys[i] == target
			}
			if keys[i+1] >= target {
				return i + 1, keys[i+1] == target
			}
			if keys[i+2] >= target {
				return i + 2, keys[i+2] == target
			}
			if keys[i+3] >= target {
				return i + 3, keys[i+3] == target
			}
			i += 4
		default:
			if keys[i] >= target {
				return i, keys[i] == target
			}
			i++
		}
	}
	return end, false
}

// lowerBound returns the index of the first value >= v, v being in [0, 65536]
func lowerBound(array []uint16, v int) int {
	if v >= maxCard {
		return len(array)
	}

	i, _ := find16(array, uint16(v))
	return i
}

// advanceUntil gallops from pos+1 and returns the index of the first value >= min,
// or len(array) if there is none. It probes exponentially growing distances and
// then binary searches the last probed span.
func advanceUntil(array []uint16, pos int, min uint16) int {
	lower := pos + 1
	if lower >= len(array) || array[lower] >= min {
		return lower
	}

	span := 1
	for lower+span < len(array) && array[lower+span] < min {
		span <<= 1
	}

	upper := len(array) - 1
	if lower+span < len(array) {
		upper = lower + span
	}

	switch {
	case array[upper] == min:
		return upper
	case array[upper] < min:
		return len(array)
	}

	// array[lower+span/2] < min <= array[upper]
	lower += span >> 1
	for lower+1 != upper {
		mid := (lower + upper) >> 1
		switch {
		case array[mid] == min:
			return mid
		case array[mid] < min:
			lower = mid
		default:
			upper = mid
		}
	}
	return upper
}

// grow resizes the slice to the given length, growing its capacity by a factor
// that shrinks as the slice gets larger. Capacity never exceeds limit unless the
// requested size does, a zero limit meaning unbounded.
func grow[T any](data []T, size, limit int) []T {
	if size <= cap(data) {
		return data[:size]
	}

	n := cap(data)
	switch {
	case n < 64:
		n *= 2
	case n < 1024:
		n = n * 3 / 2
	default:
		n = n * 5 / 4
	}

	n = max(n, size)
	if limit > 0 && n > limit && size <= limit {
		n = limit
	}

	out := make([]T, size, n)
	copy(out, data)
	return out
}
