package roaring

// find returns the position of the key in the index or, when missing, the
// position at which it should be inserted. Appending values in order mostly
// hits the last key, so that one is checked first.
func (rb *Bitmap) find(key uint16) (int, bool) {
	if n := len(rb.index); n > 0 && rb.index[n-1] == key {
		return n - 1, true
	}

	return find16(rb.index, key)
}

// get returns the container of the key, or nil if there is none
func (rb *Bitmap) get(key uint16) *container {
	if i, ok := rb.find(key); ok {
		return &rb.containers[i]
	}
	return nil
}

// insertAt inserts a container at the given position of the index
func (rb *Bitmap) insertAt(i int, key uint16, c container) {
	n := len(rb.index)
	rb.index = grow(rb.index, n+1, 0)
	rb.containers = grow(rb.containers, n+1, 0)
	copy(rb.index[i+1:], rb.index[i:n])
	copy(rb.containers[i+1:], rb.containers[i:n])
	rb.index[i] = key
	rb.containers[i] = c
}

// removeAt removes the container at the given position of the index
func (rb *Bitmap) removeAt(i int) {
	n := len(rb.index) - 1
	copy(rb.index[i:], rb.index[i+1:])
	copy(rb.containers[i:], rb.containers[i+1:])
	rb.containers[n] = container{}
	rb.index = rb.index[:n]
	rb.containers = rb.containers[:n]
}

// append adds a container at the end of the index, its key must be larger than
// every key already present.
func (rb *Bitmap) append(key uint16, c container) {
	rb.index = append(rb.index, key)
	rb.containers = append(rb.containers, c)
}

// appendCopyRange appends clones of the entries [begin, end) of another bitmap
func (rb *Bitmap) appendCopyRange(src *Bitmap, begin, end int) {
	for i := begin; i < end; i++ {
		rb.append(src.index[i], src.containers[i].clone())
	}
}

// advance returns the position of the first key >= key, starting the search at
// pos. It gallops so long stretches of keys can be skipped cheaply.
func (rb *Bitmap) advance(key uint16, pos int) int {
	return advanceUntil(rb.index, pos-1, key)
}

// truncate keeps the first n entries of the index
func (rb *Bitmap) truncate(n int) {
	clear(rb.containers[n:])
	rb.index = rb.index[:n]
	rb.containers = rb.containers[:n]
}

// rewrite rebuilds the entries for the keys covering [begin, end). For every key
// of the window, fn receives the existing container (nil if there is none) along
// with the part of the window it covers, and returns the container to keep. Entries
// outside of the window are carried over untouched.
func (rb *Bitmap) rewrite(begin, end uint64, fn func(c *container, lo, hi int) (container, bool)) {
	bk, ek := int(begin>>16), int((end-1)>>16)
	lo := lowerBound(rb.index, bk)
	hi := lowerBound(rb.index, ek+1)

	index := make([]uint16, 0, len(rb.index)+ek-bk+1)
	containers := make([]container, 0, cap(index))
	index = append(index, rb.index[:lo]...)
	containers = append(containers, rb.containers[:lo]...)

	i := lo
	for key := bk; key <= ek; key++ {
		var existing *container
		if i < hi && int(rb.index[i]) == key {
			existing = &rb.containers[i]
			i++
		}

		first, last := windowOf(key, begin, end)
		if c, ok := fn(existing, first, last); ok {
			index = append(index, uint16(key))
			containers = append(containers, c)
		}
	}

	rb.index = append(index, rb.index[hi:]...)
	rb.containers = append(containers, rb.containers[hi:]...)
}

// windowOf returns the part of [begin, end) that falls into the container of the
// key, as a range of 16-bit values [lo, hi).
func windowOf(key int, begin, end uint64) (lo, hi int) {
	base := uint64(key) << 16
	lo, hi = 0, maxCard
	if begin > base {
		lo = int(begin - base)
	}
	if end < base+maxCard {
		hi = int(end - base)
	}
	return
}
