package roaring

// accumulator is an unrepaired union of containers. Unions are folded into a
// scratch bitmap without keeping track of the cardinality, which is only computed
// once by repair. It exposes no way to read its values before that.
type accumulator struct {
	first *container // the only container seen so far, not copied yet
	words []uint16   // scratch bitmap, once two containers were seen
}

// or folds a container into the union
func (a *accumulator) or(c *container) {
	switch {
	case c.isEmpty():
		return
	case a.words == nil && a.first == nil:
		a.first = c
		return
	case a.words == nil:
		a.words = borrowArray()
		lazyOr(a.words, a.first)
		a.first = nil
	}

	lazyOr(a.words, c)
}

// repair computes the cardinality of the union and returns it as a regular
// container. The accumulator is reset and can be reused afterwards.
func (a *accumulator) repair() container {
	defer a.reset()
	switch {
	case a.first != nil:
		return a.first.clone()
	case a.words == nil:
		return newArray(0)
	}

	out := container{Type: typeBitmap, Data: a.words}
	out.bmpCount()
	if out.Size > arrMaxSize {
		a.words = nil // ownership moves to the container
		return out
	}

	out.bmpToArr()
	return out
}

// reset clears the accumulator, returning its scratch buffer to the pool
func (a *accumulator) reset() {
	if a.words != nil {
		release(a.words)
	}
	a.first = nil
	a.words = nil
}

// lazyOr unions a container into a scratch bitmap without counting
func lazyOr(dst []uint16, c *container) {
	words := asBitmap(dst)
	switch c.Type {
	case typeArray:
		for _, v := range c.Data {
			words[v>>6] |= 1 << (v & 63)
		}
	case typeBitmap:
		words.Or(c.bmp())
	case typeRun:
		for _, r := range c.run() {
			setRange(words, int(r[0]), int(r[1])+1)
		}
	}
}
