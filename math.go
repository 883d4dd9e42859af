package roaring

// setOp is one of the four binary set operations
type setOp byte

const (
	opAnd setOp = iota
	opOr
	opXor
	opAndNot
)

// String returns the symbol of the operation
func (op setOp) String() string {
	return [...]string{"∧", "∨", "⊕", "∖"}[op]
}

// keep returns whether a value present in a and/or b belongs to the result
func (op setOp) keep(inA, inB bool) bool {
	switch op {
	case opAnd:
		return inA && inB
	case opOr:
		return inA || inB
	case opXor:
		return inA != inB
	default:
		return inA && !inB
	}
}

// density estimates the density of the result from the densities of the operands,
// treating the two as independent events.
func (op setOp) density(da, db float64) float64 {
	switch op {
	case opAnd:
		return da * db
	case opOr:
		return 1 - (1-da)*(1-db)
	case opXor:
		return da*(1-db) + db*(1-da)
	default:
		return da * (1 - db)
	}
}

// density returns the fraction of the 16-bit domain held by the container
func density(c *container) float64 {
	return float64(c.Size) / maxCard
}

// ---------------------------------------- Run ∘ Run ----------------------------------------

// runOpRun combines two run containers. The density of the result is estimated
// up front: sparse results are merged straight into an array while dense ones
// are built on a full bitmap.
func runOpRun(a, b *container, op setOp) container {
	if op.density(density(a), density(b)) < float64(arrMaxSize)/maxCard {
		out := container{Type: typeRun, Data: runCombine(a.run(), b.run(), op)}
		out.Size = runCardinality(out.Data)
		out.runToArr()
		out.normalize()
		return out
	}

	out := runWords(a)
	words := out.bmp()
	switch op {
	case opAnd:
		prev := 0
		for _, r := range b.run() {
			clearRange(words, prev, int(r[0]))
			prev = int(r[1]) + 1
		}
		clearRange(words, prev, maxCard)
	case opOr:
		for _, r := range b.run() {
			setRange(words, int(r[0]), int(r[1])+1)
		}
	case opXor:
		for _, r := range b.run() {
			flipRange(words, int(r[0]), int(r[1])+1)
		}
	case opAndNot:
		for _, r := range b.run() {
			clearRange(words, int(r[0]), int(r[1])+1)
		}
	}

	out.bmpCount()
	out.normalize()
	return out
}

// runCombine sweeps the boundaries of both run lists in order and emits the
// intervals for which the operation keeps the values.
func runCombine(a, b []run, op setOp) []uint16 {
	const none = maxCard + 1
	out := make([]uint16, 0, (len(a)+len(b))*2)
	i, j := 0, 0
	inA, inB := false, false

	// boundary returns the next position at which membership in the run list changes
	boundary := func(runs []run, i int, in bool) int {
		switch {
		case i >= len(runs):
			return none
		case in:
			return int(runs[i][1]) + 1
		default:
			return int(runs[i][0])
		}
	}

	for pos := 0; ; {
		na, nb := boundary(a, i, inA), boundary(b, j, inB)
		next := min(na, nb)
		if next == none {
			return out
		}

		if pos < next && op.keep(inA, inB) {
			out = appendRun(out, pos, next-1)
		}

		if na == next {
			if inA {
				i++
			}
			inA = !inA
		}
		if nb == next {
			if inB {
				j++
			}
			inB = !inB
		}
		pos = next
	}
}

// ---------------------------------------- Helpers ----------------------------------------

// arrayOf wraps sorted distinct values into an array container, converting
// it to a bitmap if there are too many of them.
func arrayOf(data []uint16) container {
	out := container{Type: typeArray, Size: uint32(len(data)), Data: data}
	out.normalize()
	return out
}

// expand returns the values of a run container as a sorted array
func expand(c *container) []uint16 {
	out := container{Type: typeRun, Size: c.Size, Data: c.Data}
	out.runToArr()
	return out.Data
}

// runWords returns a new bitmap container with all of the runs set. The
// cardinality is left for the caller to compute.
func runWords(c *container) container {
	out := newBitmap()
	words := out.bmp()
	for _, r := range c.run() {
		setRange(words, int(r[0]), int(r[1])+1)
	}
	return out
}

// arrWords returns a new bitmap container with all of the array values set. The
// cardinality is left for the caller to compute.
func arrWords(data []uint16) container {
	out := newBitmap()
	words := out.bmp()
	for _, v := range data {
		words[v>>6] |= 1 << (v & 63)
	}
	return out
}
