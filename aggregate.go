package roaring

import "container/heap"

// ---------------------------------------- Naive Fold ----------------------------------------

// NaiveAnd computes the intersection of the bitmaps, folding them from left to right
func NaiveAnd(bitmaps ...*Bitmap) *Bitmap {
	return naive(bitmaps, (*Bitmap).and)
}

// NaiveOr computes the union of the bitmaps, folding them from left to right
func NaiveOr(bitmaps ...*Bitmap) *Bitmap {
	return naive(bitmaps, (*Bitmap).or)
}

// NaiveXor computes the symmetric difference of the bitmaps, folding them from left to right
func NaiveXor(bitmaps ...*Bitmap) *Bitmap {
	return naive(bitmaps, (*Bitmap).xor)
}

// NaiveAndNot removes the values of every other bitmap from the first one
func NaiveAndNot(bitmaps ...*Bitmap) *Bitmap {
	return naive(bitmaps, (*Bitmap).andNot)
}

// naive folds the bitmaps into a copy of the first one
func naive(bitmaps []*Bitmap, fn func(dst, other *Bitmap)) *Bitmap {
	if len(bitmaps) == 0 {
		return New()
	}

	out := bitmaps[0].Clone(nil)
	for _, bm := range bitmaps[1:] {
		fn(out, bm)
	}
	return out
}

// ---------------------------------------- Smallest First ----------------------------------------

// HeapAnd computes the intersection of the bitmaps, always combining the two
// smallest ones first.
func HeapAnd(bitmaps ...*Bitmap) *Bitmap {
	return smallestFirst(bitmaps, (*Bitmap).and)
}

// HeapOr computes the union of the bitmaps, always combining the two smallest
// ones first.
func HeapOr(bitmaps ...*Bitmap) *Bitmap {
	return smallestFirst(bitmaps, (*Bitmap).or)
}

// HeapXor computes the symmetric difference of the bitmaps, always combining the
// two smallest ones first.
func HeapXor(bitmaps ...*Bitmap) *Bitmap {
	return smallestFirst(bitmaps, (*Bitmap).xor)
}

// sized is a bitmap along with its serialized size
type sized struct {
	bm    *Bitmap
	size  int
	owned bool // bm is an intermediate result and can be modified
}

// sizeQueue is a min-heap of bitmaps ordered by their serialized size
type sizeQueue []sized

var _ heap.Interface = (*sizeQueue)(nil)

func (q sizeQueue) Len() int           { return len(q) }
func (q sizeQueue) Less(i, j int) bool { return q[i].size < q[j].size }
func (q sizeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *sizeQueue) Push(x any)        { *q = append(*q, x.(sized)) }
func (q *sizeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = sized{}
	*q = old[:n-1]
	return item
}

// smallestFirst repeatedly combines the two smallest bitmaps until a single one is left
func smallestFirst(bitmaps []*Bitmap, fn func(dst, other *Bitmap)) *Bitmap {
	queue := make(sizeQueue, 0, len(bitmaps))
	for _, bm := range bitmaps {
		if bm == nil {
			bm = New()
		}
		queue = append(queue, sized{bm: bm, size: bm.SerializedSize()})
	}

	switch len(queue) {
	case 0:
		return New()
	case 1:
		return queue[0].bm.Clone(nil)
	}

	heap.Init(&queue)
	for queue.Len() > 1 {
		a := heap.Pop(&queue).(sized)
		b := heap.Pop(&queue).(sized)

		// Intermediate results are reused, the inputs are copied first
		dst, other := a.bm, b.bm
		switch {
		case a.owned:
		case b.owned:
			dst, other = b.bm, a.bm
		default:
			dst = a.bm.Clone(nil)
		}

		fn(dst, other)
		heap.Push(&queue, sized{bm: dst, size: dst.SerializedSize(), owned: true})
	}

	return queue[0].bm
}

// ---------------------------------------- Key Major ----------------------------------------

// FastOr computes the union of the bitmaps one key at a time. The containers
// sharing a key are accumulated without keeping track of their cardinality,
// which is computed once per key.
func FastOr(bitmaps ...*Bitmap) *Bitmap {
	var acc accumulator
	return keyMajor(bitmaps, func(c *container) {
		acc.or(c)
	}, func() (container, bool) {
		out := acc.repair()
		return out, !out.isEmpty()
	})
}

// FastXor computes the symmetric difference of the bitmaps one key at a time
func FastXor(bitmaps ...*Bitmap) *Bitmap {
	var acc container
	var seen bool
	return keyMajor(bitmaps, func(c *container) {
		switch {
		case !seen:
			acc, seen = c.clone(), true
		default:
			acc.ixor(c)
		}
	}, func() (container, bool) {
		out := acc
		acc, seen = container{}, false
		return out, !out.isEmpty()
	})
}

// cursor points to an entry of a bitmap index
type cursor struct {
	bm  *Bitmap
	pos int
}

// key returns the key of the entry pointed by the cursor
func (c *cursor) key() uint16 {
	return c.bm.index[c.pos]
}

// cursorQueue is a min-heap of cursors ordered by their key
type cursorQueue []cursor

var _ heap.Interface = (*cursorQueue)(nil)

func (q cursorQueue) Len() int           { return len(q) }
func (q cursorQueue) Less(i, j int) bool { return q[i].key() < q[j].key() }
func (q cursorQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *cursorQueue) Push(x any)        { *q = append(*q, x.(cursor)) }
func (q *cursorQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = cursor{}
	*q = old[:n-1]
	return item
}

// keyMajor walks every index in key order. For each key, every container with
// that key is passed to fold, and flush is then called to get the result.
func keyMajor(bitmaps []*Bitmap, fold func(c *container), flush func() (container, bool)) *Bitmap {
	queue := make(cursorQueue, 0, len(bitmaps))
	for _, bm := range bitmaps {
		if bm != nil && len(bm.index) > 0 {
			queue = append(queue, cursor{bm: bm})
		}
	}

	out := New()
	heap.Init(&queue)
	for queue.Len() > 0 {
		key := queue[0].key()
		for queue.Len() > 0 && queue[0].key() == key {
			top := &queue[0]
			fold(&top.bm.containers[top.pos])
			if top.pos++; top.pos < len(top.bm.index) {
				heap.Fix(&queue, 0)
			} else {
				heap.Pop(&queue)
			}
		}

		if c, ok := flush(); ok {
			out.append(key, c)
		}
	}
	return out
}
