package roaring

import (
	"fmt"
	"unsafe"
)

const (
	arrMaxSize = 4096    // Maximum cardinality of an array container
	bmpSize    = 4096    // Number of uint16 backing a bitmap container (1024 words)
	bmpWords   = 1024    // Number of 64-bit words in a bitmap container
	runMaxRuns = 2047    // Above this, a run container is larger than a bitmap
	maxCard    = 1 << 16 // Number of values a container can hold
)

type ctype byte

const (
	typeArray ctype = iota
	typeBitmap
	typeRun
)

// String returns a short name of the container type
func (t ctype) String() string {
	switch t {
	case typeArray:
		return "arr"
	case typeBitmap:
		return "bmp"
	case typeRun:
		return "run"
	default:
		return fmt.Sprintf("ctype(%d)", byte(t))
	}
}

// container holds the low 16 bits of the values sharing the same key. The same
// struct backs all three representations, Type selects how Data is interpreted:
//
//   - typeArray:  sorted distinct values, len(Data) == Size
//   - typeBitmap: 1024 64-bit words viewed over 4096 uint16
//   - typeRun:    inclusive [start, last] pairs, sorted and never adjacent
//
// A borrowed container points into a caller-owned buffer and is copied before
// its first write.
type container struct {
	Type     ctype    // Type of the container
	Borrowed bool     // Data is borrowed and must be forked before writing
	Size     uint32   // Cardinality
	Data     []uint16 // Data of the container
}

// run is an inclusive interval [start, last] of a run container
type run [2]uint16

// newArray creates an empty array container
func newArray(capacity int) container {
	return container{Type: typeArray, Data: make([]uint16, 0, capacity)}
}

// newBitmap creates an empty bitmap container
func newBitmap() container {
	return container{Type: typeBitmap, Data: make([]uint16, bmpSize)}
}

// newRunRange creates a run container holding every value in [lo, hi)
func newRunRange(lo, hi int) container {
	return container{
		Type: typeRun,
		Size: uint32(hi - lo),
		Data: []uint16{uint16(lo), uint16(hi - 1)},
	}
}

// run returns the runs of a run container
func (c *container) run() []run {
	if len(c.Data) < 2 {
		return nil
	}

	return unsafe.Slice((*run)(unsafe.Pointer(&c.Data[0])), len(c.Data)/2)
}

// fork makes sure the container owns its data before it gets modified
func (c *container) fork() {
	if !c.Borrowed {
		return
	}

	c.Data = append(make([]uint16, 0, max(len(c.Data), 4)), c.Data...)
	c.Borrowed = false
}

// clone returns a deep copy of the container that owns its data
func (c *container) clone() container {
	out := container{Type: c.Type, Size: c.Size}
	out.Data = make([]uint16, len(c.Data))
	copy(out.Data, c.Data)
	return out
}

// set sets a value in the container and returns true if the value was added (didn't exist before)
func (c *container) set(value uint16) (ok bool) {
	c.fork()
	switch c.Type {
	case typeArray:
		if c.Size == arrMaxSize && !c.arrHas(value) {
			c.arrToBmp()
			return c.bmpSet(value)
		}
		return c.arrSet(value)
	case typeBitmap:
		return c.bmpSet(value)
	case typeRun:
		if ok = c.runSet(value); ok && len(c.Data)/2 > runMaxRuns {
			c.runToEfficient()
		}
		return
	}
	return false
}

// remove removes a value from the container and returns true if the value was removed (existed before)
func (c *container) remove(value uint16) (ok bool) {
	c.fork()
	switch c.Type {
	case typeArray:
		return c.arrDel(value)
	case typeBitmap:
		if ok = c.bmpDel(value); ok && c.Size <= arrMaxSize {
			c.bmpToArr()
		}
		return
	case typeRun:
		if ok = c.runDel(value); ok && len(c.Data)/2 > runMaxRuns {
			c.runToEfficient()
		}
		return
	}
	return false
}

// contains checks if a value exists in the container
func (c *container) contains(value uint16) bool {
	switch c.Type {
	case typeArray:
		return c.arrHas(value)
	case typeBitmap:
		return c.bmpHas(value)
	case typeRun:
		return c.runHas(value)
	}
	return false
}

// cardinality returns the number of elements in the container
func (c *container) cardinality() int {
	return int(c.Size)
}

// isEmpty returns true if the container has no elements
func (c *container) isEmpty() bool {
	return c.Size == 0
}

// isFull returns true if the container holds every 16-bit value
func (c *container) isFull() bool {
	return c.Size == maxCard
}

// rank returns the number of values in the container that are smaller or equal to x
func (c *container) rank(x uint16) int {
	switch c.Type {
	case typeArray:
		return c.arrRank(x)
	case typeBitmap:
		return c.bmpRank(x)
	case typeRun:
		return c.runRank(x)
	}
	return 0
}

// selectAt returns the j-th smallest value of the container, j starting at zero
func (c *container) selectAt(j int) (uint16, bool) {
	if j < 0 || j >= int(c.Size) {
		return 0, false
	}

	switch c.Type {
	case typeArray:
		return c.Data[j], true
	case typeBitmap:
		return c.bmpSelect(j), true
	case typeRun:
		return c.runSelect(j), true
	}
	return 0, false
}

// min returns the smallest value of a non-empty container
func (c *container) min() uint16 {
	switch c.Type {
	case typeArray:
		return c.Data[0]
	case typeBitmap:
		return uint16(c.bmpNext(0))
	default:
		return c.Data[0]
	}
}

// max returns the largest value of a non-empty container
func (c *container) max() uint16 {
	switch c.Type {
	case typeArray:
		return c.Data[len(c.Data)-1]
	case typeBitmap:
		return uint16(c.bmpPrev(maxCard - 1))
	default:
		return c.Data[len(c.Data)-1]
	}
}

// addRange sets every value in [lo, hi), hi being at most 65536
func (c *container) addRange(lo, hi int) {
	if lo >= hi {
		return
	}

	c.fork()
	switch c.Type {
	case typeArray:
		c.arrAddRange(lo, hi)
	case typeBitmap:
		c.bmpAddRange(lo, hi)
	case typeRun:
		c.runAddRange(lo, hi)
	}
}

// removeRange clears every value in [lo, hi), hi being at most 65536
func (c *container) removeRange(lo, hi int) {
	if lo >= hi || c.isEmpty() {
		return
	}

	c.fork()
	switch c.Type {
	case typeArray:
		c.arrRemoveRange(lo, hi)
	case typeBitmap:
		c.bmpRemoveRange(lo, hi)
	case typeRun:
		c.runRemoveRange(lo, hi)
	}
}

// not flips every value in [lo, hi), hi being at most 65536
func (c *container) not(lo, hi int) {
	if lo >= hi {
		return
	}

	c.fork()
	switch c.Type {
	case typeArray:
		c.arrNot(lo, hi)
	case typeBitmap:
		c.bmpNot(lo, hi)
	case typeRun:
		c.runNot(lo, hi)
	}
}

// normalize applies the array/bitmap threshold after a bulk change
func (c *container) normalize() {
	switch {
	case c.Type == typeArray && c.Size > arrMaxSize:
		c.arrToBmp()
	case c.Type == typeBitmap && c.Size <= arrMaxSize:
		c.bmpToArr()
	}
}

// numberOfRuns counts the maximal intervals of consecutive values
func (c *container) numberOfRuns() int {
	switch c.Type {
	case typeArray:
		return c.arrCountRuns()
	case typeBitmap:
		return c.bmpCountRuns()
	default:
		return len(c.Data) / 2
	}
}

// optimize converts the container to the representation with the smallest
// serialized size, estimated from cardinality and number of runs.
func (c *container) optimize() {
	if c.isEmpty() {
		return
	}

	runs := c.numberOfRuns()
	sizeAsRun := runSizeInBytes(runs)
	sizeAsOther := bmpSizeInBytes
	if c.Size <= arrMaxSize {
		sizeAsOther = arrSizeInBytes(int(c.Size))
	}

	switch {
	case sizeAsRun < sizeAsOther && c.Type != typeRun:
		c.toRun(runs)
	case sizeAsRun >= sizeAsOther && c.Type == typeRun:
		c.runToEfficient()
	}
}

// toRun converts an array or bitmap container into a run container
func (c *container) toRun(runs int) {
	switch c.Type {
	case typeArray:
		c.arrToRun(runs)
	case typeBitmap:
		c.bmpToRun(runs)
	}
}

// runToEfficient converts a run container into an array or a bitmap, depending on its cardinality
func (c *container) runToEfficient() {
	if c.Size <= arrMaxSize {
		c.runToArr()
		return
	}
	c.runToBmp()
}

// sizeInBytes returns the number of payload bytes the container takes when serialized
func (c *container) sizeInBytes() int {
	switch c.Type {
	case typeArray:
		return arrSizeInBytes(int(c.Size))
	case typeBitmap:
		return bmpSizeInBytes
	default:
		return runSizeInBytes(len(c.Data) / 2)
	}
}

const bmpSizeInBytes = bmpWords * 8

func arrSizeInBytes(card int) int {
	return card * 2
}

func runSizeInBytes(runs int) int {
	return 2 + runs*4
}

// equals checks whether two containers hold the same values, regardless of their type
func (c *container) equals(other *container) bool {
	if c.Size != other.Size {
		return false
	}

	if c.Type == other.Type {
		for i := range c.Data {
			if c.Data[i] != other.Data[i] {
				return false
			}
		}
		return len(c.Data) == len(other.Data)
	}

	// Same cardinality, so a one-sided inclusion is enough
	equal := true
	c.iterate(func(v uint16) bool {
		equal = other.contains(v)
		return equal
	})
	return equal
}

// iterate calls fn for every value of the container in ascending order until fn returns false
func (c *container) iterate(fn func(v uint16) bool) {
	switch c.Type {
	case typeArray:
		for _, v := range c.Data {
			if !fn(v) {
				return
			}
		}
	case typeBitmap:
		for i := c.bmpNext(0); i >= 0; i = c.bmpNext(i + 1) {
			if !fn(uint16(i)) {
				return
			}
		}
	case typeRun:
		for _, r := range c.run() {
			for v := int(r[0]); v <= int(r[1]); v++ {
				if !fn(uint16(v)) {
					return
				}
			}
		}
	}
}
