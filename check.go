package roaring

import "github.com/pkg/errors"

// Check verifies the internal invariants of the bitmap and returns an error
// describing the first violation found. A bitmap only ever built through its
// methods always passes the check.
func (rb *Bitmap) Check() error {
	if len(rb.index) != len(rb.containers) {
		return errors.Errorf("roaring: %d keys for %d containers", len(rb.index), len(rb.containers))
	}

	for i, key := range rb.index {
		if i > 0 && key <= rb.index[i-1] {
			return errors.Errorf("roaring: key %d is not larger than key %d", key, rb.index[i-1])
		}

		if err := rb.containers[i].check(); err != nil {
			return errors.Wrapf(err, "roaring: container %d", key)
		}
	}
	return nil
}

// check verifies the invariants of a single container
func (c *container) check() error {
	if c.isEmpty() {
		return errors.New("empty container")
	}

	switch c.Type {
	case typeArray:
		switch {
		case c.Size > arrMaxSize:
			return errors.Errorf("array holds %d values", c.Size)
		case len(c.Data) != int(c.Size):
			return errors.Errorf("array of length %d has a cardinality of %d", len(c.Data), c.Size)
		}

		for i := 1; i < len(c.Data); i++ {
			if c.Data[i] <= c.Data[i-1] {
				return errors.Errorf("array is not sorted at %d", i)
			}
		}
	case typeBitmap:
		switch {
		case len(c.Data) != bmpSize:
			return errors.Errorf("bitmap of length %d", len(c.Data))
		case c.Size <= arrMaxSize:
			return errors.Errorf("bitmap holds only %d values", c.Size)
		case c.bmp().Count() != int(c.Size):
			return errors.Errorf("bitmap holds %d values, expected %d", c.bmp().Count(), c.Size)
		}
	case typeRun:
		if len(c.Data)%2 != 0 {
			return errors.Errorf("run list of odd length %d", len(c.Data))
		}

		runs := c.run()
		for i, r := range runs {
			switch {
			case r[0] > r[1]:
				return errors.Errorf("run %d is inverted", i)
			case i > 0 && int(r[0]) <= int(runs[i-1][1])+1:
				return errors.Errorf("run %d overlaps or touches the previous one", i)
			}
		}

		if n := runCardinality(c.Data); n != c.Size {
			return errors.Errorf("runs hold %d values, expected %d", n, c.Size)
		}
	default:
		return errors.Errorf("unknown container type %v", c.Type)
	}
	return nil
}
