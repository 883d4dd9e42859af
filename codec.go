// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	cookieNoOffset    = 12345 // cookie, count, headers and payloads, without any run container
	cookieNoRuns      = 12346 // cookie, count, headers, offsets and payloads
	cookieRuns        = 12347 // cookie with count, run flags, headers, offsets and payloads
	noOffsetThreshold = 4     // below this many containers, the run layout has no offsets
)

// isLittleEndian is whether the host byte order matches the wire, in which case
// payloads are copied or viewed without conversion.
var isLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// ToBytes converts the bitmap to a byte slice
func (rb *Bitmap) ToBytes() []byte {
	var buf bytes.Buffer
	buf.Grow(rb.SerializedSize())
	if _, err := rb.WriteTo(&buf); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// MarshalBinary implements encoding.BinaryMarshaler
func (rb *Bitmap) MarshalBinary() ([]byte, error) {
	return rb.ToBytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the data is copied
func (rb *Bitmap) UnmarshalBinary(data []byte) error {
	_, err := rb.decode(&decoder{buffer: data})
	return err
}

// hasRuns returns whether any of the containers is a run container
func (rb *Bitmap) hasRuns() bool {
	for i := range rb.containers {
		if rb.containers[i].Type == typeRun {
			return true
		}
	}
	return false
}

// headerSize returns the size of the header for the given layout
func headerSize(count int, runs bool) int {
	switch {
	case !runs:
		return 8 + count*4
	case count < noOffsetThreshold:
		return 4 + (count+7)/8 + count*4
	default:
		return 4 + (count+7)/8 + count*8
	}
}

// SerializedSize returns the number of bytes WriteTo would write
func (rb *Bitmap) SerializedSize() int {
	size := headerSize(len(rb.containers), rb.hasRuns())
	for i := range rb.containers {
		size += rb.containers[i].sizeInBytes()
	}
	return size
}

// WriteTo writes the bitmap to a writer. Bitmaps without run containers are
// written with the compact layout, the others with the layout that flags run
// containers and carries the offsets of the payloads.
func (rb *Bitmap) WriteTo(w io.Writer) (int64, error) {
	count := len(rb.containers)
	runs := rb.hasRuns()

	// Build the header before writing the payloads
	buf := make([]byte, 0, headerSize(count, runs))
	switch {
	case runs:
		buf = binary.LittleEndian.AppendUint32(buf, cookieRuns|uint32(count-1)<<16)
		flags := make([]byte, (count+7)/8)
		for i := range rb.containers {
			if rb.containers[i].Type == typeRun {
				flags[i/8] |= 1 << (i % 8)
			}
		}
		buf = append(buf, flags...)
	default:
		buf = binary.LittleEndian.AppendUint32(buf, cookieNoOffset)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(count))
	}

	// Keys and cardinalities, interleaved
	for i, key := range rb.index {
		buf = binary.LittleEndian.AppendUint16(buf, key)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(rb.containers[i].Size-1))
	}

	// Offsets of every payload, from the start of the stream
	if runs && count >= noOffsetThreshold {
		offset := uint32(headerSize(count, runs))
		for i := range rb.containers {
			buf = binary.LittleEndian.AppendUint32(buf, offset)
			offset += uint32(rb.containers[i].sizeInBytes())
		}
	}

	m, err := w.Write(buf)
	n := int64(m)
	if err != nil {
		return n, err
	}

	for i := range rb.containers {
		m, err := writeContainer(w, &rb.containers[i])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// writeContainer writes the payload of a container
func writeContainer(w io.Writer, c *container) (int64, error) {
	switch c.Type {
	case typeArray:
		return writeUint16s(w, c.Data)
	case typeBitmap:
		if isLittleEndian {
			return writeUint16s(w, c.Data)
		}

		// Words are little endian on the wire, not their 16-bit halves
		err := binary.Write(w, binary.LittleEndian, []uint64(c.bmp()))
		return int64(bmpSizeInBytes), err
	default:
		runs := c.run()
		out := make([]uint16, 0, 1+len(runs)*2)
		out = append(out, uint16(len(runs)))
		for _, r := range runs {
			out = append(out, r[0], r[1]-r[0])
		}
		return writeUint16s(w, out)
	}
}

// writeUint16s writes a slice of uint16s to a writer, converting it to []byte if
// the machine is little endian.
func writeUint16s(w io.Writer, data []uint16) (int64, error) {
	switch {
	case len(data) == 0:
		return 0, nil
	case isLittleEndian:
		n, err := w.Write(asBytes(data))
		return int64(n), err
	default:
		err := binary.Write(w, binary.LittleEndian, data)
		return int64(len(data) * 2), err
	}
}

// ReadFrom reads the bitmap from a reader, replacing its contents. On failure
// the bitmap is left empty.
func (rb *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	return rb.decode(&decoder{reader: r})
}

// ReadFrom reads a roaring bitmap from an io.Reader
func ReadFrom(r io.Reader) (*Bitmap, error) {
	rb := New()
	if _, err := rb.ReadFrom(r); err != nil && err != io.EOF {
		return nil, err
	}
	return rb, nil
}

// FromBytes creates a roaring bitmap from a byte buffer. The buffer is copied
// and can be reused once this returns.
func FromBytes(buffer []byte) (*Bitmap, error) {
	rb := New()
	if _, err := rb.decode(&decoder{buffer: buffer}); err != nil && err != io.EOF {
		return nil, err
	}
	return rb, nil
}

// FromBuffer creates a roaring bitmap which reads its array and bitmap containers
// straight from the buffer, without copying them. Each container is copied
// before its first modification, but the buffer must stay alive and unchanged
// for as long as the bitmap is used.
func FromBuffer(buffer []byte) (*Bitmap, error) {
	rb := New()
	if _, err := rb.decode(&decoder{buffer: buffer, borrow: true}); err != nil && err != io.EOF {
		return nil, err
	}
	return rb, nil
}

// header is the descriptive header of a container
type header struct {
	key  uint16
	card int
	run  bool
}

// decode reads the bitmap with the decoder, replacing its contents
func (rb *Bitmap) decode(d *decoder) (int64, error) {
	rb.Clear()
	if err := rb.decodeFrom(d); err != nil {
		rb.Clear()
		return d.n, err
	}
	return d.n, nil
}

func (rb *Bitmap) decodeFrom(d *decoder) error {
	cookie, err := d.uint32()
	switch {
	case err != nil:
		return err // an empty stream is reported as io.EOF
	case cookie&0xFFFF == cookieRuns:
		return rb.decodeRuns(d, int(cookie>>16)+1)
	case cookie == cookieNoOffset || cookie == cookieNoRuns:
		count, err := d.uint32()
		switch {
		case err != nil:
			return unexpected(err)
		case count > maxCard:
			return errors.Wrapf(ErrInvalidFormat, "%d containers", count)
		}

		headers, err := d.headers(int(count), nil)
		if err != nil {
			return err
		}

		if cookie == cookieNoRuns {
			if err := d.skip(int(count) * 4); err != nil {
				return err
			}
		}
		return rb.decodePayloads(d, headers)
	default:
		return errors.Wrapf(ErrInvalidCookie, "unknown cookie %d", cookie)
	}
}

// decodeRuns reads the remainder of the layout which flags run containers
func (rb *Bitmap) decodeRuns(d *decoder, count int) error {
	flags, err := d.next((count + 7) / 8)
	if err != nil {
		return unexpected(err)
	}

	headers, err := d.headers(count, flags)
	if err != nil {
		return err
	}

	if count >= noOffsetThreshold {
		if err := d.skip(count * 4); err != nil {
			return err
		}
	}
	return rb.decodePayloads(d, headers)
}

// decodePayloads reads the payload of every container described by the headers
func (rb *Bitmap) decodePayloads(d *decoder, headers []header) error {
	rb.index = make([]uint16, 0, len(headers))
	rb.containers = make([]container, 0, len(headers))
	for i, h := range headers {
		if i > 0 && h.key <= headers[i-1].key {
			return errors.Wrapf(ErrInvalidFormat, "key %d is not larger than key %d", h.key, headers[i-1].key)
		}

		c, err := d.container(h)
		if err != nil {
			return err
		}

		rb.append(h.key, c)
	}
	return nil
}

// ---------------------------------------- Decoder ----------------------------------------

// decoder reads either from a stream or from an in-memory buffer. When reading
// from a buffer, the payloads can be borrowed rather than copied.
type decoder struct {
	reader io.Reader
	buffer []byte
	borrow bool
	n      int64 // number of bytes consumed
}

// next returns the next size bytes
func (d *decoder) next(size int) ([]byte, error) {
	if d.reader == nil {
		if len(d.buffer) < size {
			if len(d.buffer) == 0 && d.n == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		}

		out := d.buffer[:size:size]
		d.buffer = d.buffer[size:]
		d.n += int64(size)
		return out, nil
	}

	out := make([]byte, size)
	n, err := io.ReadFull(d.reader, out)
	d.n += int64(n)
	return out, err
}

// skip discards the next size bytes
func (d *decoder) skip(size int) error {
	_, err := d.next(size)
	return unexpected(err)
}

// uint32 reads a little endian uint32
func (d *decoder) uint32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// headers reads the keys and cardinalities of the containers
func (d *decoder) headers(count int, flags []byte) ([]header, error) {
	b, err := d.next(count * 4)
	if err != nil {
		return nil, unexpected(err)
	}

	out := make([]header, count)
	for i := range out {
		out[i] = header{
			key:  binary.LittleEndian.Uint16(b[i*4:]),
			card: int(binary.LittleEndian.Uint16(b[i*4+2:])) + 1,
			run:  flags != nil && flags[i/8]&(1<<(i%8)) != 0,
		}
	}
	return out, nil
}

// uint16s reads count little endian uint16s. Borrowed buffers are only viewed
// in place when they are suitably aligned, align being 2 or 8 bytes.
func (d *decoder) uint16s(count, align int) (out []uint16, borrowed bool, err error) {
	b, err := d.next(count * 2)
	switch {
	case err != nil:
		return nil, false, unexpected(err)
	case count == 0:
		return []uint16{}, false, nil
	case isLittleEndian && d.borrow && isAligned(b, align):
		return asUint16s(b), true, nil
	case isLittleEndian && d.reader != nil:
		return asUint16s(b), false, nil // freshly allocated, nobody else holds it
	}

	out = make([]uint16, count)
	switch {
	case isLittleEndian:
		copy(asBytes(out), b)
	case align == 8:
		words := asBitmap(out)
		for i := range words {
			words[i] = binary.LittleEndian.Uint64(b[i*8:])
		}
	default:
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
	}
	return out, false, nil
}

// container reads and validates the payload of a container
func (d *decoder) container(h header) (container, error) {
	switch {
	case h.run:
		return d.runContainer(h)
	case h.card > arrMaxSize:
		data, borrowed, err := d.uint16s(bmpSize, 8)
		if err != nil {
			return container{}, err
		}

		c := container{Type: typeBitmap, Borrowed: borrowed, Size: uint32(h.card), Data: data}
		if n := c.bmp().Count(); n != h.card {
			return container{}, errors.Wrapf(ErrInvalidFormat, "bitmap of key %d holds %d values, expected %d", h.key, n, h.card)
		}
		return c, nil
	default:
		data, borrowed, err := d.uint16s(h.card, 2)
		if err != nil {
			return container{}, err
		}

		for i := 1; i < len(data); i++ {
			if data[i] <= data[i-1] {
				return container{}, errors.Wrapf(ErrInvalidFormat, "array of key %d is not sorted", h.key)
			}
		}
		return container{Type: typeArray, Borrowed: borrowed, Size: uint32(h.card), Data: data}, nil
	}
}

// runContainer reads a run payload, converting (start, length) pairs into
// inclusive runs and fusing the runs that touch.
func (d *decoder) runContainer(h header) (container, error) {
	b, err := d.next(2)
	if err != nil {
		return container{}, unexpected(err)
	}

	n := int(binary.LittleEndian.Uint16(b))
	pairs, _, err := d.uint16s(n*2, 2)
	if err != nil {
		return container{}, err
	}

	out := make([]uint16, 0, n*2)
	for i := 0; i < len(pairs); i += 2 {
		start, last := int(pairs[i]), int(pairs[i])+int(pairs[i+1])
		switch {
		case last >= maxCard:
			return container{}, errors.Wrapf(ErrInvalidFormat, "run of key %d overflows", h.key)
		case len(out) > 0 && start <= int(out[len(out)-1]):
			return container{}, errors.Wrapf(ErrInvalidFormat, "runs of key %d overlap", h.key)
		}
		out = appendRun(out, start, last)
	}

	c := container{Type: typeRun, Size: runCardinality(out), Data: out}
	if int(c.Size) != h.card {
		return container{}, errors.Wrapf(ErrInvalidFormat, "runs of key %d hold %d values, expected %d", h.key, c.Size, h.card)
	}
	return c, nil
}

// unexpected converts a clean end of stream in the middle of the data into io.ErrUnexpectedEOF
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
