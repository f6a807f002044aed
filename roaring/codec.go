// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
	"unsafe"
)

var isLittleEndian = binary.LittleEndian.Uint16([]byte{1, 0}) == 1

// header is the fixed prefix of every encoded container: key, type and payload size in bytes
type header [7]byte

func (h *header) key() uint16  { return binary.LittleEndian.Uint16(h[0:2]) }
func (h *header) typ() ctype   { return ctype(h[2]) }
func (h *header) size() uint32 { return binary.LittleEndian.Uint32(h[3:7]) }

// encode fills the header for the container and its payload
func (h *header) encode(c *container, payload []uint16) {
	binary.LittleEndian.PutUint16(h[0:2], c.Key)
	h[2] = byte(c.Type)
	binary.LittleEndian.PutUint32(h[3:7], uint32(len(payload))*2)
}

// ToBytes converts the bitmap to a byte slice
func (rb *Bitmap) ToBytes() []byte {
	var buf bytes.Buffer
	if _, err := rb.WriteTo(&buf); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// WriteTo writes the number of containers followed by every container in key order
func (rb *Bitmap) WriteTo(w io.Writer) (n int64, err error) {
	var containers uint32
	rb.iterateContainers(func(*container) bool {
		containers++
		return true
	})

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], containers)
	m, err := w.Write(count[:])
	if n += int64(m); err != nil {
		return n, err
	}

	rb.iterateContainers(func(c *container) bool {
		var written int64
		written, err = writeContainer(w, c)
		n += written
		return err == nil
	})
	return n, err
}

// writeContainer writes a single container header and its payload
func writeContainer(w io.Writer, c *container) (int64, error) {
	payload := c.Data
	switch c.Type {
	case typeArray, typeRun:
	case typeBitmap:
		payload = c.Data[:4096]
	default:
		return 0, io.ErrUnexpectedEOF
	}

	var h header
	h.encode(c, payload)
	n, err := w.Write(h[:])
	if err != nil {
		return int64(n), err
	}

	if err := writeUint16s(w, isLittleEndian, payload); err != nil {
		return int64(n), err
	}
	return int64(n) + int64(h.size()), nil
}

// ReadFrom replaces the contents of the bitmap with the one read from the reader
func (rb *Bitmap) ReadFrom(r io.Reader) (n int64, err error) {
	rb.Clear()

	var count [4]byte
	m, err := io.ReadFull(r, count[:])
	if n += int64(m); err != nil {
		return n, err
	}

	for i := binary.LittleEndian.Uint32(count[:]); i > 0; i-- {
		c, read, err := readContainer(r)
		if n += read; err != nil {
			return n, noEOF(err)
		}

		if !c.isEmpty() {
			rb.setContainer(c.Key, c)
		}
	}
	return n, nil
}

// readContainer reads a single container and recomputes its cardinality
func readContainer(r io.Reader) (*container, int64, error) {
	var h header
	if n, err := io.ReadFull(r, h[:]); err != nil {
		return nil, int64(n), err
	}

	payload, err := readUint16s(r, isLittleEndian, int(h.size()))
	if err != nil {
		return nil, int64(len(h)), err
	}

	c := &container{Key: h.key(), Type: h.typ(), Data: payload}
	switch c.Type {
	case typeArray:
		c.Size = uint32(len(payload))
	case typeBitmap:
		if len(payload) != 4096 {
			return nil, int64(len(h)), io.ErrUnexpectedEOF
		}

		for _, v := range payload {
			c.Size += uint32(bits.OnesCount16(v))
		}
	case typeRun:
		for _, x := range c.run() {
			c.Size += uint32(x[1]-x[0]) + 1
		}
	default:
		return nil, int64(len(h)), io.ErrUnexpectedEOF
	}

	return c, int64(len(h)) + int64(h.size()), nil
}

// FromBytes creates a roaring bitmap from a byte buffer
func FromBytes(buffer []byte) *Bitmap {
	rb := New()
	_, err := rb.ReadFrom(bytes.NewReader(buffer))
	if err != nil && err != io.EOF {
		panic(err)
	}
	return rb
}

// ReadFrom reads a roaring bitmap from an io.Reader
func ReadFrom(r io.Reader) (*Bitmap, error) {
	rb := New()
	_, err := rb.ReadFrom(r)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return rb, nil
}

// noEOF reports a stream that ends in the middle of a container as truncated
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// writeUint16s writes the values in little endian order, as raw memory when the machine allows it
func writeUint16s(w io.Writer, isLittleEndian bool, data []uint16) error {
	switch {
	case len(data) == 0:
		return nil
	case isLittleEndian:
		_, err := w.Write(unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2))
		return err
	default:
		return binary.Write(w, binary.LittleEndian, data)
	}
}

// readUint16s reads sizeBytes of little endian values, as raw memory when the machine allows it
func readUint16s(r io.Reader, isLittleEndian bool, sizeBytes int) ([]uint16, error) {
	out := make([]uint16, sizeBytes/2)
	switch {
	case len(out) == 0:
		return out, nil
	case isLittleEndian:
		_, err := io.ReadFull(r, unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*2))
		return out, err
	default:
		return out, binary.Read(r, binary.LittleEndian, out)
	}
}
