// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package sparse

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/kelindar/sparsecheck/roaring"
	"github.com/pkg/errors"
)

const (
	formatVector     byte = 1
	formatCompressed byte = 2
)

const flagNullable byte = 1 << 0

// ErrFormat is returned when decoding a buffer that was not produced by the matching encoder
var ErrFormat = errors.New("sparse: unrecognized format")

// ToBytes converts the vector to a byte slice
func (sv *Vector) ToBytes() []byte {
	var buf bytes.Buffer
	if _, err := sv.WriteTo(&buf); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// WriteTo writes the vector to a writer. The layout is a format byte, a flag byte,
// the size, a mask of the non-empty bit planes, the null bitmap (if nullable) and
// finally every non-empty bit plane in ascending order.
func (sv *Vector) WriteTo(w io.Writer) (int64, error) {
	var mask uint32
	for k, p := range sv.planes {
		if p != nil && p.Count() > 0 {
			mask |= 1 << k
		}
	}

	var flags byte
	if sv.IsNullable() {
		flags |= flagNullable
	}

	n, err := writeHeader(w, formatVector, flags, sv.size, mask)
	if err != nil {
		return n, err
	}

	if sv.nulls != nil {
		m, err := sv.nulls.WriteTo(w)
		n += m
		if err != nil {
			return n, errors.Wrap(err, "sparse: write null bitmap")
		}
	}

	for k := range sv.planes {
		if mask&(1<<k) == 0 {
			continue
		}

		m, err := sv.planes[k].WriteTo(w)
		n += m
		if err != nil {
			return n, errors.Wrapf(err, "sparse: write plane %d", k)
		}
	}
	return n, nil
}

// ReadFrom reads the vector from a reader, replacing its contents
func (sv *Vector) ReadFrom(r io.Reader) (int64, error) {
	flags, size, mask, n, err := readHeader(r, formatVector)
	if err != nil {
		return n, err
	}

	sv.reset(flags&flagNullable != 0)
	if sv.nulls != nil {
		m, err := sv.nulls.ReadFrom(r)
		n += m
		if err != nil {
			return n, errors.Wrap(err, "sparse: read null bitmap")
		}
	}

	for ; mask != 0; mask &= mask - 1 {
		k := bits.TrailingZeros32(mask)
		m, err := sv.plane(k).ReadFrom(r)
		n += m
		if err != nil {
			return n, errors.Wrapf(err, "sparse: read plane %d", k)
		}
	}

	sv.size = size
	return n, nil
}

// FromBytes creates a vector from a byte buffer
func FromBytes(buffer []byte) (*Vector, error) {
	sv := New()
	if _, err := sv.ReadFrom(bytes.NewReader(buffer)); err != nil {
		return nil, err
	}
	return sv, nil
}

// WriteTo writes the compressed array to a writer. The layout is a format byte, a
// flag byte, the size, the number of stored values, the null bitmap and the values.
func (csv *Compressed) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, formatCompressed, flagNullable, csv.size, uint32(len(csv.values)))
	if err != nil {
		return n, err
	}

	nulls := csv.nulls
	if nulls == nil {
		nulls = roaring.New()
	}

	m, err := nulls.WriteTo(w)
	n += m
	if err != nil {
		return n, errors.Wrap(err, "sparse: write null bitmap")
	}

	if err := binary.Write(w, binary.LittleEndian, csv.values); err != nil {
		return n, errors.Wrap(err, "sparse: write values")
	}

	n += int64(len(csv.values)) * 4
	return n, nil
}

// ReadFrom reads the compressed array from a reader, replacing its contents
func (csv *Compressed) ReadFrom(r io.Reader) (int64, error) {
	_, size, count, n, err := readHeader(r, formatCompressed)
	if err != nil {
		return n, err
	}

	nulls := roaring.New()
	m, err := nulls.ReadFrom(r)
	n += m
	if err != nil {
		return n, errors.Wrap(err, "sparse: read null bitmap")
	}

	if nulls.Count() != int(count) {
		return n, errors.Wrapf(ErrFormat, "null bitmap holds %d values, expected %d", nulls.Count(), count)
	}

	values := make([]uint32, count)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return n, errors.Wrap(err, "sparse: read values")
	}

	n += int64(count) * 4
	csv.nulls, csv.values, csv.size = nulls, values, size
	return n, nil
}

// writeHeader writes the format, flags, size and an extra format-specific word
func writeHeader(w io.Writer, format, flags byte, size, extra uint32) (int64, error) {
	var header [10]byte
	header[0], header[1] = format, flags
	binary.LittleEndian.PutUint32(header[2:], size)
	binary.LittleEndian.PutUint32(header[6:], extra)

	n, err := w.Write(header[:])
	if err != nil {
		return int64(n), errors.Wrap(err, "sparse: write header")
	}
	return int64(n), nil
}

// readHeader reads and validates a header written by writeHeader
func readHeader(r io.Reader, format byte) (flags byte, size, extra uint32, n int64, err error) {
	var header [10]byte
	read, err := io.ReadFull(r, header[:])
	n = int64(read)
	switch {
	case err != nil:
		return 0, 0, 0, n, errors.Wrap(err, "sparse: read header")
	case header[0] != format:
		return 0, 0, 0, n, errors.Wrapf(ErrFormat, "format %d, expected %d", header[0], format)
	}

	flags = header[1]
	size = binary.LittleEndian.Uint32(header[2:])
	extra = binary.LittleEndian.Uint32(header[6:])
	return
}
