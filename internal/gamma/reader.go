// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ottdsave.
//
// ottdsave is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ottdsave is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ottdsave.  If not, see <https://www.gnu.org/licenses/>.

// Package gamma provides a cursor-style reader over an uncompressed byte
// stream: fixed-width big-endian integer reads and the OpenTTD savegame
// "gamma" variable-length integer codec.
//
// Typed readers return (value, error) and track a monotonically
// increasing offset over a sequential io.Reader, since the savegame
// format is consumed once, forward-only, from a lazily-chunked source.
package gamma

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidGamma is returned when a gamma value's leading byte doesn't
// match any of the five recognized prefix patterns.
var ErrInvalidGamma = fmt.Errorf("invalid gamma encoding")

// Reader is a forward-only cursor over an io.Reader, tracking the number of
// bytes consumed since construction.
type Reader struct {
	src io.Reader
	off uint64
}

// NewReader wraps src as a gamma.Reader starting at offset 0.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Offset returns the number of bytes consumed since the reader was
// constructed.
func (r *Reader) Offset() uint64 {
	return r.off
}

// Read returns exactly n bytes from the stream, or an error. A short read
// from the underlying source is reported as io.ErrUnexpectedEOF.
func (r *Reader) Read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r.src, buf)
	r.off += uint64(read)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF { //nolint:errorlint // io.ReadFull returns these sentinels directly
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, r.off, err)
	}
	return buf, nil
}

// Skip discards exactly n bytes, advancing the offset without retaining them.
func (r *Reader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := r.Read(n)
	return err
}

// TryByte attempts to read a single byte. It distinguishes a clean
// end-of-stream (eof=true, err=nil) from any other failure, so callers can
// encode "EOF here is fine, anything else isn't" without relying on
// exception-style control flow.
func (r *Reader) TryByte() (b byte, eof bool, err error) {
	buf := make([]byte, 1)
	n, readErr := r.src.Read(buf)
	if n == 0 && readErr == nil {
		// A Read that returns (0, nil) is technically permitted by the
		// io.Reader contract; treat it as "try again" once rather than
		// looping forever.
		n, readErr = r.src.Read(buf)
	}
	if n == 1 {
		r.off++
		return buf[0], false, nil
	}
	if readErr == io.EOF { //nolint:errorlint // io.Reader contract returns io.EOF directly
		return 0, true, nil
	}
	if readErr == nil {
		readErr = io.ErrNoProgress
	}
	return 0, false, fmt.Errorf("probe byte at offset %d: %w", r.off, readErr)
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (uint8, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8() (int8, error) {
	b, err := r.U8()
	return int8(b), err
}

// U16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// I16 reads a big-endian signed 16-bit integer.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// U24 reads a big-endian unsigned 24-bit integer.
func (r *Reader) U24() (uint32, error) {
	b, err := r.Read(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// U32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// I32 reads a big-endian signed 32-bit integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// U64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) U64() (uint64, error) {
	b, err := r.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// I64 reads a big-endian signed 64-bit integer.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

// Gamma reads a 1-5 byte OpenTTD savegame "gamma" variable-length integer.
func (r *Reader) Gamma() (uint64, error) {
	b0, err := r.U8()
	if err != nil {
		return 0, err
	}

	switch {
	case b0&0x80 == 0:
		return uint64(b0 & 0x7F), nil
	case b0&0xC0 == 0x80:
		rest, err := r.U8()
		if err != nil {
			return 0, err
		}
		return uint64(b0&0x3F)<<8 | uint64(rest), nil
	case b0&0xE0 == 0xC0:
		rest, err := r.U16()
		if err != nil {
			return 0, err
		}
		return uint64(b0&0x1F)<<16 | uint64(rest), nil
	case b0&0xF0 == 0xE0:
		rest, err := r.U24()
		if err != nil {
			return 0, err
		}
		return uint64(b0&0x0F)<<24 | uint64(rest), nil
	case b0&0xF8 == 0xF0:
		rest, err := r.U32()
		if err != nil {
			return 0, err
		}
		return uint64(b0&0x07)<<32 | uint64(rest), nil
	default:
		return 0, ErrInvalidGamma
	}
}

// GammaStr reads a gamma-encoded length followed by that many bytes,
// decoded as UTF-8. Malformed UTF-8 is rejected rather than silently
// accepted, using golang.org/x/text's UTF-8 validator as a transform.
func (r *Reader) GammaStr() (string, error) {
	n, err := r.Gamma()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	raw, err := r.Read(int(n))
	if err != nil {
		return "", err
	}
	clean, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("invalid utf-8 string: %w", err)
	}
	return string(clean), nil
}

// GammaEncode encodes v using the minimum gamma byte width, for tests and
// for callers constructing savegame fixtures. v must be in [0, 2^37).
func GammaEncode(v uint64) ([]byte, error) {
	switch {
	case v <= 0x7F:
		return []byte{byte(v)}, nil
	case v <= 0x3FFF:
		return []byte{0x80 | byte(v>>8), byte(v)}, nil
	case v <= 0x1FFFFF:
		return []byte{0xC0 | byte(v>>16), byte(v >> 8), byte(v)}, nil
	case v <= 0x0FFFFFFF:
		return []byte{0xE0 | byte(v>>24), byte(v >> 16), byte(v >> 8), byte(v)}, nil
	case v <= 0x7FFFFFFFF:
		return []byte{
			0xF0 | byte(v>>32),
			byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
		}, nil
	default:
		return nil, fmt.Errorf("value %d exceeds gamma range", v)
	}
}
