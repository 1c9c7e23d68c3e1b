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

package ottdsave

import (
	"io"

	"github.com/openttd-tools/ottdsave/internal/gamma"
)

// chunkFlavor is the low nibble of a chunk's type byte.
type chunkFlavor byte

const (
	flavorRIFF        chunkFlavor = 0
	flavorArray       chunkFlavor = 1
	flavorSparseArray chunkFlavor = 2
	flavorTable       chunkFlavor = 3
	flavorSparseTable chunkFlavor = 4
)

// readChunks loops over the inner decompressed stream, decoding one chunk
// per iteration until the zero-tag sentinel, then performs the
// post-sentinel trailing-byte probe.
func readChunks(r *gamma.Reader) (*ChunkSet, error) {
	chunks := NewChunkSet()

	for {
		tagBytes, err := r.Read(4)
		if err != nil {
			if err == io.ErrUnexpectedEOF { //nolint:errorlint // gamma.Reader documents io.ErrUnexpectedEOF directly
				return nil, InvalidSavegameError{Reason: "truncated chunk tag"}
			}
			return nil, err
		}
		if tagBytes[0] == 0 && tagBytes[1] == 0 && tagBytes[2] == 0 && tagBytes[3] == 0 {
			break
		}
		tag := string(tagBytes)

		m, err := r.U8()
		if err != nil {
			return nil, err
		}
		flavor := chunkFlavor(m & 0x0F)

		chunk, err := readChunk(r, tag, flavor, m)
		if err != nil {
			return nil, err
		}
		chunks.Set(tag, chunk)
	}

	if _, eof, err := r.TryByte(); err != nil {
		return nil, err
	} else if !eof {
		return nil, TrailingJunkError{}
	}

	return chunks, nil
}

// readChunk decodes a single chunk body per its flavor.
func readChunk(r *gamma.Reader, tag string, flavor chunkFlavor, typeByte byte) (*Chunk, error) {
	switch flavor {
	case flavorRIFF:
		size := uint32(typeByte>>4) << 24
		u24, err := r.U24()
		if err != nil {
			return nil, err
		}
		size |= u24
		if err := r.Skip(int(size)); err != nil {
			return nil, err
		}
		return NewUnsupportedChunk(), nil

	case flavorArray, flavorSparseArray:
		for {
			s, err := r.Gamma()
			if err != nil {
				return nil, err
			}
			if s == 0 {
				break
			}
			if err := r.Skip(int(s - 1)); err != nil {
				return nil, err
			}
		}
		return NewUnsupportedChunk(), nil

	case flavorTable, flavorSparseTable:
		chunk := NewTableChunk()
		if err := readTableHeader(r, tag, "root", chunk.Headers); err != nil {
			return nil, err
		}
		if err := readRecords(r, tag, chunk.Headers, chunk, flavor == flavorSparseTable); err != nil {
			return nil, err
		}
		return chunk, nil

	default:
		return nil, UnknownChunkTypeError{Tag: tag, Flavor: byte(flavor)}
	}
}
