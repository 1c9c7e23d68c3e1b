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
	"errors"
	"io"

	"github.com/openttd-tools/ottdsave/internal/compress"
	"github.com/openttd-tools/ottdsave/internal/gamma"
)

// DefaultChunkSize is used by NewReaderChunkSource when no explicit page
// size is requested.
const DefaultChunkSize = 65536

// ParseSavegame decodes a complete OpenTTD savegame from src.
//
// The outer 8-byte header (compression tag, savegame version, reserved
// bytes) is read directly off the raw stream; everything after it is
// handed to the selected decompressor, and the decompressed output is
// wrapped in a gamma.Reader for chunk decoding.
func ParseSavegame(src ChunkSource) (*Savegame, error) {
	raw := newChunkSourceReader(src)

	header := make([]byte, 8)
	if _, err := io.ReadFull(raw, header); err != nil {
		return nil, InvalidSavegameError{Reason: "truncated outer header"}
	}

	tag, err := compress.ParseTag(string(header[0:4]))
	if err != nil {
		return nil, UnknownCompressionError{Tag: string(header[0:4])}
	}
	version := uint16(header[4])<<8 | uint16(header[5])

	decompressed, err := compress.NewDecompressor(tag, raw)
	if err != nil {
		return nil, err
	}

	inner := gamma.NewReader(decompressed)
	chunks, err := readChunks(inner)
	if err != nil {
		if errors.Is(err, gamma.ErrInvalidGamma) {
			return nil, InvalidGammaError{}
		}
		return nil, err
	}

	return &Savegame{SavegameVersion: version, Chunks: chunks}, nil
}
