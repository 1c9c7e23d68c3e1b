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

// Package compress selects and wraps the decompressor for a savegame's
// outer compression tag.
//
// Savegame compression tags are a small closed set fixed by the format
// itself, not an open plugin surface, so this package dispatches with a
// plain switch over a value type rather than a mutable codec registry.
package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz"
)

// Tag is one of the four recognized outer compression tags.
type Tag string

// Recognized compression tags. OTTD is the legacy LZO2 scheme; it is
// recognized so that encountering it produces a clear error rather than
// being lumped in with genuinely unknown tags, but it is never decoded.
const (
	TagNone Tag = "OTTN"
	TagZlib Tag = "OTTZ"
	TagLZMA Tag = "OTTX"
	TagLZO  Tag = "OTTD"
)

// ParseTag validates a 4-byte outer header tag read from the savegame.
func ParseTag(raw string) (Tag, error) {
	switch Tag(raw) {
	case TagNone, TagZlib, TagLZMA:
		return Tag(raw), nil
	case TagLZO:
		return "", fmt.Errorf("legacy LZO2 savegame compression (OTTD) is not supported")
	default:
		return "", fmt.Errorf("unrecognized compression tag %q", raw)
	}
}

// NewDecompressor wraps src with the decompressing io.Reader appropriate
// for tag. For TagNone, src is returned unwrapped.
func NewDecompressor(tag Tag, src io.Reader) (io.Reader, error) {
	switch tag {
	case TagNone:
		return src, nil
	case TagZlib:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("open zlib stream: %w", err)
		}
		return zr, nil
	case TagLZMA:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		return xr, nil
	default:
		return nil, fmt.Errorf("unrecognized compression tag %q", string(tag))
	}
}
