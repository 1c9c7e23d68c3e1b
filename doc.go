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

// Package ottdsave decodes OpenTTD savegame files.
//
// A savegame is an 8-byte outer header (compression tag, savegame version,
// reserved bytes) followed by a compressed stream of chunks. Each chunk is
// identified by a 4-byte tag and carries either opaque data or, for the two
// self-describing flavors, an inline schema ("table header") plus a
// sequence of records decoded against that schema.
//
// ParseSavegame is the single entry point; it accepts input through the
// ChunkSource interface so callers can feed it from a file, a pipe, or any
// other byte-chunked source without buffering the whole savegame in memory.
package ottdsave
