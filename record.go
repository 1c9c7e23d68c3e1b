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
	"strconv"

	"github.com/openttd-tools/ottdsave/internal/gamma"
)

// tagsTolerantOfTrailingJunk is the closed allowlist of chunk tags known
// to emit trailing bytes after their last declared field.
var tagsTolerantOfTrailingJunk = map[string]bool{
	"GSDT": true,
	"AIPL": true,
}

// readRecords iterates a self-describing chunk's record stream, decoding
// each record against headers["root"] and filling in chunk.Records.
// indexed selects TABLE's implicit counter versus SPARSE_TABLE's explicit
// per-record gamma index.
func readRecords(r *gamma.Reader, tag string, headers Headers, chunk *Chunk, indexed bool) error {
	counter := uint64(0)
	for {
		sizePlusOne, err := r.Gamma()
		if err != nil {
			return err
		}
		if sizePlusOne == 0 {
			return nil
		}

		idxStart := r.Offset()
		var index uint64
		if indexed {
			index, err = r.Gamma()
			if err != nil {
				return err
			}
		} else {
			index = counter
			counter++
		}
		idxBytes := r.Offset() - idxStart

		size := sizePlusOne - 1 - idxBytes
		if size == 0 {
			continue
		}

		start := r.Offset()
		rec, err := readRecord(r, tag, "root", headers)
		if err != nil {
			return err
		}
		consumed := r.Offset() - start

		if consumed != size {
			if !tagsTolerantOfTrailingJunk[tag] {
				return TrailingJunkInChunkError{
					Tag:      tag,
					RecordID: strconv.FormatUint(index, 10),
					Declared: size,
					Consumed: consumed,
				}
			}
			if consumed > size {
				return TrailingJunkInChunkError{
					Tag:      tag,
					RecordID: strconv.FormatUint(index, 10),
					Declared: size,
					Consumed: consumed,
				}
			}
			if err := r.Skip(int(size - consumed)); err != nil {
				return err
			}
		}

		chunk.Records.Set(strconv.FormatUint(index, 10), rec)
	}
}

// readRecord decodes one record against the field declarations stored at
// headers[key], recursing into readField for STRUCT and list fields.
func readRecord(r *gamma.Reader, tag, key string, headers Headers) (Record, error) {
	decls := headers[key]
	rec := make(Record, len(decls))
	for _, decl := range decls {
		v, err := readField(r, tag, key, headers, decl)
		if err != nil {
			return nil, err
		}
		rec[decl.Name] = v
	}
	return rec, nil
}

// readField decodes a single field per decl, dispatching list handling,
// STRUCT recursion, and scalar reads.
func readField(r *gamma.Reader, tag, key string, headers Headers, decl FieldDecl) (Value, error) {
	if decl.IsList && decl.Type != FieldString {
		n, err := r.Gamma()
		if err != nil {
			return nil, err
		}
		vals := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			v, err := readScalar(r, tag, key, headers, decl)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	}
	if decl.Type == FieldStruct {
		return readRecord(r, tag, key+"."+decl.Name, headers)
	}
	return readScalar(r, tag, key, headers, decl)
}

// readScalar decodes a single value of decl's type: a non-list field, or
// one element of a list field. A STRUCT value is read as a nested record.
func readScalar(r *gamma.Reader, tag, key string, headers Headers, decl FieldDecl) (Value, error) {
	switch decl.Type {
	case FieldI8:
		v, err := r.I8()
		return int64(v), err
	case FieldU8:
		v, err := r.U8()
		return uint64(v), err
	case FieldI16:
		v, err := r.I16()
		return int64(v), err
	case FieldU16:
		v, err := r.U16()
		return uint64(v), err
	case FieldI32:
		v, err := r.I32()
		return int64(v), err
	case FieldU32:
		v, err := r.U32()
		return uint64(v), err
	case FieldI64:
		v, err := r.I64()
		return int64(v), err
	case FieldU64:
		v, err := r.U64()
		return uint64(v), err
	case FieldStringID:
		v, err := r.U16()
		return uint64(v), err
	case FieldString:
		return r.GammaStr()
	case FieldStruct:
		return readRecord(r, tag, key+"."+decl.Name, headers)
	default:
		return nil, invalidFieldTypeError{Tag: tag, Key: key, Value: byte(decl.Type)}
	}
}
