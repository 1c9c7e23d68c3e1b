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

import "github.com/openttd-tools/ottdsave/internal/gamma"

// readTableHeader reads a table chunk's header: one gamma size that covers
// the root header block and every nested STRUCT sub-header block after it,
// all stored into headers under dotted-path keys rooted at key.
func readTableHeader(r *gamma.Reader, tag, key string, headers Headers) error {
	sizePlusOne, err := r.Gamma()
	if err != nil {
		return err
	}
	size := sizePlusOne - 1
	start := r.Offset()

	if err := readHeaderBlock(r, tag, key, headers); err != nil {
		return err
	}

	consumed := r.Offset() - start
	if consumed != size {
		return TableHeaderSizeMismatchError{Tag: tag, Key: key, Declared: size, Consumed: consumed}
	}
	return nil
}

// readHeaderBlock reads one zero-terminated list of field declarations into
// headers[key], then one sub-header block per STRUCT field, depth-first.
func readHeaderBlock(r *gamma.Reader, tag, key string, headers Headers) error {
	var decls []FieldDecl
	var structFields []string
	for {
		t, err := r.U8()
		if err != nil {
			return err
		}
		if t == 0 {
			break
		}
		fieldType := FieldType(t & 0x0F)
		isList := t&0x10 != 0
		name, err := r.GammaStr()
		if err != nil {
			return err
		}
		if fieldType > FieldStruct {
			return invalidFieldTypeError{Tag: tag, Key: key, Value: t}
		}
		decls = append(decls, FieldDecl{Type: fieldType, IsList: isList, Name: name})
		if fieldType == FieldStruct {
			structFields = append(structFields, name)
		}
	}
	headers[key] = decls

	for _, name := range structFields {
		if err := readHeaderBlock(r, tag, key+"."+name, headers); err != nil {
			return err
		}
	}
	return nil
}
