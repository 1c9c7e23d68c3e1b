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
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldType is the closed set of field types a table header can declare.
type FieldType uint8

// Field type constants, matching the low nibble of a table header's type byte.
const (
	FieldEnd      FieldType = 0
	FieldI8       FieldType = 1
	FieldU8       FieldType = 2
	FieldI16      FieldType = 3
	FieldU16      FieldType = 4
	FieldI32      FieldType = 5
	FieldU32      FieldType = 6
	FieldI64      FieldType = 7
	FieldU64      FieldType = 8
	FieldStringID FieldType = 9
	FieldString   FieldType = 10
	FieldStruct   FieldType = 11
)

// String returns the canonical name of a field type.
func (t FieldType) String() string {
	switch t {
	case FieldEnd:
		return "END"
	case FieldI8:
		return "I8"
	case FieldU8:
		return "U8"
	case FieldI16:
		return "I16"
	case FieldU16:
		return "U16"
	case FieldI32:
		return "I32"
	case FieldU32:
		return "U32"
	case FieldI64:
		return "I64"
	case FieldU64:
		return "U64"
	case FieldStringID:
		return "STRINGID"
	case FieldString:
		return "STRING"
	case FieldStruct:
		return "STRUCT"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// FieldDecl is one declaration in a table header: a field's type, whether
// it's list-valued, and its name.
type FieldDecl struct {
	Type   FieldType
	IsList bool
	Name   string
}

// MarshalJSON renders a FieldDecl as the 3-element tuple [type, is_list,
// name].
func (f FieldDecl) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Type.String(), f.IsList, f.Name})
}

// Headers maps a header key ("root" or a dotted path to a STRUCT field) to
// its ordered field declarations.
type Headers map[string][]FieldDecl

// Value holds a decoded field value: one of int64, uint64, string, Record,
// or []Value. A plain `any` already distinguishes these by Go's dynamic
// type, and JSON marshaling of each underlying type is exactly what we want.
type Value = any

// Record maps field names to decoded values.
type Record map[string]Value

// RecordSet is an insertion-ordered mapping of decimal record IDs to
// Records. Go maps don't preserve iteration order, so chunk records (which
// must mirror on-disk order) are kept in their own ordered structure
// instead of a plain map.
type RecordSet struct {
	order []string
	byID  map[string]Record
}

// NewRecordSet returns an empty RecordSet.
func NewRecordSet() *RecordSet {
	return &RecordSet{byID: make(map[string]Record)}
}

// Set appends id to the insertion order (if not already present) and
// associates it with rec.
func (rs *RecordSet) Set(id string, rec Record) {
	if _, ok := rs.byID[id]; !ok {
		rs.order = append(rs.order, id)
	}
	rs.byID[id] = rec
}

// Get returns the record for id, if present.
func (rs *RecordSet) Get(id string) (Record, bool) {
	rec, ok := rs.byID[id]
	return rec, ok
}

// Len returns the number of records.
func (rs *RecordSet) Len() int {
	return len(rs.order)
}

// Keys returns record IDs in insertion (on-disk) order.
func (rs *RecordSet) Keys() []string {
	return rs.order
}

// MarshalJSON renders the record set as a JSON object with keys in
// insertion order, which encoding/json's map handling cannot do on its own.
func (rs *RecordSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range rs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(rs.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Chunk is one chunk's decoded header schema and records.
//
// For chunks whose flavor isn't self-describing (RIFF, ARRAY, SPARSE_ARRAY),
// Headers and Records are left at their zero value and unsupported is set;
// MarshalJSON renders the sentinel shape {"unsupported": ""} instead of an
// empty Headers map.
type Chunk struct {
	Headers     Headers
	Records     *RecordSet
	unsupported bool
}

// NewUnsupportedChunk returns a Chunk for a non-self-describing flavor.
func NewUnsupportedChunk() *Chunk {
	return &Chunk{unsupported: true}
}

// NewTableChunk returns an empty self-describing Chunk ready to be filled in.
func NewTableChunk() *Chunk {
	return &Chunk{Headers: make(Headers), Records: NewRecordSet()}
}

type jsonChunk struct {
	Headers json.RawMessage `json:"headers"`
	Records *RecordSet      `json:"records"`
}

// MarshalJSON renders the chunk as {"headers": ..., "records": ...}.
func (c *Chunk) MarshalJSON() ([]byte, error) {
	if c.unsupported {
		return []byte(`{"headers":{"unsupported":""},"records":{}}`), nil
	}
	headers, err := json.Marshal(c.Headers)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonChunk{Headers: headers, Records: c.Records})
}

// ChunkSet is an insertion-ordered mapping of chunk tags to Chunks,
// mirroring RecordSet's rationale: on-disk chunk order must survive into
// the decoded output and into JSON serialization.
type ChunkSet struct {
	order []string
	byTag map[string]*Chunk
}

// NewChunkSet returns an empty ChunkSet.
func NewChunkSet() *ChunkSet {
	return &ChunkSet{byTag: make(map[string]*Chunk)}
}

// Set appends tag to the insertion order (if not already present) and
// associates it with chunk.
func (cs *ChunkSet) Set(tag string, chunk *Chunk) {
	if _, ok := cs.byTag[tag]; !ok {
		cs.order = append(cs.order, tag)
	}
	cs.byTag[tag] = chunk
}

// Get returns the chunk for tag, if present.
func (cs *ChunkSet) Get(tag string) (*Chunk, bool) {
	chunk, ok := cs.byTag[tag]
	return chunk, ok
}

// Len returns the number of chunks.
func (cs *ChunkSet) Len() int {
	return len(cs.order)
}

// Keys returns chunk tags in insertion (on-disk) order.
func (cs *ChunkSet) Keys() []string {
	return cs.order
}

// MarshalJSON renders the chunk set as a JSON object with keys in insertion
// order.
func (cs *ChunkSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range cs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tag)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(cs.byTag[tag])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Savegame is the fully decoded result of a ParseSavegame call.
type Savegame struct {
	SavegameVersion uint16
	Chunks          *ChunkSet
}

type jsonSavegame struct {
	SavegameVersion uint16    `json:"savegame_version"`
	Chunks          *ChunkSet `json:"chunks"`
}

// MarshalJSON renders the savegame as {"savegame_version": ..., "chunks": ...}.
func (s *Savegame) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSavegame{SavegameVersion: s.SavegameVersion, Chunks: s.Chunks})
}
