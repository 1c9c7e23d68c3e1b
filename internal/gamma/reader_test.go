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

package gamma_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/openttd-tools/ottdsave/internal/gamma"
)

func TestReader_FixedWidth(t *testing.T) {
	t.Parallel()

	r := gamma.NewReader(bytes.NewReader([]byte{
		0x7F,             // U8
		0x12, 0x34,       // U16
		0x00, 0xAB, 0xCD, // U24
		0x01, 0x02, 0x03, 0x04, // U32
		0, 0, 0, 0, 0, 0, 0, 1, // U64
	}))

	if v, err := r.U8(); err != nil || v != 0x7F {
		t.Fatalf("U8() = %d, %v; want 0x7F, nil", v, err)
	}
	if v, err := r.U16(); err != nil || v != 0x1234 {
		t.Fatalf("U16() = %x, %v; want 0x1234, nil", v, err)
	}
	if v, err := r.U24(); err != nil || v != 0xABCD {
		t.Fatalf("U24() = %x, %v; want 0xABCD, nil", v, err)
	}
	if v, err := r.U32(); err != nil || v != 0x01020304 {
		t.Fatalf("U32() = %x, %v; want 0x01020304, nil", v, err)
	}
	if v, err := r.U64(); err != nil || v != 1 {
		t.Fatalf("U64() = %x, %v; want 1, nil", v, err)
	}
	if got, want := r.Offset(), uint64(1+2+3+4+8); got != want {
		t.Errorf("Offset() = %d, want %d", got, want)
	}
}

func TestReader_ShortReadIsUnexpectedEOF(t *testing.T) {
	t.Parallel()

	r := gamma.NewReader(bytes.NewReader([]byte{0x01}))
	if _, err := r.U32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("U32() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReader_Gamma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes []byte
		want  uint64
	}{
		{"1-byte zero", []byte{0x00}, 0},
		{"1-byte max", []byte{0x7F}, 0x7F},
		{"2-byte min", []byte{0x80, 0x80}, 0x80},
		{"2-byte max", []byte{0xBF, 0xFF}, 0x3FFF},
		{"3-byte min", []byte{0xC0, 0x40, 0x00}, 0x4000},
		{"3-byte max", []byte{0xDF, 0xFF, 0xFF}, 0x1FFFFF},
		{"4-byte min", []byte{0xE0, 0x20, 0x00, 0x00}, 0x200000},
		{"4-byte max", []byte{0xEF, 0xFF, 0xFF, 0xFF}, 0x0FFFFFFF},
		{"5-byte min", []byte{0xF0, 0x10, 0x00, 0x00, 0x00}, 0x10000000},
		{"5-byte max", []byte{0xF7, 0xFF, 0xFF, 0xFF, 0xFF}, 0x7FFFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gamma.NewReader(bytes.NewReader(tt.bytes))
			got, err := r.Gamma()
			if err != nil {
				t.Fatalf("Gamma() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Gamma() = %#x, want %#x", got, tt.want)
			}
			if r.Offset() != uint64(len(tt.bytes)) {
				t.Errorf("Offset() = %d, want %d", r.Offset(), len(tt.bytes))
			}
		})
	}
}

func TestReader_GammaInvalidLeadByte(t *testing.T) {
	t.Parallel()

	// 0xF8 and above don't match any of the five recognized prefixes.
	r := gamma.NewReader(bytes.NewReader([]byte{0xF8}))
	if _, err := r.Gamma(); !errors.Is(err, gamma.ErrInvalidGamma) {
		t.Errorf("Gamma() error = %v, want ErrInvalidGamma", err)
	}
}

func TestReader_GammaEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF, 0x200000, 0x0FFFFFFF, 0x10000000, 0x7FFFFFFFF}
	for _, v := range values {
		enc, err := gamma.GammaEncode(v)
		if err != nil {
			t.Fatalf("GammaEncode(%#x): %v", v, err)
		}
		r := gamma.NewReader(bytes.NewReader(enc))
		got, err := r.Gamma()
		if err != nil {
			t.Fatalf("Gamma() for encoded %#x: %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %#x: got %#x", v, got)
		}
	}
}

func TestReader_GammaStr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteByte(5) // gamma length
	buf.WriteString("hello")

	r := gamma.NewReader(&buf)
	got, err := r.GammaStr()
	if err != nil {
		t.Fatalf("GammaStr(): %v", err)
	}
	if got != "hello" {
		t.Errorf("GammaStr() = %q, want %q", got, "hello")
	}
}

func TestReader_GammaStrEmpty(t *testing.T) {
	t.Parallel()

	r := gamma.NewReader(bytes.NewReader([]byte{0x00}))
	got, err := r.GammaStr()
	if err != nil {
		t.Fatalf("GammaStr(): %v", err)
	}
	if got != "" {
		t.Errorf("GammaStr() = %q, want empty string", got)
	}
}

func TestReader_GammaStrInvalidUTF8(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteByte(2)
	buf.Write([]byte{0xFF, 0xFE})

	r := gamma.NewReader(&buf)
	if _, err := r.GammaStr(); err == nil {
		t.Error("expected error decoding invalid UTF-8")
	}
}

func TestReader_TryByte(t *testing.T) {
	t.Parallel()

	r := gamma.NewReader(bytes.NewReader([]byte{0x42}))

	b, eof, err := r.TryByte()
	if err != nil || eof || b != 0x42 {
		t.Fatalf("TryByte() = %#x, %v, %v; want 0x42, false, nil", b, eof, err)
	}

	_, eof, err = r.TryByte()
	if err != nil || !eof {
		t.Fatalf("TryByte() at EOF = _, %v, %v; want true, nil", eof, err)
	}
}

func TestReader_Skip(t *testing.T) {
	t.Parallel()

	r := gamma.NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip(3): %v", err)
	}
	v, err := r.U8()
	if err != nil || v != 4 {
		t.Fatalf("U8() after Skip = %d, %v; want 4, nil", v, err)
	}
}
