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

// Package loadsave loads OpenTTD savegames from a filesystem, optionally
// reaching into a ZIP/7z/RAR archive the way a shared scenario pack or a
// save-sync tool might hand one over, and caches decoded results keyed by
// content digest so polling an unchanged autosave doesn't re-decode it.
package loadsave

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/openttd-tools/ottdsave"
	"github.com/openttd-tools/ottdsave/archive"
	"github.com/openttd-tools/ottdsave/internal/cache"
)

// defaultCacheSize bounds how many distinct decoded savegames a Loader
// keeps around before evicting the least-recently-used one.
const defaultCacheSize = 16

// Loader loads and decodes savegames from a filesystem.
type Loader struct {
	fs       afero.Fs
	pageSize int
	decoded  *cache.Cache[*ottdsave.Savegame]
}

// New returns a Loader backed by fs. A nil fs defaults to the OS
// filesystem (afero.NewOsFs()).
func New(fs afero.Fs) (*Loader, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	decoded, err := cache.New[*ottdsave.Savegame](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}
	return &Loader{fs: fs, pageSize: ottdsave.DefaultChunkSize, decoded: decoded}, nil
}

// Open loads and decodes the savegame at path. path may point directly at
// a .sav file, or at an archive (optionally followed by an internal path,
// e.g. "pack.zip/saves/game.sav"); if the archive reference has no
// internal path, the first recognized savegame file inside it is used.
func (l *Loader) Open(path string) (*ottdsave.Savegame, error) {
	data, err := l.readBytes(path)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(data)
	if sg, ok := l.decoded.Get(digest); ok {
		return sg, nil
	}

	src := ottdsave.NewReaderChunkSource(bytes.NewReader(data), l.pageSize)
	sg, err := ottdsave.ParseSavegame(src)
	if err != nil {
		return nil, fmt.Errorf("decode savegame %s: %w", path, err)
	}

	l.decoded.Add(digest, sg)
	return sg, nil
}

// readBytes resolves path to its raw savegame bytes, transparently
// reaching into an archive when path references one.
func (l *Loader) readBytes(path string) ([]byte, error) {
	archiveRef, err := archive.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %s: %w", path, err)
	}
	if archiveRef != nil {
		return l.readFromArchive(archiveRef)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// readFromArchive opens ref.ArchivePath as an archive on the OS filesystem
// and reads out either ref.InternalPath or, if empty, the first detected
// savegame file.
//
// archive.Open always opens from the real filesystem; Loader's afero.Fs
// abstraction covers the plain-file path, while archive contents are read
// through the archive package's own format-specific readers.
func (l *Loader) readFromArchive(ref *archive.Path) ([]byte, error) {
	arc, err := archive.Open(ref.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", ref.ArchivePath, err)
	}
	defer func() { _ = arc.Close() }()

	internalPath := ref.InternalPath
	if internalPath == "" {
		internalPath, err = archive.DetectSavegameFile(arc)
		if err != nil {
			return nil, err
		}
	}

	reader, size, err := arc.Open(internalPath)
	if err != nil {
		return nil, fmt.Errorf("open %s in archive %s: %w", internalPath, ref.ArchivePath, err)
	}
	defer func() { _ = reader.Close() }()

	buf := make([]byte, size)
	n, err := io.ReadFull(reader, buf)
	if err != nil {
		return nil, fmt.Errorf("read %s from archive %s: %w", internalPath, ref.ArchivePath, err)
	}
	return buf[:n], nil
}
