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

package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// savegameExtensions are file extensions that indicate an OpenTTD
// savegame. ".sav" is the live format; ".ss1" autosaves were produced by
// older clients and still turn up in shared scenario archives.
var savegameExtensions = map[string]bool{
	".sav": true,
	".ss1": true,
}

// IsSavegameFile checks if a filename has a recognized savegame extension.
func IsSavegameFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return savegameExtensions[ext]
}

// DetectSavegameFile finds the first savegame file in an archive. It scans
// the archive's file list and returns the path to the first file that has
// a recognized savegame extension.
func DetectSavegameFile(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsSavegameFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoSavegamesError{Archive: "archive"}
}
