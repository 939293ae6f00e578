// cups-sub001 - a capability engine for PPD printer description files
// Copyright (C) 2026  The cups-sub001 developers
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package atomicfile writes files atomically: data goes to a sibling
// temporary file which replaces the target only after an error-free
// Close.  A failed or abandoned write leaves the target untouched and no
// temporary behind.
package atomicfile

import (
	"os"
	"path/filepath"
)

// File is an open atomic writer.
type File struct {
	tmp    *os.File
	target string
	done   bool
}

// Create opens a new atomic writer for the given target path.
func Create(target string) (*File, error) {
	dir, base := filepath.Split(target)
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return nil, err
	}
	return &File{tmp: tmp, target: target}, nil
}

// Write appends to the temporary file.
func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Close flushes the temporary file and renames it over the target.  After
// a successful Close the new content is visible to other processes; on
// any error the target keeps its previous content.
func (f *File) Close() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		os.Remove(f.tmp.Name())
		return err
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort discards the write, leaving the target untouched.  Abort after
// Close is a no-op.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
