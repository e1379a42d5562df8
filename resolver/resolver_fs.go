// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package resolver

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// FileSystem is the resolver's view of schema files.
type FileSystem interface {
	// Canonical returns the identity of a file. Names that refer to the
	// same file must have the same canonical form.
	Canonical(name string) (string, error)

	// Import returns the name of the file that the file named from imports
	// with the relative path rel.
	Import(from, rel string) string

	ReadFile(name string) ([]byte, error)
}

// OS returns a FileSystem over the host file system. Canonical names are
// absolute with symbolic links evaluated.
func OS() FileSystem {
	return osFS{}
}

type osFS struct{}

func (osFS) Canonical(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (osFS) Import(from, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(filepath.Dir(from), filepath.FromSlash(rel))
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// FromFS returns a FileSystem over fsys. Names are slash-separated paths
// relative to the root of fsys, and are their own canonical form once
// cleaned.
func FromFS(fsys fs.FS) FileSystem {
	return ioFS{fsys}
}

type ioFS struct {
	fsys fs.FS
}

func (f ioFS) Canonical(name string) (string, error) {
	clean := path.Clean(name)
	if !fs.ValidPath(clean) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if _, err := fs.Stat(f.fsys, clean); err != nil {
		return "", err
	}
	return clean, nil
}

func (ioFS) Import(from, rel string) string {
	return path.Join(path.Dir(from), rel)
}

func (f ioFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(f.fsys, name)
}
