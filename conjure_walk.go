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

package conjure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
)

// Extensions of files that Walk treats as schema files.
var schemaExtensions = []string{".yml", ".yaml", ".json"}

// IsSchemaFile reports whether path has a schema file extension.
func IsSchemaFile(path string) bool {
	return slices.Contains(schemaExtensions, filepath.Ext(path))
}

// Walk expands paths into the schema files to compile. Files named
// directly are returned even if an exclude pattern matches them.
// Directories are searched recursively. The result is sorted and contains
// no duplicates.
func Walk(paths []string, opts ...Option) ([]string, error) {
	return NewOptions(opts...).Walk(paths)
}

func (opts *Options) Walk(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input paths")
	}

	excludes := make([]glob.Glob, 0, len(opts.exclude))
	for _, pattern := range opts.exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}
	excluded := func(rel string) bool {
		rel = filepath.ToSlash(rel)
		base := filepath.Base(rel)
		for _, g := range excludes {
			if g.Match(rel) || g.Match(base) {
				return true
			}
		}
		return false
	}

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if rel != "." && excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSchemaFile(path) && !excluded(rel) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files found in %v", paths)
	}
	return files, nil
}
