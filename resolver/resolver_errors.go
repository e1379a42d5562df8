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
	"fmt"
	"slices"
	"strings"

	"github.com/palantir/conjure-sub002/document"
)

type Error struct {
	code    uint32
	message string
	file    string
	cause   error
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// File is the path of the file the error is about. For a missing import,
// this is the file that could not be found.
func (err *Error) File() string {
	return err.file
}

func (err *Error) Unwrap() error {
	return err.cause
}

// CyclicImportError reports a file that transitively imports itself. It
// unwraps to the underlying [*Error].
type CyclicImportError struct {
	err   *Error
	chain []string
}

func (err *CyclicImportError) Error() string {
	return err.err.Error()
}

func (err *CyclicImportError) Code() uint32 {
	return err.err.code
}

func (err *CyclicImportError) Message() string {
	return err.err.message
}

func (err *CyclicImportError) Unwrap() error {
	return err.err
}

// Chain returns the files of the cycle in import order. The first and last
// entries are the same file, so a cycle of N files has N+1 entries.
func (err *CyclicImportError) Chain() []string {
	return slices.Clone(err.chain)
}

func errRootNotFound(path string, cause error) error {
	return &Error{
		code:    2100,
		message: fmt.Sprintf("Schema file not found: %s", path),
		file:    path,
		cause:   cause,
	}
}

func errImportNotFound(importer string, imp *document.ConjureImport, path string, cause error) error {
	return &Error{
		code: 2101,
		message: fmt.Sprintf(
			"Import not found: %s (imported as %q by %s:%s)",
			path, imp.Namespace, importer, imp.Pos,
		),
		file:  path,
		cause: cause,
	}
}

func errReadFile(path string, cause error) error {
	return &Error{
		code:    2102,
		message: fmt.Sprintf("Failed to read %s: %v", path, cause),
		file:    path,
		cause:   cause,
	}
}

func errCyclicImport(chain []string) error {
	return &CyclicImportError{
		err: &Error{
			code:    2103,
			message: "Cyclic conjure imports are not allowed: " + strings.Join(chain, " -> "),
			file:    chain[0],
		},
		chain: chain,
	}
}
