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

package syntax

import (
	"fmt"
	"unicode/utf8"
)

// Number of bytes of remaining input quoted in error messages.
const snippetLen = 100

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

// Error is a malformed type expression. Every Error carries the input
// position at which parsing failed.
type Error struct {
	code      uint32
	message   string
	span      Span
	line      int
	column    int
	remaining string
	cause     error
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

func (err *Error) Span() Span {
	return err.span
}

// Line is the 1-based line of the failure position.
func (err *Error) Line() int {
	return err.line
}

// Column is the 1-based column, counted in characters, of the failure
// position.
func (err *Error) Column() int {
	return err.column
}

// Remaining returns up to 100 bytes of the input starting at the failure
// position.
func (err *Error) Remaining() string {
	return err.remaining
}

func (err *Error) Unwrap() error {
	return err.cause
}

func newError(code uint32, src []byte, span Span, describe string, cause error) *Error {
	line, column := 1, 1
	for _, r := range string(src[:span.start]) {
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	remaining := src[span.start:]
	if len(remaining) > snippetLen {
		remaining = remaining[:snippetLen]
		for len(remaining) > 0 && !utf8.Valid(remaining) {
			remaining = remaining[:len(remaining)-1]
		}
	}
	return &Error{
		code: code,
		message: fmt.Sprintf(
			"Malformed type expression %q: %s at line %d, column %d: %q",
			src, describe, line, column, remaining,
		),
		span:      span,
		line:      line,
		column:    column,
		remaining: string(remaining),
		cause:     cause,
	}
}

func errSourceTooLong(src []byte) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Type expression size (%d bytes) exceeds maximum (%d bytes)",
			len(src), maxSrcLen,
		),
		line:   1,
		column: 1,
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Type expression contains invalid UTF-8",
		span:    Span{off, 1},
		line:    1,
		column:  1,
	}
}

func errUnexpectedCharacter(src []byte, cause *unexpectedCharacter) error {
	describe := fmt.Sprintf("unexpected character '%s' (U+%04X)", string(cause.r), cause.r)
	return newError(1002, src, Span{cause.offset, uint32(utf8.RuneLen(cause.r))}, describe, cause)
}

func errNoProduction(src []byte, offset uint32) error {
	return newError(1010, src, Span{offset, 0}, "unexpected input", nil)
}

func errTrailingInput(src []byte, offset uint32) error {
	span := Span{offset, uint32(len(src)) - offset}
	return newError(1011, src, span, "unexpected trailing input", nil)
}

func errInvalidIdentifier(src []byte, span Span, cause error) error {
	describe := cause.Error()
	if m, ok := cause.(interface{ Message() string }); ok {
		describe = m.Message()
	}
	return newError(1012, src, span, describe, cause)
}

func errTooDeep(src []byte, offset uint32) error {
	describe := fmt.Sprintf("type nesting exceeds maximum depth (%d)", maxTypeDepth)
	return newError(1013, src, Span{offset, 0}, describe, nil)
}
