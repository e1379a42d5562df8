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

const (
	maxSrcLen    = 0xFFFF
	maxTypeDepth = 64
)

type Token struct {
	Len  uint16
	Kind TokenKind
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE

	T_LT
	T_GT
	T_COMMA
	T_DOT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_LT:
		return "LT"
	case T_GT:
		return "GT"
	case T_COMMA:
		return "COMMA"
	case T_DOT:
		return "DOT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Tokens splits a type expression into tokens. A Tokens value is a cursor:
// copying it saves the position, and assigning the copy back rewinds.
type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (Tokens, error) {
	if len(src) > maxSrcLen {
		return Tokens{}, errSourceTooLong(src)
	}
	if !utf8.Valid(src) {
		return Tokens{}, errInvalidUtf8(src)
	}
	return Tokens{
		src: src,
	}, nil
}

// Offset is the byte offset of the next token.
func (t *Tokens) Offset() uint32 {
	return t.offset
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case ' ', '\t', '\n', '\r':
		return t.nextSpace(token)
	case '<':
		kind = T_LT
	case '>':
		kind = T_GT
	case ',':
		kind = T_COMMA
	case '.':
		kind = T_DOT
	default:
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' {
			return t.nextIdent(token)
		}
		r, _ := utf8.DecodeRune(t.src)
		return &unexpectedCharacter{offset: t.offset, r: r}
	}

	*token = Token{
		Kind: kind,
		Len:  1,
	}
	t.offset += 1
	t.src = t.src[1:]
	return nil
}

func (t *Tokens) nextSpace(token *Token) error {
	n := 0
	for n < len(t.src) && isSpace(t.src[n]) {
		n++
	}
	*token = Token{
		Kind: T_SPACE,
		Len:  uint16(n),
	}
	t.offset += uint32(n)
	t.src = t.src[n:]
	return nil
}

func (t *Tokens) nextIdent(token *Token) error {
	n := 1
	for n < len(t.src) && isIdentByte(t.src[n]) {
		n++
	}
	*token = Token{
		Kind: T_IDENT,
		Len:  uint16(n),
	}
	t.offset += uint32(n)
	t.src = t.src[n:]
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}

// unexpectedCharacter is reported by the tokenizer and converted into a
// positioned [Error] by the parser, which knows the full input.
type unexpectedCharacter struct {
	offset uint32
	r      rune
}

func (err *unexpectedCharacter) Error() string {
	return fmt.Sprintf("unexpected character %q at offset %d", err.r, err.offset)
}
