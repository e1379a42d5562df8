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

// Package syntax parses the type expressions embedded in Conjure schemas,
// such as "map<string, list<Foo>>" or "ns.Type".
//
// The grammar is an ordered choice between productions. Each production
// starts from a saved cursor and rewinds to it on failure, so an alternative
// never observes input consumed by an earlier one.
package syntax

import (
	"errors"

	"github.com/palantir/conjure-sub002/names"
)

func ParseType(src string) (Type, error) {
	ctx, err := newParseCtx([]byte(src))
	if err != nil {
		return nil, err
	}
	ctx.space()
	t, ok := parseType(ctx)
	if ctx.err != nil {
		return nil, ctx.err
	}
	if !ok {
		return nil, errNoProduction(ctx.src, ctx.furthest)
	}
	ctx.space()
	if !ctx.eof() {
		if ctx.err != nil {
			return nil, ctx.err
		}
		return nil, errTrailingInput(ctx.src, ctx.offset())
	}
	return t, nil
}

// MustParseType is like [ParseType] but panics on malformed input.
func MustParseType(src string) Type {
	t, err := ParseType(src)
	if err != nil {
		panic(err)
	}
	return t
}

type parseCtx struct {
	src         []byte
	tokens      Tokens
	token       Token
	tokenOffset uint32
	haveToken   bool
	err         error
	furthest    uint32
	depth       int
}

type mark struct {
	tokens      Tokens
	token       Token
	tokenOffset uint32
	haveToken   bool
}

func newParseCtx(src []byte) (*parseCtx, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx{
		src:    src,
		tokens: tokens,
	}, nil
}

func (ctx *parseCtx) snapshot() mark {
	return mark{
		tokens:      ctx.tokens,
		token:       ctx.token,
		tokenOffset: ctx.tokenOffset,
		haveToken:   ctx.haveToken,
	}
}

func (ctx *parseCtx) restore(m mark) {
	ctx.tokens = m.tokens
	ctx.token = m.token
	ctx.tokenOffset = m.tokenOffset
	ctx.haveToken = m.haveToken
}

func (ctx *parseCtx) ensureToken() bool {
	if ctx.err != nil {
		return false
	}
	if ctx.haveToken {
		return true
	}
	ctx.tokenOffset = ctx.tokens.Offset()
	if err := ctx.tokens.Next(&ctx.token); err != nil {
		var unexpected *unexpectedCharacter
		if errors.As(err, &unexpected) {
			err = errUnexpectedCharacter(ctx.src, unexpected)
		}
		ctx.err = err
		return false
	}
	ctx.haveToken = true
	return true
}

func (ctx *parseCtx) offset() uint32 {
	if ctx.haveToken {
		return ctx.tokenOffset
	}
	return ctx.tokens.Offset()
}

func (ctx *parseCtx) readToken() string {
	return string(ctx.src[ctx.tokenOffset : ctx.tokenOffset+uint32(ctx.token.Len)])
}

func (ctx *parseCtx) tokenSpan() Span {
	return Span{ctx.tokenOffset, uint32(ctx.token.Len)}
}

func (ctx *parseCtx) consumeToken() {
	ctx.haveToken = false
}

// fail records the current position as a candidate for error reporting and
// returns false. The error position of a failed parse is the furthest point
// reached by any alternative.
func (ctx *parseCtx) fail() bool {
	ctx.furthest = max(ctx.furthest, ctx.offset())
	return false
}

func (ctx *parseCtx) eof() bool {
	return ctx.ensureToken() && ctx.token.Kind == T_EOF
}

func (ctx *parseCtx) space() {
	if ctx.ensureToken() && ctx.token.Kind == T_SPACE {
		ctx.consumeToken()
	}
}

func (ctx *parseCtx) sigil(kind TokenKind) bool {
	if !ctx.ensureToken() {
		return false
	}
	if ctx.token.Kind != kind {
		return ctx.fail()
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) keyword(keyword string) bool {
	if !ctx.ensureToken() {
		return false
	}
	if ctx.token.Kind != T_IDENT || ctx.readToken() != keyword {
		return ctx.fail()
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) ident() (string, Span, bool) {
	if !ctx.ensureToken() {
		return "", Span{}, false
	}
	if ctx.token.Kind != T_IDENT {
		return "", Span{}, ctx.fail()
	}
	token, span := ctx.readToken(), ctx.tokenSpan()
	ctx.consumeToken()
	return token, span, true
}

type production func(ctx *parseCtx) (Type, bool)

// choice tries each production in order from the same starting position.
// A hard error (such as an invalid identifier) stops the search.
func (ctx *parseCtx) choice(productions ...production) (Type, bool) {
	for _, prod := range productions {
		m := ctx.snapshot()
		if t, ok := prod(ctx); ok {
			return t, true
		}
		if ctx.err != nil {
			return nil, false
		}
		ctx.restore(m)
	}
	return nil, false
}

var typeProductions []production

func init() {
	typeProductions = []production{
		parseMap,
		parseList,
		parseSet,
		parseOptional,
		keywordType("any", AnyType{}),
		keywordType("binary", BinaryType{}),
		keywordType("datetime", DateTimeType{}),
		parseForeignReference,
		parseLocalReference,
	}
}

func parseType(ctx *parseCtx) (Type, bool) {
	if ctx.depth >= maxTypeDepth {
		ctx.err = errTooDeep(ctx.src, ctx.offset())
		return nil, false
	}
	ctx.depth++
	defer func() { ctx.depth-- }()
	return ctx.choice(typeProductions...)
}

// generic parses `keyword "<" type ("," type)* ">"` with arity parameters.
// Whitespace is permitted around the brackets and separators.
func (ctx *parseCtx) generic(keyword string, arity int) ([]Type, bool) {
	if !ctx.keyword(keyword) {
		return nil, false
	}
	ctx.space()
	if !ctx.sigil(T_LT) {
		return nil, false
	}
	params := make([]Type, 0, arity)
	for ii := range arity {
		ctx.space()
		if ii > 0 {
			if !ctx.sigil(T_COMMA) {
				return nil, false
			}
			ctx.space()
		}
		param, ok := parseType(ctx)
		if !ok {
			return nil, false
		}
		params = append(params, param)
	}
	ctx.space()
	if !ctx.sigil(T_GT) {
		return nil, false
	}
	return params, true
}

func parseMap(ctx *parseCtx) (Type, bool) {
	params, ok := ctx.generic("map", 2)
	if !ok {
		return nil, false
	}
	return MapType{Key: params[0], Value: params[1]}, true
}

func parseList(ctx *parseCtx) (Type, bool) {
	params, ok := ctx.generic("list", 1)
	if !ok {
		return nil, false
	}
	return ListType{Item: params[0]}, true
}

func parseSet(ctx *parseCtx) (Type, bool) {
	params, ok := ctx.generic("set", 1)
	if !ok {
		return nil, false
	}
	return SetType{Item: params[0]}, true
}

func parseOptional(ctx *parseCtx) (Type, bool) {
	params, ok := ctx.generic("optional", 1)
	if !ok {
		return nil, false
	}
	return OptionalType{Item: params[0]}, true
}

func keywordType(keyword string, t Type) production {
	return func(ctx *parseCtx) (Type, bool) {
		if !ctx.keyword(keyword) {
			return nil, false
		}
		return t, true
	}
}

func parseForeignReference(ctx *parseCtx) (Type, bool) {
	namespace, namespaceSpan, ok := ctx.ident()
	if !ok {
		return nil, false
	}
	if !ctx.sigil(T_DOT) {
		return nil, false
	}
	name, nameSpan, ok := ctx.ident()
	if !ok {
		return nil, false
	}

	ns, err := names.ParseNamespace(namespace)
	if err != nil {
		ctx.err = errInvalidIdentifier(ctx.src, namespaceSpan, err)
		return nil, false
	}
	typeName, err := names.ParseTypeName(name)
	if err != nil {
		ctx.err = errInvalidIdentifier(ctx.src, nameSpan, err)
		return nil, false
	}
	return ForeignReference{Namespace: ns, Name: typeName}, true
}

func parseLocalReference(ctx *parseCtx) (Type, bool) {
	name, span, ok := ctx.ident()
	if !ok {
		return nil, false
	}
	switch name {
	case "map", "list", "set", "optional":
		// A container keyword that did not parse as a container is
		// malformed, not a reference.
		ctx.furthest = max(ctx.furthest, span.start)
		return nil, false
	}
	if kind, ok := primitiveKind(name); ok {
		return PrimitiveType{Kind: kind}, true
	}
	typeName, err := names.ParseTypeName(name)
	if err != nil {
		ctx.err = errInvalidIdentifier(ctx.src, span, err)
		return nil, false
	}
	return LocalReference{Name: typeName}, true
}
