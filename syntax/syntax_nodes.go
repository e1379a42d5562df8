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

	"github.com/palantir/conjure-sub002/names"
)

// Type is a parsed type expression. The set of implementations is closed.
//
// All implementations are comparable values, so two types are equal exactly
// when they compare equal with ==.
type Type interface {
	// String returns the canonical form of the type expression. Parsing the
	// canonical form yields an equal Type.
	String() string

	isType()
}

type PrimitiveKind uint8

const (
	Primitive_UNKNOWN PrimitiveKind = iota
	Primitive_STRING
	Primitive_INTEGER
	Primitive_DOUBLE
	Primitive_BOOLEAN
	Primitive_SAFELONG
	Primitive_RID
	Primitive_BEARERTOKEN
	Primitive_UUID
)

var primitiveKeywords = []string{
	Primitive_STRING:      "string",
	Primitive_INTEGER:     "integer",
	Primitive_DOUBLE:      "double",
	Primitive_BOOLEAN:     "boolean",
	Primitive_SAFELONG:    "safelong",
	Primitive_RID:         "rid",
	Primitive_BEARERTOKEN: "bearertoken",
	Primitive_UUID:        "uuid",
}

func primitiveKind(keyword string) (PrimitiveKind, bool) {
	for ii, kw := range primitiveKeywords {
		if ii > 0 && kw == keyword {
			return PrimitiveKind(ii), true
		}
	}
	return Primitive_UNKNOWN, false
}

// Keyword returns the spelling of the primitive in a type expression.
func (k PrimitiveKind) Keyword() string {
	if k == Primitive_UNKNOWN || int(k) >= len(primitiveKeywords) {
		return fmt.Sprintf("PrimitiveKind(%d)", uint8(k))
	}
	return primitiveKeywords[k]
}

func (k PrimitiveKind) String() string {
	switch k {
	case Primitive_STRING:
		return "STRING"
	case Primitive_INTEGER:
		return "INTEGER"
	case Primitive_DOUBLE:
		return "DOUBLE"
	case Primitive_BOOLEAN:
		return "BOOLEAN"
	case Primitive_SAFELONG:
		return "SAFELONG"
	case Primitive_RID:
		return "RID"
	case Primitive_BEARERTOKEN:
		return "BEARERTOKEN"
	case Primitive_UUID:
		return "UUID"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint8(k))
	}
}

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (t PrimitiveType) String() string {
	return t.Kind.Keyword()
}

type AnyType struct{}

func (AnyType) String() string {
	return "any"
}

type BinaryType struct{}

func (BinaryType) String() string {
	return "binary"
}

type DateTimeType struct{}

func (DateTimeType) String() string {
	return "datetime"
}

type ListType struct {
	Item Type
}

func (t ListType) String() string {
	return "list<" + t.Item.String() + ">"
}

type SetType struct {
	Item Type
}

func (t SetType) String() string {
	return "set<" + t.Item.String() + ">"
}

type OptionalType struct {
	Item Type
}

func (t OptionalType) String() string {
	return "optional<" + t.Item.String() + ">"
}

type MapType struct {
	Key   Type
	Value Type
}

func (t MapType) String() string {
	return "map<" + t.Key.String() + ", " + t.Value.String() + ">"
}

// LocalReference names a type declared in the same file, or bound by one of
// its external imports.
type LocalReference struct {
	Name names.TypeName
}

func (t LocalReference) String() string {
	return t.Name.String()
}

// ForeignReference names a type declared in the file imported under
// Namespace.
type ForeignReference struct {
	Namespace names.Namespace
	Name      names.TypeName
}

func (t ForeignReference) String() string {
	return t.Namespace.String() + "." + t.Name.String()
}

func (PrimitiveType) isType()    {}
func (AnyType) isType()          {}
func (BinaryType) isType()       {}
func (DateTimeType) isType()     {}
func (ListType) isType()         {}
func (SetType) isType()          {}
func (OptionalType) isType()     {}
func (MapType) isType()          {}
func (LocalReference) isType()   {}
func (ForeignReference) isType() {}

// Walk calls fn for t and then, in order, for every type nested within it.
// Returning false from fn skips the children of that type.
func Walk(t Type, fn func(Type) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch t := t.(type) {
	case ListType:
		Walk(t.Item, fn)
	case SetType:
		Walk(t.Item, fn)
	case OptionalType:
		Walk(t.Item, fn)
	case MapType:
		Walk(t.Key, fn)
		Walk(t.Value, fn)
	}
}
