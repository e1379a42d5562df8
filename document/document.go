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

// Package document is the in-memory form of a single Conjure schema file.
//
// Documents are produced by [Parse] and are not modified afterwards. Maps in
// the source are represented as slices in source order; duplicate keys are
// rejected while parsing.
package document

import (
	"fmt"

	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

// Position is a 1-based location in a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Document struct {
	Path     string
	Types    TypesSection
	Services []*ServiceDefinition
}

type TypesSection struct {
	Imports        []*ExternalImport
	ConjureImports []*ConjureImport
	Definitions    Definitions
}

type Definitions struct {
	// Empty when the file does not declare a default package.
	DefaultPackage names.ConjurePackage
	Objects        []*TypeDefinition
	Errors         []*TypeDefinition
	Constants      []*ConstantDefinition
}

// ExternalImport binds a local type name to a type of a generated language,
// with a primitive fallback for languages that do not know it.
type ExternalImport struct {
	Name     names.TypeName
	External []ExternalName
	BaseType syntax.Type
	Safety   Safety
	Pos      Position
}

type ExternalName struct {
	Language string
	Name     string
}

// ConjureImport declares that the types of File may be referenced as
// "Namespace.TypeName". File is relative to the importing document.
type ConjureImport struct {
	Namespace names.Namespace
	File      string
	Pos       Position
}

type TypeDefinition struct {
	Name names.TypeName
	// Empty unless the definition sets an explicit package.
	Package names.ConjurePackage
	Docs    string
	Pos     Position
	Body    Definition
}

// Definition is one of [*ObjectDefinition], [*EnumDefinition],
// [*UnionDefinition], [*AliasDefinition], or [*ErrorDefinition].
type Definition interface {
	isDefinition()
}

type ObjectDefinition struct {
	Fields []*FieldDefinition
}

type EnumDefinition struct {
	Values []*EnumValueDefinition
}

// UnionDefinition members are keyed by raw strings. Member keys have rules
// beyond those of field names, which are checked by the compiler.
type UnionDefinition struct {
	Members []*UnionMember
}

type AliasDefinition struct {
	Alias  syntax.Type
	Safety Safety
}

type ErrorDefinition struct {
	Namespace  names.ErrorNamespace
	Code       names.ErrorCode
	SafeArgs   []*FieldDefinition
	UnsafeArgs []*FieldDefinition
}

func (*ObjectDefinition) isDefinition() {}
func (*EnumDefinition) isDefinition()   {}
func (*UnionDefinition) isDefinition()  {}
func (*AliasDefinition) isDefinition()  {}
func (*ErrorDefinition) isDefinition()  {}

type FieldDefinition struct {
	Name       names.FieldName
	Type       syntax.Type
	Docs       string
	Deprecated string
	Safety     Safety
	Pos        Position
}

type UnionMember struct {
	Key        string
	Type       syntax.Type
	Docs       string
	Deprecated string
	Safety     Safety
	Pos        Position
}

type EnumValueDefinition struct {
	Value      string
	Docs       string
	Deprecated string
	Pos        Position
}

type ConstantDefinition struct {
	Name  names.TypeName
	Type  syntax.Type
	Value string
	Docs  string
	Pos   Position
}

// Safety is the log-safety classification of a value.
type Safety uint8

const (
	SafetyUnset Safety = iota
	Safe
	Unsafe
	DoNotLog
)

func (s Safety) String() string {
	switch s {
	case SafetyUnset:
		return ""
	case Safe:
		return "SAFE"
	case Unsafe:
		return "UNSAFE"
	case DoNotLog:
		return "DO_NOT_LOG"
	default:
		return fmt.Sprintf("Safety(%d)", uint8(s))
	}
}

func parseSafety(value string) (Safety, bool) {
	switch value {
	case "safe", "SAFE":
		return Safe, true
	case "unsafe", "UNSAFE":
		return Unsafe, true
	case "do-not-log", "DO_NOT_LOG":
		return DoNotLog, true
	}
	return SafetyUnset, false
}
