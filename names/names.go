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

// Package names implements the identifier types of a Conjure schema.
//
// Every identifier is validated when it is parsed. A value obtained from one
// of the Parse functions is always well-formed; the zero value of each type
// is the empty identifier and is only meaningful where documented.
package names

import (
	"regexp"
	"slices"
	"strings"
)

var (
	customTypePattern     = regexp.MustCompile(`^[A-Z][a-z0-9]+([A-Z][a-z0-9]+)*$`)
	packagePattern        = regexp.MustCompile(`^([a-z][a-z0-9]+(\.[a-z][a-z0-9]*)*)?$`)
	namespacePattern      = regexp.MustCompile(`^[a-z][a-z]+([A-Z][a-z]+)*$`)
	errorNamespacePattern = regexp.MustCompile(`^([A-Z][a-z0-9]+)+$`)
	endpointNamePattern   = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	parameterNamePattern  = regexp.MustCompile(`^[a-z][a-z0-9]*([A-Z0-9][a-z0-9]+)*$`)
)

// Names that may be used as a [TypeName] without matching UpperCamelCase.
var primitiveTypeNames = []string{
	"string",
	"integer",
	"double",
	"boolean",
	"safelong",
	"binary",
	"any",
	"datetime",
	"uuid",
	"rid",
	"bearertoken",
	"unknown",
}

// TypeName is the name of a primitive or a user-defined type.
type TypeName struct {
	name string
}

func ParseTypeName(name string) (TypeName, error) {
	if slices.Contains(primitiveTypeNames, name) {
		return TypeName{name}, nil
	}
	for _, builtin := range primitiveTypeNames {
		if strings.EqualFold(builtin, name) {
			return TypeName{}, errBuiltinIdentifierCase(name)
		}
	}
	if !customTypePattern.MatchString(name) {
		return TypeName{}, errInvalidTypeName(name)
	}
	return TypeName{name}, nil
}

func (n TypeName) String() string {
	return n.name
}

// IsPrimitive reports whether n is one of the built-in type names.
func (n TypeName) IsPrimitive() bool {
	return slices.Contains(primitiveTypeNames, n.name)
}

// ConjurePackage is a dot-separated package name. The empty package is valid
// and means that no package was specified.
type ConjurePackage struct {
	name string
}

func ParseConjurePackage(name string) (ConjurePackage, error) {
	if !packagePattern.MatchString(name) {
		return ConjurePackage{}, errInvalidPackage(name)
	}
	return ConjurePackage{name}, nil
}

func (p ConjurePackage) String() string {
	return p.name
}

func (p ConjurePackage) IsEmpty() bool {
	return p.name == ""
}

func (p ConjurePackage) Components() []string {
	if p.name == "" {
		return nil
	}
	return strings.Split(p.name, ".")
}

// Namespace is the local alias under which a file's conjure-imports are
// referenced, as in "ns.TypeName".
type Namespace struct {
	name string
}

func ParseNamespace(name string) (Namespace, error) {
	if !namespacePattern.MatchString(name) {
		return Namespace{}, errInvalidNamespace(name)
	}
	return Namespace{name}, nil
}

func (ns Namespace) String() string {
	return ns.name
}

type ErrorNamespace struct {
	name string
}

func ParseErrorNamespace(name string) (ErrorNamespace, error) {
	if !errorNamespacePattern.MatchString(name) {
		return ErrorNamespace{}, errInvalidErrorNamespace(name)
	}
	return ErrorNamespace{name}, nil
}

func (ns ErrorNamespace) String() string {
	return ns.name
}

type EndpointName struct {
	name string
}

func ParseEndpointName(name string) (EndpointName, error) {
	if !endpointNamePattern.MatchString(name) {
		return EndpointName{}, errInvalidEndpointName(name)
	}
	return EndpointName{name}, nil
}

func (n EndpointName) String() string {
	return n.name
}

// ParameterName is the name of an endpoint argument, which is also the name
// of its path template variable when the argument is a path parameter.
type ParameterName struct {
	name string
}

func ParseParameterName(name string) (ParameterName, error) {
	if !parameterNamePattern.MatchString(name) {
		return ParameterName{}, errInvalidParameterName(name)
	}
	return ParameterName{name}, nil
}

func (n ParameterName) String() string {
	return n.name
}
