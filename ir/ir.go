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

// Package ir is the intermediate representation consumed by code generators.
//
// The JSON encoding of a [Definition] is the compiler's output format. Lists
// are always encoded as arrays (never null) and absent optional values are
// omitted. Variants of [Type], [TypeDefinition], [AuthType], and
// [ParameterType] are encoded as objects of the form
// {"type": TAG, TAG: VALUE}.
package ir

import (
	"bytes"
	"encoding/json"
	"io"
)

// Version of the IR format written by this package.
const Version = 1

type Definition struct {
	Version   int                      `json:"version"`
	Errors    List[ErrorDefinition]    `json:"errors"`
	Types     List[TypeDefinition]     `json:"types"`
	Services  List[ServiceDefinition]  `json:"services"`
	Constants List[ConstantDefinition] `json:"constants,omitempty"`
}

// List is a slice that encodes as an empty JSON array when nil.
type List[T any] []T

func (l List[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}

// TypeName is the fully-qualified name of a defined type, error, or service.
type TypeName struct {
	Name    string `json:"name"`
	Package string `json:"package"`
}

func (n TypeName) String() string {
	if n.Package == "" {
		return n.Name
	}
	return n.Package + "." + n.Name
}

type LogSafety string

const (
	SafetyUnset LogSafety = ""
	Safe        LogSafety = "SAFE"
	Unsafe      LogSafety = "UNSAFE"
	DoNotLog    LogSafety = "DO_NOT_LOG"
)

type FieldDefinition struct {
	FieldName  string    `json:"fieldName"`
	Type       Type      `json:"type"`
	Docs       string    `json:"docs,omitempty"`
	Deprecated string    `json:"deprecated,omitempty"`
	Safety     LogSafety `json:"safety,omitempty"`
}

type EnumValueDefinition struct {
	Value      string `json:"value"`
	Docs       string `json:"docs,omitempty"`
	Deprecated string `json:"deprecated,omitempty"`
}

type ErrorDefinition struct {
	ErrorName  TypeName              `json:"errorName"`
	Docs       string                `json:"docs,omitempty"`
	Namespace  string                `json:"namespace"`
	Code       string                `json:"code"`
	SafeArgs   List[FieldDefinition] `json:"safeArgs"`
	UnsafeArgs List[FieldDefinition] `json:"unsafeArgs"`
}

type ConstantDefinition struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Value string `json:"value"`
	Docs  string `json:"docs,omitempty"`
}

type ServiceDefinition struct {
	ServiceName TypeName                 `json:"serviceName"`
	Docs        string                   `json:"docs,omitempty"`
	Endpoints   List[EndpointDefinition] `json:"endpoints"`
}

type EndpointDefinition struct {
	EndpointName string `json:"endpointName"`
	HTTPMethod   string `json:"httpMethod"`
	HTTPPath     string `json:"httpPath"`
	// Nil for endpoints without authentication.
	Auth       AuthType                 `json:"auth,omitempty"`
	Args       List[ArgumentDefinition] `json:"args"`
	Returns    Type                     `json:"returns,omitempty"`
	Docs       string                   `json:"docs,omitempty"`
	Deprecated string                   `json:"deprecated,omitempty"`
	Markers    List[Type]               `json:"markers"`
	Tags       List[string]             `json:"tags"`
	Errors     List[EndpointError]      `json:"errors"`
}

type ArgumentDefinition struct {
	ArgName   string        `json:"argName"`
	Type      Type          `json:"type"`
	ParamType ParameterType `json:"paramType"`
	Safety    LogSafety     `json:"safety,omitempty"`
	Docs      string        `json:"docs,omitempty"`
	Markers   List[Type]    `json:"markers"`
	Tags      List[string]  `json:"tags"`
}

type EndpointError struct {
	Error TypeName `json:"error"`
	Docs  string   `json:"docs,omitempty"`
}

// Marshal returns the indented JSON encoding of def, with a trailing newline.
func Marshal(def *Definition) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, def); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Encode(w io.Writer, def *Definition) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(def)
}

// marshalTagged encodes value as {"type": tag, tag: value}.
func marshalTagged(tag string, value any) ([]byte, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	quoted, _ := json.Marshal(tag)

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(quoted)
	buf.WriteByte(',')
	buf.Write(quoted)
	buf.WriteByte(':')
	buf.Write(encoded)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
