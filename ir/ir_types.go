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

package ir

// Type is one of [Primitive], [OptionalType], [ListType], [SetType],
// [MapType], [Reference], or [ExternalReference].
type Type interface {
	isType()
}

type Primitive string

const (
	Primitive_STRING      Primitive = "STRING"
	Primitive_DATETIME    Primitive = "DATETIME"
	Primitive_INTEGER     Primitive = "INTEGER"
	Primitive_DOUBLE      Primitive = "DOUBLE"
	Primitive_SAFELONG    Primitive = "SAFELONG"
	Primitive_BINARY      Primitive = "BINARY"
	Primitive_ANY         Primitive = "ANY"
	Primitive_BOOLEAN     Primitive = "BOOLEAN"
	Primitive_UUID        Primitive = "UUID"
	Primitive_RID         Primitive = "RID"
	Primitive_BEARERTOKEN Primitive = "BEARERTOKEN"
)

type OptionalType struct {
	ItemType Type `json:"itemType"`
}

type ListType struct {
	ItemType Type `json:"itemType"`
}

type SetType struct {
	ItemType Type `json:"itemType"`
}

type MapType struct {
	KeyType   Type `json:"keyType"`
	ValueType Type `json:"valueType"`
}

// Reference names a type defined in the same [Definition].
type Reference TypeName

// ExternalReference is a type imported from a generator's target language.
// Generators that do not know the type use Fallback.
type ExternalReference struct {
	ExternalReference TypeName  `json:"externalReference"`
	Fallback          Type      `json:"fallback"`
	Safety            LogSafety `json:"safety,omitempty"`
}

func (Primitive) isType()         {}
func (OptionalType) isType()      {}
func (ListType) isType()          {}
func (SetType) isType()           {}
func (MapType) isType()           {}
func (Reference) isType()         {}
func (ExternalReference) isType() {}

func (t Primitive) MarshalJSON() ([]byte, error) {
	return marshalTagged("primitive", string(t))
}

func (t OptionalType) MarshalJSON() ([]byte, error) {
	type plain OptionalType
	return marshalTagged("optional", plain(t))
}

func (t ListType) MarshalJSON() ([]byte, error) {
	type plain ListType
	return marshalTagged("list", plain(t))
}

func (t SetType) MarshalJSON() ([]byte, error) {
	type plain SetType
	return marshalTagged("set", plain(t))
}

func (t MapType) MarshalJSON() ([]byte, error) {
	type plain MapType
	return marshalTagged("map", plain(t))
}

func (t Reference) MarshalJSON() ([]byte, error) {
	return marshalTagged("reference", TypeName(t))
}

func (t ExternalReference) MarshalJSON() ([]byte, error) {
	type plain ExternalReference
	return marshalTagged("external", plain(t))
}

// TypeDefinition is one of [*AliasDefinition], [*EnumDefinition],
// [*ObjectDefinition], or [*UnionDefinition].
type TypeDefinition interface {
	DefinitionName() TypeName
	isTypeDefinition()
}

type AliasDefinition struct {
	TypeName TypeName  `json:"typeName"`
	Alias    Type      `json:"alias"`
	Docs     string    `json:"docs,omitempty"`
	Safety   LogSafety `json:"safety,omitempty"`
}

type EnumDefinition struct {
	TypeName TypeName                  `json:"typeName"`
	Values   List[EnumValueDefinition] `json:"values"`
	Docs     string                    `json:"docs,omitempty"`
}

type ObjectDefinition struct {
	TypeName TypeName              `json:"typeName"`
	Fields   List[FieldDefinition] `json:"fields"`
	Docs     string                `json:"docs,omitempty"`
}

type UnionDefinition struct {
	TypeName TypeName              `json:"typeName"`
	Union    List[FieldDefinition] `json:"union"`
	Docs     string                `json:"docs,omitempty"`
}

func (d *AliasDefinition) DefinitionName() TypeName  { return d.TypeName }
func (d *EnumDefinition) DefinitionName() TypeName   { return d.TypeName }
func (d *ObjectDefinition) DefinitionName() TypeName { return d.TypeName }
func (d *UnionDefinition) DefinitionName() TypeName  { return d.TypeName }

func (*AliasDefinition) isTypeDefinition()  {}
func (*EnumDefinition) isTypeDefinition()   {}
func (*ObjectDefinition) isTypeDefinition() {}
func (*UnionDefinition) isTypeDefinition()  {}

func (d *AliasDefinition) MarshalJSON() ([]byte, error) {
	type plain AliasDefinition
	return marshalTagged("alias", (*plain)(d))
}

func (d *EnumDefinition) MarshalJSON() ([]byte, error) {
	type plain EnumDefinition
	return marshalTagged("enum", (*plain)(d))
}

func (d *ObjectDefinition) MarshalJSON() ([]byte, error) {
	type plain ObjectDefinition
	return marshalTagged("object", (*plain)(d))
}

func (d *UnionDefinition) MarshalJSON() ([]byte, error) {
	type plain UnionDefinition
	return marshalTagged("union", (*plain)(d))
}

// AuthType is [HeaderAuth] or [CookieAuth].
type AuthType interface {
	isAuthType()
}

// HeaderAuth reads a bearer token from the Authorization header.
type HeaderAuth struct{}

type CookieAuth struct {
	CookieName string `json:"cookieName"`
}

func (HeaderAuth) isAuthType() {}
func (CookieAuth) isAuthType() {}

func (a HeaderAuth) MarshalJSON() ([]byte, error) {
	return marshalTagged("header", struct{}{})
}

func (a CookieAuth) MarshalJSON() ([]byte, error) {
	type plain CookieAuth
	return marshalTagged("cookie", plain(a))
}

// ParameterType is one of [BodyParameter], [HeaderParameter],
// [PathParameter], or [QueryParameter].
type ParameterType interface {
	isParameterType()
}

type BodyParameter struct{}

type HeaderParameter struct {
	ParamID string `json:"paramId"`
}

type PathParameter struct{}

type QueryParameter struct {
	ParamID string `json:"paramId"`
}

func (BodyParameter) isParameterType()   {}
func (HeaderParameter) isParameterType() {}
func (PathParameter) isParameterType()   {}
func (QueryParameter) isParameterType()  {}

func (p BodyParameter) MarshalJSON() ([]byte, error) {
	return marshalTagged("body", struct{}{})
}

func (p HeaderParameter) MarshalJSON() ([]byte, error) {
	type plain HeaderParameter
	return marshalTagged("header", plain(p))
}

func (p PathParameter) MarshalJSON() ([]byte, error) {
	return marshalTagged("path", struct{}{})
}

func (p QueryParameter) MarshalJSON() ([]byte, error) {
	type plain QueryParameter
	return marshalTagged("query", plain(p))
}
