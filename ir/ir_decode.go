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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Unmarshal decodes a Definition written by [Marshal]. Definitions of other
// IR versions are rejected.
func Unmarshal(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	if def.Version != Version {
		return nil, fmt.Errorf("ir: unsupported IR version %d (want %d)", def.Version, Version)
	}
	return &def, nil
}

func Decode(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// splitTagged is the inverse of marshalTagged.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", nil, err
	}
	var tag string
	if err := json.Unmarshal(fields["type"], &tag); err != nil {
		return "", nil, fmt.Errorf("ir: tagged value has no \"type\": %s", data)
	}
	value, ok := fields[tag]
	if !ok {
		return "", nil, fmt.Errorf("ir: tagged value of type %q has no %q key", tag, tag)
	}
	return tag, value, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeType(data json.RawMessage) (Type, error) {
	if isNull(data) {
		return nil, nil
	}
	tag, value, err := splitTagged(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "primitive":
		var p string
		if err := json.Unmarshal(value, &p); err != nil {
			return nil, err
		}
		return Primitive(p), nil
	case "optional", "list", "set":
		var v struct {
			ItemType json.RawMessage `json:"itemType"`
		}
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		item, err := decodeType(v.ItemType)
		if err != nil {
			return nil, err
		}
		switch tag {
		case "optional":
			return OptionalType{ItemType: item}, nil
		case "list":
			return ListType{ItemType: item}, nil
		}
		return SetType{ItemType: item}, nil
	case "map":
		var v struct {
			KeyType   json.RawMessage `json:"keyType"`
			ValueType json.RawMessage `json:"valueType"`
		}
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		key, err := decodeType(v.KeyType)
		if err != nil {
			return nil, err
		}
		val, err := decodeType(v.ValueType)
		if err != nil {
			return nil, err
		}
		return MapType{KeyType: key, ValueType: val}, nil
	case "reference":
		var name TypeName
		if err := json.Unmarshal(value, &name); err != nil {
			return nil, err
		}
		return Reference(name), nil
	case "external":
		var v struct {
			ExternalReference TypeName        `json:"externalReference"`
			Fallback          json.RawMessage `json:"fallback"`
			Safety            LogSafety       `json:"safety"`
		}
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		fallback, err := decodeType(v.Fallback)
		if err != nil {
			return nil, err
		}
		return ExternalReference{
			ExternalReference: v.ExternalReference,
			Fallback:          fallback,
			Safety:            v.Safety,
		}, nil
	}
	return nil, fmt.Errorf("ir: unknown type %q", tag)
}

func decodeTypes(data []json.RawMessage) (List[Type], error) {
	if data == nil {
		return nil, nil
	}
	types := make(List[Type], 0, len(data))
	for _, raw := range data {
		t, err := decodeType(raw)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func decodeTypeDefinition(data json.RawMessage) (TypeDefinition, error) {
	tag, value, err := splitTagged(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "alias":
		type plain AliasDefinition
		var v struct {
			plain
			Alias json.RawMessage `json:"alias"`
		}
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, err
		}
		def := AliasDefinition(v.plain)
		if def.Alias, err = decodeType(v.Alias); err != nil {
			return nil, err
		}
		return &def, nil
	case "enum":
		def := &EnumDefinition{}
		return def, json.Unmarshal(value, def)
	case "object":
		def := &ObjectDefinition{}
		return def, json.Unmarshal(value, def)
	case "union":
		def := &UnionDefinition{}
		return def, json.Unmarshal(value, def)
	}
	return nil, fmt.Errorf("ir: unknown type definition %q", tag)
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	type plain Definition
	var v struct {
		plain
		Types []json.RawMessage `json:"types"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Definition(v.plain)
	d.Types = make(List[TypeDefinition], 0, len(v.Types))
	for _, raw := range v.Types {
		def, err := decodeTypeDefinition(raw)
		if err != nil {
			return err
		}
		d.Types = append(d.Types, def)
	}
	return nil
}

func (f *FieldDefinition) UnmarshalJSON(data []byte) error {
	type plain FieldDefinition
	var v struct {
		plain
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FieldDefinition(v.plain)
	var err error
	f.Type, err = decodeType(v.Type)
	return err
}

func (c *ConstantDefinition) UnmarshalJSON(data []byte) error {
	type plain ConstantDefinition
	var v struct {
		plain
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ConstantDefinition(v.plain)
	var err error
	c.Type, err = decodeType(v.Type)
	return err
}

func (e *EndpointDefinition) UnmarshalJSON(data []byte) error {
	type plain EndpointDefinition
	var v struct {
		plain
		Auth    json.RawMessage   `json:"auth"`
		Returns json.RawMessage   `json:"returns"`
		Markers []json.RawMessage `json:"markers"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = EndpointDefinition(v.plain)

	var err error
	if e.Returns, err = decodeType(v.Returns); err != nil {
		return err
	}
	if e.Markers, err = decodeTypes(v.Markers); err != nil {
		return err
	}
	if isNull(v.Auth) {
		return nil
	}
	tag, value, err := splitTagged(v.Auth)
	if err != nil {
		return err
	}
	switch tag {
	case "header":
		e.Auth = HeaderAuth{}
	case "cookie":
		var auth CookieAuth
		if err := json.Unmarshal(value, &auth); err != nil {
			return err
		}
		e.Auth = auth
	default:
		return fmt.Errorf("ir: unknown auth type %q", tag)
	}
	return nil
}

func (a *ArgumentDefinition) UnmarshalJSON(data []byte) error {
	type plain ArgumentDefinition
	var v struct {
		plain
		Type      json.RawMessage   `json:"type"`
		ParamType json.RawMessage   `json:"paramType"`
		Markers   []json.RawMessage `json:"markers"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = ArgumentDefinition(v.plain)

	var err error
	if a.Type, err = decodeType(v.Type); err != nil {
		return err
	}
	if a.Markers, err = decodeTypes(v.Markers); err != nil {
		return err
	}
	tag, value, err := splitTagged(v.ParamType)
	if err != nil {
		return err
	}
	switch tag {
	case "body":
		a.ParamType = BodyParameter{}
	case "path":
		a.ParamType = PathParameter{}
	case "header":
		var p HeaderParameter
		if err := json.Unmarshal(value, &p); err != nil {
			return err
		}
		a.ParamType = p
	case "query":
		var p QueryParameter
		if err := json.Unmarshal(value, &p); err != nil {
			return err
		}
		a.ParamType = p
	default:
		return fmt.Errorf("ir: unknown parameter type %q", tag)
	}
	return nil
}
