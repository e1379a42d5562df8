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

package ir_test

import (
	"strings"
	"testing"

	"github.com/palantir/conjure-sub002/internal/testutil"
	"github.com/palantir/conjure-sub002/ir"
)

func TestUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	id := ir.TypeName{Name: "Id", Package: "com.example"}
	marker := ir.TypeName{Name: "Incubating", Package: "com.example"}
	def := &ir.Definition{
		Version: ir.Version,
		Errors: []ir.ErrorDefinition{{
			ErrorName: ir.TypeName{Name: "NotFound", Package: "com.example"},
			Namespace: "Example",
			Code:      "NOT_FOUND",
			SafeArgs:  []ir.FieldDefinition{{FieldName: "id", Type: ir.Reference(id)}},
		}},
		Types: []ir.TypeDefinition{
			&ir.AliasDefinition{TypeName: id, Alias: ir.Primitive_UUID, Safety: ir.Safe},
			&ir.AliasDefinition{TypeName: marker, Alias: ir.Primitive_ANY},
			&ir.UnionDefinition{
				TypeName: ir.TypeName{Name: "Value", Package: "com.example"},
				Union: []ir.FieldDefinition{
					{FieldName: "text", Type: ir.Primitive_STRING, Deprecated: "Use blob."},
					{FieldName: "ids", Type: ir.SetType{ItemType: ir.Reference(id)}},
					{FieldName: "when", Type: ir.ExternalReference{
						ExternalReference: ir.TypeName{Name: "Instant", Package: "java.time"},
						Fallback:          ir.Primitive_DATETIME,
						Safety:            ir.DoNotLog,
					}},
				},
				Docs: "A value.",
			},
		},
		Services: []ir.ServiceDefinition{{
			ServiceName: ir.TypeName{Name: "ValueService", Package: "com.example"},
			Endpoints: []ir.EndpointDefinition{
				{
					EndpointName: "put",
					HTTPMethod:   "PUT",
					HTTPPath:     "/values",
					Auth:         ir.HeaderAuth{},
					Args: []ir.ArgumentDefinition{
						{ArgName: "body", Type: ir.ListType{ItemType: ir.Primitive_BINARY}, ParamType: ir.BodyParameter{}},
						{ArgName: "trace", Type: ir.OptionalType{ItemType: ir.Primitive_STRING}, ParamType: ir.HeaderParameter{ParamID: "X-Trace"}, Markers: []ir.Type{ir.Reference(marker)}},
					},
					Markers: []ir.Type{ir.Reference(marker)},
					Tags:    []string{"write"},
					Errors:  []ir.EndpointError{{Error: ir.TypeName{Name: "NotFound", Package: "com.example"}}},
				},
			},
		}},
		Constants: []ir.ConstantDefinition{{Name: "Limit", Type: ir.Primitive_INTEGER, Value: "10"}},
	}

	want, err := ir.Marshal(def)
	testutil.AssertNoError(t, err)
	decoded, err := ir.Unmarshal(want)
	testutil.AssertNoError(t, err)

	union, ok := decoded.Types[2].(*ir.UnionDefinition)
	if !ok {
		t.Fatalf("decoded.Types[2] is %T, want *ir.UnionDefinition", decoded.Types[2])
	}
	testutil.ExpectEq(t, ir.Type(ir.SetType{ItemType: ir.Reference(id)}), union.Union[1].Type)
	endpoint := decoded.Services[0].Endpoints[0]
	testutil.ExpectEq(t, ir.AuthType(ir.HeaderAuth{}), endpoint.Auth)
	testutil.ExpectEq(t, ir.ParameterType(ir.HeaderParameter{ParamID: "X-Trace"}), endpoint.Args[1].ParamType)
	if endpoint.Returns != nil {
		t.Errorf("endpoint.Returns = %v, want nil", endpoint.Returns)
	}

	got, err := ir.Marshal(decoded)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, string(want), string(got))
}

func TestUnmarshalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"version", `{"version": 2, "types": []}`, "unsupported IR version 2"},
		{"unknown type", `{"version": 1, "types": [{"type": "struct", "struct": {}}]}`, `unknown type definition "struct"`},
		{"missing value", `{"version": 1, "types": [{"type": "enum"}]}`, `has no "enum" key`},
		{"unknown field type", `{"version": 1, "types": [{"type": "alias", "alias": {
			"typeName": {"name": "A", "package": "p"},
			"alias": {"type": "tuple", "tuple": {}}
		}}]}`, `unknown type "tuple"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ir.Unmarshal([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	def, err := ir.Decode(strings.NewReader(`{"version": 1, "errors": [], "types": [], "services": []}`))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(def.Types))
}
