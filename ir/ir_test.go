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
	"testing"

	"github.com/palantir/conjure-sub002/internal/testutil"
	"github.com/palantir/conjure-sub002/ir"
)

func TestMarshalEmpty(t *testing.T) {
	t.Parallel()

	got, err := ir.Marshal(&ir.Definition{Version: ir.Version})
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `{
  "version": 1,
  "errors": [],
  "types": [],
  "services": []
}
`, string(got))
}

func TestMarshalDefinition(t *testing.T) {
	t.Parallel()

	item := ir.TypeName{Name: "Item", Package: "com.example"}
	def := &ir.Definition{
		Version: ir.Version,
		Types: []ir.TypeDefinition{
			&ir.ObjectDefinition{
				TypeName: item,
				Fields: []ir.FieldDefinition{
					{
						FieldName: "tags",
						Type: ir.MapType{
							KeyType:   ir.Primitive_STRING,
							ValueType: ir.OptionalType{ItemType: ir.ListType{ItemType: ir.Reference(item)}},
						},
						Safety: ir.Safe,
					},
					{
						FieldName: "created",
						Type: ir.ExternalReference{
							ExternalReference: ir.TypeName{Name: "Instant", Package: "java.time"},
							Fallback:          ir.Primitive_DATETIME,
						},
					},
				},
			},
			&ir.EnumDefinition{
				TypeName: ir.TypeName{Name: "Color", Package: "com.example"},
				Values:   []ir.EnumValueDefinition{{Value: "RED", Docs: "Red."}},
			},
		},
		Services: []ir.ServiceDefinition{{
			ServiceName: ir.TypeName{Name: "ItemService", Package: "com.example"},
			Endpoints: []ir.EndpointDefinition{{
				EndpointName: "getItem",
				HTTPMethod:   "GET",
				HTTPPath:     "/items/{itemId}",
				Auth:         ir.CookieAuth{CookieName: "SESSION"},
				Args: []ir.ArgumentDefinition{
					{ArgName: "itemId", Type: ir.Primitive_RID, ParamType: ir.PathParameter{}},
					{ArgName: "limit", Type: ir.SetType{ItemType: ir.Primitive_INTEGER}, ParamType: ir.QueryParameter{ParamID: "limit"}},
				},
				Returns: ir.Reference(item),
			}},
		}},
	}

	got, err := ir.Marshal(def)
	testutil.AssertNoError(t, err)
	testutil.ExpectJSONEq(t, []byte(`{
  "version": 1,
  "errors": [],
  "types": [
    {
      "type": "object",
      "object": {
        "typeName": {"name": "Item", "package": "com.example"},
        "fields": [
          {
            "fieldName": "tags",
            "type": {
              "type": "map",
              "map": {
                "keyType": {"type": "primitive", "primitive": "STRING"},
                "valueType": {
                  "type": "optional",
                  "optional": {
                    "itemType": {
                      "type": "list",
                      "list": {
                        "itemType": {
                          "type": "reference",
                          "reference": {"name": "Item", "package": "com.example"}
                        }
                      }
                    }
                  }
                }
              }
            },
            "safety": "SAFE"
          },
          {
            "fieldName": "created",
            "type": {
              "type": "external",
              "external": {
                "externalReference": {"name": "Instant", "package": "java.time"},
                "fallback": {"type": "primitive", "primitive": "DATETIME"}
              }
            }
          }
        ]
      }
    },
    {
      "type": "enum",
      "enum": {
        "typeName": {"name": "Color", "package": "com.example"},
        "values": [{"value": "RED", "docs": "Red."}]
      }
    }
  ],
  "services": [
    {
      "serviceName": {"name": "ItemService", "package": "com.example"},
      "endpoints": [
        {
          "endpointName": "getItem",
          "httpMethod": "GET",
          "httpPath": "/items/{itemId}",
          "auth": {"type": "cookie", "cookie": {"cookieName": "SESSION"}},
          "args": [
            {
              "argName": "itemId",
              "type": {"type": "primitive", "primitive": "RID"},
              "paramType": {"type": "path", "path": {}},
              "markers": [],
              "tags": []
            },
            {
              "argName": "limit",
              "type": {"type": "set", "set": {"itemType": {"type": "primitive", "primitive": "INTEGER"}}},
              "paramType": {"type": "query", "query": {"paramId": "limit"}},
              "markers": [],
              "tags": []
            }
          ],
          "returns": {"type": "reference", "reference": {"name": "Item", "package": "com.example"}},
          "markers": [],
          "tags": [],
          "errors": []
        }
      ]
    }
  ]
}`), got)
}

func TestTypeNameString(t *testing.T) {
	t.Parallel()

	testutil.ExpectEq(t, "com.example.Item", ir.TypeName{Name: "Item", Package: "com.example"}.String())
	testutil.ExpectEq(t, "Item", ir.TypeName{Name: "Item"}.String())
}
