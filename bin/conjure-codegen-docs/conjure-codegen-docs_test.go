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

package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palantir/conjure-sub002/ir"
)

func testDefinition() *ir.Definition {
	id := ir.TypeName{Name: "ItemId", Package: "com.example.items"}
	notFound := ir.TypeName{Name: "ItemNotFound", Package: "com.example.items"}
	return &ir.Definition{
		Version: ir.Version,
		Errors: []ir.ErrorDefinition{{
			ErrorName: notFound,
			Namespace: "Items",
			Code:      "NOT_FOUND",
			SafeArgs:  []ir.FieldDefinition{{FieldName: "itemId", Type: ir.Reference(id)}},
		}},
		Types: []ir.TypeDefinition{
			&ir.ObjectDefinition{
				TypeName: ir.TypeName{Name: "Item", Package: "com.example.items"},
				Docs:     "A stored item.\n",
				Fields: []ir.FieldDefinition{
					{FieldName: "id", Type: ir.Reference(id)},
					{FieldName: "labels", Type: ir.MapType{
						KeyType:   ir.Primitive_STRING,
						ValueType: ir.ListType{ItemType: ir.Primitive_STRING},
					}, Docs: "Free-form\nlabels | tags."},
					{FieldName: "size", Type: ir.OptionalType{ItemType: ir.Primitive_SAFELONG}, Deprecated: "Unused."},
				},
			},
			&ir.AliasDefinition{TypeName: id, Alias: ir.Primitive_UUID},
			&ir.EnumDefinition{
				TypeName: ir.TypeName{Name: "Color", Package: "com.example.colors"},
				Values:   []ir.EnumValueDefinition{{Value: "RED"}, {Value: "BLUE", Docs: "Blue."}},
			},
		},
		Services: []ir.ServiceDefinition{{
			ServiceName: ir.TypeName{Name: "ItemService", Package: "com.example.items"},
			Endpoints: []ir.EndpointDefinition{{
				EndpointName: "getItem",
				HTTPMethod:   "GET",
				HTTPPath:     "/items/{itemId}",
				Args: []ir.ArgumentDefinition{
					{ArgName: "itemId", Type: ir.Reference(id), ParamType: ir.PathParameter{}},
					{ArgName: "fields", Type: ir.SetType{ItemType: ir.Primitive_STRING}, ParamType: ir.QueryParameter{ParamID: "fields"}},
				},
				Returns: ir.Reference(ir.TypeName{Name: "Item", Package: "com.example.items"}),
				Errors:  []ir.EndpointError{{Error: notFound}},
			}},
		}},
		Constants: []ir.ConstantDefinition{{Name: "MaxItems", Type: ir.Primitive_INTEGER, Value: "100"}},
	}
}

const itemsDocs = "# com.example.items\n" +
	"\n## Types\n" +
	"\n### Item\n" +
	"\nA stored item.\n" +
	"\n| Field | Type | Docs |\n| --- | --- | --- |\n" +
	"| `id` | `ItemId` |  |\n" +
	"| `labels` | `map<string, list<string>>` | Free-form labels \\| tags. |\n" +
	"| `size` | `optional<safelong>` | **Deprecated:** Unused. |\n" +
	"\n### ItemId\n\nAlias of `uuid`.\n" +
	"\n## Errors\n" +
	"\n### ItemNotFound\n\n`Items:ItemNotFound` (NOT_FOUND)\n" +
	"\n| Argument | Type | Docs |\n| --- | --- | --- |\n" +
	"| `itemId` | `ItemId` |  |\n" +
	"\n## Services\n" +
	"\n### ItemService\n" +
	"\n#### getItem\n\n`GET /items/{itemId}`\n" +
	"\n| Argument | Type | Location |\n| --- | --- | --- |\n" +
	"| `itemId` | `ItemId` | path |\n" +
	"| `fields` | `set<string>` | query `fields` |\n" +
	"\nReturns `Item`.\n" +
	"\nThrows `ItemNotFound`.\n"

const colorsDocs = "# com.example.colors\n" +
	"\n## Types\n" +
	"\n### Color\n" +
	"\n| Value | Docs |\n| --- | --- |\n" +
	"| `RED` |  |\n" +
	"| `BLUE` | Blue. |\n"

const constantsDocs = "# Constants\n\n| Name | Type | Value |\n| --- | --- | --- |\n" +
	"| `MaxItems` | `integer` | `100` |\n"

func TestRenderPerPackage(t *testing.T) {
	t.Parallel()

	files, err := render(testDefinition(), nil)
	require.NoError(t, err)
	assert.Equal(t, []outputFile{
		{Path: "com/example/colors/README.md", Content: colorsDocs},
		{Path: "com/example/items/README.md", Content: itemsDocs},
		{Path: "CONSTANTS.md", Content: constantsDocs},
	}, files)
}

func TestRenderSingleFile(t *testing.T) {
	t.Parallel()

	files, err := render(testDefinition(), map[string]string{"file": "docs/API.md"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "docs/API.md", files[0].Path)
	assert.Equal(t, colorsDocs+"\n"+itemsDocs+"\n"+constantsDocs, files[0].Content)
}

func TestRenderUnknownOption(t *testing.T) {
	t.Parallel()

	_, err := render(testDefinition(), map[string]string{"format": "html"})
	assert.EqualError(t, err, `unknown option "format"`)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	irJSON, err := ir.Marshal(testDefinition())
	require.NoError(t, err)
	request, err := json.Marshal(codegenRequest{IR: irJSON, Options: map[string]string{"file": "API.md"}})
	require.NoError(t, err)

	responseJSON, ok := generate(request)
	require.True(t, ok, string(responseJSON))
	var response codegenResponse
	require.NoError(t, json.Unmarshal(responseJSON, &response))
	require.Len(t, response.Files, 1)
	assert.Equal(t, "API.md", response.Files[0].Path)
	assert.Contains(t, response.Files[0].Content, "#### getItem")
}

func TestGenerateBadRequest(t *testing.T) {
	t.Parallel()

	responseJSON, ok := generate([]byte(`{"ir": {"version": 7}}`))
	assert.False(t, ok)
	var response codegenResponse
	require.NoError(t, json.Unmarshal(responseJSON, &response))
	assert.Contains(t, response.Error, "unsupported IR version 7")
	assert.Empty(t, response.Files)
}
