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

package document_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/internal/testutil"
	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse("test.yml", []byte(src))
	testutil.AssertNoError(t, err)
	return doc
}

func parseError(t *testing.T, src string) *document.Error {
	t.Helper()
	_, err := document.Parse("test.yml", []byte(src))
	testutil.AssertError(t, err)
	var docErr *document.Error
	if !errors.As(err, &docErr) {
		t.Fatalf("expected *document.Error, got %T: %v", err, err)
	}
	return docErr
}

const fullDocument = `
types:
  imports:
    ExternalLong:
      base-type: safelong
      external:
        java: java.lang.Long
  conjure-imports:
    common: common.yml
    other:
      file: ../other/other.yml
  definitions:
    default-package: com.example.api
    objects:
      Item:
        docs: An item.
        fields:
          itemId: rid
          displayName:
            type: optional<string>
            docs: Shown to users.
            safety: safe
          tags: set<common.Tag>
      Color:
        package: com.example.colors
        values:
          - RED
          - value: GREEN
            docs: Green.
          - value: BLUE
            deprecated: Use GREEN.
      ItemId:
        alias: uuid
        safety: do-not-log
      Payload:
        union:
          text: string
          data:
            type: binary
            docs: Raw bytes.
      NotFound:
        namespace: Items
        code: NOT_FOUND
        safe-args:
          itemId: rid
    errors:
      Conflict:
        namespace: Items
        code: CONFLICT
        unsafe-args:
          reason: string
    constants:
      MaxItems:
        type: integer
        value: 100

services:
  ItemService:
    name: Item Service
    package: com.example.service
    default-auth: header
    base-path: /items
    endpoints:
      getItem:
        http: GET /{itemId}
        args:
          itemId: rid
        returns: Item
        errors:
          - NotFound
          - error: Conflict
            docs: On concurrent writes.
      search:
        http:
          method: POST
          path: /search
        auth: cookie:SESSION
        args:
          query:
            type: optional<string>
            param-type: query
            param-id: q
            markers:
              - Deprecated
            safety: unsafe
          body: Item
        tags:
          - readonly
        deprecated: Use getItem.
`

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := parse(t, fullDocument)
	testutil.ExpectEq(t, "test.yml", doc.Path)

	types := doc.Types
	testutil.ExpectEq(t, 1, len(types.Imports))
	testutil.ExpectEq(t, "ExternalLong", types.Imports[0].Name.String())
	testutil.ExpectEq[syntax.Type](t, syntax.PrimitiveType{Kind: syntax.Primitive_SAFELONG}, types.Imports[0].BaseType)
	testutil.ExpectSliceEq(t, []document.ExternalName{{Language: "java", Name: "java.lang.Long"}}, types.Imports[0].External)

	testutil.ExpectEq(t, 2, len(types.ConjureImports))
	testutil.ExpectEq(t, "common", types.ConjureImports[0].Namespace.String())
	testutil.ExpectEq(t, "common.yml", types.ConjureImports[0].File)
	testutil.ExpectEq(t, "other", types.ConjureImports[1].Namespace.String())
	testutil.ExpectEq(t, "../other/other.yml", types.ConjureImports[1].File)

	defs := types.Definitions
	testutil.ExpectEq(t, "com.example.api", defs.DefaultPackage.String())
	testutil.ExpectEq(t, 4, len(defs.Objects))
	testutil.ExpectEq(t, 2, len(defs.Errors))
	testutil.ExpectEq(t, 1, len(defs.Constants))

	item := defs.Objects[0]
	testutil.ExpectEq(t, "Item", item.Name.String())
	testutil.ExpectEq(t, "An item.", item.Docs)
	testutil.ExpectTrue(t, item.Package.IsEmpty())
	object, ok := item.Body.(*document.ObjectDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, 3, len(object.Fields))
	testutil.ExpectEq(t, "itemId", object.Fields[0].Name.String())
	testutil.ExpectEq[syntax.Type](t, syntax.PrimitiveType{Kind: syntax.Primitive_RID}, object.Fields[0].Type)
	testutil.ExpectEq(t, document.SafetyUnset, object.Fields[0].Safety)
	testutil.ExpectEq(t, "optional<string>", object.Fields[1].Type.String())
	testutil.ExpectEq(t, "Shown to users.", object.Fields[1].Docs)
	testutil.ExpectEq(t, document.Safe, object.Fields[1].Safety)
	testutil.ExpectEq(t, "set<common.Tag>", object.Fields[2].Type.String())
	testutil.ExpectEq(t, document.Position{Line: 18, Column: 11}, object.Fields[0].Pos)

	color := defs.Objects[1]
	testutil.ExpectEq(t, "com.example.colors", color.Package.String())
	enum, ok := color.Body.(*document.EnumDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, 3, len(enum.Values))
	testutil.ExpectEq(t, "RED", enum.Values[0].Value)
	testutil.ExpectEq(t, "GREEN", enum.Values[1].Value)
	testutil.ExpectEq(t, "Green.", enum.Values[1].Docs)
	testutil.ExpectEq(t, "Use GREEN.", enum.Values[2].Deprecated)

	alias, ok := defs.Objects[2].Body.(*document.AliasDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq[syntax.Type](t, syntax.PrimitiveType{Kind: syntax.Primitive_UUID}, alias.Alias)
	testutil.ExpectEq(t, document.DoNotLog, alias.Safety)

	union, ok := defs.Objects[3].Body.(*document.UnionDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, 2, len(union.Members))
	testutil.ExpectEq(t, "text", union.Members[0].Key)
	testutil.ExpectEq(t, "data", union.Members[1].Key)
	testutil.ExpectEq[syntax.Type](t, syntax.BinaryType{}, union.Members[1].Type)
	testutil.ExpectEq(t, "Raw bytes.", union.Members[1].Docs)

	// Error definitions under "objects" are collected with the others.
	notFound := defs.Errors[0]
	testutil.ExpectEq(t, "NotFound", notFound.Name.String())
	notFoundBody, ok := notFound.Body.(*document.ErrorDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "Items", notFoundBody.Namespace.String())
	testutil.ExpectEq(t, names.ErrorCode_NOT_FOUND, notFoundBody.Code)
	testutil.ExpectEq(t, 1, len(notFoundBody.SafeArgs))

	conflict := defs.Errors[1]
	conflictBody, ok := conflict.Body.(*document.ErrorDefinition)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, names.ErrorCode_CONFLICT, conflictBody.Code)
	testutil.ExpectEq(t, 1, len(conflictBody.UnsafeArgs))
	testutil.ExpectEq(t, "reason", conflictBody.UnsafeArgs[0].Name.String())

	constant := defs.Constants[0]
	testutil.ExpectEq(t, "MaxItems", constant.Name.String())
	testutil.ExpectEq(t, "100", constant.Value)
	testutil.ExpectEq[syntax.Type](t, syntax.PrimitiveType{Kind: syntax.Primitive_INTEGER}, constant.Type)
}

func TestParseServices(t *testing.T) {
	t.Parallel()

	doc := parse(t, fullDocument)
	testutil.ExpectEq(t, 1, len(doc.Services))

	service := doc.Services[0]
	testutil.ExpectEq(t, "ItemService", service.Name.String())
	testutil.ExpectEq(t, "Item Service", service.DeprecatedName)
	testutil.ExpectEq(t, "com.example.service", service.Package.String())
	testutil.ExpectEq(t, "header:Authorization", service.DefaultAuth.String())
	testutil.ExpectEq(t, "/items", service.BasePath.String())
	testutil.ExpectEq(t, 2, len(service.Endpoints))

	getItem := service.Endpoints[0]
	testutil.ExpectEq(t, "getItem", getItem.Name.String())
	testutil.ExpectEq(t, "GET", getItem.HTTP.Method)
	testutil.ExpectEq(t, "/{itemId}", getItem.HTTP.Path.String())
	testutil.ExpectTrue(t, getItem.Auth == nil)
	testutil.ExpectEq(t, 1, len(getItem.Args))
	testutil.ExpectEq(t, "itemId", getItem.Args[0].Name.String())
	testutil.ExpectEq(t, document.ParamAuto, getItem.Args[0].ParamType)
	testutil.ExpectEq(t, "Item", getItem.Returns.String())
	testutil.ExpectEq(t, 2, len(getItem.Errors))
	testutil.ExpectEq(t, "NotFound", getItem.Errors[0].Error.String())
	testutil.ExpectEq(t, "Conflict", getItem.Errors[1].Error.String())
	testutil.ExpectEq(t, "On concurrent writes.", getItem.Errors[1].Docs)

	search := service.Endpoints[1]
	testutil.ExpectEq(t, "POST", search.HTTP.Method)
	testutil.ExpectEq(t, "/search", search.HTTP.Path.String())
	testutil.ExpectEq(t, "cookie:SESSION", search.Auth.String())
	testutil.ExpectSliceEq(t, []string{"readonly"}, search.Tags)
	testutil.ExpectEq(t, "Use getItem.", search.Deprecated)
	testutil.ExpectTrue(t, search.Returns == nil)

	query := search.Args[0]
	testutil.ExpectEq(t, document.ParamQuery, query.ParamType)
	testutil.ExpectEq(t, "q", query.ParamID)
	testutil.ExpectEq(t, document.Unsafe, query.Safety)
	testutil.ExpectEq(t, 1, len(query.Markers))
	testutil.ExpectEq(t, "Deprecated", query.Markers[0].String())
	testutil.ExpectEq(t, "Item", search.Args[1].Type.String())
}

func TestParseServiceDefaults(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
services:
  Empty:
    package: com.example
`)
	service := doc.Services[0]
	testutil.ExpectEq(t, document.NoAuth(), service.DefaultAuth)
	testutil.ExpectEq(t, "/", service.BasePath.String())
	testutil.ExpectEq(t, 0, len(service.Endpoints))
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"", "# comment only\n", "types:\n", "types:\n  definitions:\n"} {
		doc := parse(t, src)
		testutil.ExpectEq(t, 0, len(doc.Types.Definitions.Objects))
		testutil.ExpectEq(t, 0, len(doc.Services))
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	doc := parse(t, `{"types": {"definitions": {"objects": {"Foo": {"alias": "string"}}}}}`)
	testutil.ExpectEq(t, 1, len(doc.Types.Definitions.Objects))
}

func TestParseYAMLAnchors(t *testing.T) {
	t.Parallel()

	doc := parse(t, `
types:
  definitions:
    objects:
      First:
        fields: &shared
          value: string
      Second:
        fields: *shared
`)
	second := doc.Types.Definitions.Objects[1].Body.(*document.ObjectDefinition)
	testutil.ExpectEq(t, "value", second.Fields[0].Name.String())
}

func TestKeyNotKebabCase(t *testing.T) {
	t.Parallel()

	err := parseError(t, `
types:
  definitions:
    objects:
      Foo:
        fields:
          fooBar: string
        fooBar: string
`)
	testutil.ExpectEq(t, uint32(2004), err.Code())
	testutil.ExpectEq(t, "types.definitions.objects.Foo", err.KeyPath())
	testutil.ExpectEq(t, document.Position{Line: 8, Column: 9}, err.Position())
	testutil.ExpectEq(t,
		"test.yml:8:9: types.definitions.objects.Foo: Conjure grammar requires kebab-case field names "+
			"matching ^[a-z]+(-[a-z]+)*$: fooBar",
		err.Message(),
	)
}

func TestParseErrorCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code uint32
		src  string
	}{
		{"invalid yaml", 2000, "types: [\n"},
		{"root not a mapping", 2001, "- a\n- b\n"},
		{"definitions not a mapping", 2001, "types:\n  definitions: hello\n"},
		{"docs not a scalar", 2002, "types:\n  definitions:\n    objects:\n      Foo:\n        alias: string\n        docs: [a]\n"},
		{"tags not a sequence", 2003, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET /\n        tags: a\n"},
		{"unknown key", 2005, "types:\n  definitions:\n    objects:\n      Foo:\n        fields: {}\n        extra: x\n"},
		{"unknown top-level key", 2005, "other: x\n"},
		{"duplicate key", 2006, "types:\n  definitions:\n    objects:\n      Foo:\n        alias: string\n      Foo:\n        alias: integer\n"},
		{"missing http", 2007, "services:\n  Svc:\n    endpoints:\n      get:\n        returns: string\n"},
		{"missing error code", 2007, "types:\n  definitions:\n    errors:\n      Bad:\n        namespace: Ns\n"},
		{"null fields", 2018, "types:\n  definitions:\n    objects:\n      Foo:\n        fields:\n"},
		{"null union", 2018, "types:\n  definitions:\n    objects:\n      Foo:\n        union: ~\n"},
		{"null http", 2018, "services:\n  Svc:\n    endpoints:\n      get:\n        http: null\n"},
		{"no definition kind", 2008, "types:\n  definitions:\n    objects:\n      Foo:\n        docs: x\n"},
		{"two definition kinds", 2008, "types:\n  definitions:\n    objects:\n      Foo:\n        fields: {}\n        values: []\n"},
		{"bad type expression", 2009, "types:\n  definitions:\n    objects:\n      Foo:\n        alias: list<>\n"},
		{"bad type name", 2010, "types:\n  definitions:\n    objects:\n      foo:\n        alias: string\n"},
		{"bad field name", 2010, "types:\n  definitions:\n    objects:\n      Foo:\n        fields:\n          Bar: string\n"},
		{"bad error code", 2010, "types:\n  definitions:\n    errors:\n      Bad:\n        namespace: Ns\n        code: OOPS\n"},
		{"bad constant name", 2010, "types:\n  definitions:\n    constants:\n      not a name!:\n        type: integer\n        value: 1\n"},
		{"bad package", 2010, "types:\n  definitions:\n    default-package: Com.Example\n"},
		{"request line", 2011, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET\n"},
		{"auth", 2012, "services:\n  Svc:\n    default-auth: cookie\n"},
		{"unknown auth", 2012, "services:\n  Svc:\n    default-auth: kerberos\n"},
		{"relative path", 2013, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET foo\n"},
		{"trailing slash base path", 2013, "services:\n  Svc:\n    base-path: /foo/\n"},
		{"param type", 2014, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET /\n        args:\n          a:\n            type: string\n            param-type: cookie\n"},
		{"safety", 2015, "types:\n  definitions:\n    objects:\n      Foo:\n        alias: string\n        safety: secret\n"},
		{"enum values mapping", 2016, "types:\n  definitions:\n    objects:\n      Foo:\n        values:\n          A: x\n"},
		{"error arg safety", 2017, "types:\n  definitions:\n    errors:\n      Bad:\n        namespace: Ns\n        code: INTERNAL\n        safe-args:\n          a:\n            type: string\n            safety: safe\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := document.Parse("test.yml", []byte(test.src))
			testutil.ExpectErrorCode(t, test.code, err)
		})
	}
}

func TestParseErrorUnwraps(t *testing.T) {
	t.Parallel()

	err := parseError(t, "types:\n  definitions:\n    objects:\n      Foo:\n        alias: list<Binary>\n")
	testutil.ExpectEq(t, uint32(2009), err.Code())

	var syntaxErr *syntax.Error
	testutil.ExpectTrue(t, errors.As(err, &syntaxErr))
	var namesErr *names.Error
	testutil.ExpectTrue(t, errors.As(err, &namesErr))
	testutil.ExpectEq(t, "Binary", namesErr.Value())
}

func TestParseDuplicateKeyMessage(t *testing.T) {
	t.Parallel()

	err := parseError(t, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET /\n      get:\n        http: GET /\n")
	testutil.ExpectEq(t, "services.Svc.endpoints", err.KeyPath())
	testutil.ExpectMatch(t, `duplicate key "get" \(first defined at 4:7\)$`, err.Message())
}

func TestParseNullKeyMessage(t *testing.T) {
	t.Parallel()

	err := parseError(t, "services:\n  Svc:\n    endpoints:\n      get:\n        http: ~\n")
	testutil.ExpectEq(t, "services.Svc.endpoints.get", err.KeyPath())
	testutil.ExpectMatch(t, `required key "http" must not be null$`, err.Message())
}

func TestParseAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want document.AuthDefinition
	}{
		{"none", document.NoAuth()},
		{"NONE", document.NoAuth()},
		{"header", document.AuthDefinition{Type: document.AuthHeader, ID: "Authorization"}},
		{"cookie:SESSION", document.AuthDefinition{Type: document.AuthCookie, ID: "SESSION"}},
	}
	for _, test := range tests {
		got, err := document.ParseAuth(test.src)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, test.want, got)
	}

	for _, src := range []string{"cookie", "cookie:", "basic"} {
		_, err := document.ParseAuth(src)
		testutil.ExpectTrue(t, err != nil)
	}

	doc := parse(t, `
services:
  Svc:
    default-auth:
      type: cookie
      id: TOKEN
`)
	testutil.ExpectEq(t, "cookie:TOKEN", doc.Services[0].DefaultAuth.String())
}

func TestParsePathString(t *testing.T) {
	t.Parallel()

	path, err := document.ParsePathString("/items/{itemId}/versions/{rest:.*}")
	testutil.AssertNoError(t, err)
	testutil.ExpectSliceEq(t, []string{"itemId", "rest"}, path.TemplateVariables())
	testutil.ExpectEq(t, "/items/{arg}/versions/{arg}", path.Normalized())

	for _, src := range []string{
		"items",
		"/items/",
		"/{a}/{a}",
		"/{rest:.*}/tail",
		"/bad segment",
		"/{Upper}",
	} {
		_, err := document.ParsePathString(src)
		if err == nil {
			t.Errorf("ParsePathString(%q): expected error", src)
		}
	}

	_, err = document.ParsePathString("/{rest:.+}/tail")
	testutil.ExpectNoError(t, err)
}

func TestPathResolve(t *testing.T) {
	t.Parallel()

	base, err := document.ParsePathString("/items")
	testutil.AssertNoError(t, err)
	sub, err := document.ParsePathString("/{itemId}")
	testutil.AssertNoError(t, err)
	root := document.RootPath()

	testutil.ExpectEq(t, "/items/{itemId}", base.Resolve(sub).String())
	testutil.ExpectSliceEq(t, []string{"itemId"}, base.Resolve(sub).TemplateVariables())
	testutil.ExpectEq(t, "/items", base.Resolve(root).String())
	testutil.ExpectEq(t, "/{itemId}", root.Resolve(sub).String())
	testutil.ExpectEq(t, "/", root.Resolve(root).String())
	testutil.ExpectNoError(t, base.Resolve(sub).Validate())
}

func TestPathResolveValidate(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		base, sub string
		want      string
	}{
		{"/items/{id}", "/sub/{id}", "Path parameter id appears more than once in path /items/{id}/sub/{id}"},
		{"/files/{rest:.*}", "/meta", "only permitted if the path parameter is the last segment"},
	} {
		base, err := document.ParsePathString(tt.base)
		testutil.AssertNoError(t, err)
		sub, err := document.ParsePathString(tt.sub)
		testutil.AssertNoError(t, err)

		err = base.Resolve(sub).Validate()
		if err == nil {
			t.Errorf("%s + %s: expected error", tt.base, tt.sub)
			continue
		}
		testutil.ExpectMatch(t, regexp.MustCompile(regexp.QuoteMeta(tt.want)), err.Error())
	}
}

func TestParseFieldShorthand(t *testing.T) {
	t.Parallel()

	short := parse(t, "types:\n  definitions:\n    objects:\n      Foo:\n        fields:\n          a: list<string>\n")
	long := parse(t, "types:\n  definitions:\n    objects:\n      Foo:\n        fields:\n          a:\n            type: list<string>\n")

	shortField := short.Types.Definitions.Objects[0].Body.(*document.ObjectDefinition).Fields[0]
	longField := long.Types.Definitions.Objects[0].Body.(*document.ObjectDefinition).Fields[0]
	testutil.ExpectEq(t, shortField.Type, longField.Type)
	testutil.ExpectEq(t, shortField.Name, longField.Name)
}

func TestParseRequestLine(t *testing.T) {
	t.Parallel()

	doc := parse(t, "services:\n  Svc:\n    endpoints:\n      get:\n        http: DELETE /a/{b}\n")
	http := doc.Services[0].Endpoints[0].HTTP
	testutil.ExpectEq(t, "DELETE", http.Method)
	testutil.ExpectSliceEq(t, []string{"b"}, http.Path.TemplateVariables())

	err := parseError(t, "services:\n  Svc:\n    endpoints:\n      get:\n        http: GET\n")
	testutil.ExpectMatch(t, `Request line must be of the form: \[METHOD\] \[PATH\], instead was 'GET'$`, err.Message())
}
