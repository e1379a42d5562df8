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

package document

import (
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

// Structural keys of a schema file. User-chosen names (type names, field
// names, and so on) are not subject to this pattern.
var kebabCasePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// Keys that select the variant of a type definition.
var definitionKinds = []string{"fields", "values", "alias", "union", "namespace"}

// Parse decodes one schema file. YAML is a superset of JSON, so JSON schema
// files are accepted too. The path is used only in error messages and as
// [Document.Path].
//
// Parsing stops at the first error.
func Parse(path string, src []byte) (*Document, error) {
	d := &decoder{path: path}
	doc := &Document{Path: path}

	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, errInvalidYAML(d, err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		d.document(doc, root.Content[0])
	}
	if d.err != nil {
		return nil, d.err
	}
	return doc, nil
}

type decoder struct {
	path string
	err  error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func keyPathJoin(keyPath, key string) string {
	if keyPath == "" {
		return key
	}
	return keyPath + "." + key
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

type entry struct {
	key     string
	keyNode *yaml.Node
	value   *yaml.Node
}

// entries returns the pairs of a mapping in source order. A null value is
// treated as an empty mapping.
func (d *decoder) entries(keyPath string, node *yaml.Node) []entry {
	if d.err != nil {
		return nil
	}
	node = resolveAlias(node)
	if node == nil || isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		d.fail(errExpectedMapping(d, keyPath, node))
		return nil
	}

	out := make([]entry, 0, len(node.Content)/2)
	seen := make(map[string]*yaml.Node, len(node.Content)/2)
	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		keyNode := resolveAlias(node.Content[ii])
		if keyNode.Kind != yaml.ScalarNode {
			d.fail(errExpectedScalar(d, keyPath, keyNode))
			return nil
		}
		key := keyNode.Value
		if first, dup := seen[key]; dup {
			d.fail(errDuplicateKey(d, keyPath, keyNode, key, first))
			return nil
		}
		seen[key] = keyNode
		out = append(out, entry{
			key:     key,
			keyNode: keyNode,
			value:   resolveAlias(node.Content[ii+1]),
		})
	}
	return out
}

// fields holds the keys of a structural mapping, whose keys are fixed by
// the schema grammar.
type fields struct {
	d       *decoder
	keyPath string
	node    *yaml.Node
	values  map[string]*yaml.Node
	// Keys present with a null value, which get() treats as absent.
	nulls map[string]*yaml.Node
}

func (d *decoder) object(keyPath string, node *yaml.Node, allowed ...string) *fields {
	f := &fields{
		d:       d,
		keyPath: keyPath,
		node:    node,
		values:  make(map[string]*yaml.Node),
		nulls:   make(map[string]*yaml.Node),
	}
	for _, e := range d.entries(keyPath, node) {
		if !kebabCasePattern.MatchString(e.key) {
			d.fail(errKeyNotKebabCase(d, keyPath, e.keyNode, e.key))
			return f
		}
		if !slices.Contains(allowed, e.key) {
			d.fail(errUnknownKey(d, keyPath, e.keyNode, e.key, allowed))
			return f
		}
		if isNull(e.value) {
			f.nulls[e.key] = e.keyNode
			continue
		}
		f.values[e.key] = e.value
	}
	return f
}

func (f *fields) get(key string) *yaml.Node {
	return f.values[key]
}

func (f *fields) path(key string) string {
	return keyPathJoin(f.keyPath, key)
}

func (f *fields) require(key string) *yaml.Node {
	node, ok := f.values[key]
	if keyNode, null := f.nulls[key]; null {
		f.d.fail(errNullKey(f.d, f.keyPath, keyNode, key))
	} else if !ok {
		f.d.fail(errMissingKey(f.d, f.keyPath, f.node, key))
	}
	return node
}

func (f *fields) string(key string) string {
	node := f.get(key)
	if node == nil {
		return ""
	}
	return f.d.scalar(f.path(key), node)
}

func (f *fields) typeExpr(key string) syntax.Type {
	node := f.get(key)
	if node == nil {
		return nil
	}
	return f.d.typeExpr(f.path(key), node)
}

func (f *fields) safety(key string) Safety {
	node := f.get(key)
	if node == nil {
		return SafetyUnset
	}
	value := f.d.scalar(f.path(key), node)
	if f.d.err != nil {
		return SafetyUnset
	}
	safety, ok := parseSafety(value)
	if !ok {
		f.d.fail(errSafety(f.d, f.path(key), node, value))
	}
	return safety
}

func (f *fields) conjurePackage(key string) names.ConjurePackage {
	node := f.get(key)
	if node == nil {
		return names.ConjurePackage{}
	}
	value := f.d.scalar(f.path(key), node)
	if f.d.err != nil {
		return names.ConjurePackage{}
	}
	pkg, err := names.ParseConjurePackage(value)
	if err != nil {
		f.d.fail(errInvalidIdentifier(f.d, f.path(key), node, err))
	}
	return pkg
}

func (d *decoder) scalar(keyPath string, node *yaml.Node) string {
	if d.err != nil || node == nil {
		return ""
	}
	if node.Kind != yaml.ScalarNode {
		d.fail(errExpectedScalar(d, keyPath, node))
		return ""
	}
	return node.Value
}

func (d *decoder) sequence(keyPath string, node *yaml.Node) []*yaml.Node {
	if d.err != nil || node == nil || isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		d.fail(errExpectedSequence(d, keyPath, node))
		return nil
	}
	items := make([]*yaml.Node, 0, len(node.Content))
	for _, item := range node.Content {
		items = append(items, resolveAlias(item))
	}
	return items
}

func (d *decoder) typeExpr(keyPath string, node *yaml.Node) syntax.Type {
	value := d.scalar(keyPath, node)
	if d.err != nil {
		return nil
	}
	t, err := syntax.ParseType(value)
	if err != nil {
		d.fail(errTypeExpression(d, keyPath, node, err))
		return nil
	}
	return t
}

func (d *decoder) scalarList(keyPath string, node *yaml.Node) []string {
	var out []string
	for _, item := range d.sequence(keyPath, node) {
		out = append(out, d.scalar(keyPath, item))
	}
	return out
}

func (d *decoder) typeList(keyPath string, node *yaml.Node) []syntax.Type {
	var out []syntax.Type
	for _, item := range d.sequence(keyPath, node) {
		out = append(out, d.typeExpr(keyPath, item))
	}
	return out
}

func (d *decoder) typeName(keyPath string, e entry) names.TypeName {
	name, err := names.ParseTypeName(e.key)
	if err != nil {
		d.fail(errInvalidIdentifier(d, keyPath, e.keyNode, err))
	}
	return name
}

func (d *decoder) document(doc *Document, node *yaml.Node) {
	f := d.object("", resolveAlias(node), "types", "services")
	if types := f.get("types"); types != nil {
		d.types(&doc.Types, f.path("types"), types)
	}
	if services := f.get("services"); services != nil {
		doc.Services = d.services(f.path("services"), services)
	}
}

func (d *decoder) types(types *TypesSection, keyPath string, node *yaml.Node) {
	f := d.object(keyPath, node, "imports", "conjure-imports", "definitions")
	if imports := f.get("imports"); imports != nil {
		types.Imports = d.externalImports(f.path("imports"), imports)
	}
	if imports := f.get("conjure-imports"); imports != nil {
		types.ConjureImports = d.conjureImports(f.path("conjure-imports"), imports)
	}
	if defs := f.get("definitions"); defs != nil {
		d.definitions(&types.Definitions, f.path("definitions"), defs)
	}
}

func (d *decoder) externalImports(keyPath string, node *yaml.Node) []*ExternalImport {
	var out []*ExternalImport
	for _, e := range d.entries(keyPath, node) {
		entryPath := keyPathJoin(keyPath, e.key)
		imp := &ExternalImport{
			Name:     d.typeName(keyPath, e),
			BaseType: syntax.AnyType{},
			Pos:      nodePos(e.keyNode),
		}
		f := d.object(entryPath, e.value, "external", "base-type", "safety")
		for _, lang := range d.entries(f.path("external"), f.require("external")) {
			imp.External = append(imp.External, ExternalName{
				Language: lang.key,
				Name:     d.scalar(keyPathJoin(f.path("external"), lang.key), lang.value),
			})
		}
		if baseType := f.typeExpr("base-type"); baseType != nil {
			imp.BaseType = baseType
		}
		imp.Safety = f.safety("safety")
		out = append(out, imp)
	}
	return out
}

func (d *decoder) conjureImports(keyPath string, node *yaml.Node) []*ConjureImport {
	var out []*ConjureImport
	for _, e := range d.entries(keyPath, node) {
		ns, err := names.ParseNamespace(e.key)
		if err != nil {
			d.fail(errInvalidIdentifier(d, keyPath, e.keyNode, err))
			return nil
		}
		imp := &ConjureImport{
			Namespace: ns,
			Pos:       nodePos(e.keyNode),
		}
		entryPath := keyPathJoin(keyPath, e.key)
		if e.value.Kind == yaml.ScalarNode {
			imp.File = d.scalar(entryPath, e.value)
		} else {
			f := d.object(entryPath, e.value, "file")
			if file := f.require("file"); file != nil {
				imp.File = d.scalar(f.path("file"), file)
			}
		}
		out = append(out, imp)
	}
	return out
}

func (d *decoder) definitions(defs *Definitions, keyPath string, node *yaml.Node) {
	f := d.object(keyPath, node, "default-package", "objects", "errors", "constants")
	defs.DefaultPackage = f.conjurePackage("default-package")

	if objects := f.get("objects"); objects != nil {
		objectsPath := f.path("objects")
		for _, e := range d.entries(objectsPath, objects) {
			def := d.typeDefinition(objectsPath, e)
			if d.err != nil {
				return
			}
			if _, isError := def.Body.(*ErrorDefinition); isError {
				defs.Errors = append(defs.Errors, def)
			} else {
				defs.Objects = append(defs.Objects, def)
			}
		}
	}

	if errors := f.get("errors"); errors != nil {
		errorsPath := f.path("errors")
		for _, e := range d.entries(errorsPath, errors) {
			def := &TypeDefinition{
				Name: d.typeName(errorsPath, e),
				Pos:  nodePos(e.keyNode),
			}
			entryPath := keyPathJoin(errorsPath, e.key)
			ef := d.object(entryPath, e.value, errorKeys...)
			def.Body = d.errorBody(ef)
			def.Package = ef.conjurePackage("package")
			def.Docs = ef.string("docs")
			if d.err != nil {
				return
			}
			defs.Errors = append(defs.Errors, def)
		}
	}

	if constants := f.get("constants"); constants != nil {
		constantsPath := f.path("constants")
		for _, e := range d.entries(constantsPath, constants) {
			cf := d.object(keyPathJoin(constantsPath, e.key), e.value, "type", "value", "docs")
			constant := &ConstantDefinition{
				Name: d.typeName(constantsPath, e),
				Pos:  nodePos(e.keyNode),
			}
			if node := cf.require("type"); node != nil {
				constant.Type = d.typeExpr(cf.path("type"), node)
			}
			if node := cf.require("value"); node != nil {
				constant.Value = d.scalar(cf.path("value"), node)
			}
			constant.Docs = cf.string("docs")
			defs.Constants = append(defs.Constants, constant)
		}
	}
}

var errorKeys = []string{"namespace", "code", "safe-args", "unsafe-args", "docs", "package"}

func (d *decoder) typeDefinition(keyPath string, e entry) *TypeDefinition {
	def := &TypeDefinition{
		Name: d.typeName(keyPath, e),
		Pos:  nodePos(e.keyNode),
	}
	entryPath := keyPathJoin(keyPath, e.key)
	node := e.value
	if d.err != nil {
		return def
	}
	if node.Kind != yaml.MappingNode {
		d.fail(errExpectedMapping(d, entryPath, node))
		return def
	}

	var present []string
	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		if key := node.Content[ii].Value; slices.Contains(definitionKinds, key) {
			present = append(present, key)
		}
	}
	if len(present) != 1 {
		d.fail(errUnrecognizedDefinition(d, entryPath, node, present))
		return def
	}

	var f *fields
	switch present[0] {
	case "fields":
		f = d.object(entryPath, node, "fields", "docs", "package")
		def.Body = &ObjectDefinition{
			Fields: d.fieldDefinitions(f.path("fields"), f.require("fields"), true),
		}
	case "values":
		f = d.object(entryPath, node, "values", "docs", "package")
		def.Body = &EnumDefinition{
			Values: d.enumValues(f.path("values"), f.require("values")),
		}
	case "alias":
		f = d.object(entryPath, node, "alias", "docs", "package", "safety")
		def.Body = &AliasDefinition{
			Alias:  f.typeExpr("alias"),
			Safety: f.safety("safety"),
		}
	case "union":
		f = d.object(entryPath, node, "union", "docs", "package")
		def.Body = &UnionDefinition{
			Members: d.unionMembers(f.path("union"), f.require("union")),
		}
	case "namespace":
		f = d.object(entryPath, node, errorKeys...)
		def.Body = d.errorBody(f)
	}
	def.Package = f.conjurePackage("package")
	def.Docs = f.string("docs")
	return def
}

func (d *decoder) errorBody(f *fields) *ErrorDefinition {
	body := &ErrorDefinition{}
	if node := f.require("namespace"); node != nil {
		value := d.scalar(f.path("namespace"), node)
		if d.err == nil {
			ns, err := names.ParseErrorNamespace(value)
			if err != nil {
				d.fail(errInvalidIdentifier(d, f.path("namespace"), node, err))
			}
			body.Namespace = ns
		}
	}
	if node := f.require("code"); node != nil {
		value := d.scalar(f.path("code"), node)
		if d.err == nil {
			code, err := names.ParseErrorCode(value)
			if err != nil {
				d.fail(errInvalidIdentifier(d, f.path("code"), node, err))
			}
			body.Code = code
		}
	}
	if args := f.get("safe-args"); args != nil {
		body.SafeArgs = d.fieldDefinitions(f.path("safe-args"), args, false)
	}
	if args := f.get("unsafe-args"); args != nil {
		body.UnsafeArgs = d.fieldDefinitions(f.path("unsafe-args"), args, false)
	}
	return body
}

func (d *decoder) fieldDefinitions(keyPath string, node *yaml.Node, allowSafety bool) []*FieldDefinition {
	if node == nil {
		return nil
	}
	var out []*FieldDefinition
	for _, e := range d.entries(keyPath, node) {
		name, err := names.ParseFieldName(e.key)
		if err != nil {
			d.fail(errInvalidIdentifier(d, keyPath, e.keyNode, err))
			return nil
		}
		field := &FieldDefinition{
			Name: name,
			Pos:  nodePos(e.keyNode),
		}
		field.Type, field.Docs, field.Deprecated, field.Safety = d.fieldBody(
			keyPathJoin(keyPath, e.key), e.value, allowSafety,
		)
		out = append(out, field)
	}
	return out
}

func (d *decoder) unionMembers(keyPath string, node *yaml.Node) []*UnionMember {
	if node == nil {
		return nil
	}
	var out []*UnionMember
	for _, e := range d.entries(keyPath, node) {
		member := &UnionMember{
			Key: e.key,
			Pos: nodePos(e.keyNode),
		}
		member.Type, member.Docs, member.Deprecated, member.Safety = d.fieldBody(
			keyPathJoin(keyPath, e.key), e.value, true,
		)
		out = append(out, member)
	}
	return out
}

// fieldBody decodes either a type expression or a mapping with a "type" key.
func (d *decoder) fieldBody(keyPath string, node *yaml.Node, allowSafety bool) (
	t syntax.Type,
	docs string,
	deprecated string,
	safety Safety,
) {
	if d.err != nil {
		return
	}
	if node.Kind == yaml.ScalarNode {
		return d.typeExpr(keyPath, node), "", "", SafetyUnset
	}
	f := d.object(keyPath, node, "type", "docs", "deprecated", "safety")
	if typeNode := f.require("type"); typeNode != nil {
		t = d.typeExpr(f.path("type"), typeNode)
	}
	if !allowSafety {
		if node := f.get("safety"); node != nil {
			d.fail(errErrorArgSafety(d, f.path("safety"), node))
			return
		}
	}
	return t, f.string("docs"), f.string("deprecated"), f.safety("safety")
}

func (d *decoder) enumValues(keyPath string, node *yaml.Node) []*EnumValueDefinition {
	if node == nil || d.err != nil {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		d.fail(errEnumValuesNotList(d, keyPath, node))
		return nil
	}
	var out []*EnumValueDefinition
	for _, item := range d.sequence(keyPath, node) {
		value := &EnumValueDefinition{Pos: nodePos(item)}
		if item.Kind == yaml.ScalarNode {
			value.Value = d.scalar(keyPath, item)
		} else {
			f := d.object(keyPath, item, "value", "docs", "deprecated")
			if valueNode := f.require("value"); valueNode != nil {
				value.Value = d.scalar(f.path("value"), valueNode)
			}
			value.Docs = f.string("docs")
			value.Deprecated = f.string("deprecated")
		}
		out = append(out, value)
	}
	return out
}

func (d *decoder) services(keyPath string, node *yaml.Node) []*ServiceDefinition {
	var out []*ServiceDefinition
	for _, e := range d.entries(keyPath, node) {
		service := &ServiceDefinition{
			Name:        d.typeName(keyPath, e),
			DefaultAuth: NoAuth(),
			BasePath:    RootPath(),
			Pos:         nodePos(e.keyNode),
		}
		f := d.object(
			keyPathJoin(keyPath, e.key), e.value,
			"name", "package", "docs", "default-auth", "base-path", "endpoints",
		)
		service.DeprecatedName = f.string("name")
		service.Package = f.conjurePackage("package")
		service.Docs = f.string("docs")
		if auth := f.get("default-auth"); auth != nil {
			service.DefaultAuth = d.auth(f.path("default-auth"), auth)
		}
		if basePath := f.get("base-path"); basePath != nil {
			service.BasePath = d.pathString(f.path("base-path"), basePath, d.scalar(f.path("base-path"), basePath))
		}
		if endpoints := f.get("endpoints"); endpoints != nil {
			service.Endpoints = d.endpoints(f.path("endpoints"), endpoints)
		}
		if d.err != nil {
			return nil
		}
		out = append(out, service)
	}
	return out
}

func (d *decoder) auth(keyPath string, node *yaml.Node) AuthDefinition {
	if d.err != nil {
		return AuthDefinition{}
	}
	var auth AuthDefinition
	var err error
	if node.Kind == yaml.ScalarNode {
		auth, err = ParseAuth(node.Value)
	} else {
		f := d.object(keyPath, node, "type", "id")
		kind := d.scalar(f.path("type"), f.require("type"))
		id := f.string("id")
		if d.err != nil {
			return AuthDefinition{}
		}
		auth, err = newAuth(kind, kind, id, f.get("id") != nil)
	}
	if err != nil {
		d.fail(errAuth(d, keyPath, node, err))
	}
	return auth
}

func (d *decoder) pathString(keyPath string, node *yaml.Node, value string) PathString {
	if d.err != nil {
		return PathString{}
	}
	path, err := ParsePathString(value)
	if err != nil {
		d.fail(errPath(d, keyPath, node, err))
	}
	return path
}

func (d *decoder) endpoints(keyPath string, node *yaml.Node) []*EndpointDefinition {
	var out []*EndpointDefinition
	for _, e := range d.entries(keyPath, node) {
		name, err := names.ParseEndpointName(e.key)
		if err != nil {
			d.fail(errInvalidIdentifier(d, keyPath, e.keyNode, err))
			return nil
		}
		endpoint := &EndpointDefinition{
			Name: name,
			Pos:  nodePos(e.keyNode),
		}
		f := d.object(
			keyPathJoin(keyPath, e.key), e.value,
			"http", "auth", "args", "tags", "markers", "returns", "docs", "deprecated", "errors",
		)
		if http := f.require("http"); http != nil {
			endpoint.HTTP = d.requestLine(f.path("http"), http)
		}
		if auth := f.get("auth"); auth != nil {
			a := d.auth(f.path("auth"), auth)
			endpoint.Auth = &a
		}
		if args := f.get("args"); args != nil {
			endpoint.Args = d.arguments(f.path("args"), args)
		}
		if tags := f.get("tags"); tags != nil {
			endpoint.Tags = d.scalarList(f.path("tags"), tags)
		}
		if markers := f.get("markers"); markers != nil {
			endpoint.Markers = d.typeList(f.path("markers"), markers)
		}
		endpoint.Returns = f.typeExpr("returns")
		endpoint.Docs = f.string("docs")
		endpoint.Deprecated = f.string("deprecated")
		if errors := f.get("errors"); errors != nil {
			endpoint.Errors = d.endpointErrors(f.path("errors"), errors)
		}
		if d.err != nil {
			return nil
		}
		out = append(out, endpoint)
	}
	return out
}

func (d *decoder) requestLine(keyPath string, node *yaml.Node) RequestLine {
	if d.err != nil {
		return RequestLine{}
	}
	if node.Kind == yaml.ScalarNode {
		method, path, ok := splitRequestLine(node.Value)
		if !ok {
			d.fail(errRequestLine(d, keyPath, node, node.Value))
			return RequestLine{}
		}
		return RequestLine{Method: method, Path: d.pathString(keyPath, node, path)}
	}
	f := d.object(keyPath, node, "method", "path")
	method := d.scalar(f.path("method"), f.require("method"))
	pathNode := f.require("path")
	if d.err != nil {
		return RequestLine{}
	}
	path := d.pathString(f.path("path"), pathNode, d.scalar(f.path("path"), pathNode))
	return RequestLine{Method: method, Path: path}
}

func (d *decoder) arguments(keyPath string, node *yaml.Node) []*ArgumentDefinition {
	var out []*ArgumentDefinition
	for _, e := range d.entries(keyPath, node) {
		name, err := names.ParseParameterName(e.key)
		if err != nil {
			d.fail(errInvalidIdentifier(d, keyPath, e.keyNode, err))
			return nil
		}
		arg := &ArgumentDefinition{
			Name: name,
			Pos:  nodePos(e.keyNode),
		}
		argPath := keyPathJoin(keyPath, e.key)
		if e.value.Kind == yaml.ScalarNode {
			arg.Type = d.typeExpr(argPath, e.value)
			out = append(out, arg)
			continue
		}
		f := d.object(argPath, e.value, "type", "docs", "param-id", "param-type", "markers", "tags", "safety")
		if typeNode := f.require("type"); typeNode != nil {
			arg.Type = d.typeExpr(f.path("type"), typeNode)
		}
		arg.Docs = f.string("docs")
		arg.ParamID = f.string("param-id")
		if paramType := f.get("param-type"); paramType != nil {
			value := d.scalar(f.path("param-type"), paramType)
			if d.err == nil {
				var ok bool
				if arg.ParamType, ok = parseParamType(value); !ok {
					d.fail(errParamType(d, f.path("param-type"), paramType, value))
				}
			}
		}
		if markers := f.get("markers"); markers != nil {
			arg.Markers = d.typeList(f.path("markers"), markers)
		}
		if tags := f.get("tags"); tags != nil {
			arg.Tags = d.scalarList(f.path("tags"), tags)
		}
		arg.Safety = f.safety("safety")
		out = append(out, arg)
	}
	return out
}

func (d *decoder) endpointErrors(keyPath string, node *yaml.Node) []*EndpointError {
	var out []*EndpointError
	for _, item := range d.sequence(keyPath, node) {
		endpointErr := &EndpointError{Pos: nodePos(item)}
		if item.Kind == yaml.ScalarNode {
			endpointErr.Error = d.typeExpr(keyPath, item)
		} else {
			f := d.object(keyPath, item, "error", "docs")
			if errNode := f.require("error"); errNode != nil {
				endpointErr.Error = d.typeExpr(f.path("error"), errNode)
			}
			endpointErr.Docs = f.string("docs")
		}
		out = append(out, endpointErr)
	}
	return out
}
