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

package compiler

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/ir"
	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/syntax"
)

var (
	enumValuePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
	unionKeyPattern  = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`)
)

var primitiveKinds = map[syntax.PrimitiveKind]ir.Primitive{
	syntax.Primitive_STRING:      ir.Primitive_STRING,
	syntax.Primitive_INTEGER:     ir.Primitive_INTEGER,
	syntax.Primitive_DOUBLE:      ir.Primitive_DOUBLE,
	syntax.Primitive_BOOLEAN:     ir.Primitive_BOOLEAN,
	syntax.Primitive_SAFELONG:    ir.Primitive_SAFELONG,
	syntax.Primitive_RID:         ir.Primitive_RID,
	syntax.Primitive_BEARERTOKEN: ir.Primitive_BEARERTOKEN,
	syntax.Primitive_UUID:        ir.Primitive_UUID,
}

func primitiveType(t syntax.Type) (ir.Primitive, bool) {
	switch t := t.(type) {
	case syntax.PrimitiveType:
		p, ok := primitiveKinds[t.Kind]
		return p, ok
	case syntax.AnyType:
		return ir.Primitive_ANY, true
	case syntax.BinaryType:
		return ir.Primitive_BINARY, true
	case syntax.DateTimeType:
		return ir.Primitive_DATETIME, true
	}
	return "", false
}

// typeString formats t the way it would be written in a schema file.
func typeString(t ir.Type) string {
	switch t := t.(type) {
	case ir.Primitive:
		return strings.ToLower(string(t))
	case ir.OptionalType:
		return "optional<" + typeString(t.ItemType) + ">"
	case ir.ListType:
		return "list<" + typeString(t.ItemType) + ">"
	case ir.SetType:
		return "set<" + typeString(t.ItemType) + ">"
	case ir.MapType:
		return "map<" + typeString(t.KeyType) + ", " + typeString(t.ValueType) + ">"
	case ir.Reference:
		return t.Name
	case ir.ExternalReference:
		return t.ExternalReference.String()
	}
	return fmt.Sprintf("%v", t)
}

// walkType calls fn for t and every type nested within it.
func walkType(t ir.Type, fn func(ir.Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch t := t.(type) {
	case ir.OptionalType:
		walkType(t.ItemType, fn)
	case ir.ListType:
		walkType(t.ItemType, fn)
	case ir.SetType:
		walkType(t.ItemType, fn)
	case ir.MapType:
		walkType(t.KeyType, fn)
		walkType(t.ValueType, fn)
	}
}

// dealias follows references to alias definitions until it reaches a type
// that is not an alias.
func (c *compiler) dealias(t ir.Type) ir.Type {
	// Alias cycles are reported by checkRecursion(); the bound keeps this
	// loop finite when one is present.
	for range len(c.types) + 1 {
		ref, ok := t.(ir.Reference)
		if !ok {
			return t
		}
		info := c.byName[ir.TypeName(ref)]
		if info == nil {
			return t
		}
		alias, ok := info.resolved.(*ir.AliasDefinition)
		if !ok {
			return t
		}
		t = alias.Alias
	}
	return t
}

// lookup finds the definition or external import a reference names.
func (c *compiler) lookup(scope *fileScope, t syntax.Type, loc location) (*typeInfo, bool) {
	switch t := t.(type) {
	case syntax.LocalReference:
		if t.Name.String() == "unknown" {
			c.addError(errReservedUnknownType(loc))
			return nil, false
		}
		info, ok := scope.types[t.Name]
		if !ok {
			c.addError(errUnknownType(t.Name.String(), loc))
			return nil, false
		}
		return info, true
	case syntax.ForeignReference:
		imported, ok := scope.file.Imports[t.Namespace]
		if !ok {
			c.addError(errUnknownNamespace(t.Namespace.String(), t.Name.String(), loc))
			return nil, false
		}
		info, ok := c.scopes[imported].types[t.Name]
		if !ok {
			c.addError(errUnknownForeignType(t.Namespace.String(), t.Name.String(), imported.Path, loc))
			return nil, false
		}
		return info, true
	}
	return nil, false
}

// resolveType lowers a type expression of the file in scope. Every
// unresolvable reference within t is reported.
func (c *compiler) resolveType(scope *fileScope, t syntax.Type, loc location) (ir.Type, bool) {
	if p, ok := primitiveType(t); ok {
		return p, true
	}
	switch t := t.(type) {
	case syntax.OptionalType:
		item, ok := c.resolveType(scope, t.Item, loc)
		return ir.OptionalType{ItemType: item}, ok
	case syntax.ListType:
		item, ok := c.resolveType(scope, t.Item, loc)
		return ir.ListType{ItemType: item}, ok
	case syntax.SetType:
		item, ok := c.resolveType(scope, t.Item, loc)
		return ir.SetType{ItemType: item}, ok
	case syntax.MapType:
		key, keyOK := c.resolveType(scope, t.Key, loc)
		value, valueOK := c.resolveType(scope, t.Value, loc)
		return ir.MapType{KeyType: key, ValueType: value}, keyOK && valueOK
	}

	info, ok := c.lookup(scope, t, loc)
	if !ok {
		return nil, false
	}
	switch {
	case info.external != nil:
		if info.externalRef == nil {
			return nil, false
		}
		return *info.externalRef, true
	case info.isError():
		c.addError(errErrorAsType(info.name, loc))
		return nil, false
	}
	return ir.Reference(info.name), true
}

func (c *compiler) resolveTypes() {
	for _, info := range c.types {
		scope := c.scopes[info.file]
		def := info.def
		switch body := def.Body.(type) {
		case *document.ObjectDefinition:
			fields, ok := c.resolveFields(scope, body.Fields)
			if ok {
				info.resolved = &ir.ObjectDefinition{
					TypeName: info.name,
					Fields:   fields,
					Docs:     def.Docs,
				}
			}
		case *document.UnionDefinition:
			members := make([]ir.FieldDefinition, 0, len(body.Members))
			ok := true
			for _, m := range body.Members {
				t, resolved := c.resolveType(scope, m.Type, at(info.file, m.Pos))
				ok = ok && resolved
				members = append(members, ir.FieldDefinition{
					FieldName:  m.Key,
					Type:       t,
					Docs:       m.Docs,
					Deprecated: m.Deprecated,
					Safety:     logSafety(m.Safety),
				})
			}
			if ok {
				info.resolved = &ir.UnionDefinition{
					TypeName: info.name,
					Union:    members,
					Docs:     def.Docs,
				}
			}
		case *document.AliasDefinition:
			t, ok := c.resolveType(scope, body.Alias, info.at)
			if ok {
				info.resolved = &ir.AliasDefinition{
					TypeName: info.name,
					Alias:    t,
					Docs:     def.Docs,
					Safety:   logSafety(body.Safety),
				}
			}
		case *document.EnumDefinition:
			values := make([]ir.EnumValueDefinition, 0, len(body.Values))
			for _, v := range body.Values {
				values = append(values, ir.EnumValueDefinition{
					Value:      v.Value,
					Docs:       v.Docs,
					Deprecated: v.Deprecated,
				})
			}
			info.resolved = &ir.EnumDefinition{
				TypeName: info.name,
				Values:   values,
				Docs:     def.Docs,
			}
		case *document.ErrorDefinition:
			safeArgs, safeOK := c.resolveFields(scope, body.SafeArgs)
			unsafeArgs, unsafeOK := c.resolveFields(scope, body.UnsafeArgs)
			if safeOK && unsafeOK {
				info.errorDef = &ir.ErrorDefinition{
					ErrorName:  info.name,
					Docs:       def.Docs,
					Namespace:  body.Namespace.String(),
					Code:       body.Code.String(),
					SafeArgs:   safeArgs,
					UnsafeArgs: unsafeArgs,
				}
			}
		}
	}
}

func (c *compiler) resolveFields(scope *fileScope, fields []*document.FieldDefinition) ([]ir.FieldDefinition, bool) {
	out := make([]ir.FieldDefinition, 0, len(fields))
	ok := true
	for _, field := range fields {
		t, resolved := c.resolveType(scope, field.Type, at(scope.file, field.Pos))
		ok = ok && resolved
		out = append(out, ir.FieldDefinition{
			FieldName:  field.Name.String(),
			Type:       t,
			Docs:       field.Docs,
			Deprecated: field.Deprecated,
			Safety:     logSafety(field.Safety),
		})
	}
	return out, ok
}

func logSafety(s document.Safety) ir.LogSafety {
	return ir.LogSafety(s.String())
}

// directReferences returns the types that t must contain a value of. Types
// nested in a container are not direct: an empty container or an absent
// optional ends the chain.
func directReferences(def ir.TypeDefinition) []ir.TypeName {
	var out []ir.TypeName
	add := func(t ir.Type) {
		if ref, ok := t.(ir.Reference); ok {
			out = append(out, ir.TypeName(ref))
		}
	}
	switch def := def.(type) {
	case *ir.ObjectDefinition:
		for _, field := range def.Fields {
			add(field.Type)
		}
	case *ir.UnionDefinition:
		for _, member := range def.Union {
			add(member.Type)
		}
	case *ir.AliasDefinition:
		add(def.Alias)
	}
	return out
}

func (c *compiler) checkRecursion() {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[*typeInfo]int, len(c.types))
	var stack []*typeInfo

	var visit func(info *typeInfo)
	visit = func(info *typeInfo) {
		state[info] = visiting
		stack = append(stack, info)
		for _, name := range directReferences(info.resolved) {
			next := c.byName[name]
			if next == nil || next.resolved == nil {
				continue
			}
			switch state[next] {
			case visiting:
				idx := slices.Index(stack, next)
				chain := make([]string, 0, len(stack)-idx+1)
				for _, elem := range stack[idx:] {
					chain = append(chain, elem.name.Name)
				}
				chain = append(chain, next.name.Name)
				c.addError(errRecursiveType(chain, next.at))
			case unvisited:
				visit(next)
			}
		}
		stack = stack[:len(stack)-1]
		state[info] = visited
	}

	for _, info := range c.types {
		if info.resolved != nil && state[info] == unvisited {
			visit(info)
		}
	}
}

// typedMember is a type expression within a definition, with the
// description used for it in diagnostics.
type typedMember struct {
	where  string
	t      ir.Type
	safety ir.LogSafety
	at     location
}

// members returns the fields, union members, alias target, or error
// arguments of a resolved definition.
func (c *compiler) members(info *typeInfo) []typedMember {
	var out []typedMember
	fieldsOf := func(fields []ir.FieldDefinition, positions []document.Position) {
		for ii, field := range fields {
			out = append(out, typedMember{
				where:  info.name.String() + "::" + field.FieldName,
				t:      field.Type,
				safety: field.Safety,
				at:     at(info.file, positions[ii]),
			})
		}
	}
	switch body := info.def.Body.(type) {
	case *document.ObjectDefinition:
		if def, ok := info.resolved.(*ir.ObjectDefinition); ok {
			fieldsOf(def.Fields, fieldPositions(body.Fields))
		}
	case *document.UnionDefinition:
		if def, ok := info.resolved.(*ir.UnionDefinition); ok {
			positions := make([]document.Position, 0, len(body.Members))
			for _, m := range body.Members {
				positions = append(positions, m.Pos)
			}
			fieldsOf(def.Union, positions)
		}
	case *document.AliasDefinition:
		if def, ok := info.resolved.(*ir.AliasDefinition); ok {
			out = append(out, typedMember{
				where:  info.name.String(),
				t:      def.Alias,
				safety: def.Safety,
				at:     info.at,
			})
		}
	case *document.ErrorDefinition:
		if info.errorDef != nil {
			fieldsOf(info.errorDef.SafeArgs, fieldPositions(body.SafeArgs))
			fieldsOf(info.errorDef.UnsafeArgs, fieldPositions(body.UnsafeArgs))
		}
	}
	return out
}

func fieldPositions(fields []*document.FieldDefinition) []document.Position {
	out := make([]document.Position, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Pos)
	}
	return out
}

func (c *compiler) checkMapKeys() {
	for _, info := range c.types {
		for _, m := range c.members(info) {
			c.checkMapKeysIn(m.t, m.where, m.at)
		}
	}
}

func (c *compiler) checkMapKeysIn(t ir.Type, where string, loc location) {
	walkType(t, func(t ir.Type) {
		m, ok := t.(ir.MapType)
		if !ok {
			return
		}
		key := c.dealias(m.KeyType)
		switch key := key.(type) {
		case ir.Primitive:
			if key != ir.Primitive_ANY && key != ir.Primitive_BINARY {
				return
			}
		case ir.Reference, ir.ExternalReference:
			return
		}
		c.addError(errComplexMapKey(typeString(key), where, loc))
	})
}

func (c *compiler) hasNestedOptional(t ir.Type) bool {
	found := false
	walkType(t, func(t ir.Type) {
		if opt, ok := t.(ir.OptionalType); ok {
			if _, nested := c.dealias(opt.ItemType).(ir.OptionalType); nested {
				found = true
			}
		}
	})
	return found
}

func (c *compiler) checkNestedOptionals() {
	for _, info := range c.types {
		for _, m := range c.members(info) {
			if c.hasNestedOptional(m.t) {
				c.addError(errNestedOptional(definitionKind(info)+" "+info.name.Name, info.at))
				break
			}
		}
	}
}

func definitionKind(info *typeInfo) string {
	switch info.def.Body.(type) {
	case *document.ObjectDefinition:
		return "object"
	case *document.UnionDefinition:
		return "union"
	case *document.AliasDefinition:
		return "alias"
	case *document.EnumDefinition:
		return "enum"
	case *document.ErrorDefinition:
		return "error"
	}
	return "definition"
}

func (c *compiler) checkMembers() {
	for _, info := range c.types {
		switch body := info.def.Body.(type) {
		case *document.ObjectDefinition:
			c.checkFieldNames(info, body.Fields)
		case *document.ErrorDefinition:
			c.checkFieldNames(info, slices.Concat(body.SafeArgs, body.UnsafeArgs))
		case *document.UnionDefinition:
			c.checkUnionKeys(info, body)
		case *document.EnumDefinition:
			c.checkEnumValues(info, body)
		}
	}
}

func (c *compiler) checkFieldNames(info *typeInfo, fields []*document.FieldDefinition) {
	seen := make(map[string]names.FieldName, len(fields))
	for _, field := range fields {
		loc := at(info.file, field.Pos)
		key := field.Name.ToCase(names.LowerCamelCase).String()
		if prev, dup := seen[key]; dup {
			c.addError(errDuplicateFieldName(info.name.String(), field.Name.String(), prev.String(), loc))
			continue
		}
		seen[key] = field.Name
		if field.Name.Case() != names.LowerCamelCase {
			c.warn(warnFieldNameCase(info.name.String(), field.Name.String(), loc))
		}
	}
}

func (c *compiler) checkUnionKeys(info *typeInfo, body *document.UnionDefinition) {
	seen := make(map[string]string, len(body.Members))
	for _, m := range body.Members {
		loc := at(info.file, m.Pos)
		switch {
		case m.Key == "":
			c.addError(errEmptyUnionKey(info.name.String(), loc))
			continue
		case !unionKeyPattern.MatchString(m.Key):
			c.addError(errInvalidUnionKey(m.Key, loc))
			continue
		case strings.HasSuffix(m.Key, "_"):
			c.addError(errUnionKeyUnderscore(m.Key, loc))
			continue
		}

		key := m.Key
		if name, err := names.ParseFieldName(m.Key); err == nil {
			key = name.ToCase(names.LowerCamelCase).String()
		}
		if prev, dup := seen[key]; dup {
			c.addError(errDuplicateFieldName(info.name.String(), m.Key, prev, loc))
			continue
		}
		seen[key] = m.Key
	}
}

func (c *compiler) checkEnumValues(info *typeInfo, body *document.EnumDefinition) {
	seen := make(map[string]struct{}, len(body.Values))
	for _, v := range body.Values {
		loc := at(info.file, v.Pos)
		if strings.EqualFold(v.Value, "UNKNOWN") {
			c.addError(errReservedEnumValue(info.name.String(), loc))
			continue
		}
		if !enumValuePattern.MatchString(v.Value) {
			c.addError(errInvalidEnumValue(v.Value, loc))
			continue
		}
		if _, dup := seen[v.Value]; dup {
			c.addError(errDuplicateEnumValue(info.name.String(), v.Value, loc))
			continue
		}
		seen[v.Value] = struct{}{}
	}
}

func (c *compiler) checkSafety() {
	for _, info := range c.types {
		for _, m := range c.members(info) {
			c.checkSafetyOf(m.t, m.safety, m.where, m.at)
		}
	}
}

// checkSafetyOf reports a safety declaration on a type that does not allow
// one. Only primitives, optionally wrapped in containers other than maps,
// may declare safety.
func (c *compiler) checkSafetyOf(t ir.Type, safety ir.LogSafety, where string, loc location) {
	if safety == ir.SafetyUnset {
		return
	}
	inner := c.dealias(t)
	for {
		switch wrapper := inner.(type) {
		case ir.OptionalType:
			inner = c.dealias(wrapper.ItemType)
			continue
		case ir.ListType:
			inner = c.dealias(wrapper.ItemType)
			continue
		case ir.SetType:
			inner = c.dealias(wrapper.ItemType)
			continue
		}
		break
	}
	switch inner := inner.(type) {
	case ir.Primitive:
		if inner == ir.Primitive_BEARERTOKEN {
			c.addError(errBearerTokenSafety(where, loc))
		}
	case ir.ExternalReference:
	case ir.MapType:
		c.addError(errMapSafety(where, loc))
	default:
		c.addError(errSafetyNotAllowed(where, typeString(t), loc))
	}
}
