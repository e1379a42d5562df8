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
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/palantir/conjure-sub002/ir"
)

type codegenRequest struct {
	IR      json.RawMessage   `json:"ir"`
	Options map[string]string `json:"options"`
}

type codegenResponse struct {
	Files []outputFile `json:"files"`
	Error string       `json:"error,omitempty"`
}

type outputFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// generate handles one request from the conjure host, returning the
// encoded response and whether it succeeded.
func generate(request []byte) ([]byte, bool) {
	var req codegenRequest
	var files []outputFile
	err := json.Unmarshal(request, &req)
	if err == nil {
		var def *ir.Definition
		if def, err = ir.Unmarshal(req.IR); err == nil {
			files, err = render(def, req.Options)
		}
	}
	if err != nil {
		response, _ := json.Marshal(codegenResponse{Error: err.Error()})
		return response, false
	}
	response, err := json.Marshal(codegenResponse{Files: files})
	if err != nil {
		response, _ = json.Marshal(codegenResponse{Error: err.Error()})
		return response, false
	}
	return response, true
}

// render writes one Markdown file per package, at "com/example/README.md"
// for package "com.example". The "file" option puts every package into a
// single file instead.
func render(def *ir.Definition, options map[string]string) ([]outputFile, error) {
	for key := range options {
		if key != "file" {
			return nil, fmt.Errorf("unknown option %q", key)
		}
	}

	pkgs := make(map[string]*packageDocs)
	get := func(name string) *packageDocs {
		if pkgs[name] == nil {
			pkgs[name] = &packageDocs{name: name}
		}
		return pkgs[name]
	}
	for _, t := range def.Types {
		p := get(t.DefinitionName().Package)
		p.types = append(p.types, t)
	}
	for _, e := range def.Errors {
		p := get(e.ErrorName.Package)
		p.errors = append(p.errors, e)
	}
	for _, s := range def.Services {
		p := get(s.ServiceName.Package)
		p.services = append(p.services, s)
	}

	var sorted []*packageDocs
	for _, p := range pkgs {
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b *packageDocs) int { return cmp.Compare(a.name, b.name) })

	if file := options["file"]; file != "" {
		var out strings.Builder
		for ii, p := range sorted {
			if ii > 0 {
				out.WriteString("\n")
			}
			p.render(&out)
		}
		if len(def.Constants) > 0 {
			if len(sorted) > 0 {
				out.WriteString("\n")
			}
			renderConstants(&out, def.Constants)
		}
		return []outputFile{{Path: file, Content: out.String()}}, nil
	}

	var files []outputFile
	for _, p := range sorted {
		var out strings.Builder
		p.render(&out)
		files = append(files, outputFile{
			Path:    strings.ReplaceAll(p.name, ".", "/") + "/README.md",
			Content: out.String(),
		})
	}
	if len(def.Constants) > 0 {
		var out strings.Builder
		renderConstants(&out, def.Constants)
		files = append(files, outputFile{Path: "CONSTANTS.md", Content: out.String()})
	}
	return files, nil
}

type packageDocs struct {
	name     string
	types    []ir.TypeDefinition
	errors   []ir.ErrorDefinition
	services []ir.ServiceDefinition
}

func (p *packageDocs) render(out *strings.Builder) {
	fmt.Fprintf(out, "# %s\n", p.name)

	slices.SortFunc(p.types, func(a, b ir.TypeDefinition) int {
		return cmp.Compare(a.DefinitionName().Name, b.DefinitionName().Name)
	})
	if len(p.types) > 0 {
		out.WriteString("\n## Types\n")
	}
	for _, t := range p.types {
		out.WriteString("\n")
		switch t := t.(type) {
		case *ir.AliasDefinition:
			fmt.Fprintf(out, "### %s\n\nAlias of `%s`.\n", t.TypeName.Name, typeString(t.Alias))
			renderDocs(out, t.Docs)
		case *ir.EnumDefinition:
			fmt.Fprintf(out, "### %s\n", t.TypeName.Name)
			renderDocs(out, t.Docs)
			out.WriteString("\n| Value | Docs |\n| --- | --- |\n")
			for _, v := range t.Values {
				fmt.Fprintf(out, "| `%s` | %s |\n", v.Value, cell(v.Docs, v.Deprecated))
			}
		case *ir.ObjectDefinition:
			fmt.Fprintf(out, "### %s\n", t.TypeName.Name)
			renderDocs(out, t.Docs)
			renderFields(out, "Field", t.Fields)
		case *ir.UnionDefinition:
			fmt.Fprintf(out, "### %s\n\nUnion of:\n", t.TypeName.Name)
			renderDocs(out, t.Docs)
			renderFields(out, "Variant", t.Union)
		}
	}

	if len(p.errors) > 0 {
		out.WriteString("\n## Errors\n")
	}
	for _, e := range p.errors {
		fmt.Fprintf(out, "\n### %s\n\n`%s:%s` (%s)\n", e.ErrorName.Name, e.Namespace, e.ErrorName.Name, e.Code)
		renderDocs(out, e.Docs)
		args := append(slices.Clone(e.SafeArgs), e.UnsafeArgs...)
		if len(args) > 0 {
			renderFields(out, "Argument", args)
		}
	}

	if len(p.services) > 0 {
		out.WriteString("\n## Services\n")
	}
	for _, s := range p.services {
		fmt.Fprintf(out, "\n### %s\n", s.ServiceName.Name)
		renderDocs(out, s.Docs)
		for _, e := range s.Endpoints {
			fmt.Fprintf(out, "\n#### %s\n\n`%s %s`\n", e.EndpointName, e.HTTPMethod, e.HTTPPath)
			renderDocs(out, e.Docs)
			if e.Deprecated != "" {
				fmt.Fprintf(out, "\nDeprecated: %s\n", e.Deprecated)
			}
			if len(e.Args) > 0 {
				out.WriteString("\n| Argument | Type | Location |\n| --- | --- | --- |\n")
				for _, arg := range e.Args {
					fmt.Fprintf(out, "| `%s` | `%s` | %s |\n", arg.ArgName, typeString(arg.Type), paramString(arg.ParamType))
				}
			}
			if e.Returns != nil {
				fmt.Fprintf(out, "\nReturns `%s`.\n", typeString(e.Returns))
			}
			for _, err := range e.Errors {
				fmt.Fprintf(out, "\nThrows `%s`.\n", err.Error.Name)
			}
		}
	}
}

func renderConstants(out *strings.Builder, constants []ir.ConstantDefinition) {
	out.WriteString("# Constants\n\n| Name | Type | Value |\n| --- | --- | --- |\n")
	for _, c := range constants {
		fmt.Fprintf(out, "| `%s` | `%s` | `%s` |\n", c.Name, typeString(c.Type), c.Value)
	}
}

func renderDocs(out *strings.Builder, docs string) {
	if docs = strings.TrimSpace(docs); docs != "" {
		fmt.Fprintf(out, "\n%s\n", docs)
	}
}

func renderFields(out *strings.Builder, heading string, fields []ir.FieldDefinition) {
	fmt.Fprintf(out, "\n| %s | Type | Docs |\n| --- | --- | --- |\n", heading)
	for _, f := range fields {
		fmt.Fprintf(out, "| `%s` | `%s` | %s |\n", f.FieldName, typeString(f.Type), cell(f.Docs, f.Deprecated))
	}
}

// cell flattens docs onto one table row.
func cell(docs, deprecated string) string {
	text := strings.Join(strings.Fields(docs), " ")
	if deprecated != "" {
		if text != "" {
			text += " "
		}
		text += "**Deprecated:** " + strings.Join(strings.Fields(deprecated), " ")
	}
	return strings.ReplaceAll(text, "|", `\|`)
}

// typeString formats t the way it is written in a schema file.
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

func paramString(p ir.ParameterType) string {
	switch p := p.(type) {
	case ir.BodyParameter:
		return "body"
	case ir.PathParameter:
		return "path"
	case ir.HeaderParameter:
		return fmt.Sprintf("header `%s`", p.ParamID)
	case ir.QueryParameter:
		return fmt.Sprintf("query `%s`", p.ParamID)
	}
	return fmt.Sprintf("%v", p)
}
