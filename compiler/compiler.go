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

// Package compiler validates a resolved set of schema files and lowers it to
// the [ir.Definition] consumed by code generators.
//
// Compilation runs as a sequence of passes. Diagnostics are collected rather
// than returned on first failure, so one compilation reports every problem
// it can find. A definition whose type references cannot be resolved is
// skipped by later passes.
package compiler

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/ir"
	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/report"
	"github.com/palantir/conjure-sub002/resolver"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	reporter       report.Reporter
	tracerProvider trace.TracerProvider
}

func WithReporter(r report.Reporter) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.reporter = r
	})
}

func WithTracerProvider(tp trace.TracerProvider) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.tracerProvider = tp
	})
}

type CompileResult struct {
	// Nil if compilation reported any errors.
	Definition *ir.Definition

	Errors   []*Error
	Warnings []*Warning

	// Path of every schema file that was compiled, imports first.
	Files []string
}

func Compile(ctx context.Context, graph *resolver.Graph, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(ctx, graph)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	if compileOptions.reporter == nil {
		compileOptions.reporter = report.Nop()
	}
	if compileOptions.tracerProvider == nil {
		compileOptions.tracerProvider = noop.NewTracerProvider()
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(ctx context.Context, graph *resolver.Graph) CompileResult {
	tracer := opts.tracerProvider.Tracer("github.com/palantir/conjure-sub002/compiler")
	ctx, span := tracer.Start(ctx, "conjure.compile", trace.WithAttributes(
		attribute.Int("conjure.files", len(graph.Files)),
	))
	defer span.End()

	c := &compiler{
		opts:   opts,
		ctx:    ctx,
		tracer: tracer,
		graph:  graph,
		scopes: make(map[*resolver.File]*fileScope, len(graph.Files)),
		byName: make(map[ir.TypeName]*typeInfo),
		seen:   make(map[ir.TypeName]location),
	}
	c.compile()

	for _, err := range c.errors {
		opts.reporter.Diagnostic(report.KindError, err.code, err.message)
	}
	for _, warn := range c.warnings {
		opts.reporter.Diagnostic(report.KindWarning, warn.code, warn.message)
	}
	span.SetAttributes(
		attribute.Int("conjure.errors", len(c.errors)),
		attribute.Int("conjure.warnings", len(c.warnings)),
	)

	files := make([]string, len(graph.Files))
	for i, file := range graph.Files {
		files[i] = file.Path
	}
	if len(c.errors) > 0 {
		span.SetStatus(codes.Error, "compilation failed")
		return CompileResult{
			Errors:   c.errors,
			Warnings: c.warnings,
			Files:    files,
		}
	}
	return CompileResult{
		Definition: c.definition,
		Warnings:   c.warnings,
		Files:      files,
	}
}

type compiler struct {
	opts     *CompileOptions
	ctx      context.Context
	tracer   trace.Tracer
	graph    *resolver.Graph
	errors   []*Error
	warnings []*Warning

	// Set by registerTypes()
	scopes   map[*resolver.File]*fileScope
	types    []*typeInfo
	byName   map[ir.TypeName]*typeInfo
	seen     map[ir.TypeName]location
	services []*serviceInfo

	// Set by compileServices()
	compiledServices []*ir.ServiceDefinition

	// Set by compileConstants()
	constants []ir.ConstantDefinition

	// Set by emit()
	definition *ir.Definition
}

// fileScope holds the names that unqualified references in a file resolve
// to: its own definitions and its external imports.
type fileScope struct {
	file  *resolver.File
	types map[names.TypeName]*typeInfo
}

type typeInfo struct {
	file *resolver.File
	name ir.TypeName
	at   location

	// Exactly one of def and external is set.
	def      *document.TypeDefinition
	external *document.ExternalImport

	// Set by registerTypes() for external imports.
	externalRef *ir.ExternalReference

	// Set by resolveTypes(). Nil if any reference in the definition could
	// not be resolved.
	resolved ir.TypeDefinition
	errorDef *ir.ErrorDefinition
}

func (info *typeInfo) isError() bool {
	if info.def == nil {
		return false
	}
	_, ok := info.def.Body.(*document.ErrorDefinition)
	return ok
}

func (info *typeInfo) isEnum() bool {
	if info.def == nil {
		return false
	}
	_, ok := info.def.Body.(*document.EnumDefinition)
	return ok
}

type serviceInfo struct {
	file *resolver.File
	def  *document.ServiceDefinition
	name ir.TypeName
	at   location
}

func (c *compiler) compile() {
	c.pass("register", c.registerTypes)
	c.pass("resolve", c.resolveTypes)
	c.pass("recursion", c.checkRecursion)
	c.pass("maps", c.checkMapKeys)
	c.pass("optionals", c.checkNestedOptionals)
	c.pass("members", c.checkMembers)
	c.pass("safety", c.checkSafety)
	c.pass("services", c.compileServices)
	c.pass("constants", c.compileConstants)
	if len(c.errors) == 0 {
		c.pass("emit", c.emit)
	}
}

func (c *compiler) pass(name string, fn func()) {
	_, span := c.tracer.Start(c.ctx, "conjure.compile."+name)
	defer span.End()

	start := time.Now()
	before := len(c.errors)
	fn()
	added := len(c.errors) - before

	span.SetAttributes(attribute.Int("conjure.errors", added))
	if added > 0 {
		span.SetStatus(codes.Error, "pass reported errors")
	}
	c.opts.reporter.PassFinished(name, time.Since(start), added)
}

func (c *compiler) addError(err *Error) {
	c.errors = append(c.errors, err)
}

func (c *compiler) warn(w *Warning) {
	c.warnings = append(c.warnings, w)
}

func at(file *resolver.File, pos document.Position) location {
	return location{file: file.Path, pos: pos}
}

func (c *compiler) registerTypes() {
	for _, f := range c.graph.Files {
		scope := &fileScope{
			file:  f,
			types: make(map[names.TypeName]*typeInfo),
		}
		c.scopes[f] = scope

		defs := &f.Document.Types.Definitions
		for _, def := range slices.Concat(defs.Objects, defs.Errors) {
			pkg := def.Package
			if pkg.IsEmpty() {
				pkg = defs.DefaultPackage
			}
			info := &typeInfo{
				file: f,
				name: ir.TypeName{Name: def.Name.String(), Package: pkg.String()},
				at:   at(f, def.Pos),
				def:  def,
			}
			if prev, dup := scope.types[def.Name]; dup {
				// Objects and errors are separate sections of the same file.
				c.addError(errDuplicateName(info.name, prev.at, info.at))
				continue
			}
			scope.types[def.Name] = info
			if pkg.IsEmpty() {
				c.addError(errMissingPackage("type", def.Name.String(), info.at))
				continue
			}
			if !c.registerName(info.name, info.at) {
				continue
			}
			c.types = append(c.types, info)
			c.byName[info.name] = info
		}

		for _, imp := range f.Document.Types.Imports {
			info := &typeInfo{
				file:     f,
				at:       at(f, imp.Pos),
				external: imp,
			}
			if _, dup := scope.types[imp.Name]; dup {
				c.addError(errImportedNameConflict(imp.Name.String(), info.at))
				continue
			}
			info.name = externalName(imp)
			scope.types[imp.Name] = info
			fallback, ok := primitiveType(imp.BaseType)
			if !ok {
				c.addError(errExternalBaseType(imp.Name.String(), imp.BaseType.String(), info.at))
				continue
			}
			info.externalRef = &ir.ExternalReference{
				ExternalReference: info.name,
				Fallback:          fallback,
				Safety:            ir.LogSafety(imp.Safety.String()),
			}
		}

		if !c.graph.IsRoot(f) {
			continue
		}
		for _, svc := range f.Document.Services {
			pkg := svc.Package
			if pkg.IsEmpty() {
				pkg = defs.DefaultPackage
			}
			info := &serviceInfo{
				file: f,
				def:  svc,
				name: ir.TypeName{Name: svc.Name.String(), Package: pkg.String()},
				at:   at(f, svc.Pos),
			}
			if pkg.IsEmpty() {
				c.addError(errMissingPackage("service", svc.Name.String(), info.at))
				continue
			}
			if !c.registerName(info.name, info.at) {
				continue
			}
			c.services = append(c.services, info)
		}
	}
}

// registerName reports a name defined more than once across all files. The
// first definition wins.
func (c *compiler) registerName(name ir.TypeName, loc location) bool {
	if prev, dup := c.seen[name]; dup {
		c.addError(errDuplicateName(name, prev, loc))
		return false
	}
	c.seen[name] = loc
	return true
}

// externalName splits the Java name of an external import (or, failing
// that, the alphabetically first language's name) at its last ".".
func externalName(imp *document.ExternalImport) ir.TypeName {
	var chosen *document.ExternalName
	for ii := range imp.External {
		ext := &imp.External[ii]
		if ext.Language == "java" {
			chosen = ext
			break
		}
		if chosen == nil || ext.Language < chosen.Language {
			chosen = ext
		}
	}
	if chosen == nil {
		return ir.TypeName{Name: imp.Name.String()}
	}
	for ii := len(chosen.Name) - 1; ii >= 0; ii-- {
		if chosen.Name[ii] == '.' {
			return ir.TypeName{Name: chosen.Name[ii+1:], Package: chosen.Name[:ii]}
		}
	}
	return ir.TypeName{Name: chosen.Name}
}

func (c *compiler) emit() {
	def := &ir.Definition{Version: ir.Version}

	for _, info := range c.types {
		switch {
		case info.errorDef != nil:
			def.Errors = append(def.Errors, *info.errorDef)
		case info.resolved != nil:
			def.Types = append(def.Types, info.resolved)
		}
	}
	slices.SortStableFunc(def.Errors, func(a, b ir.ErrorDefinition) int {
		return compareTypeNames(a.ErrorName, b.ErrorName)
	})
	slices.SortStableFunc(def.Types, func(a, b ir.TypeDefinition) int {
		return compareTypeNames(a.DefinitionName(), b.DefinitionName())
	})

	for _, svc := range c.compiledServices {
		def.Services = append(def.Services, *svc)
	}
	slices.SortStableFunc(def.Services, func(a, b ir.ServiceDefinition) int {
		return cmp.Or(
			cmp.Compare(a.ServiceName.Name, b.ServiceName.Name),
			cmp.Compare(a.ServiceName.Package, b.ServiceName.Package),
		)
	})

	def.Constants = c.constants
	slices.SortStableFunc(def.Constants, func(a, b ir.ConstantDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})

	c.definition = def
}

func compareTypeNames(a, b ir.TypeName) int {
	return cmp.Or(
		cmp.Compare(a.Package, b.Package),
		cmp.Compare(a.Name, b.Name),
	)
}
