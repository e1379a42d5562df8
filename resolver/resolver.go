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

// Package resolver loads a set of schema files and the files they import.
//
// A [Session] owns a cache of parsed files and the stack of files currently
// being resolved. Each file is read and parsed at most once per session, so
// a file imported from several places (a "diamond") is shared.
package resolver

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/palantir/conjure-sub002/document"
	"github.com/palantir/conjure-sub002/names"
	"github.com/palantir/conjure-sub002/report"
)

// File is a parsed schema file with its conjure-imports resolved.
type File struct {
	// Canonical path of the file.
	Path     string
	Document *document.Document
	Imports  map[names.Namespace]*File
}

// Graph is the result of resolving a set of root files.
type Graph struct {
	// Root files in the order they were requested, without duplicates.
	Roots []*File

	// Every file reachable from the roots. A file appears after all of the
	// files it imports.
	Files []*File
}

// IsRoot reports whether f was one of the requested root files.
func (g *Graph) IsRoot(f *File) bool {
	for _, root := range g.Roots {
		if root == f {
			return true
		}
	}
	return false
}

type Options struct {
	FileSystem     FileSystem
	Reporter       report.Reporter
	TracerProvider trace.TracerProvider
}

type Option interface {
	apply(opts *Options)
}

type optionFunc func(opts *Options)

func (f optionFunc) apply(opts *Options) {
	f(opts)
}

// WithFileSystem sets the file system that schema files are read from. The
// default is [OS].
func WithFileSystem(fsys FileSystem) Option {
	return optionFunc(func(opts *Options) {
		opts.FileSystem = fsys
	})
}

func WithReporter(r report.Reporter) Option {
	return optionFunc(func(opts *Options) {
		opts.Reporter = r
	})
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(opts *Options) {
		opts.TracerProvider = tp
	})
}

// Session resolves schema files. A Session is not safe for concurrent use;
// independent compilations should each use their own.
type Session struct {
	id       uuid.UUID
	fsys     FileSystem
	reporter report.Reporter
	tracer   trace.Tracer

	cache map[string]*File

	// Files currently being resolved, outermost first.
	stack   []string
	onStack map[string]int

	// Completed files in post-order.
	order []*File
}

func NewSession(opts ...Option) *Session {
	var options Options
	for _, opt := range opts {
		opt.apply(&options)
	}
	if options.FileSystem == nil {
		options.FileSystem = OS()
	}
	if options.Reporter == nil {
		options.Reporter = report.Nop()
	}
	if options.TracerProvider == nil {
		options.TracerProvider = noop.NewTracerProvider()
	}
	return &Session{
		id:       uuid.New(),
		fsys:     options.FileSystem,
		reporter: options.Reporter,
		tracer:   options.TracerProvider.Tracer("github.com/palantir/conjure-sub002/resolver"),
		cache:    make(map[string]*File),
		onStack:  make(map[string]int),
	}
}

// ID identifies the session in reported events.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ResolveAll resolves roots with a new [Session].
func ResolveAll(ctx context.Context, roots []string, opts ...Option) (*Graph, error) {
	return NewSession(opts...).ResolveAll(ctx, roots)
}

// ResolveAll parses each root file and, recursively, every file it
// imports. Files parsed by earlier calls on the same session are reused.
//
// Errors from [document.Parse] are returned unchanged.
func (s *Session) ResolveAll(ctx context.Context, roots []string) (*Graph, error) {
	session := s.id.String()
	s.reporter.SessionStarted(session, roots)

	ctx, span := s.tracer.Start(ctx, "conjure.resolve", trace.WithAttributes(
		attribute.String("conjure.session", session),
		attribute.StringSlice("conjure.roots", roots),
	))
	defer span.End()

	graph, err := s.resolveAll(ctx, roots)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution failed")
		s.reporter.SessionFinished(session, len(s.order), err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("conjure.files", len(graph.Files)))
	s.reporter.SessionFinished(session, len(graph.Files), nil)
	return graph, nil
}

func (s *Session) resolveAll(ctx context.Context, roots []string) (*Graph, error) {
	graph := &Graph{}
	seen := make(map[*File]struct{})
	for _, root := range roots {
		canonical, err := s.fsys.Canonical(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errRootNotFound(root, err)
			}
			return nil, errReadFile(root, err)
		}
		f, err := s.resolve(ctx, canonical)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f]; !dup {
			seen[f] = struct{}{}
			graph.Roots = append(graph.Roots, f)
		}
	}

	// Files cached by an earlier call are included if reachable.
	reachable := make(map[*File]struct{})
	for _, root := range graph.Roots {
		markReachable(root, reachable)
	}
	for _, f := range s.order {
		if _, ok := reachable[f]; ok {
			graph.Files = append(graph.Files, f)
		}
	}
	return graph, nil
}

func markReachable(f *File, reachable map[*File]struct{}) {
	if _, ok := reachable[f]; ok {
		return
	}
	reachable[f] = struct{}{}
	for _, imported := range f.Imports {
		markReachable(imported, reachable)
	}
}

func (s *Session) resolve(ctx context.Context, path string) (*File, error) {
	if f, ok := s.cache[path]; ok {
		return f, nil
	}
	if idx, ok := s.onStack[path]; ok {
		chain := make([]string, 0, len(s.stack)-idx+1)
		chain = append(chain, s.stack[idx:]...)
		chain = append(chain, path)
		return nil, errCyclicImport(chain)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.onStack[path] = len(s.stack)
	s.stack = append(s.stack, path)
	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
		delete(s.onStack, path)
	}()

	doc, err := s.parse(ctx, path)
	if err != nil {
		return nil, err
	}

	f := &File{
		Path:     path,
		Document: doc,
		Imports:  make(map[names.Namespace]*File, len(doc.Types.ConjureImports)),
	}
	for _, imp := range doc.Types.ConjureImports {
		name := s.fsys.Import(path, imp.File)
		canonical, err := s.fsys.Canonical(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errImportNotFound(path, imp, name, err)
			}
			return nil, errReadFile(name, err)
		}
		imported, err := s.resolve(ctx, canonical)
		if err != nil {
			return nil, err
		}
		f.Imports[imp.Namespace] = imported
	}

	s.cache[path] = f
	s.order = append(s.order, f)
	return f, nil
}

func (s *Session) parse(ctx context.Context, path string) (*document.Document, error) {
	_, span := s.tracer.Start(ctx, "conjure.parse", trace.WithAttributes(
		attribute.String("conjure.file", path),
	))
	defer span.End()

	start := time.Now()
	src, err := s.fsys.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		return nil, errReadFile(path, err)
	}
	doc, err := document.Parse(path, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}
	s.reporter.FileParsed(s.id.String(), path, time.Since(start))
	return doc, nil
}
