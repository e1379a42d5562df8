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

// Package conjure compiles Conjure schema files into the intermediate
// representation read by code generators.
//
// Most programs need only [Compile]. The stages it runs are exported by the
// [resolver] and [compiler] packages for callers that need finer control.
package conjure

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/palantir/conjure-sub002/compiler"
	"github.com/palantir/conjure-sub002/report"
	"github.com/palantir/conjure-sub002/resolver"
)

type Option interface {
	apply(*Options)
}

type option func(*Options)

func (f option) apply(opts *Options) { f(opts) }

type Options struct {
	exclude        []string
	reporter       report.Reporter
	tracerProvider trace.TracerProvider
}

// WithExclude skips input files matching any of patterns. Patterns use
// glob syntax and are matched against both the slash-separated path
// relative to the walked directory and the file's base name. "*" does not
// cross a "/"; "**" does.
func WithExclude(patterns ...string) Option {
	return option(func(opts *Options) {
		opts.exclude = append(opts.exclude, patterns...)
	})
}

func WithReporter(r report.Reporter) Option {
	return option(func(opts *Options) {
		opts.reporter = r
	})
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return option(func(opts *Options) {
		opts.tracerProvider = tp
	})
}

func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt.apply(options)
	}
	return options
}

// Compile walks paths for schema files, resolves their imports, and
// compiles the result. Every file found is a root.
//
// The returned error is set only when the inputs could not be read or
// parsed. Validation problems are reported in the result.
func Compile(ctx context.Context, paths []string, opts ...Option) (compiler.CompileResult, error) {
	return NewOptions(opts...).Compile(ctx, paths)
}

func (opts *Options) Compile(ctx context.Context, paths []string) (compiler.CompileResult, error) {
	files, err := opts.Walk(paths)
	if err != nil {
		return compiler.CompileResult{}, err
	}

	var resolverOpts []resolver.Option
	var compilerOpts []compiler.CompileOption
	if opts.reporter != nil {
		resolverOpts = append(resolverOpts, resolver.WithReporter(opts.reporter))
		compilerOpts = append(compilerOpts, compiler.WithReporter(opts.reporter))
	}
	if opts.tracerProvider != nil {
		resolverOpts = append(resolverOpts, resolver.WithTracerProvider(opts.tracerProvider))
		compilerOpts = append(compilerOpts, compiler.WithTracerProvider(opts.tracerProvider))
	}

	graph, err := resolver.ResolveAll(ctx, files, resolverOpts...)
	if err != nil {
		return compiler.CompileResult{}, err
	}
	return compiler.Compile(ctx, graph, compilerOpts...), nil
}
