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
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/palantir/conjure-sub002"
	"github.com/palantir/conjure-sub002/ir"
)

type cmdCompile struct {
	app   *app
	watch bool
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile [INPUT...]",
		summary: "Compile schema files and directories to Conjure IR",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Write the IR to PATH (stdout if unset); .gz and .zst suffixes compress it")
	flags.StringSlice("exclude", nil, "Skip input files matching a glob pattern (repeatable)")
	flags.BoolVar(&cmd.watch, "watch", false, "Recompile whenever an input file changes")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	inputs, ok := cmd.app.inputs(argv)
	if !ok {
		return 1
	}
	if cmd.watch {
		return cmd.app.watch(ctx, inputs, cmd.compileOnce)
	}
	return cmd.compileOnce(ctx, inputs)
}

func (cmd *cmdCompile) compileOnce(ctx context.Context, inputs []string) int {
	def, ok := cmd.app.compile(ctx, inputs)
	if !ok {
		return 1
	}
	if err := cmd.app.writeIR(cmd.app.config.Output, def); err != nil {
		cmd.app.printer.failure(err)
		return 1
	}
	return 0
}

// inputs returns the paths named on the command line, or the configured
// inputs if there are none.
func (a *app) inputs(argv []string) ([]string, bool) {
	if len(argv) > 0 {
		return argv, true
	}
	if len(a.config.Inputs) > 0 {
		return a.config.Inputs, true
	}
	fmt.Fprintln(a.stderr, "No inputs given (pass INPUT arguments or set 'inputs' in conjure.yml)")
	return nil, false
}

// compile prints diagnostics and returns the IR if there were no errors.
func (a *app) compile(ctx context.Context, inputs []string) (*ir.Definition, bool) {
	defer a.writeMetrics()

	result, err := conjure.Compile(ctx, inputs,
		conjure.WithExclude(a.config.Exclude...),
		conjure.WithReporter(a.reporter()),
	)
	if err != nil {
		a.printer.failure(err)
		return nil, false
	}
	a.sources = result.Files
	a.printer.result(result)
	if len(result.Errors) > 0 {
		a.printer.summary(result)
		return nil, false
	}
	return result.Definition, true
}
