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
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/palantir/conjure-sub002/compiler"
	"github.com/palantir/conjure-sub002/document"
)

// diagnosticPrinter writes compiler diagnostics in the "FILE:LINE:COL:
// KIND CODE: MESSAGE" form understood by editors.
type diagnosticPrinter struct {
	w         io.Writer
	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	locStyle  lipgloss.Style
}

func newDiagnosticPrinter(w io.Writer, color bool) *diagnosticPrinter {
	p := &diagnosticPrinter{
		w:         w,
		errStyle:  lipgloss.NewStyle(),
		warnStyle: lipgloss.NewStyle(),
		locStyle:  lipgloss.NewStyle(),
	}
	if !color {
		return p
	}
	// The renderer drops colors when w is not a terminal.
	r := lipgloss.NewRenderer(w)
	p.errStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F87171"))
	p.warnStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FBBF24"))
	p.locStyle = r.NewStyle().Faint(true)
	return p
}

func (p *diagnosticPrinter) result(result compiler.CompileResult) {
	for _, warn := range result.Warnings {
		p.diagnostic(p.warnStyle, "warning", warn.File(), warn.Position(), fmt.Sprintf("W%d", warn.Code()), warn.Message())
	}
	for _, err := range result.Errors {
		p.diagnostic(p.errStyle, "error", err.File(), err.Position(), fmt.Sprintf("E%d", err.Code()), err.Message())
	}
}

func (p *diagnosticPrinter) diagnostic(style lipgloss.Style, kind, file string, pos document.Position, code, message string) {
	loc := file
	if pos.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Column)
	}
	fmt.Fprintf(p.w, "%s %s %s\n", p.locStyle.Render(loc+":"), style.Render(kind+" "+code+":"), message)
}

// failure reports an error that stopped compilation before validation,
// such as a missing import or malformed YAML.
func (p *diagnosticPrinter) failure(err error) {
	fmt.Fprintf(p.w, "%s %v\n", p.errStyle.Render("error:"), err)
}

func (p *diagnosticPrinter) summary(result compiler.CompileResult) {
	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		return
	}
	fmt.Fprintf(p.w, "%d error(s), %d warning(s)\n", len(result.Errors), len(result.Warnings))
}
