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

// Package report receives progress events from the resolver and compiler.
//
// A [Reporter] is passed explicitly to each session. There is no global
// logger or metrics registry.
package report

import (
	"time"
)

// DiagnosticKind distinguishes compile errors from warnings.
type DiagnosticKind string

const (
	KindError   DiagnosticKind = "error"
	KindWarning DiagnosticKind = "warning"
)

// Reporter methods must be safe to call from the goroutine that owns the
// session. Independent sessions may share one Reporter concurrently.
type Reporter interface {
	// SessionStarted is called once per resolver session.
	SessionStarted(session string, roots []string)

	// FileParsed is called each time a schema file is read and decoded.
	// Cached files are not reported again.
	FileParsed(session string, path string, elapsed time.Duration)

	// SessionFinished is called when resolution completes. err is nil on
	// success.
	SessionFinished(session string, files int, err error)

	// PassFinished is called after each compiler pass with the number of
	// errors the pass reported.
	PassFinished(pass string, elapsed time.Duration, errors int)

	Diagnostic(kind DiagnosticKind, code uint32, message string)

	// EndpointPath is called for every resolved endpoint path.
	EndpointPath(path string, templateVars int)
}

// Nop returns a Reporter that discards all events.
func Nop() Reporter {
	return nop{}
}

type nop struct{}

func (nop) SessionStarted(string, []string)           {}
func (nop) FileParsed(string, string, time.Duration)  {}
func (nop) SessionFinished(string, int, error)        {}
func (nop) PassFinished(string, time.Duration, int)   {}
func (nop) Diagnostic(DiagnosticKind, uint32, string) {}
func (nop) EndpointPath(string, int)                  {}

// Multi returns a Reporter that forwards each event to every reporter, in
// order. Nil reporters are skipped.
func Multi(reporters ...Reporter) Reporter {
	var m multi
	for _, r := range reporters {
		if r == nil {
			continue
		}
		if nested, ok := r.(multi); ok {
			m = append(m, nested...)
		} else {
			m = append(m, r)
		}
	}
	switch len(m) {
	case 0:
		return Nop()
	case 1:
		return m[0]
	}
	return m
}

type multi []Reporter

func (m multi) SessionStarted(session string, roots []string) {
	for _, r := range m {
		r.SessionStarted(session, roots)
	}
}

func (m multi) FileParsed(session string, path string, elapsed time.Duration) {
	for _, r := range m {
		r.FileParsed(session, path, elapsed)
	}
}

func (m multi) SessionFinished(session string, files int, err error) {
	for _, r := range m {
		r.SessionFinished(session, files, err)
	}
}

func (m multi) PassFinished(pass string, elapsed time.Duration, errors int) {
	for _, r := range m {
		r.PassFinished(pass, elapsed, errors)
	}
}

func (m multi) Diagnostic(kind DiagnosticKind, code uint32, message string) {
	for _, r := range m {
		r.Diagnostic(kind, code, message)
	}
}

func (m multi) EndpointPath(path string, templateVars int) {
	for _, r := range m {
		r.EndpointPath(path, templateVars)
	}
}
