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

package report

import (
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a Reporter that writes one structured event per call.
// Per-file and per-pass events are logged at debug level; diagnostics are
// logged at warn (for warnings) or error level.
func NewLogger(logger zerolog.Logger) Reporter {
	return &logReporter{logger: logger}
}

type logReporter struct {
	logger zerolog.Logger
}

func (r *logReporter) SessionStarted(session string, roots []string) {
	r.logger.Info().
		Str("session", session).
		Strs("roots", roots).
		Msg("resolving schema files")
}

func (r *logReporter) FileParsed(session string, path string, elapsed time.Duration) {
	r.logger.Debug().
		Str("session", session).
		Str("file", path).
		Dur("duration", elapsed).
		Msg("parsed schema file")
}

func (r *logReporter) SessionFinished(session string, files int, err error) {
	if err != nil {
		r.logger.Error().
			Str("session", session).
			Int("files", files).
			Err(err).
			Msg("resolution failed")
		return
	}
	r.logger.Info().
		Str("session", session).
		Int("files", files).
		Msg("resolved schema files")
}

func (r *logReporter) PassFinished(pass string, elapsed time.Duration, errors int) {
	r.logger.Debug().
		Str("pass", pass).
		Dur("duration", elapsed).
		Int("errors", errors).
		Msg("compiler pass finished")
}

func (r *logReporter) Diagnostic(kind DiagnosticKind, code uint32, message string) {
	event := r.logger.Error()
	if kind == KindWarning {
		event = r.logger.Warn()
	}
	event.
		Uint32("code", code).
		Msg(message)
}

func (r *logReporter) EndpointPath(path string, templateVars int) {
	r.logger.Trace().
		Str("path", path).
		Int("vars", templateVars).
		Msg("resolved endpoint path")
}
