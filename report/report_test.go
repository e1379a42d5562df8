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

package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palantir/conjure-sub002/report"
)

func TestLoggerEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := report.NewLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	r.SessionStarted("s1", []string{"a.yml"})
	r.FileParsed("s1", "a.yml", 3*time.Millisecond)
	r.SessionFinished("s1", 1, errors.New("boom"))
	r.Diagnostic(report.KindWarning, 4000, "field name not camel case")
	r.EndpointPath("/a/{b}", 1) // trace level, filtered

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	events := make([]map[string]any, len(lines))
	for ii, line := range lines {
		require.NoError(t, json.Unmarshal([]byte(line), &events[ii]))
	}

	assert.Equal(t, "info", events[0]["level"])
	assert.Equal(t, "s1", events[0]["session"])
	assert.Equal(t, []any{"a.yml"}, events[0]["roots"])

	assert.Equal(t, "debug", events[1]["level"])
	assert.Equal(t, "a.yml", events[1]["file"])

	assert.Equal(t, "error", events[2]["level"])
	assert.Equal(t, "boom", events[2]["error"])
	assert.Equal(t, float64(1), events[2]["files"])

	assert.Equal(t, "warn", events[3]["level"])
	assert.Equal(t, float64(4000), events[3]["code"])
	assert.Equal(t, "field name not camel case", events[3]["message"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := report.NewMetrics(reg)

	m.FileParsed("s1", "a.yml", time.Millisecond)
	m.FileParsed("s1", "b.yml", time.Millisecond)
	m.SessionFinished("s1", 2, nil)
	m.Diagnostic(report.KindError, 3001, "Foo -> Foo")
	m.Diagnostic(report.KindError, 3001, "Bar -> Bar")
	m.PassFinished("recursion", time.Millisecond, 2)
	m.EndpointPath("/a/{b}", 1)

	assert.Equal(t, float64(2), promtest.ToFloat64(m.FilesParsed))
	assert.Equal(t, float64(1), promtest.ToFloat64(m.Sessions.WithLabelValues("ok")))
	assert.Equal(t, float64(2), promtest.ToFloat64(m.Diagnostics.WithLabelValues("error", "3001")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.PassDuration))

	count, err := promtest.GatherAndCount(reg, "conjure_files_parsed_total", "conjure_path_template_vars")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

type recorder struct {
	events []string
}

func (r *recorder) SessionStarted(session string, roots []string) {
	r.events = append(r.events, "start:"+session)
}

func (r *recorder) FileParsed(session string, path string, elapsed time.Duration) {
	r.events = append(r.events, "file:"+path)
}

func (r *recorder) SessionFinished(session string, files int, err error) {
	r.events = append(r.events, "finish:"+session)
}

func (r *recorder) PassFinished(pass string, elapsed time.Duration, errors int) {
	r.events = append(r.events, "pass:"+pass)
}

func (r *recorder) Diagnostic(kind report.DiagnosticKind, code uint32, message string) {
	r.events = append(r.events, string(kind)+":"+message)
}

func (r *recorder) EndpointPath(path string, templateVars int) {
	r.events = append(r.events, "path:"+path)
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	r := report.Multi(a, nil, report.Multi(b))
	r.SessionStarted("s", nil)
	r.FileParsed("s", "x.yml", 0)
	r.Diagnostic(report.KindError, 3000, "bad")

	want := []string{"start:s", "file:x.yml", "error:bad"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)

	assert.Same(t, a, report.Multi(nil, a))
	assert.Equal(t, report.Nop(), report.Multi())
}
