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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a Reporter that records Prometheus metrics.
type Metrics struct {
	FilesParsed      prometheus.Counter
	FileParseSeconds prometheus.Histogram
	Sessions         *prometheus.CounterVec
	Diagnostics      *prometheus.CounterVec
	PassDuration     *prometheus.HistogramVec
	PathTemplateVars prometheus.Histogram
}

// NewMetrics registers the compiler's metrics with reg. Registering twice
// with the same registry panics, so callers that compile repeatedly should
// keep one Metrics value.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FilesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "conjure",
			Name:      "files_parsed_total",
			Help:      "Total number of schema files read and decoded.",
		}),
		FileParseSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "conjure",
			Name:      "file_parse_seconds",
			Help:      "Time spent decoding one schema file.",
			Buckets:   prometheus.DefBuckets,
		}),
		Sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conjure",
			Name:      "resolve_sessions_total",
			Help:      "Total number of import resolution sessions, by result.",
		}, []string{"result"}),
		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "conjure",
			Name:      "diagnostics_total",
			Help:      "Total number of compiler diagnostics reported.",
		}, []string{"kind", "code"}),
		PassDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "conjure",
			Name:      "pass_duration_seconds",
			Help:      "Time spent in each compiler pass.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pass"}),
		PathTemplateVars: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "conjure",
			Name:      "path_template_vars",
			Help:      "Number of template variables per endpoint path.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		}),
	}
}

func (m *Metrics) SessionStarted(session string, roots []string) {}

func (m *Metrics) FileParsed(session string, path string, elapsed time.Duration) {
	m.FilesParsed.Inc()
	m.FileParseSeconds.Observe(elapsed.Seconds())
}

func (m *Metrics) SessionFinished(session string, files int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Sessions.WithLabelValues(result).Inc()
}

func (m *Metrics) PassFinished(pass string, elapsed time.Duration, errors int) {
	m.PassDuration.WithLabelValues(pass).Observe(elapsed.Seconds())
}

func (m *Metrics) Diagnostic(kind DiagnosticKind, code uint32, message string) {
	m.Diagnostics.WithLabelValues(string(kind), strconv.FormatUint(uint64(code), 10)).Inc()
}

func (m *Metrics) EndpointPath(path string, templateVars int) {
	m.PathTemplateVars.Observe(float64(templateVars))
}
