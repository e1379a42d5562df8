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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/palantir/conjure-sub002/report"
)

// config holds settings read from conjure.yml, CONJURE_* environment
// variables, and flags, in increasing order of precedence.
type config struct {
	Inputs      []string `mapstructure:"inputs"`
	Output      string   `mapstructure:"output"`
	Exclude     []string `mapstructure:"exclude"`
	PluginPath  string   `mapstructure:"plugin-path"`
	LogLevel    string   `mapstructure:"log-level"`
	MetricsFile string   `mapstructure:"metrics-file"`
	NoColor     bool     `mapstructure:"no-color"`
}

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	viper  *viper.Viper

	configPath string
	config     config

	// Set by loadConfig()
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *report.Metrics
	printer  *diagnosticPrinter

	// Set by compile()
	sources []string
}

func (a *app) globalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&a.configPath, "config", "", "Read configuration from PATH instead of ./conjure.{yml,yaml,toml}")
	flags.String("log-level", "disabled", "Log level: trace, debug, info, warn, error, or disabled")
	flags.String("metrics-file", "", "Write Prometheus metrics to PATH after each compilation")
	flags.Bool("no-color", false, "Disable colored diagnostics")
}

func (a *app) loadConfig(flags *pflag.FlagSet) error {
	v := a.viper
	v.SetDefault("inputs", []string{})
	v.SetDefault("exclude", []string{})
	v.SetEnvPrefix("CONJURE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
	} else {
		v.SetConfigName("conjure")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&a.config); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	level, err := zerolog.ParseLevel(a.config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.config.LogLevel)
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     a.stderr,
		NoColor: a.config.NoColor,
	}).Level(level).With().Timestamp().Logger()

	a.registry = prometheus.NewRegistry()
	a.metrics = report.NewMetrics(a.registry)
	a.printer = newDiagnosticPrinter(a.stderr, !a.config.NoColor)
	return nil
}

func (a *app) reporter() report.Reporter {
	return report.Multi(report.NewLogger(a.logger), a.metrics)
}

func (a *app) writeMetrics() {
	if a.config.MetricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(a.config.MetricsFile, a.registry); err != nil {
		a.logger.Error().Err(err).Str("file", a.config.MetricsFile).Msg("failed to write metrics")
	}
}
