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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

type cmdCodegen struct {
	app        *app
	plugin     string
	pluginOpts map[string]string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen --plugin=LANG -o DIR [INPUT...]",
		summary: "Compile schema files and run a generator plugin over the IR",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Directory to write generated files to")
	flags.StringSlice("exclude", nil, "Skip input files matching a glob pattern (repeatable)")
	flags.String("plugin-path", "", "Colon-separated directories to search for conjure-codegen-LANG.wasm")
	flags.StringVar(&cmd.plugin, "plugin", "", "Generator to run, such as 'java' or 'typescript'")
	flags.StringToStringVar(&cmd.pluginOpts, "plugin-opt", nil, "Option passed to the plugin as KEY=VALUE (repeatable)")
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	a := cmd.app
	if cmd.plugin == "" {
		fmt.Fprintln(a.stderr, "No plugin selected (set --plugin=)")
		return 1
	}
	outDir := a.config.Output
	if outDir == "" {
		fmt.Fprintln(a.stderr, "No output directory specified (set --output=)")
		return 1
	}
	inputs, ok := a.inputs(argv)
	if !ok {
		return 1
	}

	pluginPath, err := locatePlugin(a.config.PluginPath, cmd.plugin)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	def, ok := a.compile(ctx, inputs)
	if !ok {
		return 1
	}

	a.logger.Info().Str("plugin", pluginPath).Msg("running generator")
	response, err := runPlugin(ctx, pluginBin, &codegenRequest{
		IR:      def,
		Options: cmd.pluginOpts,
	}, a.stderr)
	if err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", filepath.Base(pluginPath), err)
		return 1
	}
	if len(response.Files) == 0 {
		fmt.Fprintln(a.stderr, "Plugin did not generate any output files")
		return 1
	}

	for _, file := range response.Files {
		outPath, err := outputPath(outDir, file.Path)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
		if err := os.WriteFile(outPath, []byte(file.Content), 0o644); err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
	}
	return 0
}

func locatePlugin(searchPath, language string) (string, error) {
	if searchPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $CONJURE_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("conjure-codegen-%s.wasm", language)
	for _, dir := range filepath.SplitList(searchPath) {
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Conjure codegen plugin %s not found in plugin path", basename)
}

// outputPath joins a plugin-provided relative path onto outDir, rejecting
// paths that would escape it.
func outputPath(outDir, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("Invalid output path %q: empty", path)
	}
	if path[0] == '/' || filepath.IsAbs(path) {
		return "", fmt.Errorf("Invalid output path %q: absolute path", path)
	}
	parts := strings.Split(path, "/")
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
		if strings.ContainsAny(part, `\:`) {
			return "", fmt.Errorf("Invalid output path %q: component %q contains a separator", path, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}
