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

//go:build !wasip1

// Command conjure-codegen-docs renders Markdown reference docs for Conjure
// schemas. Run natively, it compiles the schemas named on the command line
// and writes the docs under OUTPUT_DIR. Built with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o conjure-codegen-docs.wasm
//
// it is a plugin for "conjure codegen --plugin=docs".
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/palantir/conjure-sub002"
	"github.com/palantir/conjure-sub002/ir"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	args := os.Args[1:]
	if len(args) < 2 {
		log.Fatal().Msgf("usage: %s OUTPUT_DIR SCHEMA...", os.Args[0])
	}
	outDir := args[0]

	result, err := conjure.Compile(context.Background(), args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("compile failed")
	}
	for _, warn := range result.Warnings {
		log.Warn().Str("file", warn.File()).Msg(warn.String())
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			log.Error().Str("file", err.File()).Msg(err.Error())
		}
		os.Exit(1)
	}

	irJSON, err := ir.Marshal(result.Definition)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	request, err := json.Marshal(codegenRequest{IR: irJSON})
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	responseJSON, ok := generate(request)
	var response codegenResponse
	if err := json.Unmarshal(responseJSON, &response); err != nil {
		log.Fatal().Err(err).Send()
	}
	if !ok {
		log.Fatal().Msg(response.Error)
	}

	for _, file := range response.Files {
		path := filepath.Join(outDir, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal().Err(err).Send()
		}
		if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
			log.Fatal().Err(err).Send()
		}
		log.Info().Str("file", path).Msg("wrote")
	}
}
