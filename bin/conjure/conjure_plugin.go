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
	"encoding/json"
	"errors"
	"fmt"
	"io"

	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/palantir/conjure-sub002/ir"
)

// A generator plugin is a WebAssembly module with these exports:
//
//	conjure_codegen_allocate(len i32) -> (ptr i32)
//	conjure_codegen_generate(request i32, request_len i32, response_ptr i32) -> (rc i32)
//
// The host allocates a buffer in the plugin's memory, writes a JSON
// codegenRequest into it, and calls generate. The plugin stores the address
// of its response at response_ptr. A response is a little-endian u32 length
// followed by that many bytes of JSON codegenResponse. A non-zero rc means
// the response carries an error.
const (
	pluginAllocate = "conjure_codegen_allocate"
	pluginGenerate = "conjure_codegen_generate"
)

type codegenRequest struct {
	IR      *ir.Definition    `json:"ir"`
	Options map[string]string `json:"options"`
}

type codegenResponse struct {
	Files []generatedFile `json:"files"`
	Error string          `json:"error,omitempty"`
}

type generatedFile struct {
	// Slash-separated, relative to the output directory.
	Path    string `json:"path"`
	Content string `json:"content"`
}

func runPlugin(ctx context.Context, pluginBin []byte, request *codegenRequest, stderr io.Writer) (*codegenResponse, error) {
	requestBuf, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, err
	}
	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStderr(stderr).
		WithStartFunctions("_initialize")
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, err
	}

	mem := plugin.Memory()
	allocate := plugin.ExportedFunction(pluginAllocate)
	generate := plugin.ExportedFunction(pluginGenerate)
	if mem == nil || allocate == nil || generate == nil {
		return nil, fmt.Errorf("plugin must export memory, %s, and %s", pluginAllocate, pluginGenerate)
	}

	results, err := allocate.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, requestBuf) {
		return nil, errors.New("plugin allocated an out-of-range request buffer")
	}

	results, err = allocate.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = generate.Call(ctx, uint64(requestPtr), uint64(len(requestBuf)), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint32(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("failed to read response address")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errors.New("failed to read response length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errors.New("failed to read response")
	}

	var response codegenResponse
	if err := json.Unmarshal(responseBuf, &response); err != nil {
		return nil, fmt.Errorf("decode plugin response: %w", err)
	}
	if rc != 0 {
		if response.Error == "" {
			response.Error = fmt.Sprintf("plugin failed with code %d", rc)
		}
		return nil, errors.New(response.Error)
	}
	return &response, nil
}
