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

//go:build wasip1

package main

import (
	"encoding/binary"
	"unsafe"
)

// Buffers handed to the host, keyed by address. Holding them here keeps
// them alive until the host has read or written them.
var buffers = make(map[uint32][]byte)

func main() {}

func retain(buf []byte) uint32 {
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	buffers[ptr] = buf
	return ptr
}

//go:wasmexport conjure_codegen_allocate
func conjureCodegenAllocate(size uint32) uint32 {
	return retain(make([]byte, max(size, 1)))
}

//go:wasmexport conjure_codegen_generate
func conjureCodegenGenerate(requestPtr, requestLen, responsePtrPtr uint32) uint32 {
	request := buffers[requestPtr][:requestLen]
	responseJSON, ok := generate(request)
	delete(buffers, requestPtr)

	response := binary.LittleEndian.AppendUint32(nil, uint32(len(responseJSON)))
	response = append(response, responseJSON...)
	binary.LittleEndian.PutUint32(buffers[responsePtrPtr], retain(response))
	if !ok {
		return 1
	}
	return 0
}
