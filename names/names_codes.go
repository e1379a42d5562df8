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

package names

import (
	"fmt"
)

// ErrorCode is one of the canonical error codes of a Conjure error
// definition.
type ErrorCode uint8

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_PERMISSION_DENIED
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_CONFLICT
	ErrorCode_REQUEST_ENTITY_TOO_LARGE
	ErrorCode_FAILED_PRECONDITION
	ErrorCode_INTERNAL
	ErrorCode_TIMEOUT
	ErrorCode_CUSTOM_CLIENT
	ErrorCode_CUSTOM_SERVER
)

var errorCodeNames = []string{
	ErrorCode_PERMISSION_DENIED:        "PERMISSION_DENIED",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_CONFLICT:                 "CONFLICT",
	ErrorCode_REQUEST_ENTITY_TOO_LARGE: "REQUEST_ENTITY_TOO_LARGE",
	ErrorCode_FAILED_PRECONDITION:      "FAILED_PRECONDITION",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_TIMEOUT:                  "TIMEOUT",
	ErrorCode_CUSTOM_CLIENT:            "CUSTOM_CLIENT",
	ErrorCode_CUSTOM_SERVER:            "CUSTOM_SERVER",
}[1:]

func ParseErrorCode(name string) (ErrorCode, error) {
	for ii, code := range errorCodeNames {
		if code == name {
			return ErrorCode(ii + 1), nil
		}
	}
	return ErrorCode_UNKNOWN, errInvalidErrorCode(name)
}

func (c ErrorCode) String() string {
	if c == ErrorCode_UNKNOWN || int(c) > len(errorCodeNames) {
		return fmt.Sprintf("ErrorCode(%d)", uint8(c))
	}
	return errorCodeNames[c-1]
}
