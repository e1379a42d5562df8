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
	"strings"
)

type Error struct {
	code    uint32
	message string
	value   string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// Value returns the rejected identifier.
func (err *Error) Value() string {
	return err.value
}

func errInvalidTypeName(name string) error {
	return &Error{
		code: 1100,
		message: fmt.Sprintf(
			"TypeNames must be a primitive type [%s] or match pattern %s: %s",
			strings.Join(primitiveTypeNames, ", "),
			customTypePattern, name,
		),
		value: name,
	}
}

func errBuiltinIdentifierCase(name string) error {
	return &Error{
		code:    1101,
		message: fmt.Sprintf("Invalid use of a built-in identifier (please check case): %s", name),
		value:   name,
	}
}

func errInvalidFieldName(name string) error {
	patterns := make([]string, 0, len(casePatterns))
	for _, cp := range casePatterns {
		patterns = append(patterns, fmt.Sprintf("%s[%s]", cp.c, cp.pattern))
	}
	return &Error{
		code: 1102,
		message: fmt.Sprintf(
			"FieldName %q must follow one of the following patterns: [%s]",
			name, strings.Join(patterns, ", "),
		),
		value: name,
	}
}

func errInvalidPackage(name string) error {
	return &Error{
		code:    1103,
		message: fmt.Sprintf("Conjure package names must match pattern %s: %s", packagePattern, name),
		value:   name,
	}
}

func errInvalidNamespace(name string) error {
	return &Error{
		code:    1104,
		message: fmt.Sprintf("Namespaces must match pattern %s: %s", namespacePattern, name),
		value:   name,
	}
}

func errInvalidErrorNamespace(name string) error {
	return &Error{
		code:    1105,
		message: fmt.Sprintf("Namespace for errors must match pattern %s: %s", errorNamespacePattern, name),
		value:   name,
	}
}

func errInvalidErrorCode(name string) error {
	return &Error{
		code: 1106,
		message: fmt.Sprintf(
			"Invalid error code %s. Must be one of: [%s]",
			name, strings.Join(errorCodeNames, ", "),
		),
		value: name,
	}
}

func errInvalidEndpointName(name string) error {
	return &Error{
		code:    1107,
		message: fmt.Sprintf("Endpoint names must match pattern %s: %s", endpointNamePattern, name),
		value:   name,
	}
}

func errInvalidParameterName(name string) error {
	return &Error{
		code:    1108,
		message: fmt.Sprintf("Parameter names must match pattern %s: %s", parameterNamePattern, name),
		value:   name,
	}
}
