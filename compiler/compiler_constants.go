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

package compiler

import (
	"strconv"
	"strings"

	"github.com/palantir/conjure-sub002/ir"
)

// Largest magnitude of a safelong: 2^53 - 1.
const maxSafeLong = 1<<53 - 1

func (c *compiler) compileConstants() {
	seen := make(map[string]location)
	for _, f := range c.graph.Files {
		for _, constant := range f.Document.Types.Definitions.Constants {
			loc := at(f, constant.Pos)
			name := constant.Name.String()
			if prev, dup := seen[name]; dup {
				c.addError(errDuplicateConstant(name, prev, loc))
				continue
			}
			seen[name] = loc

			p, ok := primitiveType(constant.Type)
			if !ok {
				c.addError(errConstantType(name, constant.Type.String(), loc))
				continue
			}
			if describe := checkConstantValue(p, constant.Value); describe != "" {
				c.addError(errConstantValue(name, describe, loc))
				continue
			}
			c.constants = append(c.constants, ir.ConstantDefinition{
				Name:  name,
				Type:  p,
				Value: constant.Value,
				Docs:  constant.Docs,
			})
		}
	}
}

// checkConstantValue returns a description of why value is not a valid
// constant of type p, or "" if it is valid.
func checkConstantValue(p ir.Primitive, value string) string {
	switch p {
	case ir.Primitive_BOOLEAN:
		if !strings.EqualFold(value, "true") && !strings.EqualFold(value, "false") {
			return "Constant of type boolean must have value of true or false: " + value
		}
	case ir.Primitive_INTEGER:
		if _, err := strconv.ParseInt(value, 10, 32); err != nil {
			return "Constant of type integer must have value of an integer: " + value
		}
	case ir.Primitive_DOUBLE:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "Constant of type double must have value of a double: " + value
		}
	case ir.Primitive_SAFELONG:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n > maxSafeLong || n < -maxSafeLong {
			return "Constant of type safelong must be safely representable in javascript" +
				" i.e. lie between -9007199254740991 and 9007199254740991"
		}
	}
	return ""
}
