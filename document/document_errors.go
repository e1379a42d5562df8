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

package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Error is a structural problem in a schema file. The message is prefixed
// with the file, position, and key path of the offending value.
type Error struct {
	code    uint32
	message string
	file    string
	keyPath string
	pos     Position
	cause   error
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

func (err *Error) File() string {
	return err.file
}

// KeyPath is the dotted path of keys leading to the offending value, such as
// "types.definitions.objects.Foo.fields".
func (err *Error) KeyPath() string {
	return err.keyPath
}

func (err *Error) Position() Position {
	return err.pos
}

func (err *Error) Unwrap() error {
	return err.cause
}

func nodePos(node *yaml.Node) Position {
	if node == nil {
		return Position{}
	}
	return Position{Line: node.Line, Column: node.Column}
}

func newError(code uint32, d *decoder, keyPath string, node *yaml.Node, cause error, format string, args ...any) *Error {
	pos := nodePos(node)
	location := d.path
	if pos.Line > 0 {
		location = fmt.Sprintf("%s:%s", d.path, pos)
	}
	if keyPath == "" {
		keyPath = "<root>"
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf("%s: %s: %s", location, keyPath, fmt.Sprintf(format, args...)),
		file:    d.path,
		keyPath: keyPath,
		pos:     pos,
		cause:   cause,
	}
}

func errInvalidYAML(d *decoder, cause error) error {
	return newError(2000, d, "", nil, cause, "invalid YAML: %v", cause)
}

func errExpectedMapping(d *decoder, keyPath string, node *yaml.Node) error {
	return newError(2001, d, keyPath, node, nil, "expected a mapping, got %s", describeNode(node))
}

func errExpectedScalar(d *decoder, keyPath string, node *yaml.Node) error {
	return newError(2002, d, keyPath, node, nil, "expected a scalar, got %s", describeNode(node))
}

func errExpectedSequence(d *decoder, keyPath string, node *yaml.Node) error {
	return newError(2003, d, keyPath, node, nil, "expected a sequence, got %s", describeNode(node))
}

func errKeyNotKebabCase(d *decoder, keyPath string, node *yaml.Node, key string) error {
	return newError(
		2004, d, keyPath, node, nil,
		"Conjure grammar requires kebab-case field names matching %s: %s",
		kebabCasePattern, key,
	)
}

func errUnknownKey(d *decoder, keyPath string, node *yaml.Node, key string, allowed []string) error {
	return newError(
		2005, d, keyPath, node, nil,
		"unknown key %q (expected one of: %s)",
		key, strings.Join(allowed, ", "),
	)
}

func errDuplicateKey(d *decoder, keyPath string, node *yaml.Node, key string, first *yaml.Node) error {
	return newError(
		2006, d, keyPath, node, nil,
		"duplicate key %q (first defined at %s)",
		key, nodePos(first),
	)
}

func errMissingKey(d *decoder, keyPath string, node *yaml.Node, key string) error {
	return newError(2007, d, keyPath, node, nil, "missing required key %q", key)
}

func errNullKey(d *decoder, keyPath string, node *yaml.Node, key string) error {
	return newError(2018, d, keyPath, node, nil, "required key %q must not be null", key)
}

func errUnrecognizedDefinition(d *decoder, keyPath string, node *yaml.Node, present []string) error {
	if len(present) > 1 {
		return newError(
			2008, d, keyPath, node, nil,
			"Unrecognized definition, keys [%s] are mutually exclusive",
			strings.Join(present, ", "),
		)
	}
	return newError(
		2008, d, keyPath, node, nil,
		"Unrecognized definition, types must have either fields, values, union, an alias, or a namespace defined",
	)
}

func errTypeExpression(d *decoder, keyPath string, node *yaml.Node, cause error) error {
	return newError(2009, d, keyPath, node, cause, "%s", causeMessage(cause))
}

func errInvalidIdentifier(d *decoder, keyPath string, node *yaml.Node, cause error) error {
	return newError(2010, d, keyPath, node, cause, "%s", causeMessage(cause))
}

func errRequestLine(d *decoder, keyPath string, node *yaml.Node, value string) error {
	return newError(
		2011, d, keyPath, node, nil,
		"Request line must be of the form: [METHOD] [PATH], instead was '%s'",
		value,
	)
}

func errAuth(d *decoder, keyPath string, node *yaml.Node, cause error) error {
	return newError(2012, d, keyPath, node, cause, "%s", causeMessage(cause))
}

func errPath(d *decoder, keyPath string, node *yaml.Node, cause error) error {
	return newError(2013, d, keyPath, node, cause, "%s", causeMessage(cause))
}

func errParamType(d *decoder, keyPath string, node *yaml.Node, value string) error {
	return newError(
		2014, d, keyPath, node, nil,
		"Unknown parameter type %q (expected one of: auto, path, query, header, body)",
		value,
	)
}

func errSafety(d *decoder, keyPath string, node *yaml.Node, value string) error {
	return newError(
		2015, d, keyPath, node, nil,
		"Unknown log safety %q (expected one of: safe, unsafe, do-not-log)",
		value,
	)
}

func errEnumValuesNotList(d *decoder, keyPath string, node *yaml.Node) error {
	return newError(2016, d, keyPath, node, nil, "enum values must be a list, got %s", describeNode(node))
}

func errErrorArgSafety(d *decoder, keyPath string, node *yaml.Node) error {
	return newError(
		2017, d, keyPath, node, nil,
		"error arguments may not declare safety; use safe-args or unsafe-args instead",
	)
}

// causeMessage strips the "E<code>: " prefix of coded errors from other
// packages, so the message reads as a single diagnostic.
func causeMessage(err error) string {
	if m, ok := err.(interface{ Message() string }); ok {
		return m.Message()
	}
	return err.Error()
}

func describeNode(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return fmt.Sprintf("scalar %q", node.Value)
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an empty document"
	}
}
